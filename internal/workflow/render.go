package workflow

import (
	"fmt"

	"github.com/kozaktomas/face-attendance/internal/gateway"
)

// FormatPercent renders a 0..1 ratio with two decimals, e.g. 0.87 -> "87.00%".
func FormatPercent(ratio float64) string {
	return fmt.Sprintf("%.2f%%", ratio*100)
}

// CheckInSummary is the display form of a verification result.
type CheckInSummary struct {
	Verified     bool   `json:"verified"`
	Headline     string `json:"headline"`
	Message      string `json:"message"`
	EmployeeName string `json:"employee_name,omitempty"`
	CheckInTime  string `json:"check_in_time,omitempty"`
	Similarity   string `json:"similarity"`
	Threshold    string `json:"threshold"`
}

func SummarizeCheckIn(r *gateway.VerificationResult, loc Localizer) CheckInSummary {
	headline := "checkin.rejected"
	if r.Verification {
		headline = "checkin.verified"
	}

	s := CheckInSummary{
		Verified:     r.Verification,
		Headline:     loc.Text(headline),
		Message:      r.Message,
		EmployeeName: r.Attendance.UserName,
		Similarity:   FormatPercent(r.SimilarityScore),
		Threshold:    FormatPercent(r.Threshold),
	}
	if !r.Attendance.CheckInTime.IsZero() {
		s.CheckInTime = loc.FormatTime(r.Attendance.CheckInTime)
	}
	return s
}
