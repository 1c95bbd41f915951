package workflow

import (
	"context"
	"time"

	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/gateway"
)

// Verifier checks a selfie against an employee's enrolled face.
type Verifier interface {
	Verify(ctx context.Context, employeeID string, image []byte) (*gateway.VerificationResult, error)
}

// FieldEmployeeID is the check-in form field holding the selected employee.
const FieldEmployeeID = "user_id"

// CheckInSpec describes the check-in screen. Success is the verifier's
// verification flag, not the HTTP status.
func CheckInSpec(verifier Verifier, delay time.Duration) Spec[gateway.VerificationResult] {
	if delay <= 0 {
		delay = constants.CheckInRedirectDelay
	}
	return Spec[gateway.VerificationResult]{
		Name: "checkin",
		Schema: []Field{
			{Name: FieldEmployeeID, Required: true, MessageKey: "validation.employee_required"},
		},
		ImageField:      "selfie_image",
		ImageMessageKey: "validation.selfie_required",
		Submit: func(ctx context.Context, fields Fields, image []byte) (*gateway.VerificationResult, error) {
			return verifier.Verify(ctx, fields[FieldEmployeeID], image)
		},
		Succeeded: func(r *gateway.VerificationResult) bool { return r.Verification },
		RejectionMessage: func(r *gateway.VerificationResult) string {
			return r.Message
		},
		Present: func(r *gateway.VerificationResult, loc Localizer) any {
			return SummarizeCheckIn(r, loc)
		},
		NavigateDelay: delay,
		FailureKey:    "checkin.failed",
	}
}

// NewCheckIn creates the check-in workflow for one screen visit.
func NewCheckIn(verifier Verifier, cam Camera, loc Localizer, delay time.Duration, opts ...Option) *Controller[gateway.VerificationResult] {
	return NewController(CheckInSpec(verifier, delay), cam, loc, opts...)
}
