package gateway

import "time"

// Attendance status values reported by the verifier
const (
	AttendanceStatusSuccess = "success"
	AttendanceStatusFailed  = "failed"
)

// envelope is the verifier's standard response wrapper
type envelope[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Employee represents an enrolled person
type Employee struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	FaceImagePath string    `json:"face_image_path"`
	CreatedAt     time.Time `json:"created_at"`
}

// Attendance represents a check-in record
type Attendance struct {
	ID              uint      `json:"id"`
	UserID          uint      `json:"user_id"`
	UserName        string    `json:"user_name"`
	CheckInTime     time.Time `json:"check_in_time"`
	FaceImagePath   string    `json:"face_image_path"`
	SimilarityScore float64   `json:"similarity_score"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// Succeeded reports whether the check-in was verified
func (a *Attendance) Succeeded() bool {
	return a.Status == AttendanceStatusSuccess
}

// VerificationResult is the verifier's answer to a check-in
type VerificationResult struct {
	Verification    bool       `json:"verification"`
	Message         string     `json:"message"`
	SimilarityScore float64    `json:"similarity_score"` // 0.0 - 1.0
	Threshold       float64    `json:"threshold"`        // 0.0 - 1.0
	Attendance      Attendance `json:"attendance"`
}

// EnrollRequest holds the registration form and the reference face image
type EnrollRequest struct {
	Name      string
	Email     string
	Phone     string
	FaceImage []byte
}

// EnrollmentAck is returned for a successful registration
type EnrollmentAck struct {
	Message  string   `json:"message"`
	Employee Employee `json:"employee"`
}

// AttendanceFilter narrows the attendance listing. Zero values are omitted.
type AttendanceFilter struct {
	Limit      int    `schema:"limit"`
	EmployeeID string `schema:"user_id"`
}

// Health is the verifier's health payload
type Health struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

// Healthy reports whether the verifier considers itself healthy
func (h *Health) Healthy() bool {
	return h.Status == "healthy" || h.Status == "ok"
}

// Overview summarizes the verifier state for the landing screen
type Overview struct {
	TotalEmployees int          `json:"total_employees"`
	TodayCheckIns  int          `json:"today_check_ins"`
	Recent         []Attendance `json:"recent"`
}
