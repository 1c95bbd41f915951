package workflow

import (
	"context"
	"time"

	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/gateway"
)

// Enroller registers employees with the verifier.
type Enroller interface {
	Enroll(ctx context.Context, req gateway.EnrollRequest) (*gateway.EnrollmentAck, error)
}

// Enrollment form fields
const (
	FieldName  = "name"
	FieldEmail = "email"
	FieldPhone = "phone"
)

// EnrollmentSpec describes the enrollment screen. Any 2xx answer is a success.
func EnrollmentSpec(enroller Enroller, delay time.Duration) Spec[gateway.EnrollmentAck] {
	if delay <= 0 {
		delay = constants.EnrollRedirectDelay
	}
	return Spec[gateway.EnrollmentAck]{
		Name: "enroll",
		Schema: []Field{
			{Name: FieldName, Required: true, MessageKey: "validation.name_required"},
			{Name: FieldEmail, Required: true, MessageKey: "validation.email_required"},
			{Name: FieldPhone},
		},
		ImageField:      "face_image",
		ImageMessageKey: "validation.face_required",
		Submit: func(ctx context.Context, fields Fields, image []byte) (*gateway.EnrollmentAck, error) {
			return enroller.Enroll(ctx, gateway.EnrollRequest{
				Name:      fields[FieldName],
				Email:     fields[FieldEmail],
				Phone:     fields[FieldPhone],
				FaceImage: image,
			})
		},
		Succeeded:     func(*gateway.EnrollmentAck) bool { return true },
		Present:       presentEnrollment,
		NavigateDelay: delay,
		FailureKey:    "enroll.failed",
	}
}

// NewEnrollment creates the enrollment workflow for one screen visit.
func NewEnrollment(enroller Enroller, cam Camera, loc Localizer, delay time.Duration, opts ...Option) *Controller[gateway.EnrollmentAck] {
	return NewController(EnrollmentSpec(enroller, delay), cam, loc, opts...)
}

// EnrollmentSummary is the display form of a registration.
type EnrollmentSummary struct {
	Headline string           `json:"headline"`
	Message  string           `json:"message,omitempty"`
	Employee gateway.Employee `json:"employee"`
}

func presentEnrollment(ack *gateway.EnrollmentAck, loc Localizer) any {
	return EnrollmentSummary{
		Headline: loc.Text("enroll.succeeded"),
		Message:  ack.Message,
		Employee: ack.Employee,
	}
}
