package workflow

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrSubmitInProgress is returned when Submit is called while a submission is in flight.
	ErrSubmitInProgress = errors.New("submission already in progress")
	ErrUnknownField     = errors.New("unknown field")
	ErrClosed           = errors.New("workflow closed")
)

// Kind classifies a workflow error for display.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindTransport
	KindRejection
	KindDevice
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTransport:
		return "transport"
	case KindRejection:
		return "rejection"
	case KindDevice:
		return "device"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is the single displayable error of a workflow. Message is already
// localized; Err keeps the underlying cause for errors.Is / errors.As.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s error on %s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind    string `json:"kind"`
		Field   string `json:"field,omitempty"`
		Message string `json:"message"`
	}{
		Kind:    e.Kind.String(),
		Field:   e.Field,
		Message: e.Message,
	})
}

// IsKind reports whether err is a workflow *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var wfErr *Error
	return errors.As(err, &wfErr) && wfErr.Kind == kind
}
