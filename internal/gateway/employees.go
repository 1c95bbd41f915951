package gateway

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/kozaktomas/face-attendance/internal/constants"
)

// Enroll registers a new employee together with the reference face image.
func (c *Client) Enroll(ctx context.Context, req EnrollRequest) (*EnrollmentAck, error) {
	const op = "enroll"
	if len(req.FaceImage) == 0 {
		return nil, &Error{Op: op, Err: errors.New("face image is empty")}
	}

	body, contentType, err := encodeMultipart(
		[]formField{
			{name: "name", value: req.Name},
			{name: "email", value: req.Email},
			{name: "phone", value: req.Phone},
		},
		formFile{field: "face_image", filename: constants.EnrollImageFileName, data: req.FaceImage},
	)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}

	env, err := doEnvelope[Employee](ctx, c, op, http.MethodPost, "api/employees/register", body, contentType)
	if err != nil {
		return nil, err
	}
	return &EnrollmentAck{Message: env.Message, Employee: env.Data}, nil
}

// ListEmployees returns all enrolled employees
func (c *Client) ListEmployees(ctx context.Context) ([]Employee, error) {
	employees, err := doGetJSON[[]Employee](ctx, c, "list employees", "api/employees")
	if err != nil {
		return nil, err
	}
	return *employees, nil
}

// GetEmployee returns a single employee by ID
func (c *Client) GetEmployee(ctx context.Context, id uint) (*Employee, error) {
	return doGetJSON[Employee](ctx, c, "get employee", "api/employees/"+strconv.FormatUint(uint64(id), 10))
}
