package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/kozaktomas/face-attendance/internal/constants"
)

// Verify submits a selfie for the given employee and returns the verifier's decision.
// A rejected face is a successful call: inspect VerificationResult.Verification.
func (c *Client) Verify(ctx context.Context, employeeID string, image []byte) (*VerificationResult, error) {
	const op = "check-in"
	if len(image) == 0 {
		return nil, &Error{Op: op, Err: errors.New("selfie image is empty")}
	}

	body, contentType, err := encodeMultipart(
		[]formField{{name: "user_id", value: employeeID}},
		formFile{field: "selfie_image", filename: constants.CheckInImageFileName, data: image},
	)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}

	env, err := doEnvelope[VerificationResult](ctx, c, op, http.MethodPost, "api/attendance/checkin", body, contentType)
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// ListAttendances returns attendance records, newest first.
func (c *Client) ListAttendances(ctx context.Context, filter AttendanceFilter) ([]Attendance, error) {
	endpoint := "api/attendance"
	params := url.Values{}
	if filter.Limit > 0 {
		params.Set("limit", strconv.Itoa(filter.Limit))
	}
	if id := strings.TrimSpace(filter.EmployeeID); id != "" {
		params.Set("user_id", id)
	}
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	attendances, err := doGetJSON[[]Attendance](ctx, c, "list attendances", endpoint)
	if err != nil {
		return nil, err
	}
	return *attendances, nil
}

// TodayAttendance returns today's successful check-in for an employee.
// Returns nil without error when there is none.
func (c *Client) TodayAttendance(ctx context.Context, employeeID string) (*Attendance, error) {
	attendance, err := doGetJSON[Attendance](ctx, c, "today attendance", "api/attendance/today/"+url.PathEscape(employeeID))
	if IsNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return attendance, nil
}

// DefaultAttendanceFilter is the verifier's default listing.
func DefaultAttendanceFilter() AttendanceFilter {
	return AttendanceFilter{Limit: constants.DefaultAttendanceLimit}
}
