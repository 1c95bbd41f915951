package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kozaktomas/face-attendance/internal/constants"
)

// Health queries the verifier's health endpoint. Unlike the other endpoints the
// payload is not wrapped in an envelope.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	const op = "health"
	body, status, err := c.doRequest(ctx, op, http.MethodGet, "api/health", nil, "")
	if err != nil {
		return nil, err
	}

	var health Health
	if err := json.Unmarshal(body, &health); err != nil {
		return nil, &Error{Op: op, StatusCode: status, Err: fmt.Errorf("could not unmarshal response: %w", err)}
	}
	return &health, nil
}

// Overview loads the employee list and the latest attendances concurrently and
// summarizes them for the landing screen.
func (c *Client) Overview(ctx context.Context) (*Overview, error) {
	var (
		employees   []Employee
		attendances []Attendance
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		employees, err = c.ListEmployees(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		attendances, err = c.ListAttendances(gctx, AttendanceFilter{Limit: constants.DashboardAttendanceLimit})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := c.clock.Now()
	overview := &Overview{
		TotalEmployees: len(employees),
		Recent:         append([]Attendance{}, attendances[:min(len(attendances), constants.DashboardRecentCount)]...),
	}
	for i := range attendances {
		if attendances[i].Succeeded() && sameDay(attendances[i].CheckInTime, now) {
			overview.TodayCheckIns++
		}
	}
	return overview, nil
}

// sameDay compares calendar dates in now's location.
func sameDay(t, now time.Time) bool {
	y1, m1, d1 := t.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
