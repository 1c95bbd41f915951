package handlers

import (
	"net/http"

	"github.com/gorilla/schema"

	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/gateway"
	"github.com/kozaktomas/face-attendance/internal/workflow"
)

// DashboardHandler proxies read-only verifier data for the landing screen and
// the check-in employee picker.
type DashboardHandler struct {
	gateway Gateway
	loc     workflow.Localizer
	decoder *schema.Decoder
}

func NewDashboardHandler(gw Gateway, loc workflow.Localizer) *DashboardHandler {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return &DashboardHandler{gateway: gw, loc: loc, decoder: decoder}
}

// Overview returns employee count, today's check-ins and recent attendance.
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.gateway.Overview(r.Context())
	if err != nil {
		respondGatewayError(w, err, "failed to load dashboard")
		return
	}
	respondJSON(w, http.StatusOK, overview)
}

// Employees lists enrolled employees.
func (h *DashboardHandler) Employees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.gateway.ListEmployees(r.Context())
	if err != nil {
		respondGatewayError(w, err, h.loc.Text("employees.load_failed"))
		return
	}
	respondJSON(w, http.StatusOK, employees)
}

// Attendance lists attendance records, filtered by ?limit= and ?user_id=.
func (h *DashboardHandler) Attendance(w http.ResponseWriter, r *http.Request) {
	filter := gateway.AttendanceFilter{Limit: constants.DefaultAttendanceLimit}
	if err := h.decoder.Decode(&filter, r.URL.Query()); err != nil {
		respondError(w, http.StatusBadRequest, "invalid query: "+err.Error())
		return
	}
	if filter.Limit < 0 {
		respondError(w, http.StatusBadRequest, "limit must not be negative")
		return
	}

	attendances, err := h.gateway.ListAttendances(r.Context(), filter)
	if err != nil {
		respondGatewayError(w, err, "failed to load attendance")
		return
	}
	respondJSON(w, http.StatusOK, attendances)
}
