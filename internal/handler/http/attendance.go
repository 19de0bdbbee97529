package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/attendly/attendly-backend-go/internal/domain/attendance"
	"github.com/attendly/attendly-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	MyLogs(w http.ResponseWriter, r *http.Request)
	DailyStatus(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	WeeklySummary(w http.ResponseWriter, r *http.Request)
	MonthlySummary(w http.ResponseWriter, r *http.Request)
	ListAll(w http.ResponseWriter, r *http.Request)
	CorrectEvent(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &AttendanceHandlerImpl{attendanceService: attendanceService}
}

// CheckIn implements AttendanceHandler. The body is optional; an empty
// body records a bare check-in.
func (h *AttendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var checkInReq attendance.CheckInRequest

	if err := json.NewDecoder(r.Body).Decode(&checkInReq); err != nil && err != io.EOF {
		slog.Error("CheckIn decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	eventResponse, err := h.attendanceService.CheckIn(r.Context(), checkInReq)
	if err != nil {
		slog.Error("CheckIn service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Check-in recorded", "event_id", eventResponse.ID)
	response.Created(w, "Checked in successfully", eventResponse)
}

// CheckOut implements AttendanceHandler.
func (h *AttendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	var checkOutReq attendance.CheckOutRequest

	if err := json.NewDecoder(r.Body).Decode(&checkOutReq); err != nil && err != io.EOF {
		slog.Error("CheckOut decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	eventResponse, err := h.attendanceService.CheckOut(r.Context(), checkOutReq)
	if err != nil {
		slog.Error("CheckOut service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Check-out recorded", "event_id", eventResponse.ID)
	response.Created(w, "Checked out successfully", eventResponse)
}

// MyLogs implements AttendanceHandler.
func (h *AttendanceHandlerImpl) MyLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.attendanceService.MyLogs(r.Context())
	if err != nil {
		slog.Error("MyLogs service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, logs)
}

// DailyStatus implements AttendanceHandler. Accepts ?date=YYYY-MM-DD,
// defaulting to today.
func (h *AttendanceHandlerImpl) DailyStatus(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")

	status, err := h.attendanceService.GetDailyStatus(r.Context(), date)
	if err != nil {
		slog.Error("DailyStatus service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, status)
}

// Summary implements AttendanceHandler. Requires ?start_date and ?end_date.
func (h *AttendanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	query := attendance.RangeQuery{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}

	summary, err := h.attendanceService.GetRangeSummary(r.Context(), query)
	if err != nil {
		slog.Error("Summary service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// WeeklySummary implements AttendanceHandler.
func (h *AttendanceHandlerImpl) WeeklySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.attendanceService.GetWeeklySummary(r.Context())
	if err != nil {
		slog.Error("WeeklySummary service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// MonthlySummary implements AttendanceHandler.
func (h *AttendanceHandlerImpl) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.attendanceService.GetMonthlySummary(r.Context())
	if err != nil {
		slog.Error("MonthlySummary service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// ListAll implements AttendanceHandler. Admin-only; optional ?start_date
// and ?end_date bounds.
func (h *AttendanceHandlerImpl) ListAll(w http.ResponseWriter, r *http.Request) {
	events, err := h.attendanceService.ListAll(r.Context(),
		r.URL.Query().Get("start_date"),
		r.URL.Query().Get("end_date"),
	)
	if err != nil {
		slog.Error("ListAll service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, events)
}

// CorrectEvent implements AttendanceHandler. Admin-only.
func (h *AttendanceHandlerImpl) CorrectEvent(w http.ResponseWriter, r *http.Request) {
	var correctReq attendance.CorrectEventRequest

	if err := json.NewDecoder(r.Body).Decode(&correctReq); err != nil {
		slog.Error("CorrectEvent decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := correctReq.Validate(); err != nil {
		slog.Error("CorrectEvent validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	if err := h.attendanceService.CorrectEvent(r.Context(), correctReq); err != nil {
		slog.Error("CorrectEvent service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Attendance event corrected", "user_id", correctReq.UserID, "kind", correctReq.Kind, "date", correctReq.Date)
	response.SuccessWithMessage(w, "Attendance event corrected", nil)
}
