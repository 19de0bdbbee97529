package http

import (
	"log/slog"
	"net/http"

	"github.com/attendly/attendly-backend-go/internal/domain/report"
	"github.com/attendly/attendly-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	WorkingHours(w http.ResponseWriter, r *http.Request)
	CheckInDistribution(w http.ResponseWriter, r *http.Request)
}

type ReportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &ReportHandlerImpl{reportService: reportService}
}

// WorkingHours implements ReportHandler.
func (h *ReportHandlerImpl) WorkingHours(w http.ResponseWriter, r *http.Request) {
	series, err := h.reportService.MonthlyWorkingHours(r.Context())
	if err != nil {
		slog.Error("WorkingHours service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, series)
}

// CheckInDistribution implements ReportHandler.
func (h *ReportHandlerImpl) CheckInDistribution(w http.ResponseWriter, r *http.Request) {
	distribution, err := h.reportService.CheckInDistribution(r.Context())
	if err != nil {
		slog.Error("CheckInDistribution service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, distribution)
}
