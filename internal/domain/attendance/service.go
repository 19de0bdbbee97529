package attendance

import "context"

// AttendanceService covers the employee self-service operations and the
// administrative event log. Identity for self operations comes from the
// request JWT claims carried in ctx.
type AttendanceService interface {
	CheckIn(ctx context.Context, req CheckInRequest) (EventResponse, error)
	CheckOut(ctx context.Context, req CheckOutRequest) (EventResponse, error)
	MyLogs(ctx context.Context) ([]EventResponse, error)
	GetDailyStatus(ctx context.Context, date string) (DailyRecordResponse, error)
	GetRangeSummary(ctx context.Context, query RangeQuery) (RangeSummaryResponse, error)
	GetWeeklySummary(ctx context.Context) (RangeSummaryResponse, error)
	GetMonthlySummary(ctx context.Context) (MonthlySummaryResponse, error)

	// Admin operations.
	ListAll(ctx context.Context, startDate, endDate string) ([]EventResponse, error)
	CorrectEvent(ctx context.Context, req CorrectEventRequest) error
}
