package report

import "context"

// ReportService produces the admin dashboard aggregates across all
// employees. Both operations scan the full event log.
type ReportService interface {
	// MonthlyWorkingHours returns one series per employee, each point a
	// month's paired working hours.
	MonthlyWorkingHours(ctx context.Context) ([]UserSeries, error)

	// CheckInDistribution buckets every check-in by local time of day.
	CheckInDistribution(ctx context.Context) (CheckInDistributionResponse, error)
}
