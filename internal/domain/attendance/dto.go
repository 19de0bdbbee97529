package attendance

import (
	"time"

	"github.com/attendly/attendly-backend-go/internal/pkg/validator"
)

type CheckInRequest struct {
	Note *string `json:"note,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Note != nil && len(*r.Note) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "note",
			Message: "Note must not exceed 500 characters",
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckOutRequest struct {
	Note *string `json:"note,omitempty"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Note != nil && len(*r.Note) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "note",
			Message: "Note must not exceed 500 characters",
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CorrectEventRequest replaces the timestamp of a user's event on a given day.
type CorrectEventRequest struct {
	UserID    string `json:"user_id"`
	Kind      string `json:"kind"`
	Date      string `json:"date"`
	Timestamp string `json:"timestamp"`
}

func (r *CorrectEventRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "User ID is required",
		})
	} else if !validator.IsValidUUID(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "User ID must be a valid UUID",
		})
	}

	if !validator.IsInSlice(r.Kind, []string{string(KindCheckIn), string(KindCheckOut)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "Kind must be either check-in or check-out",
		})
	}

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "Date is required",
		})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "Date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.Timestamp) {
		errs = append(errs, validator.ValidationError{
			Field:   "timestamp",
			Message: "Timestamp is required",
		})
	} else if _, ok := validator.IsValidDateTime(r.Timestamp); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "timestamp",
			Message: "Timestamp must be a valid RFC3339 datetime",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RangeQuery carries the parsed start/end of a summary request.
type RangeQuery struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (r *RangeQuery) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "Start date is required",
		})
	} else if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "Start date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "End date is required",
		})
	} else if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "End date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EventResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Kind         EventKind `json:"kind"`
	Timestamp    time.Time `json:"timestamp"`
	Note         *string   `json:"note,omitempty"`
	UserName     *string   `json:"user_name,omitempty"`
	EmployeeCode *string   `json:"employee_code,omitempty"`
}

func ToEventResponse(e Event) EventResponse {
	return EventResponse{
		ID:           e.ID,
		UserID:       e.UserID,
		Kind:         e.Kind,
		Timestamp:    e.Timestamp,
		Note:         e.Note,
		UserName:     e.UserName,
		EmployeeCode: e.EmployeeCode,
	}
}

func ToEventResponses(events []Event) []EventResponse {
	responses := make([]EventResponse, 0, len(events))
	for _, e := range events {
		responses = append(responses, ToEventResponse(e))
	}
	return responses
}

type DailyRecordResponse struct {
	Date         string     `json:"date"`
	CheckIn      *time.Time `json:"check_in"`
	CheckOut     *time.Time `json:"check_out"`
	WorkingHours *float64   `json:"working_hours"`
	Status       DayStatus  `json:"status"`
}

func ToDailyRecordResponse(r DailyRecord) DailyRecordResponse {
	return DailyRecordResponse{
		Date:         r.Date.Format("2006-01-02"),
		CheckIn:      r.CheckIn,
		CheckOut:     r.CheckOut,
		WorkingHours: r.WorkingHours,
		Status:       r.Status,
	}
}

type RangeSummaryResponse struct {
	StartDate         string                `json:"start_date"`
	EndDate           string                `json:"end_date"`
	TotalDays         int                   `json:"total_days"`
	TotalHours        float64               `json:"total_hours"`
	AverageDailyHours float64               `json:"average_daily_hours"`
	Days              []DailyRecordResponse `json:"days"`
}

// MonthlySummaryResponse reports the current month's total as whole hours
// plus leftover minutes, alongside the per-day breakdown.
type MonthlySummaryResponse struct {
	Month        string                `json:"month"`
	TotalHours   int                   `json:"total_hours"`
	TotalMinutes int                   `json:"total_minutes"`
	Days         []DailyRecordResponse `json:"days"`
}
