package schedule

import (
	"context"
	"time"
)

// ShiftScheduleRepository resolves the effective shift for an employee on a date.
type ShiftScheduleRepository interface {
	// GetShiftSchedule prefers an assignment covering date and falls back to
	// the employee's default work schedule. Returns ErrNoScheduleFound when
	// neither defines a time row for date's ISO weekday.
	GetShiftSchedule(ctx context.Context, employeeID string, date time.Time, companyID string) (ShiftSchedule, error)
}
