package schedule

import (
	"errors"
	"fmt"
)

var (
	ErrNoScheduleFound = errors.New("no schedule found for this date")

	// ErrInvalidSchedule is matched by every InvalidScheduleError via errors.Is.
	ErrInvalidSchedule = errors.New("invalid shift schedule")
)

// InvalidScheduleError reports a schedule that violates start < end or
// has a break outside the shift.
type InvalidScheduleError struct {
	BreakIndex *int
	Reason     string
}

func (e *InvalidScheduleError) Error() string {
	if e.BreakIndex != nil {
		return fmt.Sprintf("invalid shift schedule: break %d: %s", *e.BreakIndex, e.Reason)
	}
	return "invalid shift schedule: " + e.Reason
}

func (e *InvalidScheduleError) Is(target error) bool {
	return target == ErrInvalidSchedule
}
