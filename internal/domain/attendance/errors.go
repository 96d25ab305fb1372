package attendance

import (
	"errors"
	"fmt"
	"time"
)

// Attendance domain errors
var (
	// Punch errors
	ErrAdjustmentRequired   = errors.New("punch is outside the allowed window, an adjustment request is required")
	ErrAttendanceComplete   = errors.New("attendance for today is already complete")
	ErrNotToday             = errors.New("attendance can only be recorded for today")
	ErrEarlyOutNotConfirmed = errors.New("early out must be confirmed before it is recorded")
	ErrStaleDecision        = errors.New("expected punch has changed, refresh and try again")
	ErrFieldAlreadyRecorded = errors.New("punch field has already been recorded")
	ErrNoScheduleFound      = errors.New("no schedule found for today")

	// General errors
	ErrPunchLogNotFound = errors.New("attendance log not found")
	ErrUnauthorized     = errors.New("unauthorized to access this attendance record")

	// Adjustment errors
	ErrAdjustmentNotFound         = errors.New("adjustment request not found")
	ErrAdjustmentAlreadyProcessed = errors.New("adjustment request has already been approved or rejected")

	// ErrClockDrift is matched by every ClockDriftError via errors.Is.
	ErrClockDrift = errors.New("device clock is out of sync")
)

// ClockDriftError reports a device clock that disagrees with the trusted
// clock by more than the allowed threshold or falls on another date.
type ClockDriftError struct {
	Offset       time.Duration
	Threshold    time.Duration
	DateMismatch bool
}

func (e *ClockDriftError) Error() string {
	if e.DateMismatch {
		return fmt.Sprintf("device clock is out of sync: calendar date differs (offset %s)", e.Offset)
	}
	return fmt.Sprintf("device clock is out of sync: offset %s exceeds %s", e.Offset, e.Threshold)
}

func (e *ClockDriftError) Is(target error) bool {
	return target == ErrClockDrift
}
