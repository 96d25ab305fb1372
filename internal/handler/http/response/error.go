package response

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeofday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var driftErr *attendance.ClockDriftError
	if errors.As(err, &driftErr) {
		ErrorWithCode(w, http.StatusConflict, "CLOCK_DRIFT", "Device clock is out of sync, resync and try again", map[string]string{
			"offset_seconds":    strconv.FormatFloat(driftErr.Offset.Seconds(), 'f', -1, 64),
			"threshold_seconds": strconv.FormatFloat(driftErr.Threshold.Seconds(), 'f', -1, 64),
			"date_mismatch":     strconv.FormatBool(driftErr.DateMismatch),
		})
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")

	// User domain errors
	case errors.Is(err, user.ErrManagerAccessRequired),
		errors.Is(err, user.ErrCompanyIDRequired),
		errors.Is(err, user.ErrEmployeeIDRequired):
		Forbidden(w, err.Error())

	// Punch errors
	case errors.Is(err, attendance.ErrAdjustmentRequired):
		ErrorWithCode(w, http.StatusUnprocessableEntity, "ADJUSTMENT_REQUIRED", "Punch is outside the allowed window, send an adjustment request", nil)
	case errors.Is(err, attendance.ErrEarlyOutNotConfirmed):
		ErrorWithCode(w, http.StatusPreconditionRequired, "EARLY_OUT_CONFIRMATION_REQUIRED", "Early out must be confirmed", nil)
	case errors.Is(err, attendance.ErrAttendanceComplete):
		ErrorWithCode(w, http.StatusConflict, "ATTENDANCE_COMPLETE", "Attendance for today is already complete", nil)
	case errors.Is(err, attendance.ErrNotToday):
		ErrorWithCode(w, http.StatusConflict, "NOT_TODAY", "Attendance can only be recorded for today", nil)
	case errors.Is(err, attendance.ErrStaleDecision), errors.Is(err, attendance.ErrFieldAlreadyRecorded):
		ErrorWithCode(w, http.StatusConflict, "STALE_DECISION", "Expected punch has changed, refresh and try again", nil)
	case errors.Is(err, attendance.ErrClockDrift):
		ErrorWithCode(w, http.StatusConflict, "CLOCK_DRIFT", "Device clock is out of sync, resync and try again", nil)

	// Attendance lookups
	case errors.Is(err, attendance.ErrNoScheduleFound), errors.Is(err, schedule.ErrNoScheduleFound):
		NotFound(w, "No work schedule found for this date")
	case errors.Is(err, attendance.ErrPunchLogNotFound):
		NotFound(w, "Attendance log not found")
	case errors.Is(err, attendance.ErrUnauthorized):
		Forbidden(w, "Unauthorized to access this attendance record")

	// Adjustment errors
	case errors.Is(err, attendance.ErrAdjustmentNotFound):
		NotFound(w, "Adjustment request not found")
	case errors.Is(err, attendance.ErrAdjustmentAlreadyProcessed):
		Conflict(w, "Adjustment request already processed")

	// Engine input errors
	case errors.Is(err, timeofday.ErrInvalidTime):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, schedule.ErrInvalidSchedule):
		slog.Error("Misconfigured work schedule", "error", err)
		ErrorWithCode(w, http.StatusInternalServerError, "SCHEDULE_MISCONFIGURED", "Work schedule is misconfigured, contact your manager", nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
