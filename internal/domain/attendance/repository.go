package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeofday"
)

// PunchLogRepository persists one punch log per employee per date.
// All methods include companyID parameter to prevent cross-company data access attacks.
type PunchLogRepository interface {
	// GetByEmployeeAndDate returns ErrPunchLogNotFound when no punch exists yet.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (PunchLogRecord, error)

	// RecordPunch writes field only if it is still empty, creating the day's
	// log when needed. Returns ErrFieldAlreadyRecorded otherwise.
	RecordPunch(ctx context.Context, employeeID string, date time.Time, companyID string, field PunchField, at timeofday.TimeOfDay) (PunchLogRecord, error)

	// OverwritePunch writes field unconditionally. Used by approved adjustments.
	OverwritePunch(ctx context.Context, employeeID string, date time.Time, companyID string, field PunchField, at timeofday.TimeOfDay) (PunchLogRecord, error)

	// SaveCredit stores the latest credit report next to the log.
	SaveCredit(ctx context.Context, id string, report CreditReport, computedAt time.Time) error

	// Clear nulls every punch field and the stored credit.
	Clear(ctx context.Context, employeeID string, date time.Time, companyID string) error

	// ListByDate returns every company's logs for date. Used by the recompute job.
	ListByDate(ctx context.Context, date time.Time) ([]PunchLogRecord, error)
}

// AdjustmentRequestRepository stores requests to write punches the engine refused.
type AdjustmentRequestRepository interface {
	Create(ctx context.Context, req AdjustmentRequest) (AdjustmentRequest, error)
	GetByID(ctx context.Context, id string, companyID string) (AdjustmentRequest, error)
	List(ctx context.Context, filter AdjustmentFilter, companyID string) ([]AdjustmentRequest, int64, error)

	// UpdateStatus persists Status, ReviewedBy, ReviewedAt and RejectionReason.
	UpdateStatus(ctx context.Context, req AdjustmentRequest) error
}
