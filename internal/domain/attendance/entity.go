package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeofday"
	"github.com/shopspring/decimal"
)

// PunchField names one of the four recorded timestamps of a work day.
type PunchField string

const (
	FieldInMorning    PunchField = "in_morning"
	FieldOutMorning   PunchField = "out_morning"
	FieldInAfternoon  PunchField = "in_afternoon"
	FieldOutAfternoon PunchField = "out_afternoon"
)

var PunchFieldValues = []string{
	string(FieldInMorning),
	string(FieldOutMorning),
	string(FieldInAfternoon),
	string(FieldOutAfternoon),
}

// PunchLog holds the punches of one employee on one date. A nil field has
// not happened yet.
type PunchLog struct {
	InMorning    *timeofday.TimeOfDay
	OutMorning   *timeofday.TimeOfDay
	InAfternoon  *timeofday.TimeOfDay
	OutAfternoon *timeofday.TimeOfDay
}

func (l PunchLog) Get(field PunchField) *timeofday.TimeOfDay {
	switch field {
	case FieldInMorning:
		return l.InMorning
	case FieldOutMorning:
		return l.OutMorning
	case FieldInAfternoon:
		return l.InAfternoon
	case FieldOutAfternoon:
		return l.OutAfternoon
	}
	return nil
}

func (l PunchLog) Has(field PunchField) bool {
	return l.Get(field) != nil
}

// With returns a copy of l with field set to t.
func (l PunchLog) With(field PunchField, t timeofday.TimeOfDay) PunchLog {
	switch field {
	case FieldInMorning:
		l.InMorning = &t
	case FieldOutMorning:
		l.OutMorning = &t
	case FieldInAfternoon:
		l.InAfternoon = &t
	case FieldOutAfternoon:
		l.OutAfternoon = &t
	}
	return l
}

func (l PunchLog) IsEmpty() bool {
	return l.InMorning == nil && l.OutMorning == nil && l.InAfternoon == nil && l.OutAfternoon == nil
}

// PunchLogRecord is the persisted form of a PunchLog with its last credit report.
type PunchLogRecord struct {
	ID         string
	EmployeeID string
	CompanyID  string
	Date       time.Time
	Log        PunchLog

	RenderedMinutes *int
	NetWorkMinutes  *int
	WorkCredit      *decimal.Decimal
	LateMinutes     *int
	EarlyOutMinutes *int
	OvertimeMinutes *int
	CreditComputed  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	EmployeeName *string
}

type AdjustmentStatus string

const (
	AdjustmentStatusPending  AdjustmentStatus = "pending"
	AdjustmentStatusApproved AdjustmentStatus = "approved"
	AdjustmentStatusRejected AdjustmentStatus = "rejected"
)

var AdjustmentStatusValues = []string{
	string(AdjustmentStatusPending),
	string(AdjustmentStatusApproved),
	string(AdjustmentStatusRejected),
}

// AdjustmentRequest asks a manager to write a punch the engine refused.
type AdjustmentRequest struct {
	ID              string
	EmployeeID      string
	CompanyID       string
	Date            time.Time
	Field           PunchField
	RequestedTime   timeofday.TimeOfDay
	Reason          string
	Verdict         *Verdict
	Status          AdjustmentStatus
	ReviewedBy      *string
	ReviewedAt      *time.Time
	RejectionReason *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO
	EmployeeName *string
}
