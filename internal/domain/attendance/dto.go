package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeofday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// PUNCH DTOs
// ========================================

type PunchStatusRequest struct {
	DeviceTime string `json:"device_time"` // RFC3339

	deviceNow time.Time
}

func (r *PunchStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if t, err := validateDeviceTime(r.DeviceTime); err != nil {
		errs = append(errs, *err)
	} else {
		r.deviceNow = t
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// DeviceNow is the parsed device_time, set by Validate.
func (r *PunchStatusRequest) DeviceNow() time.Time { return r.deviceNow }

type PunchRequest struct {
	DeviceTime      string  `json:"device_time"` // RFC3339
	ConfirmEarlyOut bool    `json:"confirm_early_out"`
	ExpectedField   *string `json:"expected_field,omitempty"`

	deviceNow time.Time
}

func (r *PunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if t, err := validateDeviceTime(r.DeviceTime); err != nil {
		errs = append(errs, *err)
	} else {
		r.deviceNow = t
	}

	if r.ExpectedField != nil && !validator.IsInSlice(*r.ExpectedField, PunchFieldValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "expected_field",
			Message: "expected_field must be one of: " + strings.Join(PunchFieldValues, ", "),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// DeviceNow is the parsed device_time, set by Validate.
func (r *PunchRequest) DeviceNow() time.Time { return r.deviceNow }

type ClockSyncRequest struct {
	DeviceTime string `json:"device_time"` // RFC3339

	deviceNow time.Time
}

func (r *ClockSyncRequest) Validate() error {
	var errs validator.ValidationErrors

	if t, err := validateDeviceTime(r.DeviceTime); err != nil {
		errs = append(errs, *err)
	} else {
		r.deviceNow = t
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// DeviceNow is the parsed device_time, set by Validate.
func (r *ClockSyncRequest) DeviceNow() time.Time { return r.deviceNow }

func validateDeviceTime(s string) (time.Time, *validator.ValidationError) {
	if validator.IsEmpty(s) {
		return time.Time{}, &validator.ValidationError{
			Field:   "device_time",
			Message: "device_time is required",
		}
	}
	t, ok := validator.IsValidDateTime(s)
	if !ok {
		return time.Time{}, &validator.ValidationError{
			Field:   "device_time",
			Message: "device_time must be an RFC3339 timestamp",
		}
	}
	return t, nil
}

type ShiftScheduleResponse struct {
	Date           string               `json:"date"`
	StartTime      string               `json:"start_time"`
	EndTime        string               `json:"end_time"`
	ValidInWindow  timeofday.Window     `json:"valid_in_window"`
	ValidOutWindow timeofday.Window     `json:"valid_out_window"`
	IsSplit        bool                 `json:"is_split"`
	Breaks         []ShiftBreakResponse `json:"breaks"`
}

type ShiftBreakResponse struct {
	BreakStart     string           `json:"break_start"`
	BreakEnd       string           `json:"break_end"`
	BreakOutWindow timeofday.Window `json:"break_out_window"`
	BreakInWindow  timeofday.Window `json:"break_in_window"`
	IsShiftSplit   bool             `json:"is_shift_split"`
}

type PunchLogResponse struct {
	ID           string  `json:"id,omitempty"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name,omitempty"`
	Date         string  `json:"date"`
	InMorning    *string `json:"in_morning"`
	OutMorning   *string `json:"out_morning"`
	InAfternoon  *string `json:"in_afternoon"`
	OutAfternoon *string `json:"out_afternoon"`
}

type DecisionResponse struct {
	ExpectedField        PunchField        `json:"expected_field,omitempty"`
	Segment              Segment           `json:"segment,omitempty"`
	Verdict              Verdict           `json:"verdict"`
	AllowedWindow        *timeofday.Window `json:"allowed_window,omitempty"`
	WindowLabel          string            `json:"window_label,omitempty"`
	LateMinutes          int               `json:"late_minutes"`
	EarlyMinutes         int               `json:"early_minutes"`
	CanPunch             bool              `json:"can_punch"`
	RequiresConfirmation bool              `json:"requires_confirmation"`
	EvaluatedAt          string            `json:"evaluated_at"`
}

type SegmentCreditResponse struct {
	Segment         Segment `json:"segment"`
	RenderedMinutes int     `json:"rendered_minutes"`
	LateMinutes     int     `json:"late_minutes"`
	Complete        bool    `json:"complete"`
}

type CreditResponse struct {
	EmployeeID      string                  `json:"employee_id"`
	Date            string                  `json:"date"`
	RenderedMinutes int                     `json:"rendered_minutes"`
	BreakMinutes    int                     `json:"break_minutes"`
	NetWorkMinutes  int                     `json:"net_work_minutes"`
	WorkCredit      decimal.Decimal         `json:"work_credit"`
	EarlyOutMinutes int                     `json:"early_out_minutes"`
	LateMinutes     int                     `json:"late_minutes"`
	OvertimeMinutes int                     `json:"overtime_minutes"`
	Complete        bool                    `json:"complete"`
	Segments        []SegmentCreditResponse `json:"segments"`
}

type PunchStatusResponse struct {
	ServerTime string                `json:"server_time"`
	Schedule   ShiftScheduleResponse `json:"schedule"`
	Log        PunchLogResponse      `json:"log"`
	Decision   DecisionResponse      `json:"decision"`
	Credit     CreditResponse        `json:"credit"`
}

type PunchResponse struct {
	Field      PunchField       `json:"field"`
	RecordedAt string           `json:"recorded_at"`
	Decision   DecisionResponse `json:"decision"`
	Log        PunchLogResponse `json:"log"`
	Credit     CreditResponse   `json:"credit"`
}

type ClockSyncResponse struct {
	ServerTime    string  `json:"server_time"`
	DeviceTime    string  `json:"device_time"`
	Timezone      string  `json:"timezone"`
	OffsetSeconds float64 `json:"offset_seconds"`
	DateMismatch  bool    `json:"date_mismatch"`
	InSync        bool    `json:"in_sync"`
}

// ========================================
// CREDIT / CLEAR DTOs
// ========================================

type CreditRequest struct {
	EmployeeID *string `json:"employee_id,omitempty"` // managers only
	Date       string  `json:"date"`                  // YYYY-MM-DD
}

func (r *CreditRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if r.EmployeeID != nil && !validator.IsValidUUID(*r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ClearAttendanceRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"` // YYYY-MM-DD
}

func (r *ClearAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// ADJUSTMENT REQUEST DTOs
// ========================================

type CreateAdjustmentRequest struct {
	Date          string `json:"date"`           // YYYY-MM-DD
	Field         string `json:"field"`          // in_morning, out_morning, in_afternoon, out_afternoon
	RequestedTime string `json:"requested_time"` // HH:MM:SS
	Reason        string `json:"reason"`
}

func (r *CreateAdjustmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if !validator.IsInSlice(r.Field, PunchFieldValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "field",
			Message: "field must be one of: " + strings.Join(PunchFieldValues, ", "),
		})
	}

	if _, valid := validator.IsValidTimeOfDay(r.RequestedTime); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "requested_time",
			Message: "requested_time must be in HH:MM:SS format",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	} else if len(r.Reason) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AdjustmentFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *string `json:"status,omitempty"`
	Date       *string `json:"date,omitempty"` // YYYY-MM-DD

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *AdjustmentFilter) Validate() error {
	var errs validator.ValidationErrors

	// Page validation
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	// Limit validation
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil && !validator.IsInSlice(*f.Status, AdjustmentStatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(AdjustmentStatusValues, ", "),
		})
	}

	if f.Date != nil && *f.Date != "" {
		if _, valid := validator.IsValidDate(*f.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ApproveAdjustmentRequest struct {
	ID string `json:"-"`
}

type RejectAdjustmentRequest struct {
	ID     string `json:"-"`
	Reason string `json:"reason"` // Required rejection reason
}

func (r *RejectAdjustmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "rejection reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AdjustmentResponse struct {
	ID              string   `json:"id"`
	EmployeeID      string   `json:"employee_id"`
	EmployeeName    string   `json:"employee_name,omitempty"`
	Date            string   `json:"date"`
	Field           string   `json:"field"`
	RequestedTime   string   `json:"requested_time"`
	Reason          string   `json:"reason"`
	Verdict         *Verdict `json:"verdict,omitempty"`
	Status          string   `json:"status"`
	ReviewedBy      *string  `json:"reviewed_by,omitempty"`
	ReviewedAt      *string  `json:"reviewed_at,omitempty"`
	RejectionReason *string  `json:"rejection_reason,omitempty"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

type ListAdjustmentResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Adjustments []AdjustmentResponse `json:"adjustments"`
}
