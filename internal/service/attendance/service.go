package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeofday"
	"github.com/google/uuid"
)

type AttendanceServiceImpl struct {
	tx database.Transactor
	attendance.PunchLogRepository
	attendance.AdjustmentRequestRepository
	schedule.ShiftScheduleRepository
	engine attendance.ShiftEngine
	clock  clock.TrustedClock
}

// GetPunchStatus implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetPunchStatus(ctx context.Context, req attendance.PunchStatusRequest) (attendance.PunchStatusResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.PunchStatusResponse{}, err
	}

	id, err := identityFromContext(ctx)
	if err != nil {
		return attendance.PunchStatusResponse{}, err
	}

	now := a.clock.Now()
	today := clock.Today(a.clock)

	sched, record, err := a.loadDay(ctx, id.employeeID, today, id.companyID)
	if err != nil {
		return attendance.PunchStatusResponse{}, err
	}

	// Drift is reported through the RESYNC_REQUIRED verdict rather than an error.
	decision, err := a.engine.ResolveNextAction(sched, record.Log, now, req.DeviceNow())
	if err != nil {
		return attendance.PunchStatusResponse{}, fmt.Errorf("failed to resolve next action: %w", err)
	}

	slog.Debug("Punch status resolved",
		"employee_id", id.employeeID,
		"expected_field", decision.ExpectedField,
		"verdict", decision.Verdict,
		"window", decision.WindowLabel,
	)

	report := a.engine.ComputeCredit(sched, record.Log)

	return attendance.PunchStatusResponse{
		ServerTime: now.Format(time.RFC3339),
		Schedule:   mapScheduleToResponse(sched),
		Log:        mapPunchLogToResponse(record),
		Decision:   mapDecisionToResponse(decision),
		Credit:     mapCreditToResponse(record.EmployeeID, record.Date, report),
	}, nil
}

// Punch implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Punch(ctx context.Context, req attendance.PunchRequest) (attendance.PunchResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.PunchResponse{}, err
	}

	id, err := identityFromContext(ctx)
	if err != nil {
		return attendance.PunchResponse{}, err
	}

	now := a.clock.Now()
	if _, err := a.engine.CheckClockSync(now, req.DeviceNow()); err != nil {
		slog.Info("Punch refused: device clock out of sync", "employee_id", id.employeeID, "error", err)
		return attendance.PunchResponse{}, err
	}

	today := clock.Today(a.clock)
	sched, record, err := a.loadDay(ctx, id.employeeID, today, id.companyID)
	if err != nil {
		return attendance.PunchResponse{}, err
	}

	decision, err := a.engine.ResolveNextAction(sched, record.Log, now, req.DeviceNow())
	if err != nil {
		return attendance.PunchResponse{}, fmt.Errorf("failed to resolve next action: %w", err)
	}

	if err := checkRecordable(decision, req); err != nil {
		slog.Info("Punch refused",
			"employee_id", id.employeeID,
			"expected_field", decision.ExpectedField,
			"verdict", decision.Verdict,
			"reason", err,
		)
		return attendance.PunchResponse{}, err
	}

	at := timeofday.FromTime(now)
	var (
		updated attendance.PunchLogRecord
		report  attendance.CreditReport
	)
	err = a.tx.WithTx(ctx, func(ctx context.Context) error {
		updated, err = a.PunchLogRepository.RecordPunch(ctx, id.employeeID, today, id.companyID, decision.ExpectedField, at)
		if err != nil {
			return err
		}
		report = a.engine.ComputeCredit(sched, updated.Log)
		return a.PunchLogRepository.SaveCredit(ctx, updated.ID, report, now)
	})
	if err != nil {
		if errors.Is(err, attendance.ErrFieldAlreadyRecorded) {
			return attendance.PunchResponse{}, attendance.ErrStaleDecision
		}
		slog.Error("Failed to record punch", "employee_id", id.employeeID, "field", decision.ExpectedField, "error", err)
		return attendance.PunchResponse{}, fmt.Errorf("failed to record punch: %w", err)
	}

	slog.Info("Punch recorded",
		"employee_id", id.employeeID,
		"field", decision.ExpectedField,
		"at", at.String(),
		"verdict", decision.Verdict,
		"late_minutes", decision.LateMinutes,
	)

	return attendance.PunchResponse{
		Field:      decision.ExpectedField,
		RecordedAt: now.Format(time.RFC3339),
		Decision:   mapDecisionToResponse(decision),
		Log:        mapPunchLogToResponse(updated),
		Credit:     mapCreditToResponse(updated.EmployeeID, updated.Date, report),
	}, nil
}

// checkRecordable maps a non-recordable verdict to its error.
func checkRecordable(d attendance.ActionDecision, req attendance.PunchRequest) error {
	switch d.Verdict {
	case attendance.VerdictResyncRequired:
		return attendance.ErrClockDrift
	case attendance.VerdictAlreadyComplete:
		return attendance.ErrAttendanceComplete
	case attendance.VerdictNotToday:
		return attendance.ErrNotToday
	case attendance.VerdictRequireAdjustment:
		return attendance.ErrAdjustmentRequired
	case attendance.VerdictAllowEarlyOutConfirm:
		if !req.ConfirmEarlyOut {
			return attendance.ErrEarlyOutNotConfirmed
		}
	}

	if req.ExpectedField != nil && attendance.PunchField(*req.ExpectedField) != d.ExpectedField {
		return attendance.ErrStaleDecision
	}
	return nil
}

// CheckClockSync implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckClockSync(ctx context.Context, req attendance.ClockSyncRequest) (attendance.ClockSyncResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ClockSyncResponse{}, err
	}

	now := a.clock.Now()
	// A drift error is the answer here, not a failure.
	result, _ := a.engine.CheckClockSync(now, req.DeviceNow())

	return attendance.ClockSyncResponse{
		ServerTime:    result.TrustedNow.Format(time.RFC3339),
		DeviceTime:    result.DeviceNow.Format(time.RFC3339),
		Timezone:      a.clock.Location().String(),
		OffsetSeconds: result.Offset.Seconds(),
		DateMismatch:  result.DateMismatch,
		InSync:        result.InSync,
	}, nil
}

// GetCredit implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetCredit(ctx context.Context, req attendance.CreditRequest) (attendance.CreditResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CreditResponse{}, err
	}

	id, err := identityFromContext(ctx)
	if err != nil {
		return attendance.CreditResponse{}, err
	}

	employeeID := id.employeeID
	if req.EmployeeID != nil && *req.EmployeeID != id.employeeID {
		if !id.isManager() {
			return attendance.CreditResponse{}, attendance.ErrUnauthorized
		}
		employeeID = *req.EmployeeID
	}

	date, err := a.parseDate(req.Date)
	if err != nil {
		return attendance.CreditResponse{}, err
	}

	sched, record, err := a.loadDay(ctx, employeeID, date, id.companyID)
	if err != nil {
		return attendance.CreditResponse{}, err
	}

	return mapCreditToResponse(employeeID, date, a.engine.ComputeCredit(sched, record.Log)), nil
}

// ClearAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClearAttendance(ctx context.Context, req attendance.ClearAttendanceRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	id, err := identityFromContext(ctx)
	if err != nil {
		return err
	}
	if !id.isManager() {
		return attendance.ErrUnauthorized
	}

	date, err := a.parseDate(req.Date)
	if err != nil {
		return err
	}

	if err := a.PunchLogRepository.Clear(ctx, req.EmployeeID, date, id.companyID); err != nil {
		if errors.Is(err, attendance.ErrPunchLogNotFound) {
			return attendance.ErrPunchLogNotFound
		}
		return fmt.Errorf("failed to clear attendance: %w", err)
	}

	slog.Info("Attendance cleared", "employee_id", req.EmployeeID, "date", req.Date, "cleared_by", id.userID)
	return nil
}

// CreateAdjustmentRequest implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CreateAdjustmentRequest(ctx context.Context, req attendance.CreateAdjustmentRequest) (attendance.AdjustmentResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AdjustmentResponse{}, err
	}

	id, err := identityFromContext(ctx)
	if err != nil {
		return attendance.AdjustmentResponse{}, err
	}

	date, err := a.parseDate(req.Date)
	if err != nil {
		return attendance.AdjustmentResponse{}, err
	}
	requested, err := timeofday.Parse(req.RequestedTime)
	if err != nil {
		return attendance.AdjustmentResponse{}, err
	}
	field := attendance.PunchField(req.Field)

	sched, record, err := a.loadDay(ctx, id.employeeID, date, id.companyID)
	if err != nil {
		return attendance.AdjustmentResponse{}, err
	}

	// Record how the engine judges the requested time so the reviewer sees it.
	var verdict *attendance.Verdict
	if !record.Log.Has(field) {
		instant := requested.On(date)
		if d, err := a.engine.ResolveNextAction(sched, record.Log, instant, instant); err == nil && d.ExpectedField == field {
			verdict = &d.Verdict
		}
	}

	newID, err := uuid.NewV7()
	if err != nil {
		return attendance.AdjustmentResponse{}, fmt.Errorf("failed to generate adjustment id: %w", err)
	}

	created, err := a.AdjustmentRequestRepository.Create(ctx, attendance.AdjustmentRequest{
		ID:            newID.String(),
		EmployeeID:    id.employeeID,
		CompanyID:     id.companyID,
		Date:          date,
		Field:         field,
		RequestedTime: requested,
		Reason:        req.Reason,
		Verdict:       verdict,
		Status:        attendance.AdjustmentStatusPending,
	})
	if err != nil {
		return attendance.AdjustmentResponse{}, fmt.Errorf("failed to create adjustment request: %w", err)
	}

	slog.Info("Adjustment request created", "id", created.ID, "employee_id", id.employeeID, "field", field)
	return mapAdjustmentToResponse(created), nil
}

// ListAdjustmentRequests implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAdjustmentRequests(ctx context.Context, filter attendance.AdjustmentFilter) (attendance.ListAdjustmentResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAdjustmentResponse{}, err
	}

	id, err := identityFromContext(ctx)
	if err != nil {
		return attendance.ListAdjustmentResponse{}, err
	}
	// Employees only ever see their own requests.
	if !id.isManager() {
		filter.EmployeeID = &id.employeeID
	}

	requests, total, err := a.AdjustmentRequestRepository.List(ctx, filter, id.companyID)
	if err != nil {
		return attendance.ListAdjustmentResponse{}, fmt.Errorf("failed to list adjustment requests: %w", err)
	}

	responses := make([]attendance.AdjustmentResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, mapAdjustmentToResponse(r))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return attendance.ListAdjustmentResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Adjustments: responses,
	}, nil
}

// ApproveAdjustmentRequest implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ApproveAdjustmentRequest(ctx context.Context, req attendance.ApproveAdjustmentRequest) (attendance.AdjustmentResponse, error) {
	id, err := identityFromContext(ctx)
	if err != nil {
		return attendance.AdjustmentResponse{}, err
	}
	if !id.isManager() {
		return attendance.AdjustmentResponse{}, attendance.ErrUnauthorized
	}

	adj, err := a.pendingAdjustment(ctx, req.ID, id.companyID)
	if err != nil {
		return attendance.AdjustmentResponse{}, err
	}

	sched, err := a.scheduleFor(ctx, adj.EmployeeID, adj.Date, adj.CompanyID)
	if err != nil {
		return attendance.AdjustmentResponse{}, err
	}

	now := a.clock.Now()
	adj.Status = attendance.AdjustmentStatusApproved
	adj.ReviewedBy = &id.userID
	adj.ReviewedAt = &now
	adj.RejectionReason = nil

	err = a.tx.WithTx(ctx, func(ctx context.Context) error {
		updated, err := a.PunchLogRepository.OverwritePunch(ctx, adj.EmployeeID, adj.Date, adj.CompanyID, adj.Field, adj.RequestedTime)
		if err != nil {
			return err
		}
		report := a.engine.ComputeCredit(sched, updated.Log)
		if err := a.PunchLogRepository.SaveCredit(ctx, updated.ID, report, now); err != nil {
			return err
		}
		return a.AdjustmentRequestRepository.UpdateStatus(ctx, adj)
	})
	if err != nil {
		return attendance.AdjustmentResponse{}, fmt.Errorf("failed to approve adjustment request: %w", err)
	}

	slog.Info("Adjustment request approved", "id", adj.ID, "employee_id", adj.EmployeeID, "field", adj.Field, "approved_by", id.userID)
	return mapAdjustmentToResponse(adj), nil
}

// RejectAdjustmentRequest implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) RejectAdjustmentRequest(ctx context.Context, req attendance.RejectAdjustmentRequest) (attendance.AdjustmentResponse, error) {
	id, err := identityFromContext(ctx)
	if err != nil {
		return attendance.AdjustmentResponse{}, err
	}
	if !id.isManager() {
		return attendance.AdjustmentResponse{}, attendance.ErrUnauthorized
	}

	// Validate request
	if err := req.Validate(); err != nil {
		return attendance.AdjustmentResponse{}, err
	}

	adj, err := a.pendingAdjustment(ctx, req.ID, id.companyID)
	if err != nil {
		return attendance.AdjustmentResponse{}, err
	}

	now := a.clock.Now()
	adj.Status = attendance.AdjustmentStatusRejected
	adj.ReviewedBy = &id.userID
	adj.ReviewedAt = &now
	adj.RejectionReason = &req.Reason

	if err := a.AdjustmentRequestRepository.UpdateStatus(ctx, adj); err != nil {
		return attendance.AdjustmentResponse{}, fmt.Errorf("failed to reject adjustment request: %w", err)
	}

	slog.Info("Adjustment request rejected", "id", adj.ID, "employee_id", adj.EmployeeID, "field", adj.Field, "rejected_by", id.userID)
	return mapAdjustmentToResponse(adj), nil
}

// RecomputeCredits implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) RecomputeCredits(ctx context.Context, date time.Time) (int, error) {
	records, err := a.PunchLogRepository.ListByDate(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("failed to list punch logs: %w", err)
	}

	now := a.clock.Now()
	updated := 0
	for _, record := range records {
		if ctx.Err() != nil {
			return updated, ctx.Err()
		}

		sched, err := a.scheduleFor(ctx, record.EmployeeID, record.Date, record.CompanyID)
		if err != nil {
			slog.Error("Failed to get schedule for credit recompute",
				"employee_id", record.EmployeeID,
				"company_id", record.CompanyID,
				"error", err,
			)
			continue
		}

		report := a.engine.ComputeCredit(sched, record.Log)
		if err := a.PunchLogRepository.SaveCredit(ctx, record.ID, report, now); err != nil {
			slog.Error("Failed to save recomputed credit", "punch_log_id", record.ID, "error", err)
			continue
		}
		updated++
	}

	return updated, nil
}

// loadDay returns the schedule and the (possibly empty) log of one employee on date.
func (a *AttendanceServiceImpl) loadDay(ctx context.Context, employeeID string, date time.Time, companyID string) (schedule.ShiftSchedule, attendance.PunchLogRecord, error) {
	sched, err := a.scheduleFor(ctx, employeeID, date, companyID)
	if err != nil {
		return schedule.ShiftSchedule{}, attendance.PunchLogRecord{}, err
	}

	record, err := a.PunchLogRepository.GetByEmployeeAndDate(ctx, employeeID, date, companyID)
	if err != nil {
		if !errors.Is(err, attendance.ErrPunchLogNotFound) {
			return schedule.ShiftSchedule{}, attendance.PunchLogRecord{}, fmt.Errorf("failed to get punch log: %w", err)
		}
		record = attendance.PunchLogRecord{EmployeeID: employeeID, CompanyID: companyID, Date: date}
	}

	return sched, record, nil
}

func (a *AttendanceServiceImpl) scheduleFor(ctx context.Context, employeeID string, date time.Time, companyID string) (schedule.ShiftSchedule, error) {
	sched, err := a.ShiftScheduleRepository.GetShiftSchedule(ctx, employeeID, date, companyID)
	if err != nil {
		if errors.Is(err, schedule.ErrNoScheduleFound) {
			return schedule.ShiftSchedule{}, attendance.ErrNoScheduleFound
		}
		return schedule.ShiftSchedule{}, fmt.Errorf("failed to get shift schedule: %w", err)
	}

	if n := sched.SplitBreakCount(); n > 1 {
		slog.Warn("Multiple shift-split breaks configured, using the first",
			"employee_id", employeeID,
			"date", date.Format("2006-01-02"),
			"count", n,
		)
	}
	return sched, nil
}

func (a *AttendanceServiceImpl) pendingAdjustment(ctx context.Context, id string, companyID string) (attendance.AdjustmentRequest, error) {
	adj, err := a.AdjustmentRequestRepository.GetByID(ctx, id, companyID)
	if err != nil {
		if errors.Is(err, attendance.ErrAdjustmentNotFound) {
			return attendance.AdjustmentRequest{}, attendance.ErrAdjustmentNotFound
		}
		return attendance.AdjustmentRequest{}, fmt.Errorf("failed to get adjustment request: %w", err)
	}
	if adj.Status != attendance.AdjustmentStatusPending {
		return attendance.AdjustmentRequest{}, attendance.ErrAdjustmentAlreadyProcessed
	}
	return adj, nil
}

// parseDate reads YYYY-MM-DD as midnight in the trusted clock's location.
func (a *AttendanceServiceImpl) parseDate(s string) (time.Time, error) {
	date, err := time.ParseInLocation("2006-01-02", s, a.clock.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return date, nil
}

func NewAttendanceService(
	tx database.Transactor,
	punchLogRepo attendance.PunchLogRepository,
	adjustmentRepo attendance.AdjustmentRequestRepository,
	scheduleRepo schedule.ShiftScheduleRepository,
	engine attendance.ShiftEngine,
	trustedClock clock.TrustedClock,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:                          tx,
		PunchLogRepository:          punchLogRepo,
		AdjustmentRequestRepository: adjustmentRepo,
		ShiftScheduleRepository:     scheduleRepo,
		engine:                      engine,
		clock:                       trustedClock,
	}
}
