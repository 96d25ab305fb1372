package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeofday"
)

// todPtrToString safely converts a *timeofday.TimeOfDay to a string.
func todPtrToString(t *timeofday.TimeOfDay) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(time.RFC3339)
	return &format
}

func mapScheduleToResponse(s schedule.ShiftSchedule) attendance.ShiftScheduleResponse {
	breaks := make([]attendance.ShiftBreakResponse, 0, len(s.Breaks))
	for _, b := range s.Breaks {
		breaks = append(breaks, attendance.ShiftBreakResponse{
			BreakStart:     b.BreakStart.String(),
			BreakEnd:       b.BreakEnd.String(),
			BreakOutWindow: b.OutWindow(),
			BreakInWindow:  b.InWindow(),
			IsShiftSplit:   b.IsShiftSplit,
		})
	}

	return attendance.ShiftScheduleResponse{
		Date:           s.Date.Format("2006-01-02"),
		StartTime:      s.StartTime.String(),
		EndTime:        s.EndTime.String(),
		ValidInWindow:  s.InWindow(),
		ValidOutWindow: s.OutWindow(),
		IsSplit:        s.IsSplit(),
		Breaks:         breaks,
	}
}

func mapPunchLogToResponse(r attendance.PunchLogRecord) attendance.PunchLogResponse {
	var employeeName string
	if r.EmployeeName != nil {
		employeeName = *r.EmployeeName
	}

	return attendance.PunchLogResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: employeeName,
		Date:         r.Date.Format("2006-01-02"),
		InMorning:    todPtrToString(r.Log.InMorning),
		OutMorning:   todPtrToString(r.Log.OutMorning),
		InAfternoon:  todPtrToString(r.Log.InAfternoon),
		OutAfternoon: todPtrToString(r.Log.OutAfternoon),
	}
}

func mapDecisionToResponse(d attendance.ActionDecision) attendance.DecisionResponse {
	return attendance.DecisionResponse{
		ExpectedField:        d.ExpectedField,
		Segment:              d.Segment,
		Verdict:              d.Verdict,
		AllowedWindow:        d.AllowedWindow,
		WindowLabel:          d.WindowLabel,
		LateMinutes:          d.LateMinutes,
		EarlyMinutes:         d.EarlyMinutes,
		CanPunch:             d.Verdict.Recordable(),
		RequiresConfirmation: d.Verdict == attendance.VerdictAllowEarlyOutConfirm,
		EvaluatedAt:          d.EvaluatedAt.Format(time.RFC3339),
	}
}

func mapCreditToResponse(employeeID string, date time.Time, r attendance.CreditReport) attendance.CreditResponse {
	segments := make([]attendance.SegmentCreditResponse, 0, len(r.Segments))
	for _, s := range r.Segments {
		segments = append(segments, attendance.SegmentCreditResponse{
			Segment:         s.Segment,
			RenderedMinutes: s.RenderedMinutes,
			LateMinutes:     s.LateMinutes,
			Complete:        s.Complete,
		})
	}

	return attendance.CreditResponse{
		EmployeeID:      employeeID,
		Date:            date.Format("2006-01-02"),
		RenderedMinutes: r.RenderedMinutes,
		BreakMinutes:    r.BreakMinutes,
		NetWorkMinutes:  r.NetWorkMinutes,
		WorkCredit:      r.WorkCredit,
		EarlyOutMinutes: r.EarlyOutMinutes,
		LateMinutes:     r.LateMinutes,
		OvertimeMinutes: r.OvertimeMinutes,
		Complete:        r.Complete,
		Segments:        segments,
	}
}

func mapAdjustmentToResponse(r attendance.AdjustmentRequest) attendance.AdjustmentResponse {
	var employeeName string
	if r.EmployeeName != nil {
		employeeName = *r.EmployeeName
	}

	return attendance.AdjustmentResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    employeeName,
		Date:            r.Date.Format("2006-01-02"),
		Field:           string(r.Field),
		RequestedTime:   r.RequestedTime.String(),
		Reason:          r.Reason,
		Verdict:         r.Verdict,
		Status:          string(r.Status),
		ReviewedBy:      r.ReviewedBy,
		ReviewedAt:      timePtrToString(r.ReviewedAt),
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       r.UpdatedAt.Format(time.RFC3339),
	}
}
