package attendance

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeofday"
)

// punchTarget describes how one field of the log is judged.
type punchTarget struct {
	field  attendance.PunchField
	window timeofday.Window

	// in-punches only. Lateness counts from lateBase, when work is scheduled
	// to begin; the grace window opens at graceBase.
	lateBase  timeofday.TimeOfDay
	graceBase timeofday.TimeOfDay
	extension int

	// out-punches only
	scheduledEnd timeofday.TimeOfDay
	isOut        bool
}

// segmentResolver judges one in/out pair. AM, PM and full-shift segments
// all go through the same code with different targets.
type segmentResolver struct {
	segment attendance.Segment
	in      punchTarget
	out     punchTarget
}

// next returns the first unpunched target of the segment, or false when the
// pair is complete.
func (s segmentResolver) next(log attendance.PunchLog) (punchTarget, bool) {
	if !log.Has(s.in.field) {
		return s.in, true
	}
	if !log.Has(s.out.field) {
		return s.out, true
	}
	return punchTarget{}, false
}

func (s segmentResolver) complete(log attendance.PunchLog) bool {
	_, pending := s.next(log)
	return !pending
}

func (s segmentResolver) resolve(target punchTarget, now timeofday.TimeOfDay, gracePeriod int) attendance.ActionDecision {
	d := attendance.ActionDecision{
		ExpectedField: target.field,
		Segment:       s.segment,
	}
	if target.isOut {
		resolveOut(&d, target, now)
	} else {
		resolveIn(&d, target, now, gracePeriod)
	}
	return d
}

func resolveIn(d *attendance.ActionDecision, t punchTarget, now timeofday.TimeOfDay, gracePeriod int) {
	d.LateMinutes = timeofday.ElapsedMinutes(t.lateBase, now)

	if t.window.Contains(now) {
		allow(d, t.window, attendance.LabelInWindow)
		return
	}
	if t.extension > 0 {
		extended := t.window.Extend(t.extension)
		if extended.Contains(now) {
			allow(d, extended, attendance.LabelInWindowExtension)
			return
		}
	}

	grace := timeofday.WindowFrom(t.graceBase, gracePeriod)
	if grace.Contains(now) {
		d.Verdict = attendance.VerdictLateWithinGrace
		d.AllowedWindow = &grace
		d.WindowLabel = attendance.LabelLateGrace
		return
	}

	window := t.window
	d.Verdict = attendance.VerdictRequireAdjustment
	d.AllowedWindow = &window
	d.WindowLabel = attendance.LabelOutsidePolicy
}

func resolveOut(d *attendance.ActionDecision, t punchTarget, now timeofday.TimeOfDay) {
	window := t.window
	d.AllowedWindow = &window

	switch {
	case t.window.Contains(now):
		d.Verdict = attendance.VerdictAllow
		d.WindowLabel = attendance.LabelOutWindow
	case now.Before(t.scheduledEnd):
		d.Verdict = attendance.VerdictAllowEarlyOutConfirm
		d.WindowLabel = attendance.LabelEarlyOut
		d.EarlyMinutes = timeofday.ElapsedMinutes(now, t.scheduledEnd)
	default:
		d.Verdict = attendance.VerdictRequireAdjustment
		d.WindowLabel = attendance.LabelOutsidePolicy
	}
}

func allow(d *attendance.ActionDecision, w timeofday.Window, label string) {
	d.Verdict = attendance.VerdictAllow
	d.AllowedWindow = &w
	d.WindowLabel = label
}
