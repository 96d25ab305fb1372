package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeofday"
)

// ActionResolver decides which punch is expected next and how the current
// instant is classified. State is derived from which log fields are set.
type ActionResolver struct {
	policy Policy
	guard  *ClockSyncGuard
}

func NewActionResolver(policy Policy) *ActionResolver {
	policy = policy.withDefaults()
	return &ActionResolver{
		policy: policy,
		guard:  NewClockSyncGuard(policy.ClockDriftThreshold),
	}
}

// Resolve evaluates, in order: device clock sync, completeness, the
// schedule date, then the first incomplete segment (AM before PM).
func (r *ActionResolver) Resolve(s schedule.ShiftSchedule, log attendance.PunchLog, now, deviceNow time.Time) (attendance.ActionDecision, error) {
	if err := s.Validate(); err != nil {
		return attendance.ActionDecision{}, err
	}

	if _, err := r.guard.Check(now, deviceNow); err != nil {
		return attendance.ActionDecision{
			Verdict:     attendance.VerdictResyncRequired,
			EvaluatedAt: now,
		}, nil
	}

	segments := r.segments(s)

	var (
		pending    segmentResolver
		target     punchTarget
		hasPending bool
	)
	for _, seg := range segments {
		if t, ok := seg.next(log); ok {
			pending, target, hasPending = seg, t, true
			break
		}
	}

	if !hasPending {
		return attendance.ActionDecision{
			Segment:     segments[len(segments)-1].segment,
			Verdict:     attendance.VerdictAlreadyComplete,
			EvaluatedAt: now,
		}, nil
	}

	if !sameDate(s.Date, now) {
		return attendance.ActionDecision{
			ExpectedField: target.field,
			Segment:       pending.segment,
			Verdict:       attendance.VerdictNotToday,
			EvaluatedAt:   now,
		}, nil
	}

	d := pending.resolve(target, timeofday.FromTime(now), r.policy.GracePeriodMinutes)
	d.EvaluatedAt = now
	return d, nil
}

// segments builds the ordered segment list for s: one full-shift segment,
// or AM and PM segments around the split break.
func (r *ActionResolver) segments(s schedule.ShiftSchedule) []segmentResolver {
	split, ok := s.SplitBreak()
	if !ok {
		return []segmentResolver{{
			segment: attendance.SegmentFull,
			in: punchTarget{
				field:     attendance.FieldInMorning,
				window:    s.InWindow(),
				lateBase:  s.StartTime,
				graceBase: s.StartTime,
			},
			out: punchTarget{
				field:        attendance.FieldOutMorning,
				window:       s.OutWindow(),
				scheduledEnd: s.EndTime,
				isOut:        true,
			},
		}}
	}

	breakIn := split.InWindow()
	return []segmentResolver{
		{
			segment: attendance.SegmentAM,
			in: punchTarget{
				field:     attendance.FieldInMorning,
				window:    s.InWindow(),
				lateBase:  s.StartTime,
				graceBase: s.StartTime,
			},
			out: punchTarget{
				field:        attendance.FieldOutMorning,
				window:       split.OutWindow(),
				scheduledEnd: split.BreakStart,
				isOut:        true,
			},
		},
		{
			segment: attendance.SegmentPM,
			in: punchTarget{
				field:     attendance.FieldInAfternoon,
				window:    breakIn,
				lateBase:  split.BreakEnd,
				graceBase: breakIn.Start,
				extension: r.policy.BreakInExtensionMinutes,
			},
			out: punchTarget{
				field:        attendance.FieldOutAfternoon,
				window:       s.OutWindow(),
				scheduledEnd: s.EndTime,
				isOut:        true,
			},
		},
	}
}

// sameDate compares calendar dates in a's location.
func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}
