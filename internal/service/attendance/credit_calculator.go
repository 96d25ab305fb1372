package attendance

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeofday"
	"github.com/shopspring/decimal"
)

// creditPrecision is the number of decimal places kept in WorkCredit.
const creditPrecision = 4

// CreditCalculator derives payroll quantities from a schedule and a punch log.
type CreditCalculator struct{}

func NewCreditCalculator() *CreditCalculator {
	return &CreditCalculator{}
}

// Compute never fails. An empty log yields an all-zero, incomplete report;
// partial logs count only the pairs that are fully punched.
func (c *CreditCalculator) Compute(s schedule.ShiftSchedule, log attendance.PunchLog) attendance.CreditReport {
	if log.IsEmpty() {
		return attendance.CreditReport{WorkCredit: decimal.Zero}
	}

	breakMinutes := s.BreakMinutes()
	net := timeofday.MinutesBetween(s.StartTime, s.EndTime) - breakMinutes
	if net < 0 {
		net = 0
	}

	segments := c.segments(s, log)

	rendered := 0
	complete := true
	for _, seg := range segments {
		complete = complete && seg.Complete
	}
	// Any fully punched pair counts, even one the schedule does not expect.
	rendered += pairMinutes(log.InMorning, log.OutMorning)
	rendered += pairMinutes(log.InAfternoon, log.OutAfternoon)

	report := attendance.CreditReport{
		RenderedMinutes: rendered,
		BreakMinutes:    breakMinutes,
		NetWorkMinutes:  net,
		WorkCredit:      WorkCredit(rendered, net),
		EarlyOutMinutes: max(0, net-rendered),
		OvertimeMinutes: max(0, rendered-net),
		Complete:        complete,
		Segments:        segments,
	}
	if len(segments) > 0 {
		report.LateMinutes = segments[0].LateMinutes
	}
	return report
}

func (c *CreditCalculator) segments(s schedule.ShiftSchedule, log attendance.PunchLog) []attendance.SegmentCredit {
	split, ok := s.SplitBreak()
	if !ok {
		return []attendance.SegmentCredit{
			segmentCredit(attendance.SegmentFull, s.StartTime, log.InMorning, log.OutMorning),
		}
	}
	return []attendance.SegmentCredit{
		segmentCredit(attendance.SegmentAM, s.StartTime, log.InMorning, log.OutMorning),
		segmentCredit(attendance.SegmentPM, split.BreakEnd, log.InAfternoon, log.OutAfternoon),
	}
}

func segmentCredit(seg attendance.Segment, canonicalStart timeofday.TimeOfDay, in, out *timeofday.TimeOfDay) attendance.SegmentCredit {
	sc := attendance.SegmentCredit{
		Segment:         seg,
		RenderedMinutes: pairMinutes(in, out),
		Complete:        in != nil && out != nil,
	}
	if in != nil {
		sc.LateMinutes = timeofday.ElapsedMinutes(canonicalStart, *in)
	}
	return sc
}

func pairMinutes(in, out *timeofday.TimeOfDay) int {
	if in == nil || out == nil {
		return 0
	}
	return timeofday.ElapsedMinutes(*in, *out)
}

// WorkCredit is min(1, rendered/net) rounded to four places, or zero when
// net is not positive.
func WorkCredit(rendered, net int) decimal.Decimal {
	if net <= 0 || rendered <= 0 {
		return decimal.Zero
	}
	credit := decimal.NewFromInt(int64(rendered)).DivRound(decimal.NewFromInt(int64(net)), creditPrecision)
	if credit.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return credit
}
