package attendance

import (
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeofday"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var one = decimal.NewFromInt(1)

func TestCreditCalculator_FullShiftRoundTrip(t *testing.T) {
	report := NewCreditCalculator().Compute(fullShift(), punches("08:00:00", "17:00:00", "", ""))

	assert.Equal(t, 540, report.RenderedMinutes)
	assert.Equal(t, 540, report.NetWorkMinutes)
	assert.Equal(t, 0, report.BreakMinutes)
	assert.True(t, report.WorkCredit.Equal(one), report.WorkCredit.String())
	assert.Equal(t, 0, report.EarlyOutMinutes)
	assert.Equal(t, 0, report.OvertimeMinutes)
	assert.Equal(t, 0, report.LateMinutes)
	assert.True(t, report.Complete)
	require.Len(t, report.Segments, 1)
	assert.Equal(t, attendance.SegmentFull, report.Segments[0].Segment)
}

func TestCreditCalculator_SplitShift(t *testing.T) {
	report := NewCreditCalculator().Compute(splitShift(), punches("08:00:00", "12:05:00", "13:00:00", "17:00:00"))

	assert.Equal(t, 485, report.RenderedMinutes)
	assert.Equal(t, 60, report.BreakMinutes)
	assert.Equal(t, 480, report.NetWorkMinutes)
	assert.True(t, report.WorkCredit.Equal(one), report.WorkCredit.String())
	assert.Equal(t, 0, report.EarlyOutMinutes)
	assert.Equal(t, 5, report.OvertimeMinutes)
	assert.True(t, report.Complete)

	require.Len(t, report.Segments, 2)
	assert.Equal(t, attendance.SegmentCredit{Segment: attendance.SegmentAM, RenderedMinutes: 245, Complete: true}, report.Segments[0])
	assert.Equal(t, attendance.SegmentCredit{Segment: attendance.SegmentPM, RenderedMinutes: 240, Complete: true}, report.Segments[1])
}

func TestCreditCalculator_SplitShift_PMLateFromBreakEnd(t *testing.T) {
	report := NewCreditCalculator().Compute(splitShift(), punches("08:00:00", "12:00:00", "13:15:00", "17:00:00"))

	require.Len(t, report.Segments, 2)
	assert.Equal(t, 0, report.Segments[0].LateMinutes)
	assert.Equal(t, 15, report.Segments[1].LateMinutes)
	assert.Equal(t, 225, report.Segments[1].RenderedMinutes)
}

func TestCreditCalculator_LateMinutesFromCanonicalStart(t *testing.T) {
	report := NewCreditCalculator().Compute(fullShift(), punches("08:45:00", "17:00:00", "", ""))

	assert.Equal(t, 45, report.LateMinutes)
	assert.Equal(t, 495, report.RenderedMinutes)
	assert.Equal(t, 45, report.EarlyOutMinutes)
	assert.True(t, report.WorkCredit.Equal(decimal.RequireFromString("0.9167")), report.WorkCredit.String())
}

func TestCreditCalculator_EmptyLog_ZeroReport(t *testing.T) {
	report := NewCreditCalculator().Compute(splitShift(), attendance.PunchLog{})

	assert.Equal(t, 0, report.RenderedMinutes)
	assert.Equal(t, 0, report.NetWorkMinutes)
	assert.Equal(t, 0, report.BreakMinutes)
	assert.Equal(t, 0, report.EarlyOutMinutes)
	assert.Equal(t, 0, report.OvertimeMinutes)
	assert.True(t, report.WorkCredit.IsZero())
	assert.False(t, report.Complete)
	assert.Empty(t, report.Segments)
}

func TestCreditCalculator_PartialLog(t *testing.T) {
	calc := NewCreditCalculator()

	report := calc.Compute(fullShift(), punches("08:10:00", "", "", ""))
	assert.Equal(t, 0, report.RenderedMinutes)
	assert.Equal(t, 540, report.NetWorkMinutes)
	assert.Equal(t, 540, report.EarlyOutMinutes)
	assert.Equal(t, 10, report.LateMinutes)
	assert.True(t, report.WorkCredit.IsZero())
	assert.False(t, report.Complete)

	report = calc.Compute(splitShift(), punches("08:00:00", "12:00:00", "", ""))
	assert.Equal(t, 240, report.RenderedMinutes)
	assert.True(t, report.WorkCredit.Equal(decimal.RequireFromString("0.5")), report.WorkCredit.String())
	assert.False(t, report.Complete)
	assert.True(t, report.Segments[0].Complete)
	assert.False(t, report.Segments[1].Complete)
}

func TestCreditCalculator_NonSplitBreakDeductedFromNet(t *testing.T) {
	s := fullShift()
	s.Breaks = []schedule.Break{{
		BreakStart: timeofday.MustParse("12:00:00"),
		BreakEnd:   timeofday.MustParse("13:00:00"),
	}}

	report := NewCreditCalculator().Compute(s, punches("08:00:00", "17:00:00", "", ""))

	assert.Equal(t, 60, report.BreakMinutes)
	assert.Equal(t, 480, report.NetWorkMinutes)
	assert.Equal(t, 540, report.RenderedMinutes)
	assert.Equal(t, 60, report.OvertimeMinutes)
	assert.True(t, report.WorkCredit.Equal(one))
}

func TestCreditCalculator_OutBeforeInContributesNothing(t *testing.T) {
	report := NewCreditCalculator().Compute(fullShift(), punches("17:00:00", "08:00:00", "", ""))

	assert.Equal(t, 0, report.RenderedMinutes)
	assert.True(t, report.WorkCredit.IsZero())
}

func TestCreditCalculator_Idempotent(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	log := punches("08:03:00", "12:05:00", "13:10:00", "16:40:00")

	first := engine.ComputeCredit(splitShift(), log)
	second := engine.ComputeCredit(splitShift(), log)

	assert.Equal(t, first, second)
}

func TestWorkCredit_AlwaysInUnitInterval(t *testing.T) {
	for net := 0; net <= 600; net += 60 {
		for rendered := 0; rendered <= 1200; rendered += 35 {
			credit := WorkCredit(rendered, net)
			assert.False(t, credit.IsNegative(), "rendered=%d net=%d", rendered, net)
			assert.False(t, credit.GreaterThan(one), "rendered=%d net=%d", rendered, net)
			if net == 0 {
				assert.True(t, credit.IsZero())
			}
		}
	}
}

func TestWorkCredit_Rounding(t *testing.T) {
	assert.Equal(t, "0.3333", WorkCredit(180, 540).String())
	assert.Equal(t, "1", WorkCredit(600, 540).String())
	assert.Equal(t, "0", WorkCredit(0, 540).String())
}
