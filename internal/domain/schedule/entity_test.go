package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeofday"
	"github.com/stretchr/testify/assert"
)

var tod = timeofday.MustParse

func TestShiftSchedule_DefaultWindows(t *testing.T) {
	s := ShiftSchedule{StartTime: tod("08:00:00"), EndTime: tod("17:00:00")}

	assert.Equal(t, timeofday.Window{Start: tod("08:00:00"), End: tod("09:00:00")}, s.InWindow())
	assert.Equal(t, timeofday.Window{Start: tod("17:00:00"), End: tod("18:00:00")}, s.OutWindow())
}

func TestShiftSchedule_ExplicitWindows(t *testing.T) {
	in := timeofday.Window{Start: tod("07:30:00"), End: tod("08:15:00")}
	out := timeofday.Window{Start: tod("16:45:00"), End: tod("17:30:00")}
	s := ShiftSchedule{StartTime: tod("08:00:00"), EndTime: tod("17:00:00"), ValidInWindow: &in, ValidOutWindow: &out}

	assert.Equal(t, in, s.InWindow())
	assert.Equal(t, out, s.OutWindow())
}

func TestBreak_DefaultWindows(t *testing.T) {
	b := Break{BreakStart: tod("12:00:00"), BreakEnd: tod("13:00:00")}

	assert.Equal(t, timeofday.Window{Start: tod("12:00:00"), End: tod("12:30:00")}, b.OutWindow())
	assert.Equal(t, timeofday.Window{Start: tod("12:30:00"), End: tod("13:00:00")}, b.InWindow())
	assert.Equal(t, 60, b.Minutes())
}

func TestBreak_ShortBreakClampsMidpoint(t *testing.T) {
	b := Break{BreakStart: tod("10:00:00"), BreakEnd: tod("10:15:00")}

	assert.Equal(t, tod("10:15:00"), b.OutWindow().End)
	assert.Equal(t, timeofday.Window{Start: tod("10:15:00"), End: tod("10:15:00")}, b.InWindow())
}

func TestShiftSchedule_SplitBreakPicksFirst(t *testing.T) {
	s := ShiftSchedule{
		StartTime: tod("08:00:00"),
		EndTime:   tod("20:00:00"),
		Breaks: []Break{
			{BreakStart: tod("10:00:00"), BreakEnd: tod("10:15:00")},
			{BreakStart: tod("12:00:00"), BreakEnd: tod("13:00:00"), IsShiftSplit: true},
			{BreakStart: tod("16:00:00"), BreakEnd: tod("17:00:00"), IsShiftSplit: true},
		},
	}

	b, ok := s.SplitBreak()
	assert.True(t, ok)
	assert.Equal(t, tod("12:00:00"), b.BreakStart)
	assert.Equal(t, 2, s.SplitBreakCount())
	assert.Equal(t, 135, s.BreakMinutes())
	assert.True(t, s.IsSplit())
}

func TestShiftSchedule_Validate(t *testing.T) {
	valid := ShiftSchedule{
		StartTime: tod("08:00:00"),
		EndTime:   tod("17:00:00"),
		Breaks:    []Break{{BreakStart: tod("12:00:00"), BreakEnd: tod("13:00:00")}},
	}
	assert.NoError(t, valid.Validate())

	cases := map[string]ShiftSchedule{
		"start equals end": {StartTime: tod("08:00:00"), EndTime: tod("08:00:00")},
		"start after end":  {StartTime: tod("17:00:00"), EndTime: tod("08:00:00")},
		"inverted break": {
			StartTime: tod("08:00:00"), EndTime: tod("17:00:00"),
			Breaks: []Break{{BreakStart: tod("13:00:00"), BreakEnd: tod("12:00:00")}},
		},
		"break before shift": {
			StartTime: tod("08:00:00"), EndTime: tod("17:00:00"),
			Breaks: []Break{{BreakStart: tod("07:00:00"), BreakEnd: tod("08:30:00")}},
		},
		"break after shift": {
			StartTime: tod("08:00:00"), EndTime: tod("17:00:00"),
			Breaks: []Break{{BreakStart: tod("16:30:00"), BreakEnd: tod("17:30:00")}},
		},
	}
	for name, s := range cases {
		err := s.Validate()
		if !errors.Is(err, ErrInvalidSchedule) {
			t.Errorf("%s: Validate() = %v, want ErrInvalidSchedule", name, err)
		}
	}
}

func TestWorkScheduleTime_ForDate(t *testing.T) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	wst := WorkScheduleTime{
		DayOfWeek:    1,
		ClockInTime:  tod("08:00:00"),
		ClockOutTime: tod("17:00:00"),
		Breaks:       []Break{{BreakStart: tod("12:00:00"), BreakEnd: tod("13:00:00"), IsShiftSplit: true}},
	}

	s := wst.ForDate(date)
	assert.Equal(t, date, s.Date)
	assert.Equal(t, tod("08:00:00"), s.StartTime)
	assert.True(t, s.IsSplit())

	// the copy must not alias the source breaks
	s.Breaks[0].IsShiftSplit = false
	assert.True(t, wst.Breaks[0].IsShiftSplit)
}
