package schedule

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeofday"
)

// Default window lengths applied when a schedule row leaves them unset.
const (
	DefaultPunchWindowMinutes = 60
	DefaultBreakOutMinutes    = 30
)

// WorkScheduleTime is one weekday row of a work schedule.
type WorkScheduleTime struct {
	DayOfWeek      int // 1=Monday, ..., 7=Sunday
	ClockInTime    timeofday.TimeOfDay
	ClockOutTime   timeofday.TimeOfDay
	ValidInWindow  *timeofday.Window
	ValidOutWindow *timeofday.Window
	Breaks         []Break
}

// Break is a scheduled pause inside a shift. A break flagged IsShiftSplit
// divides the day into separately punched AM and PM segments.
type Break struct {
	BreakStart     timeofday.TimeOfDay
	BreakEnd       timeofday.TimeOfDay
	BreakOutWindow *timeofday.Window
	BreakInWindow  *timeofday.Window
	IsShiftSplit   bool
}

// midpoint is where the default out-window ends and the in-window begins.
func (b Break) midpoint() timeofday.TimeOfDay {
	mid := timeofday.WindowFrom(b.BreakStart, DefaultBreakOutMinutes).End
	if mid.After(b.BreakEnd) {
		return b.BreakEnd
	}
	return mid
}

// OutWindow is the window for punching out for the break.
func (b Break) OutWindow() timeofday.Window {
	if b.BreakOutWindow != nil {
		return *b.BreakOutWindow
	}
	return timeofday.Window{Start: b.BreakStart, End: b.midpoint()}
}

// InWindow is the window for punching back in from the break.
func (b Break) InWindow() timeofday.Window {
	if b.BreakInWindow != nil {
		return *b.BreakInWindow
	}
	return timeofday.Window{Start: b.midpoint(), End: b.BreakEnd}
}

func (b Break) Minutes() int {
	return timeofday.ElapsedMinutes(b.BreakStart, b.BreakEnd)
}

// ShiftSchedule is the effective shift of one employee on one date.
// It is resolved once by the caller and never mutated by the engine.
type ShiftSchedule struct {
	Date           time.Time
	StartTime      timeofday.TimeOfDay
	EndTime        timeofday.TimeOfDay
	Breaks         []Break
	ValidInWindow  *timeofday.Window
	ValidOutWindow *timeofday.Window
}

// InWindow is the clock-in window, defaulting to an hour from StartTime.
func (s ShiftSchedule) InWindow() timeofday.Window {
	if s.ValidInWindow != nil {
		return *s.ValidInWindow
	}
	return timeofday.WindowFrom(s.StartTime, DefaultPunchWindowMinutes)
}

// OutWindow is the clock-out window, defaulting to an hour from EndTime.
func (s ShiftSchedule) OutWindow() timeofday.Window {
	if s.ValidOutWindow != nil {
		return *s.ValidOutWindow
	}
	return timeofday.WindowFrom(s.EndTime, DefaultPunchWindowMinutes)
}

// SplitBreak returns the first break, in list order, flagged IsShiftSplit.
func (s ShiftSchedule) SplitBreak() (Break, bool) {
	for _, b := range s.Breaks {
		if b.IsShiftSplit {
			return b, true
		}
	}
	return Break{}, false
}

func (s ShiftSchedule) IsSplit() bool {
	_, ok := s.SplitBreak()
	return ok
}

// SplitBreakCount counts breaks flagged IsShiftSplit. Only the first is honoured.
func (s ShiftSchedule) SplitBreakCount() int {
	n := 0
	for _, b := range s.Breaks {
		if b.IsShiftSplit {
			n++
		}
	}
	return n
}

// BreakMinutes sums the nominal length of every break.
func (s ShiftSchedule) BreakMinutes() int {
	total := 0
	for _, b := range s.Breaks {
		total += b.Minutes()
	}
	return total
}

// Validate checks start < end and that every break lies inside the shift.
func (s ShiftSchedule) Validate() error {
	if !s.StartTime.Before(s.EndTime) {
		return &InvalidScheduleError{Reason: "start time must be before end time"}
	}
	for i, b := range s.Breaks {
		if !b.BreakStart.Before(b.BreakEnd) {
			return &InvalidScheduleError{BreakIndex: &i, Reason: "break start must be before break end"}
		}
		if b.BreakStart.Before(s.StartTime) || b.BreakEnd.After(s.EndTime) {
			return &InvalidScheduleError{BreakIndex: &i, Reason: "break lies outside shift bounds"}
		}
	}
	return nil
}

// ForDate copies the schedule onto a calendar date.
func (t WorkScheduleTime) ForDate(date time.Time) ShiftSchedule {
	breaks := make([]Break, len(t.Breaks))
	copy(breaks, t.Breaks)
	return ShiftSchedule{
		Date:           date,
		StartTime:      t.ClockInTime,
		EndTime:        t.ClockOutTime,
		Breaks:         breaks,
		ValidInWindow:  t.ValidInWindow,
		ValidOutWindow: t.ValidOutWindow,
	}
}
