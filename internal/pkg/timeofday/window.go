package timeofday

import (
	"fmt"
	"time"
)

// Window is an inclusive [Start, End] interval within one day.
type Window struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// WindowFrom returns [start, start+minutes], saturating at EndOfDay.
func WindowFrom(start TimeOfDay, minutes int) Window {
	return Window{Start: start, End: addMinutesClamped(start, minutes)}
}

// Contains reports whether t lies inside w, bounds included.
func (w Window) Contains(t TimeOfDay) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Extend pushes End out by minutes, saturating at EndOfDay.
func (w Window) Extend(minutes int) Window {
	return Window{Start: w.Start, End: addMinutesClamped(w.End, minutes)}
}

func (w Window) IsZero() bool {
	return w.Start.Equal(Midnight) && w.End.Equal(Midnight)
}

func (w Window) String() string {
	return fmt.Sprintf("[%s, %s]", w.Start, w.End)
}

// WithinWindow compares the wall-clock part of instant, on instant's own
// calendar date, against [start, end] inclusive.
func WithinWindow(instant time.Time, start, end TimeOfDay) bool {
	return Window{Start: start, End: end}.Contains(FromTime(instant))
}
