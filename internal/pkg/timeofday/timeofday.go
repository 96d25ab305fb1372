package timeofday

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	secondsPerMinute = 60
	secondsPerDay    = 24 * 60 * 60
)

// ErrInvalidTime is matched by every InvalidTimeError via errors.Is.
var ErrInvalidTime = errors.New("invalid time of day")

// InvalidTimeError reports a malformed or out-of-range time of day.
type InvalidTimeError struct {
	Input  string
	Reason string
}

func (e *InvalidTimeError) Error() string {
	return fmt.Sprintf("invalid time of day %q: %s", e.Input, e.Reason)
}

func (e *InvalidTimeError) Is(target error) bool {
	return target == ErrInvalidTime
}

// TimeOfDay is a wall-clock time without a date, second precision.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// Midnight and EndOfDay bound every valid TimeOfDay.
var (
	Midnight = TimeOfDay{}
	EndOfDay = TimeOfDay{Hour: 23, Minute: 59, Second: 59}
)

// New builds a TimeOfDay, rejecting out-of-range components.
func New(hour, minute, second int) (TimeOfDay, error) {
	t := TimeOfDay{Hour: hour, Minute: minute, Second: second}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return TimeOfDay{}, &InvalidTimeError{Input: t.String(), Reason: "component out of range"}
	}
	return t, nil
}

// Parse accepts "HH:MM:SS" or "HH:MM". Components must be two digits.
func Parse(s string) (TimeOfDay, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeOfDay{}, &InvalidTimeError{Input: s, Reason: "expected HH:MM or HH:MM:SS"}
	}

	values := make([]int, 3)
	for i, p := range parts {
		if len(p) != 2 || p[0] < '0' || p[0] > '9' || p[1] < '0' || p[1] > '9' {
			return TimeOfDay{}, &InvalidTimeError{Input: s, Reason: "components must be two digits"}
		}
		v, _ := strconv.Atoi(p)
		values[i] = v
	}

	t, err := New(values[0], values[1], values[2])
	if err != nil {
		return TimeOfDay{}, &InvalidTimeError{Input: s, Reason: "component out of range"}
	}
	return t, nil
}

// MustParse is Parse for constants and tests; it panics on malformed input.
func MustParse(s string) TimeOfDay {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// FromTime takes the wall-clock part of t in t's own location.
func FromTime(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

func fromSeconds(total int) TimeOfDay {
	return TimeOfDay{
		Hour:   total / 3600,
		Minute: (total % 3600) / secondsPerMinute,
		Second: total % secondsPerMinute,
	}
}

// Seconds since midnight.
func (t TimeOfDay) Seconds() int {
	return t.Hour*3600 + t.Minute*secondsPerMinute + t.Second
}

// On places t on the calendar date of date, in date's location.
func (t TimeOfDay) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, t.Second, 0, date.Location())
}

func (t TimeOfDay) Before(u TimeOfDay) bool { return t.Seconds() < u.Seconds() }
func (t TimeOfDay) After(u TimeOfDay) bool  { return t.Seconds() > u.Seconds() }
func (t TimeOfDay) Equal(u TimeOfDay) bool  { return t.Seconds() == u.Seconds() }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// AddMinutes offsets t. Results outside the same day are rejected;
// wrapping past midnight is not supported.
func AddMinutes(t TimeOfDay, minutes int) (TimeOfDay, error) {
	total := t.Seconds() + minutes*secondsPerMinute
	if total < 0 || total >= secondsPerDay {
		return TimeOfDay{}, &InvalidTimeError{
			Input:  fmt.Sprintf("%s%+dm", t, minutes),
			Reason: "result leaves the calendar day",
		}
	}
	return fromSeconds(total), nil
}

// addMinutesClamped saturates at Midnight/EndOfDay instead of failing.
func addMinutesClamped(t TimeOfDay, minutes int) TimeOfDay {
	total := t.Seconds() + minutes*secondsPerMinute
	switch {
	case total < 0:
		return Midnight
	case total >= secondsPerDay:
		return EndOfDay
	}
	return fromSeconds(total)
}

// MinutesBetween returns b - a in whole minutes, truncated toward zero.
// The result is negative when b is before a.
func MinutesBetween(a, b TimeOfDay) int {
	return (b.Seconds() - a.Seconds()) / secondsPerMinute
}

// ElapsedMinutes is MinutesBetween clamped at zero.
func ElapsedMinutes(a, b TimeOfDay) int {
	return max(0, MinutesBetween(a, b))
}
