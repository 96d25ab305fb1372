package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeofday"
)

var testLoc = time.FixedZone("WIB", 7*60*60)

func testDay() time.Time {
	return time.Date(2026, time.March, 2, 0, 0, 0, 0, testLoc)
}

func at(clock string) time.Time {
	return timeofday.MustParse(clock).On(testDay())
}

func tod(clock string) *timeofday.TimeOfDay {
	t := timeofday.MustParse(clock)
	return &t
}

func window(start, end string) *timeofday.Window {
	return &timeofday.Window{Start: timeofday.MustParse(start), End: timeofday.MustParse(end)}
}

// fullShift is 08:00-17:00 with no breaks.
func fullShift() schedule.ShiftSchedule {
	return schedule.ShiftSchedule{
		Date:      testDay(),
		StartTime: timeofday.MustParse("08:00:00"),
		EndTime:   timeofday.MustParse("17:00:00"),
	}
}

// splitShift is 08:00-17:00 split by a 12:00-13:00 break.
func splitShift() schedule.ShiftSchedule {
	s := fullShift()
	s.Breaks = []schedule.Break{{
		BreakStart:   timeofday.MustParse("12:00:00"),
		BreakEnd:     timeofday.MustParse("13:00:00"),
		IsShiftSplit: true,
	}}
	return s
}

func punches(inAM, outAM, inPM, outPM string) attendance.PunchLog {
	var log attendance.PunchLog
	if inAM != "" {
		log.InMorning = tod(inAM)
	}
	if outAM != "" {
		log.OutMorning = tod(outAM)
	}
	if inPM != "" {
		log.InAfternoon = tod(inPM)
	}
	if outPM != "" {
		log.OutAfternoon = tod(outPM)
	}
	return log
}
