package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
)

type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	clock             clock.TrustedClock
}

func NewAttendanceJobs(attendanceService attendance.AttendanceService, trustedClock clock.TrustedClock) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceService: attendanceService,
		clock:             trustedClock,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	scheduler.AddJob("recompute_attendance_credits", interval, j.RecomputeCredits)
}

// RecomputeCredits refreshes the stored credit of every punch log from the
// previous day in the trusted timezone. Safe to repeat.
func (j *AttendanceJobs) RecomputeCredits(ctx context.Context) error {
	yesterday := clock.Today(j.clock).AddDate(0, 0, -1)

	slog.Info("Cron: Starting recompute attendance credits job", "date", yesterday.Format("2006-01-02"))

	count, err := j.attendanceService.RecomputeCredits(ctx, yesterday)
	if err != nil {
		return fmt.Errorf("failed to recompute credits: %w", err)
	}

	slog.Info("Cron: Recompute attendance credits completed", "date", yesterday.Format("2006-01-02"), "recomputed", count)
	return nil
}
