package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
)

// ClockSyncGuard rejects device clocks that drift from the trusted clock.
type ClockSyncGuard struct {
	threshold time.Duration
}

func NewClockSyncGuard(threshold time.Duration) *ClockSyncGuard {
	return &ClockSyncGuard{threshold: threshold}
}

// Check compares deviceNow against the trusted now. An offset of exactly the
// threshold is still in sync. Calendar dates are compared in now's location
// so a device reporting UTC is not flagged for its own zone alone.
func (g *ClockSyncGuard) Check(now, deviceNow time.Time) (attendance.SyncResult, error) {
	offset := deviceNow.Sub(now)

	ny, nm, nd := now.Date()
	dy, dm, dd := deviceNow.In(now.Location()).Date()
	dateMismatch := ny != dy || nm != dm || nd != dd

	abs := offset
	if abs < 0 {
		abs = -abs
	}
	drifted := abs > g.threshold

	result := attendance.SyncResult{
		TrustedNow:   now,
		DeviceNow:    deviceNow,
		Offset:       offset,
		DateMismatch: dateMismatch,
		InSync:       !drifted && !dateMismatch,
	}
	if !result.InSync {
		return result, &attendance.ClockDriftError{
			Offset:       offset,
			Threshold:    g.threshold,
			DateMismatch: dateMismatch,
		}
	}
	return result, nil
}
