package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
)

// ShiftEngine is the pure decision core used by the attendance service. It
// performs no I/O and holds no mutable state, so one instance is shared by
// every request.
type ShiftEngine interface {
	// ResolveNextAction decides which punch is expected next and classifies now.
	// It fails only for an invalid schedule.
	ResolveNextAction(s schedule.ShiftSchedule, log PunchLog, now, deviceNow time.Time) (ActionDecision, error)

	// ComputeCredit derives payroll quantities from the log. It never fails.
	ComputeCredit(s schedule.ShiftSchedule, log PunchLog) CreditReport

	// CheckClockSync compares a device clock with the trusted clock.
	CheckClockSync(now, deviceNow time.Time) (SyncResult, error)
}
