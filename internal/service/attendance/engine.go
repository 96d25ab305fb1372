package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
)

// Engine ties the resolver, the credit calculator and the sync guard together
// behind attendance.ShiftEngine.
type Engine struct {
	policy   Policy
	resolver *ActionResolver
	credit   *CreditCalculator
	guard    *ClockSyncGuard
}

func NewEngine(policy Policy) *Engine {
	policy = policy.withDefaults()
	return &Engine{
		policy:   policy,
		resolver: NewActionResolver(policy),
		credit:   NewCreditCalculator(),
		guard:    NewClockSyncGuard(policy.ClockDriftThreshold),
	}
}

func (e *Engine) Policy() Policy {
	return e.policy
}

func (e *Engine) ResolveNextAction(s schedule.ShiftSchedule, log attendance.PunchLog, now, deviceNow time.Time) (attendance.ActionDecision, error) {
	return e.resolver.Resolve(s, log, now, deviceNow)
}

func (e *Engine) ComputeCredit(s schedule.ShiftSchedule, log attendance.PunchLog) attendance.CreditReport {
	return e.credit.Compute(s, log)
}

func (e *Engine) CheckClockSync(now, deviceNow time.Time) (attendance.SyncResult, error) {
	return e.guard.Check(now, deviceNow)
}

var _ attendance.ShiftEngine = (*Engine)(nil)
