package attendance

import "time"

// Policy holds the numeric rules shared by the resolver and the sync guard.
type Policy struct {
	// GracePeriodMinutes is measured from the canonical opening time of an
	// in-punch, never from the close of its window.
	GracePeriodMinutes int

	// BreakInExtensionMinutes extends the split break's in-window.
	BreakInExtensionMinutes int

	// ClockDriftThreshold is the largest device/trusted offset still in sync.
	ClockDriftThreshold time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		GracePeriodMinutes:      60,
		BreakInExtensionMinutes: 60,
		ClockDriftThreshold:     2 * time.Minute,
	}
}

// withDefaults fills zero fields from DefaultPolicy.
func (p Policy) withDefaults() Policy {
	d := DefaultPolicy()
	if p.GracePeriodMinutes <= 0 {
		p.GracePeriodMinutes = d.GracePeriodMinutes
	}
	if p.BreakInExtensionMinutes <= 0 {
		p.BreakInExtensionMinutes = d.BreakInExtensionMinutes
	}
	if p.ClockDriftThreshold <= 0 {
		p.ClockDriftThreshold = d.ClockDriftThreshold
	}
	return p
}
