package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeofday"
	"github.com/shopspring/decimal"
)

// Verdict is the policy outcome for the instant a punch is attempted.
type Verdict string

const (
	VerdictAllow                Verdict = "ALLOW"
	VerdictAllowEarlyOutConfirm Verdict = "ALLOW_EARLY_OUT_CONFIRM"
	VerdictLateWithinGrace      Verdict = "LATE_WITHIN_GRACE"
	VerdictRequireAdjustment    Verdict = "REQUIRE_ADJUSTMENT"
	VerdictAlreadyComplete      Verdict = "ALREADY_COMPLETE"
	VerdictNotToday             Verdict = "NOT_TODAY"
	VerdictResyncRequired       Verdict = "RESYNC_REQUIRED"
)

// Recordable reports whether a punch may be written for v. Early-out
// additionally needs the caller's confirmation.
func (v Verdict) Recordable() bool {
	return v == VerdictAllow || v == VerdictLateWithinGrace || v == VerdictAllowEarlyOutConfirm
}

// Segment identifies which punch pair a decision belongs to.
type Segment string

const (
	SegmentFull Segment = "FULL"
	SegmentAM   Segment = "AM"
	SegmentPM   Segment = "PM"
)

// Audit labels for the window a decision was judged against.
const (
	LabelInWindow          = "in_window"
	LabelInWindowExtension = "in_window_extension"
	LabelLateGrace         = "late_grace"
	LabelOutWindow         = "out_window"
	LabelEarlyOut          = "early_out"
	LabelOutsidePolicy     = "outside_policy"
)

// ActionDecision is the resolver's answer for one (schedule, log, now) triple.
type ActionDecision struct {
	ExpectedField PunchField
	Segment       Segment
	Verdict       Verdict
	AllowedWindow *timeofday.Window
	WindowLabel   string
	LateMinutes   int
	EarlyMinutes  int
	EvaluatedAt   time.Time
}

// SegmentCredit is the per-segment share of a CreditReport.
type SegmentCredit struct {
	Segment         Segment
	RenderedMinutes int
	LateMinutes     int
	Complete        bool
}

// CreditReport holds the payroll quantities derived from a punch log.
// WorkCredit = min(1, Rendered/Net) when Net > 0, else 0.
type CreditReport struct {
	RenderedMinutes int
	BreakMinutes    int
	NetWorkMinutes  int
	WorkCredit      decimal.Decimal
	EarlyOutMinutes int
	LateMinutes     int
	OvertimeMinutes int
	Complete        bool
	Segments        []SegmentCredit
}

// SyncResult compares a device clock with the trusted clock.
type SyncResult struct {
	TrustedNow   time.Time
	DeviceNow    time.Time
	Offset       time.Duration // device minus trusted
	DateMismatch bool
	InSync       bool
}
