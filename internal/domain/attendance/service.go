package attendance

import (
	"context"
	"time"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// GetPunchStatus resolves the next expected punch for the authenticated employee
	GetPunchStatus(ctx context.Context, req PunchStatusRequest) (PunchStatusResponse, error)

	// Punch records the next expected punch when the engine allows it
	Punch(ctx context.Context, req PunchRequest) (PunchResponse, error)

	// CheckClockSync compares the caller's device clock with the server clock
	CheckClockSync(ctx context.Context, req ClockSyncRequest) (ClockSyncResponse, error)

	// GetCredit recomputes the credit report of a stored punch log
	GetCredit(ctx context.Context, req CreditRequest) (CreditResponse, error)

	// ClearAttendance nulls all punches of an employee on a date (manager)
	ClearAttendance(ctx context.Context, req ClearAttendanceRequest) error

	// CreateAdjustmentRequest asks a manager to write a refused punch
	CreateAdjustmentRequest(ctx context.Context, req CreateAdjustmentRequest) (AdjustmentResponse, error)

	// ListAdjustmentRequests lists requests with filters (manager)
	ListAdjustmentRequests(ctx context.Context, filter AdjustmentFilter) (ListAdjustmentResponse, error)

	// ApproveAdjustmentRequest writes the requested punch and recomputes credit
	ApproveAdjustmentRequest(ctx context.Context, req ApproveAdjustmentRequest) (AdjustmentResponse, error)

	// RejectAdjustmentRequest rejects a request with reason
	RejectAdjustmentRequest(ctx context.Context, req RejectAdjustmentRequest) (AdjustmentResponse, error)

	// RecomputeCredits refreshes the stored credit of every log on date
	RecomputeCredits(ctx context.Context, date time.Time) (int, error)
}
