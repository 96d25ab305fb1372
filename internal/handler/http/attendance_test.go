package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const (
	handlerTestSecret     = "test-secret-key-for-jwt"
	handlerTestAccessExp  = "1h"
	handlerTestCompanyID  = "0190a7e2-6d3c-7b4a-8a2b-000000000001"
	handlerTestEmployeeID = "0190a7e2-6d3c-7b4a-8a2b-000000000002"
)

// stubAttendanceService records the last request and returns canned results.
type stubAttendanceService struct {
	err error

	lastPunch      attendance.PunchRequest
	lastStatus     attendance.PunchStatusRequest
	lastCredit     attendance.CreditRequest
	lastClear      attendance.ClearAttendanceRequest
	lastFilter     attendance.AdjustmentFilter
	lastApprove    attendance.ApproveAdjustmentRequest
	lastReject     attendance.RejectAdjustmentRequest
	lastAdjustment attendance.CreateAdjustmentRequest
	punchCalls     int
}

func (s *stubAttendanceService) GetPunchStatus(ctx context.Context, req attendance.PunchStatusRequest) (attendance.PunchStatusResponse, error) {
	s.lastStatus = req
	if s.err != nil {
		return attendance.PunchStatusResponse{}, s.err
	}
	return attendance.PunchStatusResponse{
		Decision: attendance.DecisionResponse{
			ExpectedField: attendance.FieldInMorning,
			Verdict:       attendance.VerdictAllow,
			CanPunch:      true,
		},
	}, nil
}

func (s *stubAttendanceService) Punch(ctx context.Context, req attendance.PunchRequest) (attendance.PunchResponse, error) {
	s.punchCalls++
	s.lastPunch = req
	if s.err != nil {
		return attendance.PunchResponse{}, s.err
	}
	return attendance.PunchResponse{Field: attendance.FieldInMorning, RecordedAt: "08:00:00"}, nil
}

func (s *stubAttendanceService) CheckClockSync(ctx context.Context, req attendance.ClockSyncRequest) (attendance.ClockSyncResponse, error) {
	if s.err != nil {
		return attendance.ClockSyncResponse{}, s.err
	}
	return attendance.ClockSyncResponse{InSync: true, Timezone: "Asia/Jakarta"}, nil
}

func (s *stubAttendanceService) GetCredit(ctx context.Context, req attendance.CreditRequest) (attendance.CreditResponse, error) {
	s.lastCredit = req
	if s.err != nil {
		return attendance.CreditResponse{}, s.err
	}
	return attendance.CreditResponse{Date: req.Date, RenderedMinutes: 540, NetWorkMinutes: 540}, nil
}

func (s *stubAttendanceService) ClearAttendance(ctx context.Context, req attendance.ClearAttendanceRequest) error {
	s.lastClear = req
	return s.err
}

func (s *stubAttendanceService) CreateAdjustmentRequest(ctx context.Context, req attendance.CreateAdjustmentRequest) (attendance.AdjustmentResponse, error) {
	s.lastAdjustment = req
	if s.err != nil {
		return attendance.AdjustmentResponse{}, s.err
	}
	return attendance.AdjustmentResponse{ID: "adj-1", Status: string(attendance.AdjustmentStatusPending)}, nil
}

func (s *stubAttendanceService) ListAdjustmentRequests(ctx context.Context, filter attendance.AdjustmentFilter) (attendance.ListAdjustmentResponse, error) {
	s.lastFilter = filter
	if s.err != nil {
		return attendance.ListAdjustmentResponse{}, s.err
	}
	return attendance.ListAdjustmentResponse{Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *stubAttendanceService) ApproveAdjustmentRequest(ctx context.Context, req attendance.ApproveAdjustmentRequest) (attendance.AdjustmentResponse, error) {
	s.lastApprove = req
	if s.err != nil {
		return attendance.AdjustmentResponse{}, s.err
	}
	return attendance.AdjustmentResponse{ID: req.ID, Status: string(attendance.AdjustmentStatusApproved)}, nil
}

func (s *stubAttendanceService) RejectAdjustmentRequest(ctx context.Context, req attendance.RejectAdjustmentRequest) (attendance.AdjustmentResponse, error) {
	s.lastReject = req
	if s.err != nil {
		return attendance.AdjustmentResponse{}, s.err
	}
	return attendance.AdjustmentResponse{ID: req.ID, Status: string(attendance.AdjustmentStatusRejected)}, nil
}

func (s *stubAttendanceService) RecomputeCredits(ctx context.Context, date time.Time) (int, error) {
	return 0, s.err
}

type routerFixture struct {
	jwt     jwt.Service
	service *stubAttendanceService
	router  http.Handler
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	jwtService := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp)
	svc := &stubAttendanceService{}
	router := NewRouter(jwtService, RouterOptions{
		Env:            "test",
		PunchRateLimit: rate.Limit(1),
		PunchRateBurst: 2,
	}, NewAttendanceHandler(svc))
	return &routerFixture{jwt: jwtService, service: svc, router: router}
}

func (f *routerFixture) token(t *testing.T, role user.Role) string {
	t.Helper()
	employeeID := handlerTestEmployeeID
	companyID := handlerTestCompanyID
	token, _, err := f.jwt.GenerateAccessToken("user-1", &employeeID, &companyID, role)
	require.NoError(t, err)
	return token
}

func (f *routerFixture) do(t *testing.T, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestRouter_RequiresToken(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/attendance/punch/status?device_time=2026-03-02T08:00:00%2B07:00", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_RejectsTokenWithoutEmployee(t *testing.T) {
	f := newRouterFixture(t)
	token, _, err := f.jwt.GenerateAccessToken("user-1", nil, nil, user.RoleEmployee)
	require.NoError(t, err)

	rec := f.do(t, http.MethodPost, "/api/v1/attendance/clock-sync", token, map[string]string{"device_time": "2026-03-02T08:00:00+07:00"})

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAttendanceHandler_PunchStatus(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/attendance/punch/status?device_time=2026-03-02T08:00:00%2B07:00", f.token(t, user.RoleEmployee), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2026-03-02T08:00:00+07:00", f.service.lastStatus.DeviceTime)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
}

func TestAttendanceHandler_Punch(t *testing.T) {
	f := newRouterFixture(t)
	expected := "in_morning"

	rec := f.do(t, http.MethodPost, "/api/v1/attendance/punch", f.token(t, user.RoleEmployee), map[string]interface{}{
		"device_time":       "2026-03-02T08:00:00+07:00",
		"confirm_early_out": true,
		"expected_field":    expected,
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, f.service.lastPunch.ConfirmEarlyOut)
	require.NotNil(t, f.service.lastPunch.ExpectedField)
	assert.Equal(t, expected, *f.service.lastPunch.ExpectedField)
}

func TestAttendanceHandler_PunchInvalidBody(t *testing.T) {
	f := newRouterFixture(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/punch", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.token(t, user.RoleEmployee))
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, f.service.punchCalls)
}

func TestAttendanceHandler_PunchErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"adjustment required", attendance.ErrAdjustmentRequired, http.StatusUnprocessableEntity, "ADJUSTMENT_REQUIRED"},
		{"early out", attendance.ErrEarlyOutNotConfirmed, http.StatusPreconditionRequired, "EARLY_OUT_CONFIRMATION_REQUIRED"},
		{"complete", attendance.ErrAttendanceComplete, http.StatusConflict, "ATTENDANCE_COMPLETE"},
		{"not today", attendance.ErrNotToday, http.StatusConflict, "NOT_TODAY"},
		{"stale", attendance.ErrStaleDecision, http.StatusConflict, "STALE_DECISION"},
		{"no schedule", attendance.ErrNoScheduleFound, http.StatusNotFound, "NOT_FOUND"},
		{"drift", &attendance.ClockDriftError{Offset: 5 * time.Minute, Threshold: 2 * time.Minute}, http.StatusConflict, "CLOCK_DRIFT"},
		{"validation", validator.ValidationErrors{{Field: "device_time", Message: "device_time is required"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRouterFixture(t)
			f.service.err = tt.err

			rec := f.do(t, http.MethodPost, "/api/v1/attendance/punch", f.token(t, user.RoleEmployee), map[string]string{
				"device_time": "2026-03-02T08:00:00+07:00",
			})

			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeResponse(t, rec)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestAttendanceHandler_ClockDriftDetails(t *testing.T) {
	f := newRouterFixture(t)
	f.service.err = &attendance.ClockDriftError{Offset: 5 * time.Minute, Threshold: 2 * time.Minute}

	rec := f.do(t, http.MethodPost, "/api/v1/attendance/punch", f.token(t, user.RoleEmployee), map[string]string{
		"device_time": "2026-03-02T08:05:00+07:00",
	})

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "300", resp.Error.Details["offset_seconds"])
	assert.Equal(t, "120", resp.Error.Details["threshold_seconds"])
	assert.Equal(t, "false", resp.Error.Details["date_mismatch"])
}

func TestAttendanceHandler_PunchRateLimited(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, user.RoleEmployee)
	body := map[string]string{"device_time": "2026-03-02T08:00:00+07:00"}

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, f.do(t, http.MethodPost, "/api/v1/attendance/punch", token, body).Code)
	}

	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)
	assert.Equal(t, 2, f.service.punchCalls)
}

func TestAttendanceHandler_ClockSync(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/attendance/clock-sync", f.token(t, user.RoleEmployee), map[string]string{
		"device_time": "2026-03-02T08:00:00+07:00",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAttendanceHandler_GetCredit(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/attendance/credit?date=2026-03-02&employee_id="+handlerTestEmployeeID, f.token(t, user.RoleManager), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2026-03-02", f.service.lastCredit.Date)
	require.NotNil(t, f.service.lastCredit.EmployeeID)
	assert.Equal(t, handlerTestEmployeeID, *f.service.lastCredit.EmployeeID)
}

func TestAttendanceHandler_ClearRequiresManager(t *testing.T) {
	f := newRouterFixture(t)
	target := "/api/v1/attendance/logs?date=2026-03-02&employee_id=" + handlerTestEmployeeID

	rec := f.do(t, http.MethodDelete, target, f.token(t, user.RoleEmployee), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodDelete, target, f.token(t, user.RoleManager), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, handlerTestEmployeeID, f.service.lastClear.EmployeeID)
	assert.Equal(t, "2026-03-02", f.service.lastClear.Date)
}

func TestAttendanceHandler_Adjustments(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/attendance/adjustments", f.token(t, user.RoleEmployee), map[string]string{
		"date":           "2026-03-02",
		"field":          "in_morning",
		"requested_time": "08:00:00",
		"reason":         "badge reader offline",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "badge reader offline", f.service.lastAdjustment.Reason)

	rec = f.do(t, http.MethodGet, "/api/v1/attendance/adjustments?status=pending&page=2&limit=5", f.token(t, user.RoleManager), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, f.service.lastFilter.Status)
	assert.Equal(t, "pending", *f.service.lastFilter.Status)
	assert.Equal(t, 2, f.service.lastFilter.Page)
	assert.Equal(t, 5, f.service.lastFilter.Limit)

	rec = f.do(t, http.MethodPost, "/api/v1/attendance/adjustments/adj-1/approve", f.token(t, user.RoleEmployee), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/attendance/adjustments/adj-1/approve", f.token(t, user.RoleManager), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "adj-1", f.service.lastApprove.ID)

	rec = f.do(t, http.MethodPost, "/api/v1/attendance/adjustments/adj-2/reject", f.token(t, user.RoleOwner), map[string]string{"reason": "no evidence"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "adj-2", f.service.lastReject.ID)
	assert.Equal(t, "no evidence", f.service.lastReject.Reason)
}

func TestAttendanceHandler_AdjustmentAlreadyProcessed(t *testing.T) {
	f := newRouterFixture(t)
	f.service.err = attendance.ErrAdjustmentAlreadyProcessed

	rec := f.do(t, http.MethodPost, "/api/v1/attendance/adjustments/adj-1/approve", f.token(t, user.RoleManager), nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
}
