package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	PunchStatus(w http.ResponseWriter, r *http.Request)
	Punch(w http.ResponseWriter, r *http.Request)
	ClockSync(w http.ResponseWriter, r *http.Request)
	GetCredit(w http.ResponseWriter, r *http.Request)
	Clear(w http.ResponseWriter, r *http.Request)
	CreateAdjustment(w http.ResponseWriter, r *http.Request)
	ListAdjustments(w http.ResponseWriter, r *http.Request)
	ApproveAdjustment(w http.ResponseWriter, r *http.Request)
	RejectAdjustment(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// PunchStatus implements AttendanceHandler.
func (h *attendanceHandlerImpl) PunchStatus(w http.ResponseWriter, r *http.Request) {
	req := attendance.PunchStatusRequest{
		DeviceTime: r.URL.Query().Get("device_time"),
	}

	result, err := h.attendanceService.GetPunchStatus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Punch implements AttendanceHandler.
func (h *attendanceHandlerImpl) Punch(w http.ResponseWriter, r *http.Request) {
	var req attendance.PunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Debug("Failed to decode punch request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.Punch(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Punch recorded successfully", result)
}

// ClockSync implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockSync(w http.ResponseWriter, r *http.Request) {
	var req attendance.ClockSyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.CheckClockSync(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetCredit implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetCredit(w http.ResponseWriter, r *http.Request) {
	req := attendance.CreditRequest{
		Date: r.URL.Query().Get("date"),
	}
	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		req.EmployeeID = &employeeID
	}

	result, err := h.attendanceService.GetCredit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Clear implements AttendanceHandler.
func (h *attendanceHandlerImpl) Clear(w http.ResponseWriter, r *http.Request) {
	req := attendance.ClearAttendanceRequest{
		EmployeeID: r.URL.Query().Get("employee_id"),
		Date:       r.URL.Query().Get("date"),
	}

	if err := h.attendanceService.ClearAttendance(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance cleared successfully", nil)
}

// CreateAdjustment implements AttendanceHandler.
func (h *attendanceHandlerImpl) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	var req attendance.CreateAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.CreateAdjustmentRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Adjustment request submitted successfully", result)
}

// ListAdjustments implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListAdjustments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Parse query parameters
	filter := attendance.AdjustmentFilter{}

	// Employee ID filter
	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}

	// Status filter
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}

	// Date filter
	if date := r.URL.Query().Get("date"); date != "" {
		filter.Date = &date
	}

	// Pagination
	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		if pageNum, err := strconv.Atoi(p); err == nil && pageNum > 0 {
			page = pageNum
		}
	}
	filter.Page = page

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if limitNum, err := strconv.Atoi(l); err == nil && limitNum > 0 {
			limit = limitNum
		}
	}
	filter.Limit = limit

	results, err := h.attendanceService.ListAdjustmentRequests(ctx, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// ApproveAdjustment implements AttendanceHandler.
func (h *attendanceHandlerImpl) ApproveAdjustment(w http.ResponseWriter, r *http.Request) {
	req := attendance.ApproveAdjustmentRequest{
		ID: chi.URLParam(r, "id"),
	}

	result, err := h.attendanceService.ApproveAdjustmentRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Adjustment request approved successfully", result)
}

// RejectAdjustment implements AttendanceHandler.
func (h *attendanceHandlerImpl) RejectAdjustment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req attendance.RejectAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	result, err := h.attendanceService.RejectAdjustmentRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Adjustment request rejected successfully", result)
}
