package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeofday"
	"github.com/jackc/pgx/v5"
)

type adjustmentRequestRepositoryImpl struct {
	db *database.DB
}

const adjustmentColumns = `
	ar.id, ar.employee_id, ar.company_id, ar.date, ar.field,
	to_char(ar.requested_time, 'HH24:MI:SS'),
	ar.reason, ar.verdict, ar.status,
	ar.reviewed_by, ar.reviewed_at, ar.rejection_reason,
	ar.created_at, ar.updated_at,
	e.full_name
`

func (r *adjustmentRequestRepositoryImpl) Create(ctx context.Context, req attendance.AdjustmentRequest) (attendance.AdjustmentRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_adjustment_requests (
			id, employee_id, company_id, date, field,
			requested_time, reason, verdict, status,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4::date, $5,
			$6::time, $7, $8, $9,
			NOW(), NOW()
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.ID, req.EmployeeID, req.CompanyID, req.Date, req.Field,
		req.RequestedTime.String(), req.Reason, req.Verdict, req.Status,
	).Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return attendance.AdjustmentRequest{}, fmt.Errorf("failed to insert adjustment request: %w", err)
	}

	return req, nil
}

func (r *adjustmentRequestRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (attendance.AdjustmentRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + adjustmentColumns + `
		FROM attendance_adjustment_requests ar
		LEFT JOIN employees e ON e.id = ar.employee_id
		WHERE ar.id = $1 AND ar.company_id = $2
	`

	req, err := scanAdjustment(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AdjustmentRequest{}, attendance.ErrAdjustmentNotFound
		}
		return attendance.AdjustmentRequest{}, err
	}

	return req, nil
}

func (r *adjustmentRequestRepositoryImpl) List(ctx context.Context, filter attendance.AdjustmentFilter, companyID string) ([]attendance.AdjustmentRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	// Build WHERE clause
	whereClause := "WHERE ar.company_id = $1"
	args := []interface{}{companyID}
	argIndex := 2

	if filter.EmployeeID != nil {
		whereClause += fmt.Sprintf(" AND ar.employee_id = $%d", argIndex)
		args = append(args, *filter.EmployeeID)
		argIndex++
	}

	if filter.Status != nil {
		whereClause += fmt.Sprintf(" AND ar.status = $%d", argIndex)
		args = append(args, *filter.Status)
		argIndex++
	}

	if filter.Date != nil && *filter.Date != "" {
		whereClause += fmt.Sprintf(" AND ar.date = $%d::date", argIndex)
		args = append(args, *filter.Date)
		argIndex++
	}

	// Count total
	countQuery := fmt.Sprintf(`
		SELECT COUNT(*) FROM attendance_adjustment_requests ar %s
	`, whereClause)

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count adjustment requests: %w", err)
	}

	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 20
	}
	offset := (filter.Page - 1) * filter.Limit

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendance_adjustment_requests ar
		LEFT JOIN employees e ON e.id = ar.employee_id
		%s
		ORDER BY ar.created_at DESC
		LIMIT $%d OFFSET $%d
	`, adjustmentColumns, whereClause, argIndex, argIndex+1)

	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list adjustment requests: %w", err)
	}
	defer rows.Close()

	var requests []attendance.AdjustmentRequest
	for rows.Next() {
		req, err := scanAdjustment(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *adjustmentRequestRepositoryImpl) UpdateStatus(ctx context.Context, req attendance.AdjustmentRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_adjustment_requests
		SET status = $1,
			reviewed_by = $2,
			reviewed_at = $3,
			rejection_reason = $4,
			updated_at = NOW()
		WHERE id = $5 AND company_id = $6
	`

	result, err := q.Exec(ctx, query,
		req.Status, req.ReviewedBy, req.ReviewedAt, req.RejectionReason,
		req.ID, req.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update adjustment request: %w", err)
	}

	if result.RowsAffected() == 0 {
		return attendance.ErrAdjustmentNotFound
	}

	return nil
}

func scanAdjustment(row pgx.Row) (attendance.AdjustmentRequest, error) {
	var (
		req       attendance.AdjustmentRequest
		requested string
	)

	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.CompanyID, &req.Date, &req.Field,
		&requested,
		&req.Reason, &req.Verdict, &req.Status,
		&req.ReviewedBy, &req.ReviewedAt, &req.RejectionReason,
		&req.CreatedAt, &req.UpdatedAt,
		&req.EmployeeName,
	)
	if err != nil {
		return attendance.AdjustmentRequest{}, err
	}

	if req.RequestedTime, err = timeofday.Parse(requested); err != nil {
		return attendance.AdjustmentRequest{}, err
	}

	return req, nil
}

func NewAdjustmentRequestRepository(db *database.DB) attendance.AdjustmentRequestRepository {
	return &adjustmentRequestRepositoryImpl{db: db}
}
