package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeofday"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type punchLogRepository struct {
	db *database.DB
}

const punchLogColumns = `
	pl.id, pl.employee_id, pl.company_id, pl.date,
	to_char(pl.in_morning, 'HH24:MI:SS'),
	to_char(pl.out_morning, 'HH24:MI:SS'),
	to_char(pl.in_afternoon, 'HH24:MI:SS'),
	to_char(pl.out_afternoon, 'HH24:MI:SS'),
	pl.rendered_minutes, pl.net_work_minutes, pl.work_credit::text,
	pl.late_minutes, pl.early_out_minutes, pl.overtime_minutes, pl.credit_computed_at,
	pl.created_at, pl.updated_at
`

// punchColumn maps a field to its column. Only these names ever reach SQL.
func punchColumn(field attendance.PunchField) (string, error) {
	switch field {
	case attendance.FieldInMorning, attendance.FieldOutMorning, attendance.FieldInAfternoon, attendance.FieldOutAfternoon:
		return string(field), nil
	}
	return "", fmt.Errorf("unknown punch field %q", field)
}

// GetByEmployeeAndDate implements attendance.PunchLogRepository.
func (r *punchLogRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (attendance.PunchLogRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + punchLogColumns + `, e.full_name
		FROM attendance_punch_logs pl
		LEFT JOIN employees e ON e.id = pl.employee_id
		WHERE pl.employee_id = $1
		  AND pl.date = $2::date
		  AND pl.company_id = $3
		LIMIT 1
	`

	record, err := scanPunchLog(q.QueryRow(ctx, query, employeeID, date, companyID), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.PunchLogRecord{}, attendance.ErrPunchLogNotFound
		}
		return attendance.PunchLogRecord{}, fmt.Errorf("failed to get punch log: %w", err)
	}

	return record, nil
}

// RecordPunch implements attendance.PunchLogRepository.
func (r *punchLogRepository) RecordPunch(ctx context.Context, employeeID string, date time.Time, companyID string, field attendance.PunchField, at timeofday.TimeOfDay) (attendance.PunchLogRecord, error) {
	record, err := r.upsertPunch(ctx, employeeID, date, companyID, field, at, false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.PunchLogRecord{}, attendance.ErrFieldAlreadyRecorded
		}
		return attendance.PunchLogRecord{}, fmt.Errorf("failed to record punch: %w", err)
	}
	return record, nil
}

// OverwritePunch implements attendance.PunchLogRepository.
func (r *punchLogRepository) OverwritePunch(ctx context.Context, employeeID string, date time.Time, companyID string, field attendance.PunchField, at timeofday.TimeOfDay) (attendance.PunchLogRecord, error) {
	record, err := r.upsertPunch(ctx, employeeID, date, companyID, field, at, true)
	if err != nil {
		return attendance.PunchLogRecord{}, fmt.Errorf("failed to overwrite punch: %w", err)
	}
	return record, nil
}

// upsertPunch creates the day's row or updates field on the existing one.
// Without overwrite a populated field leaves the row untouched and yields
// pgx.ErrNoRows.
func (r *punchLogRepository) upsertPunch(ctx context.Context, employeeID string, date time.Time, companyID string, field attendance.PunchField, at timeofday.TimeOfDay, overwrite bool) (attendance.PunchLogRecord, error) {
	q := GetQuerier(ctx, r.db)

	column, err := punchColumn(field)
	if err != nil {
		return attendance.PunchLogRecord{}, err
	}

	guard := ""
	if !overwrite {
		guard = fmt.Sprintf("AND pl.%s IS NULL", column)
	}

	query := fmt.Sprintf(`
		INSERT INTO attendance_punch_logs AS pl (employee_id, company_id, date, %[1]s)
		VALUES ($1, $2, $3::date, $4::time)
		ON CONFLICT (employee_id, date) DO UPDATE
		SET %[1]s = EXCLUDED.%[1]s, updated_at = NOW()
		WHERE pl.company_id = EXCLUDED.company_id %[2]s
		RETURNING %[3]s
	`, column, guard, punchLogColumns)

	return scanPunchLog(q.QueryRow(ctx, query, employeeID, companyID, date, at.String()), false)
}

// SaveCredit implements attendance.PunchLogRepository.
func (r *punchLogRepository) SaveCredit(ctx context.Context, id string, report attendance.CreditReport, computedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_punch_logs
		SET rendered_minutes = $2,
			net_work_minutes = $3,
			work_credit = $4::numeric,
			late_minutes = $5,
			early_out_minutes = $6,
			overtime_minutes = $7,
			credit_computed_at = $8,
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := q.Exec(ctx, query,
		id,
		report.RenderedMinutes,
		report.NetWorkMinutes,
		report.WorkCredit.String(),
		report.LateMinutes,
		report.EarlyOutMinutes,
		report.OvertimeMinutes,
		computedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save credit: %w", err)
	}

	if result.RowsAffected() == 0 {
		return attendance.ErrPunchLogNotFound
	}

	return nil
}

// Clear implements attendance.PunchLogRepository.
func (r *punchLogRepository) Clear(ctx context.Context, employeeID string, date time.Time, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_punch_logs
		SET in_morning = NULL,
			out_morning = NULL,
			in_afternoon = NULL,
			out_afternoon = NULL,
			rendered_minutes = NULL,
			net_work_minutes = NULL,
			work_credit = NULL,
			late_minutes = NULL,
			early_out_minutes = NULL,
			overtime_minutes = NULL,
			credit_computed_at = NULL,
			updated_at = NOW()
		WHERE employee_id = $1
		  AND date = $2::date
		  AND company_id = $3
	`

	result, err := q.Exec(ctx, query, employeeID, date, companyID)
	if err != nil {
		return fmt.Errorf("failed to clear punch log: %w", err)
	}

	if result.RowsAffected() == 0 {
		return attendance.ErrPunchLogNotFound
	}

	return nil
}

// ListByDate implements attendance.PunchLogRepository.
func (r *punchLogRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.PunchLogRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + punchLogColumns + `
		FROM attendance_punch_logs pl
		WHERE pl.date = $1::date
		ORDER BY pl.company_id, pl.employee_id
	`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list punch logs: %w", err)
	}
	defer rows.Close()

	var records []attendance.PunchLogRecord
	for rows.Next() {
		record, err := scanPunchLog(rows, false)
		if err != nil {
			return nil, fmt.Errorf("failed to scan punch log: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating punch logs: %w", err)
	}

	return records, nil
}

// scanPunchLog reads punchLogColumns, plus the employee name when withName is set.
func scanPunchLog(row pgx.Row, withName bool) (attendance.PunchLogRecord, error) {
	var (
		rec        attendance.PunchLogRecord
		punches    [4]*string
		workCredit *string
	)

	dest := []any{
		&rec.ID, &rec.EmployeeID, &rec.CompanyID, &rec.Date,
		&punches[0], &punches[1], &punches[2], &punches[3],
		&rec.RenderedMinutes, &rec.NetWorkMinutes, &workCredit,
		&rec.LateMinutes, &rec.EarlyOutMinutes, &rec.OvertimeMinutes, &rec.CreditComputed,
		&rec.CreatedAt, &rec.UpdatedAt,
	}
	if withName {
		dest = append(dest, &rec.EmployeeName)
	}

	if err := row.Scan(dest...); err != nil {
		return attendance.PunchLogRecord{}, err
	}

	targets := []**timeofday.TimeOfDay{&rec.Log.InMorning, &rec.Log.OutMorning, &rec.Log.InAfternoon, &rec.Log.OutAfternoon}
	for i, s := range punches {
		if s == nil {
			continue
		}
		t, err := timeofday.Parse(*s)
		if err != nil {
			return attendance.PunchLogRecord{}, err
		}
		*targets[i] = &t
	}

	if workCredit != nil {
		d, err := decimal.NewFromString(*workCredit)
		if err != nil {
			return attendance.PunchLogRecord{}, fmt.Errorf("invalid work_credit %q: %w", *workCredit, err)
		}
		rec.WorkCredit = &d
	}

	return rec, nil
}

func NewPunchLogRepository(db *database.DB) attendance.PunchLogRepository {
	return &punchLogRepository{db: db}
}
