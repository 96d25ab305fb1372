package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeofday"
	"github.com/jackc/pgx/v5"
)

type shiftScheduleRepositoryImpl struct {
	db *database.DB
}

// GetShiftSchedule implements schedule.ShiftScheduleRepository.
// An assignment covering date wins over the employee's default schedule.
func (r *shiftScheduleRepositoryImpl) GetShiftSchedule(ctx context.Context, employeeID string, date time.Time, companyID string) (schedule.ShiftSchedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		-- QUERY: GetShiftSchedule

WITH target_schedule AS (
    SELECT COALESCE(
        -- Priority 1: assignment override
        (
            SELECT work_schedule_id
            FROM employee_schedule_assignments
            WHERE employee_id = $1
              AND $2::date BETWEEN start_date AND end_date
            ORDER BY start_date DESC
            LIMIT 1
        ),
        -- Priority 2: employee default
        (
            SELECT work_schedule_id
            FROM employees
            WHERE id = $1 AND company_id = $3
        )
    ) AS id
)
SELECT
    to_char(wst.clock_in_time, 'HH24:MI:SS'),
    to_char(wst.clock_out_time, 'HH24:MI:SS'),
    to_char(wst.valid_in_start, 'HH24:MI:SS'),
    to_char(wst.valid_in_end, 'HH24:MI:SS'),
    to_char(wst.valid_out_start, 'HH24:MI:SS'),
    to_char(wst.valid_out_end, 'HH24:MI:SS'),
    COALESCE(
        (
            SELECT json_agg(json_build_object(
                'break_start', to_char(wsb.break_start, 'HH24:MI:SS'),
                'break_end', to_char(wsb.break_end, 'HH24:MI:SS'),
                'out_start', to_char(wsb.break_out_start, 'HH24:MI:SS'),
                'out_end', to_char(wsb.break_out_end, 'HH24:MI:SS'),
                'in_start', to_char(wsb.break_in_start, 'HH24:MI:SS'),
                'in_end', to_char(wsb.break_in_end, 'HH24:MI:SS'),
                'is_shift_split', wsb.is_shift_split
            ) ORDER BY wsb.sort_order, wsb.break_start)
            FROM work_schedule_breaks wsb
            WHERE wsb.work_schedule_time_id = wst.id
        ),
        '[]'::json
    ) AS breaks
FROM target_schedule ts
JOIN work_schedules ws ON ws.id = ts.id
-- EXTRACT(ISODOW) returns 1 (Monday) to 7 (Sunday)
JOIN work_schedule_times wst ON wst.work_schedule_id = ws.id
    AND wst.day_of_week = EXTRACT(ISODOW FROM $2::date)::int
WHERE
    ws.company_id = $3
    AND ws.deleted_at IS NULL
	`

	var (
		clockIn, clockOut string
		inStart, inEnd    *string
		outStart, outEnd  *string
		breaksJSON        []byte
	)

	err := q.QueryRow(ctx, query, employeeID, date, companyID).Scan(
		&clockIn,
		&clockOut,
		&inStart,
		&inEnd,
		&outStart,
		&outEnd,
		&breaksJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.ShiftSchedule{}, schedule.ErrNoScheduleFound
		}
		return schedule.ShiftSchedule{}, fmt.Errorf("failed to get shift schedule: %w", err)
	}

	var rows []breakRow
	if err := json.Unmarshal(breaksJSON, &rows); err != nil {
		return schedule.ShiftSchedule{}, fmt.Errorf("failed to parse breaks: %w", err)
	}

	t := schedule.WorkScheduleTime{}
	if t.ClockInTime, err = timeofday.Parse(clockIn); err != nil {
		return schedule.ShiftSchedule{}, err
	}
	if t.ClockOutTime, err = timeofday.Parse(clockOut); err != nil {
		return schedule.ShiftSchedule{}, err
	}
	if t.ValidInWindow, err = parseWindow(inStart, inEnd); err != nil {
		return schedule.ShiftSchedule{}, err
	}
	if t.ValidOutWindow, err = parseWindow(outStart, outEnd); err != nil {
		return schedule.ShiftSchedule{}, err
	}

	for _, row := range rows {
		b, err := row.toBreak()
		if err != nil {
			return schedule.ShiftSchedule{}, err
		}
		t.Breaks = append(t.Breaks, b)
	}

	return t.ForDate(date), nil
}

// breakRow is the JSON shape of one aggregated work_schedule_breaks row.
type breakRow struct {
	BreakStart   string  `json:"break_start"`
	BreakEnd     string  `json:"break_end"`
	OutStart     *string `json:"out_start"`
	OutEnd       *string `json:"out_end"`
	InStart      *string `json:"in_start"`
	InEnd        *string `json:"in_end"`
	IsShiftSplit bool    `json:"is_shift_split"`
}

func (b breakRow) toBreak() (schedule.Break, error) {
	var (
		out schedule.Break
		err error
	)
	if out.BreakStart, err = timeofday.Parse(b.BreakStart); err != nil {
		return schedule.Break{}, err
	}
	if out.BreakEnd, err = timeofday.Parse(b.BreakEnd); err != nil {
		return schedule.Break{}, err
	}
	if out.BreakOutWindow, err = parseWindow(b.OutStart, b.OutEnd); err != nil {
		return schedule.Break{}, err
	}
	if out.BreakInWindow, err = parseWindow(b.InStart, b.InEnd); err != nil {
		return schedule.Break{}, err
	}
	out.IsShiftSplit = b.IsShiftSplit
	return out, nil
}

// parseWindow returns nil unless both bounds are set.
func parseWindow(start, end *string) (*timeofday.Window, error) {
	if start == nil || end == nil {
		return nil, nil
	}
	s, err := timeofday.Parse(*start)
	if err != nil {
		return nil, err
	}
	e, err := timeofday.Parse(*end)
	if err != nil {
		return nil, err
	}
	return &timeofday.Window{Start: s, End: e}, nil
}

func NewShiftScheduleRepository(db *database.DB) schedule.ShiftScheduleRepository {
	return &shiftScheduleRepositoryImpl{db: db}
}
