package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup holds a connection to the schema from migrations/.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and skips the test when it
// is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(dsn)
	require.NoError(t, err, "failed to connect to test database")

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(context.Background()))
	t.Cleanup(setup.Close)

	return setup
}

// TruncateAllTables removes every row from the attendance tables.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"attendance_adjustment_requests",
		"attendance_punch_logs",
		"employee_schedule_assignments",
		"work_schedule_breaks",
		"work_schedule_times",
		"employees",
		"work_schedules",
		"companies",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}

// seed is one company with one employee on an 08:00-17:00 Monday schedule
// split by a 12:00-13:00 break.
type seed struct {
	CompanyID  string
	EmployeeID string
	ScheduleID string
}

func (t *TestDatabaseSetup) Seed(tb testing.TB) seed {
	tb.Helper()
	ctx := context.Background()

	var s seed
	require.NoError(tb, t.DB.QueryRow(ctx,
		`INSERT INTO companies (name) VALUES ('Acme') RETURNING id`,
	).Scan(&s.CompanyID))

	require.NoError(tb, t.DB.QueryRow(ctx,
		`INSERT INTO work_schedules (company_id, name) VALUES ($1, 'Office') RETURNING id`,
		s.CompanyID,
	).Scan(&s.ScheduleID))

	require.NoError(tb, t.DB.QueryRow(ctx,
		`INSERT INTO employees (company_id, full_name, work_schedule_id) VALUES ($1, 'Budi Santoso', $2) RETURNING id`,
		s.CompanyID, s.ScheduleID,
	).Scan(&s.EmployeeID))

	var timeID string
	require.NoError(tb, t.DB.QueryRow(ctx, `
		INSERT INTO work_schedule_times (work_schedule_id, day_of_week, clock_in_time, clock_out_time, valid_in_start, valid_in_end)
		VALUES ($1, 1, '08:00', '17:00', '07:30', '08:30')
		RETURNING id`,
		s.ScheduleID,
	).Scan(&timeID))

	_, err := t.DB.Exec(ctx, `
		INSERT INTO work_schedule_breaks (work_schedule_time_id, break_start, break_end, is_shift_split, sort_order)
		VALUES ($1, '12:00', '13:00', TRUE, 0)`,
		timeID,
	)
	require.NoError(tb, err)

	return s
}
