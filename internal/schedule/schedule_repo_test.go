package schedule_test

import (
	"context"
	"testing"
	"time"

	"hris-leave/internal/leavepolicy"
	"hris-leave/internal/schedule"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestRepository_Upsert_ReplacesDayInPlace(t *testing.T) {
	db, mock := newGormMock(t)
	repo := schedule.NewRepository(db)
	employeeID := uuid.New()
	workDate := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	medical := leavepolicy.Medical

	const upsert = `INSERT INTO "schedule_entries" \("employee_id","work_date","is_rest_day","leave_type","notes","created_at","updated_at","id"\) VALUES \(\$1,\$2,\$3,\$4,\$5,\$6,\$7,\$8\) ` +
		`ON CONFLICT \("employee_id","work_date"\) DO UPDATE SET "is_rest_day"="excluded"."is_rest_day","leave_type"="excluded"."leave_type","notes"="excluded"."notes","updated_at"="excluded"."updated_at" RETURNING "id"$`

	// The same day written twice hits the same conflict target, so a re-run
	// rewrites the row instead of adding one.
	for range 2 {
		mock.ExpectBegin()
		mock.ExpectQuery(upsert).
			WithArgs(employeeID, workDate, true, "MEDICAL", "Medical leave", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
		mock.ExpectCommit()
	}

	for range 2 {
		entry := &schedule.ScheduleEntry{
			EmployeeID: employeeID,
			WorkDate:   workDate,
			IsRestDay:  true,
			LeaveType:  &medical,
			Notes:      "Medical leave",
		}
		require.NoError(t, repo.Upsert(context.Background(), entry))
		assert.NotEqual(t, uuid.Nil, entry.ID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByEmployee(t *testing.T) {
	db, mock := newGormMock(t)
	employeeID := uuid.New()
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "schedule_entries" WHERE employee_id = \$1 AND work_date BETWEEN \$2 AND \$3 ORDER BY work_date ASC`).
		WithArgs(employeeID, from, to).
		WillReturnRows(sqlmock.NewRows([]string{"id", "employee_id", "work_date", "is_rest_day"}).
			AddRow(uuid.NewString(), employeeID.String(), from.AddDate(0, 0, 2), true))

	got, err := schedule.NewRepository(db).ListByEmployee(context.Background(), employeeID, from, to)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].IsRestDay)
	assert.NoError(t, mock.ExpectationsWereMet())
}
