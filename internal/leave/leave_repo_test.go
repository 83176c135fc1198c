package leave_test

import (
	"context"
	"testing"

	"hris-leave/internal/leave"

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

func TestRepository_FindOwnConflict_NoneIsNil(t *testing.T) {
	db, mock := newGormMock(t)
	mock.ExpectQuery(`SELECT \* FROM "leave_requests" WHERE employee_id = \$1 AND status IN \(\$2,\$3\) .*start_date <= \$4 AND end_date >= \$5.*ORDER BY start_date ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := leave.NewRepository(db).FindOwnConflict(context.Background(), uuid.New(), day("2025-03-03"), day("2025-03-05"))

	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindDepartmentConflicts_JoinsEmployees(t *testing.T) {
	db, mock := newGormMock(t)
	departmentID, excludeID, otherID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(`FROM "leave_requests" JOIN employees e ON e.id = leave_requests.employee_id AND e.deleted_at IS NULL WHERE e.department_id = \$1 AND leave_requests.id <> \$2`).
		WithArgs(departmentID, excludeID, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "employee_id", "leave_type", "status"}).
			AddRow(otherID.String(), uuid.NewString(), "VACATION", "APPROVED"))

	got, err := leave.NewRepository(db).FindDepartmentConflicts(context.Background(), departmentID, excludeID, day("2025-03-03"), day("2025-03-05"))

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, otherID, got[0].ID)
	assert.Equal(t, leave.StatusApproved, got[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
