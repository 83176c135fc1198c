package employee_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"hris-leave/internal/department"
	"hris-leave/internal/employee"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmployeeRepo struct {
	findByIDFn  func(ctx context.Context, id uuid.UUID) (*employee.Employee, error)
	findByIDsFn func(ctx context.Context, ids []uuid.UUID) ([]employee.Employee, error)
	listByRole  func(ctx context.Context, role string) ([]uuid.UUID, error)
}

func (f *fakeEmployeeRepo) WithTx(tx *sql.Tx) employee.Repository { return f }

func (f *fakeEmployeeRepo) FindByID(ctx context.Context, id uuid.UUID) (*employee.Employee, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakeEmployeeRepo) LockByID(ctx context.Context, id uuid.UUID) (*employee.Employee, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakeEmployeeRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]employee.Employee, error) {
	return f.findByIDsFn(ctx, ids)
}

func (f *fakeEmployeeRepo) ListActiveIDsByRole(ctx context.Context, role string) ([]uuid.UUID, error) {
	return f.listByRole(ctx, role)
}

type fakeDepartmentRepo struct {
	managerIDFn func(ctx context.Context, id uuid.UUID) (*uuid.UUID, error)
}

func (f *fakeDepartmentRepo) WithTx(tx *sql.Tx) department.Repository { return f }

func (f *fakeDepartmentRepo) ManagerID(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
	return f.managerIDFn(ctx, id)
}

func TestDirectory_DepartmentManagerID(t *testing.T) {
	ctx := context.Background()
	deptID := uuid.New()
	managerID := uuid.New()

	t.Run("returns manager", func(t *testing.T) {
		d := employee.NewDirectory(&fakeEmployeeRepo{}, &fakeDepartmentRepo{
			managerIDFn: func(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
				assert.Equal(t, deptID, id)
				return &managerID, nil
			},
		})
		got, err := d.DepartmentManagerID(ctx, deptID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, managerID, *got)
	})

	t.Run("storage error propagates", func(t *testing.T) {
		d := employee.NewDirectory(&fakeEmployeeRepo{}, &fakeDepartmentRepo{
			managerIDFn: func(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
				return nil, errors.New("db down")
			},
		})
		_, err := d.DepartmentManagerID(ctx, deptID)
		assert.EqualError(t, err, "db down")
	})
}

func TestDirectory_Names(t *testing.T) {
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	d := employee.NewDirectory(&fakeEmployeeRepo{
		findByIDsFn: func(ctx context.Context, ids []uuid.UUID) ([]employee.Employee, error) {
			assert.Equal(t, []uuid.UUID{a, b}, ids, "ids are de-duplicated and nil ids dropped")
			return []employee.Employee{{ID: a, FullName: "Ana"}, {ID: b, FullName: "Budi"}}, nil
		},
	}, &fakeDepartmentRepo{})

	names, err := d.Names(ctx, []uuid.UUID{a, uuid.Nil, b, a})
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]string{a: "Ana", b: "Budi"}, names)
}

func TestDirectory_ActiveAdminIDs(t *testing.T) {
	admin := uuid.New()
	d := employee.NewDirectory(&fakeEmployeeRepo{
		listByRole: func(ctx context.Context, role string) ([]uuid.UUID, error) {
			assert.Equal(t, employee.RoleAdmin, role)
			return []uuid.UUID{admin}, nil
		},
	}, &fakeDepartmentRepo{})

	ids, err := d.ActiveAdminIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{admin}, ids)
}
