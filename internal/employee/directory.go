package employee

import (
	"context"
	"database/sql"

	"hris-leave/internal/department"

	"github.com/google/uuid"
)

// Directory answers the identity and department lookups of the leave
// workflow.
type Directory interface {
	WithTx(tx *sql.Tx) Directory
	Employee(ctx context.Context, id uuid.UUID) (*Employee, error)
	LockEmployee(ctx context.Context, id uuid.UUID) (*Employee, error)
	DepartmentManagerID(ctx context.Context, departmentID uuid.UUID) (*uuid.UUID, error)
	ActiveAdminIDs(ctx context.Context) ([]uuid.UUID, error)
	Names(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

type directory struct {
	employees   Repository
	departments department.Repository
}

func NewDirectory(employees Repository, departments department.Repository) Directory {
	return &directory{employees: employees, departments: departments}
}

func (d *directory) WithTx(tx *sql.Tx) Directory {
	return &directory{
		employees:   d.employees.WithTx(tx),
		departments: d.departments.WithTx(tx),
	}
}

func (d *directory) Employee(ctx context.Context, id uuid.UUID) (*Employee, error) {
	return d.employees.FindByID(ctx, id)
}

func (d *directory) LockEmployee(ctx context.Context, id uuid.UUID) (*Employee, error) {
	return d.employees.LockByID(ctx, id)
}

// DepartmentManagerID returns nil when the department is missing or has no
// manager assigned.
func (d *directory) DepartmentManagerID(ctx context.Context, departmentID uuid.UUID) (*uuid.UUID, error) {
	return d.departments.ManagerID(ctx, departmentID)
}

func (d *directory) ActiveAdminIDs(ctx context.Context) ([]uuid.UUID, error) {
	return d.employees.ListActiveIDsByRole(ctx, RoleAdmin)
}

// Names maps each known id to its full name; unknown ids are left out.
func (d *directory) Names(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	emps, err := d.employees.FindByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(emps))
	for _, e := range emps {
		names[e.ID] = e.FullName
	}
	return names, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
