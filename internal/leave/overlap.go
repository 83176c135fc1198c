package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hris-leave/internal/calendar"
	"hris-leave/internal/employee"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OverlapDetector finds requests whose date ranges intersect. Only the own
// conflict check gates creation; department conflicts are advisory.
type OverlapDetector interface {
	WithTx(tx *sql.Tx) OverlapDetector
	FindOwnConflict(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (*LeaveRequest, error)
	FindDepartmentConflicts(ctx context.Context, req LeaveRequest) ([]LeaveRequest, error)
}

type overlapDetector struct {
	repo      Repository
	directory employee.Directory
}

func NewOverlapDetector(repo Repository, directory employee.Directory) OverlapDetector {
	return &overlapDetector{repo: repo, directory: directory}
}

func (d *overlapDetector) WithTx(tx *sql.Tx) OverlapDetector {
	return &overlapDetector{repo: d.repo.WithTx(tx), directory: d.directory.WithTx(tx)}
}

func (d *overlapDetector) FindOwnConflict(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (*LeaveRequest, error) {
	return d.repo.FindOwnConflict(ctx, employeeID, calendar.Date(start), calendar.Date(end))
}

// FindDepartmentConflicts is empty when the requester has no department.
func (d *overlapDetector) FindDepartmentConflicts(ctx context.Context, req LeaveRequest) ([]LeaveRequest, error) {
	emp, err := d.directory.Employee(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []LeaveRequest{}, nil
		}
		return nil, err
	}
	if emp.DepartmentID == nil {
		return []LeaveRequest{}, nil
	}
	return d.repo.FindDepartmentConflicts(ctx, *emp.DepartmentID, req.ID, calendar.Date(req.StartDate), calendar.Date(req.EndDate))
}
