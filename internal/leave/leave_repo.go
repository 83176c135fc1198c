package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hris-leave/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var activeStatuses = []Status{StatusPending, StatusApproved}

type ListFilter struct {
	EmployeeID *uuid.UUID
	Status     *Status
	Limit      int
	Offset     int
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error)
	// LockByID reads the request with FOR UPDATE so concurrent responders and
	// cancellers of the same request are serialized.
	LockByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error)
	Update(ctx context.Context, l *LeaveRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ListFilter) ([]LeaveRequest, int64, error)
	// FindOwnConflict returns the first PENDING or APPROVED request of the
	// employee intersecting [start, end], or nil.
	FindOwnConflict(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (*LeaveRequest, error)
	// FindDepartmentConflicts returns PENDING or APPROVED requests of the
	// department's employees intersecting [start, end], excluding excludeID.
	FindDepartmentConflicts(ctx context.Context, departmentID, excludeID uuid.UUID, start, end time.Time) ([]LeaveRequest, error)
	ListApprovedInRange(ctx context.Context, from, to time.Time) ([]LeaveRequest, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.Conn(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.conn(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.conn(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) LockByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) Update(ctx context.Context, l *LeaveRequest) error {
	return r.conn(ctx).Save(l).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.conn(ctx).Delete(&LeaveRequest{}, "id = ?", id).Error
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]LeaveRequest, int64, error) {
	q := r.conn(ctx).Model(&LeaveRequest{})
	if filter.EmployeeID != nil {
		q = q.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []LeaveRequest
	err := q.Order("start_date DESC").
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&items).Error
	return items, total, err
}

func (r *repository) FindOwnConflict(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", activeStatuses).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Order("start_date ASC").
		Take(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindDepartmentConflicts(ctx context.Context, departmentID, excludeID uuid.UUID, start, end time.Time) ([]LeaveRequest, error) {
	var items []LeaveRequest
	err := r.conn(ctx).
		Joins("JOIN employees e ON e.id = leave_requests.employee_id AND e.deleted_at IS NULL").
		Where("e.department_id = ?", departmentID).
		Where("leave_requests.id <> ?", excludeID).
		Where("leave_requests.status IN ?", activeStatuses).
		Where("leave_requests.start_date <= ? AND leave_requests.end_date >= ?", end, start).
		Order("leave_requests.start_date ASC").
		Find(&items).Error
	return items, err
}

func (r *repository) ListApprovedInRange(ctx context.Context, from, to time.Time) ([]LeaveRequest, error) {
	var items []LeaveRequest
	err := r.conn(ctx).
		Where("status = ?", StatusApproved).
		Where("start_date <= ? AND end_date >= ?", to, from).
		Order("employee_id ASC").
		Order("start_date ASC").
		Find(&items).Error
	return items, err
}
