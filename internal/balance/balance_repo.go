package balance

import (
	"context"
	"database/sql"

	"hris-leave/internal/leavepolicy"
	"hris-leave/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// EnsureExists inserts a row seeded with totalDays unless one already exists
	// for the key. Safe under concurrent callers.
	EnsureExists(ctx context.Context, employeeID uuid.UUID, leaveType leavepolicy.Type, year, totalDays int) error
	FindByKey(ctx context.Context, employeeID uuid.UUID, leaveType leavepolicy.Type, year int) (*LeaveBalance, error)
	// Increment adds days to used_days in one statement. With capped set, the
	// update only applies while the row still has days remaining.
	Increment(ctx context.Context, employeeID uuid.UUID, leaveType leavepolicy.Type, year, days int, capped bool) (bool, error)
	Override(ctx context.Context, employeeID uuid.UUID, leaveType leavepolicy.Type, year, totalDays int, usedDays *int) error
	EmployeeExists(ctx context.Context, employeeID uuid.UUID) (bool, error)
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

var keyColumns = []clause.Column{{Name: "employee_id"}, {Name: "leave_type"}, {Name: "year"}}

func (r *repository) EnsureExists(ctx context.Context, employeeID uuid.UUID, leaveType leavepolicy.Type, year, totalDays int) error {
	row := &LeaveBalance{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		LeaveType:  leaveType,
		Year:       year,
		TotalDays:  totalDays,
	}
	return r.conn(ctx).
		Clauses(clause.OnConflict{Columns: keyColumns, DoNothing: true}).
		Create(row).Error
}

func (r *repository) FindByKey(ctx context.Context, employeeID uuid.UUID, leaveType leavepolicy.Type, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("leave_type = ?", leaveType).
		Where("year = ?", year).
		First(&b).Error
	return &b, err
}

func (r *repository) Increment(ctx context.Context, employeeID uuid.UUID, leaveType leavepolicy.Type, year, days int, capped bool) (bool, error) {
	db := r.conn(ctx).
		Model(&LeaveBalance{}).
		Where("employee_id = ?", employeeID).
		Where("leave_type = ?", leaveType).
		Where("year = ?", year)
	if capped {
		db = db.Where("total_days - used_days >= ?", days)
	}

	res := db.Updates(map[string]any{
		"used_days":  gorm.Expr("used_days + ?", days),
		"updated_at": gorm.Expr("NOW()"),
	})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) Override(ctx context.Context, employeeID uuid.UUID, leaveType leavepolicy.Type, year, totalDays int, usedDays *int) error {
	row := &LeaveBalance{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		LeaveType:  leaveType,
		Year:       year,
		TotalDays:  totalDays,
	}
	updates := []string{"total_days", "updated_at"}
	if usedDays != nil {
		row.UsedDays = *usedDays
		updates = append(updates, "used_days")
	}
	return r.conn(ctx).
		Clauses(clause.OnConflict{Columns: keyColumns, DoUpdates: clause.AssignmentColumns(updates)}).
		Create(row).Error
}

func (r *repository) EmployeeExists(ctx context.Context, employeeID uuid.UUID) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table("employees").
		Where("id = ?", employeeID).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}
