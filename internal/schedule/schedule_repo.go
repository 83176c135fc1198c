package schedule

import (
	"context"
	"database/sql"
	"time"

	"hris-leave/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=schedule_repo.go -destination=mock/schedule_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// Upsert writes the entry for (employee_id, work_date), replacing the rest
	// day flag, leave type and notes of an existing row.
	Upsert(ctx context.Context, entry *ScheduleEntry) error
	ListByEmployee(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]ScheduleEntry, error)
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

func (r *repository) Upsert(ctx context.Context, entry *ScheduleEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "work_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_rest_day", "leave_type", "notes", "updated_at"}),
		}).
		Create(entry).Error
}

func (r *repository) ListByEmployee(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]ScheduleEntry, error) {
	var entries []ScheduleEntry
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("work_date BETWEEN ? AND ?", from, to).
		Order("work_date ASC").
		Find(&entries).Error
	return entries, err
}
