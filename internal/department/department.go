package department

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hris-leave/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Department groups employees for the conflict view and names the manager
// who is told about approved leave.
type Department struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name      string     `gorm:"type:varchar(120);not null;uniqueIndex"`
	ManagerID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

//go:generate mockgen -source=department.go -destination=mock/department_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// ManagerID is nil when the department does not exist or has no manager.
	ManagerID(ctx context.Context, id uuid.UUID) (*uuid.UUID, error)
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

func (r *repository) ManagerID(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
	var row struct{ ManagerID *uuid.UUID }
	err := connection.Conn(ctx, r.db, r.tx).
		Model(&Department{}).
		Select("manager_id").
		Where("id = ?", id).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.ManagerID, nil
}
