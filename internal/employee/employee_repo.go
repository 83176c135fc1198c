package employee

import (
	"context"
	"database/sql"

	"hris-leave/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*Employee, error)
	// LockByID reads the employee with FOR UPDATE, serializing writers that
	// act on the same employee until the surrounding transaction ends.
	LockByID(ctx context.Context, id uuid.UUID) (*Employee, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Employee, error)
	ListActiveIDsByRole(ctx context.Context, role string) ([]uuid.UUID, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.Conn(ctx, r.db, r.tx)
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Employee, error) {
	var emp Employee
	err := r.conn(ctx).First(&emp, "id = ?", id).Error
	return &emp, err
}

func (r *repository) LockByID(ctx context.Context, id uuid.UUID) (*Employee, error) {
	var emp Employee
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&emp, "id = ?", id).Error
	return &emp, err
}

func (r *repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Employee, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var emps []Employee
	err := r.conn(ctx).
		Where("id IN ?", ids).
		Find(&emps).Error
	return emps, err
}

func (r *repository) ListActiveIDsByRole(ctx context.Context, role string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.conn(ctx).
		Model(&Employee{}).
		Where("role = ?", role).
		Where("is_active = ?", true).
		Pluck("id", &ids).Error
	return ids, err
}
