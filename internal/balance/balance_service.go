package balance

import (
	"context"
	"database/sql"
	"time"

	balanceerrors "hris-leave/internal/balance/errors"
	"hris-leave/internal/leavepolicy"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	GetBalance(ctx context.Context, employeeID string, year *int) ([]BalanceResponse, error)
	SetBalance(ctx context.Context, employeeID string, req SetBalanceRequest) (BalanceResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	ledger Ledger
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, policy leavepolicy.Policy, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		ledger: NewLedger(repo, policy),
		now:    time.Now,
		logger: l,
	}
}

// GetBalance returns one row per leave type, creating missing rows.
func (s *service) GetBalance(ctx context.Context, employeeID string, year *int) ([]BalanceResponse, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, balanceerrors.ErrInvalidEmployeeID
	}
	y := s.resolveYear(year)
	s.logger.Debug("get balance requested", zap.String("employee_id", employeeID), zap.Int("year", y))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("get balance begin tx failed", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	exists, err := qtx.EmployeeExists(ctx, employeeUUID)
	if err != nil {
		s.logger.Error("get balance employee check failed", zap.Error(err))
		return nil, err
	}
	if !exists {
		return nil, balanceerrors.ErrEmployeeNotFound
	}

	ltx := s.ledger.WithTx(tx)
	resp := make([]BalanceResponse, 0, len(leavepolicy.Types()))
	for _, lt := range leavepolicy.Types() {
		b, err := ltx.GetOrCreate(ctx, employeeUUID, lt, y)
		if err != nil {
			s.logger.Error("get balance get or create failed",
				zap.String("employee_id", employeeID),
				zap.String("leave_type", string(lt)),
				zap.Error(err),
			)
			return nil, err
		}
		resp = append(resp, s.mapToResponse(*b))
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("get balance commit failed", zap.Error(err))
		return nil, err
	}
	return resp, nil
}

// SetBalance is the administrative override. used_days is kept when omitted.
func (s *service) SetBalance(ctx context.Context, employeeID string, req SetBalanceRequest) (BalanceResponse, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return BalanceResponse{}, balanceerrors.ErrInvalidEmployeeID
	}
	leaveType, err := leavepolicy.Parse(req.LeaveType)
	if err != nil {
		return BalanceResponse{}, balanceerrors.ErrInvalidLeaveType
	}
	if req.TotalDays == nil || *req.TotalDays < 0 || (req.UsedDays != nil && *req.UsedDays < 0) {
		return BalanceResponse{}, balanceerrors.ErrNegativeDays
	}
	y := s.resolveYear(req.Year)

	s.logger.Debug("set balance requested",
		zap.String("employee_id", employeeID),
		zap.String("leave_type", string(leaveType)),
		zap.Int("year", y),
		zap.Int("total_days", *req.TotalDays),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("set balance begin tx failed", zap.Error(err))
		return BalanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	exists, err := qtx.EmployeeExists(ctx, employeeUUID)
	if err != nil {
		s.logger.Error("set balance employee check failed", zap.Error(err))
		return BalanceResponse{}, err
	}
	if !exists {
		return BalanceResponse{}, balanceerrors.ErrEmployeeNotFound
	}

	if err := qtx.Override(ctx, employeeUUID, leaveType, y, *req.TotalDays, req.UsedDays); err != nil {
		s.logger.Error("set balance persist failed", zap.Error(err))
		return BalanceResponse{}, err
	}
	b, err := qtx.FindByKey(ctx, employeeUUID, leaveType, y)
	if err != nil {
		s.logger.Error("set balance reload failed", zap.Error(err))
		return BalanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("set balance commit failed", zap.Error(err))
		return BalanceResponse{}, err
	}
	s.logger.Info("set balance success",
		zap.String("employee_id", employeeID),
		zap.String("leave_type", string(leaveType)),
		zap.Int("year", y),
		zap.Int("total_days", b.TotalDays),
		zap.Int("used_days", b.UsedDays),
	)
	return s.mapToResponse(*b), nil
}

func (s *service) resolveYear(year *int) int {
	if year != nil && *year > 0 {
		return *year
	}
	return s.now().Year()
}

func (s *service) mapToResponse(b LeaveBalance) BalanceResponse {
	policy := s.ledger.Policy()
	return BalanceResponse{
		ID:            b.ID.String(),
		EmployeeID:    b.EmployeeID.String(),
		LeaveType:     string(b.LeaveType),
		Label:         policy.Label(b.LeaveType),
		Year:          b.Year,
		TotalDays:     b.TotalDays,
		UsedDays:      b.UsedDays,
		RemainingDays: b.Remaining(),
		Limited:       policy.IsLimited(b.LeaveType),
	}
}
