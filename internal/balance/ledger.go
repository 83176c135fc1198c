package balance

import (
	"context"
	"database/sql"

	balanceerrors "hris-leave/internal/balance/errors"
	"hris-leave/internal/leavepolicy"

	"github.com/google/uuid"
)

// Ledger owns the per (employee, leave type, year) allowance rows.
type Ledger interface {
	WithTx(tx *sql.Tx) Ledger
	GetOrCreate(ctx context.Context, employeeID uuid.UUID, leaveType leavepolicy.Type, year int) (*LeaveBalance, error)
	IsLimited(leaveType leavepolicy.Type) bool
	Consume(ctx context.Context, employeeID uuid.UUID, leaveType leavepolicy.Type, year, days int) error
	Policy() leavepolicy.Policy
}

type ledger struct {
	repo   Repository
	policy leavepolicy.Policy
}

func NewLedger(repo Repository, policy leavepolicy.Policy) Ledger {
	return &ledger{repo: repo, policy: policy}
}

func (l *ledger) WithTx(tx *sql.Tx) Ledger {
	return &ledger{repo: l.repo.WithTx(tx), policy: l.policy}
}

func (l *ledger) Policy() leavepolicy.Policy {
	return l.policy
}

func (l *ledger) IsLimited(leaveType leavepolicy.Type) bool {
	return l.policy.IsLimited(leaveType)
}

// GetOrCreate seeds a missing row with the type's default allowance. The insert
// is conflict-tolerant, so concurrent first readers end up on the same row.
func (l *ledger) GetOrCreate(ctx context.Context, employeeID uuid.UUID, leaveType leavepolicy.Type, year int) (*LeaveBalance, error) {
	if !leaveType.Valid() {
		return nil, balanceerrors.ErrInvalidLeaveType
	}
	if err := l.repo.EnsureExists(ctx, employeeID, leaveType, year, l.policy.DefaultDays(leaveType)); err != nil {
		return nil, err
	}
	return l.repo.FindByKey(ctx, employeeID, leaveType, year)
}

// Consume books days against a limited balance with a single conditional
// increment. Unlimited types are left untouched.
func (l *ledger) Consume(ctx context.Context, employeeID uuid.UUID, leaveType leavepolicy.Type, year, days int) error {
	if !l.IsLimited(leaveType) || days <= 0 {
		return nil
	}
	if err := l.repo.EnsureExists(ctx, employeeID, leaveType, year, l.policy.DefaultDays(leaveType)); err != nil {
		return err
	}

	applied, err := l.repo.Increment(ctx, employeeID, leaveType, year, days, true)
	if err != nil {
		return err
	}
	if applied {
		return nil
	}

	b, err := l.repo.FindByKey(ctx, employeeID, leaveType, year)
	if err != nil {
		return err
	}
	return balanceerrors.InsufficientBalance(l.policy.Label(leaveType), b.Remaining(), days)
}
