package balance

import (
	"time"

	"hris-leave/internal/leavepolicy"

	"github.com/google/uuid"
)

type LeaveBalance struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_key,priority:1"`
	LeaveType  leavepolicy.Type `gorm:"type:varchar(30);not null;uniqueIndex:uq_leave_balances_key,priority:2"`
	Year       int              `gorm:"type:int;not null;uniqueIndex:uq_leave_balances_key,priority:3"`
	TotalDays  int              `gorm:"type:int;not null;default:0"`
	UsedDays   int              `gorm:"type:int;not null;default:0;check:chk_leave_balances_used_non_negative,used_days >= 0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

func (b LeaveBalance) Remaining() int {
	return b.TotalDays - b.UsedDays
}
