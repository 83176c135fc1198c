package leave

import (
	"time"

	"hris-leave/internal/calendar"
	"hris-leave/internal/leavepolicy"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// LeaveRequest moves PENDING to APPROVED or REJECTED exactly once. A PENDING
// request may instead be cancelled, which deletes it.
type LeaveRequest struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID        `gorm:"type:uuid;not null;index:idx_leave_requests_employee_dates,priority:1"`
	LeaveType  leavepolicy.Type `gorm:"type:varchar(30);not null"`
	StartDate  time.Time        `gorm:"type:date;not null;index:idx_leave_requests_employee_dates,priority:2;index:idx_leave_requests_status_dates,priority:2"`
	EndDate    time.Time        `gorm:"type:date;not null;index:idx_leave_requests_employee_dates,priority:3;index:idx_leave_requests_status_dates,priority:3;check:chk_leave_requests_range,end_date >= start_date"`
	Reason     string           `gorm:"type:text"`

	Status          Status     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_requests_status_dates,priority:1"`
	ApproverID      *uuid.UUID `gorm:"type:uuid"`
	ResponseMessage *string    `gorm:"type:text"`
	RespondedAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// BusinessDays is the number of days the request books.
func (r LeaveRequest) BusinessDays() int {
	return calendar.BusinessDayCount(r.StartDate, r.EndDate)
}
