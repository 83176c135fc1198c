package schedule

import (
	"time"

	"hris-leave/internal/leavepolicy"

	"github.com/google/uuid"
)

// ScheduleEntry is one working-calendar day for an employee.
type ScheduleEntry struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:uq_schedule_entries_employee_date,priority:1"`
	WorkDate   time.Time         `gorm:"type:date;not null;uniqueIndex:uq_schedule_entries_employee_date,priority:2"`
	IsRestDay  bool              `gorm:"not null;default:false"`
	LeaveType  *leavepolicy.Type `gorm:"type:varchar(30)"`
	Notes      string            `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ScheduleEntry) TableName() string {
	return "schedule_entries"
}
