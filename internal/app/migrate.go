package app

import (
	"hris-leave/internal/balance"
	"hris-leave/internal/department"
	"hris-leave/internal/employee"
	"hris-leave/internal/leave"
	"hris-leave/internal/messaging/kafka"
	"hris-leave/internal/notification"
	"hris-leave/internal/schedule"

	"gorm.io/gorm"
)

// models lists every table the service owns, parents first.
func models() []any {
	return []any{
		&department.Department{},
		&employee.Employee{},
		&balance.LeaveBalance{},
		&leave.LeaveRequest{},
		&schedule.ScheduleEntry{},
		&notification.Notification{},
		&kafka.OutboxRecord{},
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(models()...)
}
