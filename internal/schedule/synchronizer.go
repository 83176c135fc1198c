package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hris-leave/internal/calendar"
	"hris-leave/internal/leavepolicy"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Leave is the approved absence to project onto the working calendar.
type Leave struct {
	RequestID  uuid.UUID
	EmployeeID uuid.UUID
	LeaveType  leavepolicy.Type
	Label      string
	StartDate  time.Time
	EndDate    time.Time
}

// Synchronizer turns approved leave into rest-day schedule entries.
type Synchronizer interface {
	WithTx(tx *sql.Tx) Synchronizer
	// ApplyLeave upserts one rest-day entry per business day of the leave and
	// returns how many days were written. Re-running it is a no-op in effect.
	ApplyLeave(ctx context.Context, leave Leave) (int, error)
}

type synchronizer struct {
	repo   Repository
	logger *zap.Logger
}

func NewSynchronizer(repo Repository, logger ...*zap.Logger) Synchronizer {
	l := zap.L().Named("schedule.synchronizer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("schedule.synchronizer")
	}
	return &synchronizer{repo: repo, logger: l}
}

func (s *synchronizer) WithTx(tx *sql.Tx) Synchronizer {
	return &synchronizer{repo: s.repo.WithTx(tx), logger: s.logger}
}

func (s *synchronizer) ApplyLeave(ctx context.Context, leave Leave) (int, error) {
	leaveType := leave.LeaveType
	notes := fmt.Sprintf("%s (leave request %s)", leave.Label, leave.RequestID)

	written := 0
	for day := range calendar.BusinessDays(leave.StartDate, leave.EndDate) {
		entry := &ScheduleEntry{
			EmployeeID: leave.EmployeeID,
			WorkDate:   day,
			IsRestDay:  true,
			LeaveType:  &leaveType,
			Notes:      notes,
		}
		if err := s.repo.Upsert(ctx, entry); err != nil {
			s.logger.Error("apply leave upsert failed",
				zap.String("employee_id", leave.EmployeeID.String()),
				zap.String("work_date", day.Format(calendar.DateLayout)),
				zap.Error(err),
			)
			return written, err
		}
		written++
	}

	s.logger.Debug("apply leave done",
		zap.String("request_id", leave.RequestID.String()),
		zap.Int("days", written),
	)
	return written, nil
}
