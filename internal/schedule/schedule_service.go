package schedule

import (
	"context"
	"time"

	"hris-leave/internal/calendar"
	scheduleerrors "hris-leave/internal/schedule/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxWindowDays = 92

//go:generate mockgen -source=schedule_service.go -destination=mock/schedule_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context, employeeID string, q ScheduleQuery) ([]ScheduleEntryResponse, error)
}

type service struct {
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("schedule.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("schedule.service")
	}
	return &service{repo: repo, now: time.Now, logger: l}
}

// List returns the employee's entries in [from, to]; the window defaults to
// the current month.
func (s *service) List(ctx context.Context, employeeID string, q ScheduleQuery) ([]ScheduleEntryResponse, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, scheduleerrors.ErrInvalidEmployeeID
	}
	from, to, err := s.window(q)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.ListByEmployee(ctx, employeeUUID, from, to)
	if err != nil {
		s.logger.Error("list schedule failed", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	resp := make([]ScheduleEntryResponse, 0, len(entries))
	for _, e := range entries {
		item := ScheduleEntryResponse{
			WorkDate:  e.WorkDate.Format(calendar.DateLayout),
			IsRestDay: e.IsRestDay,
			Notes:     e.Notes,
		}
		if e.LeaveType != nil {
			lt := string(*e.LeaveType)
			item.LeaveType = &lt
		}
		resp = append(resp, item)
	}
	return resp, nil
}

func (s *service) window(q ScheduleQuery) (time.Time, time.Time, error) {
	today := calendar.Date(s.now())
	from := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	var err error
	if q.From != "" {
		if from, err = calendar.ParseDate(q.From); err != nil {
			return time.Time{}, time.Time{}, scheduleerrors.ErrInvalidDate
		}
	}
	if q.To != "" {
		if to, err = calendar.ParseDate(q.To); err != nil {
			return time.Time{}, time.Time{}, scheduleerrors.ErrInvalidDate
		}
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, scheduleerrors.ErrInvalidRange
	}
	if to.Sub(from) > maxWindowDays*24*time.Hour {
		return time.Time{}, time.Time{}, scheduleerrors.ErrRangeTooWide
	}
	return from, to, nil
}
