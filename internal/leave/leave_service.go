package leave

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"hris-leave/internal/balance"
	balanceerrors "hris-leave/internal/balance/errors"
	"hris-leave/internal/calendar"
	"hris-leave/internal/employee"
	leaveerrors "hris-leave/internal/leave/errors"
	"hris-leave/internal/leavepolicy"
	"hris-leave/internal/notification"
	"hris-leave/internal/schedule"
	"hris-leave/internal/shared/contextutil"
	"hris-leave/internal/shared/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	defaultPage  = 1
	defaultLimit = 20
)

type Service interface {
	Create(ctx context.Context, employeeID string, req CreateLeaveRequest) (LeaveResponse, error)
	Respond(ctx context.Context, id, approverID string, req RespondLeaveRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, id, requesterID string) error
	GetByID(ctx context.Context, id, actorID string, isAdmin bool) (LeaveResponse, error)
	List(ctx context.Context, actorID string, isAdmin bool, q ListLeaveQuery) ([]LeaveResponse, response.PaginationMeta, error)
	CheckOverlaps(ctx context.Context, id string) ([]LeaveResponse, error)
	ApprovedByMonth(ctx context.Context, monthYear string) ([]CalendarEntry, error)
}

// Dependencies wires the lifecycle engine. Cache, Metrics, Clock and Logger
// are optional.
type Dependencies struct {
	DB        *sql.DB
	Repo      Repository
	Ledger    balance.Ledger
	Directory employee.Directory
	Schedule  schedule.Synchronizer
	Notifier  notification.Dispatcher
	Cache     MonthCache
	Metrics   *Metrics
	Clock     func() time.Time
	Logger    *zap.Logger
}

type service struct {
	db        *sql.DB
	repo      Repository
	ledger    balance.Ledger
	directory employee.Directory
	overlaps  OverlapDetector
	schedule  schedule.Synchronizer
	notifier  notification.Dispatcher
	cache     MonthCache
	sf        *singleflight.Group
	metrics   *Metrics
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(deps Dependencies) Service {
	l := zap.L().Named("leave.service")
	if deps.Logger != nil {
		l = deps.Logger.Named("leave.service")
	}
	cache := deps.Cache
	if cache == nil {
		cache = noopMonthCache{}
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &service{
		db:        deps.DB,
		repo:      deps.Repo,
		ledger:    deps.Ledger,
		directory: deps.Directory,
		overlaps:  NewOverlapDetector(deps.Repo, deps.Directory),
		schedule:  deps.Schedule,
		notifier:  deps.Notifier,
		cache:     cache,
		sf:        &singleflight.Group{},
		metrics:   deps.Metrics,
		now:       now,
		logger:    l,
	}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	if rid := contextutil.GetRequestID(ctx); rid != "" {
		return s.logger.With(zap.String("request_id", rid))
	}
	return s.logger
}

// Create validates the request fully before the first write: range, advance
// notice, birthday rule, balance and own overlap, in that order. The employee
// row stays locked until commit, so concurrent creations for one employee
// cannot both pass the overlap check.
func (s *service) Create(ctx context.Context, employeeID string, req CreateLeaveRequest) (LeaveResponse, error) {
	log := s.log(ctx)
	log.Debug("create leave requested",
		zap.String("employee_id", employeeID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	leaveType, err := leavepolicy.Parse(req.LeaveType)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveType
	}
	startDate, endDate, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		log.Warn("create leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	days := calendar.BusinessDayCount(startDate, endDate)

	if leaveType != leavepolicy.Medical {
		tomorrow := calendar.Date(s.now()).AddDate(0, 0, 1)
		if startDate.Before(tomorrow) {
			log.Warn("create leave advance notice violated",
				zap.String("employee_id", employeeID),
				zap.String("start_date", req.StartDate),
			)
			return LeaveResponse{}, leaveerrors.ErrAdvanceNotice
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	emp, err := s.directory.WithTx(tx).LockEmployee(ctx, employeeUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrEmployeeNotFound
		}
		log.Error("create leave employee lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if leaveType == leavepolicy.Birthday {
		if err := checkBirthday(emp.BirthDate, startDate, days); err != nil {
			log.Warn("create leave birthday rule violated", zap.String("employee_id", employeeID), zap.Error(err))
			return LeaveResponse{}, err
		}
	}

	ledger := s.ledger.WithTx(tx)
	bal, err := ledger.GetOrCreate(ctx, employeeUUID, leaveType, startDate.Year())
	if err != nil {
		log.Error("create leave balance lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if ledger.IsLimited(leaveType) && bal.Remaining() < days {
		log.Warn("create leave insufficient balance",
			zap.String("employee_id", employeeID),
			zap.String("leave_type", string(leaveType)),
			zap.Int("remaining", bal.Remaining()),
			zap.Int("requested", days),
		)
		return LeaveResponse{}, balanceerrors.InsufficientBalance(ledger.Policy().Label(leaveType), bal.Remaining(), days)
	}

	conflict, err := s.overlaps.WithTx(tx).FindOwnConflict(ctx, employeeUUID, startDate, endDate)
	if err != nil {
		log.Error("create leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if conflict != nil {
		log.Warn("create leave overlap detected",
			zap.String("employee_id", employeeID),
			zap.String("conflicting_id", conflict.ID.String()),
		)
		return LeaveResponse{}, leaveerrors.ErrOwnOverlap.WithDetails(leaveerrors.OverlapDetails{
			ConflictingID: conflict.ID.String(),
			StartDate:     conflict.StartDate.Format(calendar.DateLayout),
			EndDate:       conflict.EndDate.Format(calendar.DateLayout),
			Status:        string(conflict.Status),
		})
	}

	l := &LeaveRequest{
		ID:         uuid.New(),
		EmployeeID: employeeUUID,
		LeaveType:  leaveType,
		StartDate:  startDate,
		EndDate:    endDate,
		Reason:     strings.TrimSpace(req.Reason),
		Status:     StatusPending,
	}
	if err := s.repo.WithTx(tx).Create(ctx, l); err != nil {
		log.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	s.metrics.observeCreated(string(leaveType))
	log.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", employeeID),
		zap.Int("days", days),
	)

	s.notifyCreated(ctx, *l, emp.FullName)
	return s.mapToResponse(*l, map[uuid.UUID]string{emp.ID: emp.FullName}), nil
}

// Respond is the only transition out of PENDING. Approval books limited
// balances and writes the schedule in the same transaction as the status
// change, so a failed approval leaves nothing behind.
func (s *service) Respond(ctx context.Context, id, approverID string, req RespondLeaveRequest) (LeaveResponse, error) {
	log := s.log(ctx)
	log.Debug("respond leave requested",
		zap.String("leave_id", id),
		zap.String("approver_id", approverID),
		zap.String("decision", req.Decision),
	)

	leaveUUID, err := uuid.Parse(id)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidID
	}
	approverUUID, err := uuid.Parse(approverID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	decision := Status(req.Decision)
	if decision != StatusApproved && decision != StatusRejected {
		return LeaveResponse{}, leaveerrors.ErrInvalidDecision
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("respond leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	l, err := qtx.LockByID(ctx, leaveUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		log.Error("respond leave load failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if l.Status != StatusPending {
		log.Warn("respond leave already processed",
			zap.String("leave_id", id),
			zap.String("status", string(l.Status)),
		)
		return LeaveResponse{}, leaveerrors.ErrAlreadyProcessed
	}

	respondedAt := s.now().UTC()
	l.Status = decision
	l.ApproverID = &approverUUID
	l.RespondedAt = &respondedAt
	if msg := strings.TrimSpace(req.Message); msg != "" {
		l.ResponseMessage = &msg
	}
	if err := qtx.Update(ctx, l); err != nil {
		log.Error("respond leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if decision == StatusApproved {
		days := l.BusinessDays()
		if err := s.ledger.WithTx(tx).Consume(ctx, l.EmployeeID, l.LeaveType, l.StartDate.Year(), days); err != nil {
			log.Warn("respond leave balance consumption failed", zap.String("leave_id", id), zap.Error(err))
			return LeaveResponse{}, err
		}
		_, err := s.schedule.WithTx(tx).ApplyLeave(ctx, schedule.Leave{
			RequestID:  l.ID,
			EmployeeID: l.EmployeeID,
			LeaveType:  l.LeaveType,
			Label:      s.ledger.Policy().Label(l.LeaveType),
			StartDate:  l.StartDate,
			EndDate:    l.EndDate,
		})
		if err != nil {
			log.Error("respond leave schedule sync failed", zap.String("leave_id", id), zap.Error(err))
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("respond leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	s.metrics.observeResponded(string(l.LeaveType), decision)
	log.Info("respond leave success",
		zap.String("leave_id", id),
		zap.String("decision", string(decision)),
		zap.String("approver_id", approverID),
	)

	if decision == StatusApproved {
		months := monthsTouched(l.StartDate, l.EndDate)
		if err := s.cache.Invalidate(ctx, months...); err != nil {
			log.Error("invalidate leave calendar cache failed", zap.Strings("months", months), zap.Error(err))
		}
	}

	names := s.lookupNames(ctx, l.EmployeeID, approverUUID)
	s.notifyResponded(ctx, *l, names[l.EmployeeID])
	return s.mapToResponse(*l, names), nil
}

func (s *service) Cancel(ctx context.Context, id, requesterID string) error {
	log := s.log(ctx)
	log.Debug("cancel leave requested", zap.String("leave_id", id), zap.String("requester_id", requesterID))

	leaveUUID, err := uuid.Parse(id)
	if err != nil {
		return leaveerrors.ErrInvalidID
	}
	requesterUUID, err := uuid.Parse(requesterID)
	if err != nil {
		return leaveerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("cancel leave begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	l, err := qtx.LockByID(ctx, leaveUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveNotFound
		}
		log.Error("cancel leave load failed", zap.Error(err))
		return err
	}
	if l.EmployeeID != requesterUUID {
		log.Warn("cancel leave by non-owner", zap.String("leave_id", id), zap.String("requester_id", requesterID))
		return leaveerrors.ErrForbidden
	}
	if l.Status != StatusPending {
		return leaveerrors.ErrNotCancellable
	}

	if err := qtx.Delete(ctx, leaveUUID); err != nil {
		log.Error("cancel leave delete failed", zap.Error(err))
		return err
	}
	if err := tx.Commit(); err != nil {
		log.Error("cancel leave commit failed", zap.Error(err))
		return err
	}
	s.metrics.observeCancelled()
	log.Info("cancel leave success", zap.String("leave_id", id))
	return nil
}

func (s *service) GetByID(ctx context.Context, id, actorID string, isAdmin bool) (LeaveResponse, error) {
	leaveUUID, err := uuid.Parse(id)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidID
	}

	l, err := s.repo.FindByID(ctx, leaveUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		s.log(ctx).Error("get leave failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if !isAdmin && l.EmployeeID.String() != actorID {
		return LeaveResponse{}, leaveerrors.ErrForbidden
	}

	ids := []uuid.UUID{l.EmployeeID}
	if l.ApproverID != nil {
		ids = append(ids, *l.ApproverID)
	}
	return s.mapToResponse(*l, s.lookupNames(ctx, ids...)), nil
}

// List shows employees their own requests; admins may filter by employee.
func (s *service) List(ctx context.Context, actorID string, isAdmin bool, q ListLeaveQuery) ([]LeaveResponse, response.PaginationMeta, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return nil, response.PaginationMeta{}, leaveerrors.ErrInvalidEmployeeID
	}

	page, limit := q.Page, q.Limit
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	filter := ListFilter{Limit: limit, Offset: (page - 1) * limit}

	switch {
	case !isAdmin:
		filter.EmployeeID = &actorUUID
	case q.EmployeeID != "":
		employeeUUID, err := uuid.Parse(q.EmployeeID)
		if err != nil {
			return nil, response.PaginationMeta{}, leaveerrors.ErrInvalidEmployeeID
		}
		filter.EmployeeID = &employeeUUID
	}
	if q.Status != "" {
		status := Status(q.Status)
		filter.Status = &status
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.log(ctx).Error("list leaves failed", zap.Error(err))
		return nil, response.PaginationMeta{}, err
	}
	return s.mapToListResponse(ctx, items), response.NewPaginationMeta(total, page, limit), nil
}

// CheckOverlaps lists department colleagues' pending or approved requests
// that intersect the given one. It never blocks a transition.
func (s *service) CheckOverlaps(ctx context.Context, id string) ([]LeaveResponse, error) {
	leaveUUID, err := uuid.Parse(id)
	if err != nil {
		return nil, leaveerrors.ErrInvalidID
	}

	l, err := s.repo.FindByID(ctx, leaveUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		s.log(ctx).Error("check overlaps load failed", zap.String("leave_id", id), zap.Error(err))
		return nil, err
	}

	conflicts, err := s.overlaps.FindDepartmentConflicts(ctx, *l)
	if err != nil {
		s.log(ctx).Error("check overlaps query failed", zap.String("leave_id", id), zap.Error(err))
		return nil, err
	}
	return s.mapToListResponse(ctx, conflicts), nil
}

// ApprovedByMonth is served from the month cache when possible; misses for
// the same month share one database read.
func (s *service) ApprovedByMonth(ctx context.Context, monthYear string) ([]CalendarEntry, error) {
	from, to, err := calendar.MonthBounds(monthYear)
	if err != nil {
		return nil, leaveerrors.ErrInvalidMonth
	}
	month := from.Format("2006-01")
	log := s.log(ctx)

	cached, ok, err := s.cache.Get(ctx, month)
	if err != nil {
		log.Warn("read leave calendar cache failed", zap.String("month", month), zap.Error(err))
	} else if ok {
		return cached, nil
	}

	v, err, _ := s.sf.Do(month, func() (any, error) {
		// Shared by every caller of the flight; one client leaving must not
		// fail the others.
		fctx := context.WithoutCancel(ctx)

		gen, genErr := s.cache.Generation(fctx, month)
		requests, err := s.repo.ListApprovedInRange(fctx, from, to)
		if err != nil {
			return nil, err
		}
		entries := GroupApprovedDays(requests, from, to)

		switch {
		case genErr != nil:
			log.Warn("read leave calendar generation failed", zap.String("month", month), zap.Error(genErr))
		default:
			written, err := s.cache.Set(fctx, month, gen, entries)
			if err != nil {
				log.Warn("write leave calendar cache failed", zap.String("month", month), zap.Error(err))
			} else if !written {
				log.Debug("leave calendar invalidated during read, not cached", zap.String("month", month))
			}
		}
		return entries, nil
	})
	if err != nil {
		log.Error("approved by month failed", zap.String("month", month), zap.Error(err))
		return nil, err
	}
	return v.([]CalendarEntry), nil
}

func parseRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := calendar.ParseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	endDate, err := calendar.ParseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidRange
	}
	return startDate, endDate, nil
}

// checkBirthday requires a recorded birth date, a start on the birthday and a
// single booked day.
func checkBirthday(birthDate *time.Time, start time.Time, days int) error {
	if birthDate == nil {
		return leaveerrors.ErrBirthDateMissing
	}
	if start.Month() != birthDate.Month() || start.Day() != birthDate.Day() {
		return leaveerrors.ErrBirthdayWrongDay
	}
	if days > 1 {
		return leaveerrors.ErrBirthdayTooLong
	}
	return nil
}
