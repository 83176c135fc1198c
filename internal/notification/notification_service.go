package notification

import (
	"context"
	"errors"
	"strings"
	"time"

	"hris-leave/internal/events"
	notificationerrors "hris-leave/internal/notification/errors"
	"hris-leave/internal/shared/response"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const (
	defaultPage  = 1
	defaultLimit = 20
)

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	// Store materializes an event in the recipient's inbox. Replays of an
	// already stored event report stored=false without error.
	Store(ctx context.Context, event events.LeaveNotificationEvent) (bool, error)
	List(ctx context.Context, recipientID string, q ListQuery) ([]NotificationResponse, response.PaginationMeta, error)
	MarkRead(ctx context.Context, recipientID, id string) error
}

type service struct {
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, now: time.Now, logger: l}
}

func (s *service) Store(ctx context.Context, event events.LeaveNotificationEvent) (bool, error) {
	eventID, err := uuid.Parse(event.EventID)
	if err != nil {
		return false, notificationerrors.ErrInvalidID
	}
	recipientID, err := uuid.Parse(event.RecipientID)
	if err != nil {
		return false, notificationerrors.ErrInvalidRecipientID
	}
	leaveID, err := uuid.Parse(event.RequestID)
	if err != nil {
		return false, notificationerrors.ErrInvalidID
	}

	title, body := render(event)
	n := &Notification{
		ID:          uuid.New(),
		EventID:     eventID,
		RecipientID: recipientID,
		Kind:        Kind(event.EventType),
		LeaveID:     leaveID,
		Title:       title,
		Body:        body,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		if isDuplicateEvent(err) {
			s.logger.Debug("notification already stored", zap.String("event_id", event.EventID))
			return false, nil
		}
		s.logger.Error("store notification failed", zap.String("event_id", event.EventID), zap.Error(err))
		return false, err
	}
	return true, nil
}

func (s *service) List(ctx context.Context, recipientID string, q ListQuery) ([]NotificationResponse, response.PaginationMeta, error) {
	recipientUUID, err := uuid.Parse(recipientID)
	if err != nil {
		return nil, response.PaginationMeta{}, notificationerrors.ErrInvalidRecipientID
	}
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}

	items, total, err := s.repo.ListByRecipient(ctx, recipientUUID, q.UnreadOnly, limit, (page-1)*limit)
	if err != nil {
		s.logger.Error("list notifications failed", zap.String("recipient_id", recipientID), zap.Error(err))
		return nil, response.PaginationMeta{}, err
	}

	resp := make([]NotificationResponse, 0, len(items))
	for _, n := range items {
		resp = append(resp, mapToResponse(n))
	}
	return resp, response.NewPaginationMeta(total, page, limit), nil
}

func (s *service) MarkRead(ctx context.Context, recipientID, id string) error {
	recipientUUID, err := uuid.Parse(recipientID)
	if err != nil {
		return notificationerrors.ErrInvalidRecipientID
	}
	notificationUUID, err := uuid.Parse(id)
	if err != nil {
		return notificationerrors.ErrInvalidID
	}

	found, err := s.repo.MarkRead(ctx, recipientUUID, notificationUUID, s.now().UTC())
	if err != nil {
		s.logger.Error("mark notification read failed", zap.String("notification_id", id), zap.Error(err))
		return err
	}
	if !found {
		return notificationerrors.ErrNotFound
	}
	return nil
}

func mapToResponse(n Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID.String(),
		Kind:      string(n.Kind),
		LeaveID:   n.LeaveID.String(),
		Title:     n.Title,
		Body:      n.Body,
		Read:      n.ReadAt != nil,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
	}
	if n.ReadAt != nil {
		v := n.ReadAt.UTC().Format(time.RFC3339)
		resp.ReadAt = &v
	}
	return resp
}

func isDuplicateEvent(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_notifications_event_id"
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_notifications_event_id")
}
