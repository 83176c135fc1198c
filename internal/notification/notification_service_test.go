package notification_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hris-leave/internal/events"
	"hris-leave/internal/notification"
	notificationerrors "hris-leave/internal/notification/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	createFn   func(ctx context.Context, n *notification.Notification) error
	listFn     func(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, limit, offset int) ([]notification.Notification, int64, error)
	markReadFn func(ctx context.Context, recipientID, id uuid.UUID, at time.Time) (bool, error)
}

func (f *fakeRepo) Create(ctx context.Context, n *notification.Notification) error {
	return f.createFn(ctx, n)
}

func (f *fakeRepo) ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, limit, offset int) ([]notification.Notification, int64, error) {
	return f.listFn(ctx, recipientID, unreadOnly, limit, offset)
}

func (f *fakeRepo) MarkRead(ctx context.Context, recipientID, id uuid.UUID, at time.Time) (bool, error) {
	return f.markReadFn(ctx, recipientID, id, at)
}

func sampleEvent(kind string) events.LeaveNotificationEvent {
	return events.LeaveNotificationEvent{
		EventID:      uuid.NewString(),
		EventType:    kind,
		RecipientID:  uuid.NewString(),
		RequestID:    uuid.NewString(),
		EmployeeID:   uuid.NewString(),
		EmployeeName: "Ana",
		LeaveType:    "VACATION",
		LeaveLabel:   "Vacation",
		StartDate:    "2025-03-03",
		EndDate:      "2025-03-05",
		TotalDays:    3,
		Status:       "APPROVED",
		Message:      "enjoy",
	}
}

func TestNotificationService_Store(t *testing.T) {
	ctx := context.Background()

	t.Run("renders and stores response event", func(t *testing.T) {
		var stored *notification.Notification
		svc := notification.NewService(&fakeRepo{createFn: func(ctx context.Context, n *notification.Notification) error {
			stored = n
			return nil
		}})

		ev := sampleEvent(events.LeaveRespondedEvent)
		ok, err := svc.Store(ctx, ev)
		require.NoError(t, err)
		assert.True(t, ok)
		require.NotNil(t, stored)
		assert.Equal(t, ev.EventID, stored.EventID.String())
		assert.Equal(t, notification.KindResponse, stored.Kind)
		assert.Equal(t, "Leave request approved", stored.Title)
		assert.Equal(t, "Your Vacation request for 2025-03-03 to 2025-03-05 was approved. Note: enjoy", stored.Body)
	})

	t.Run("new request body names the employee", func(t *testing.T) {
		var stored *notification.Notification
		svc := notification.NewService(&fakeRepo{createFn: func(ctx context.Context, n *notification.Notification) error {
			stored = n
			return nil
		}})

		ev := sampleEvent(events.LeaveRequestedEvent)
		ev.Message = ""
		_, err := svc.Store(ctx, ev)
		require.NoError(t, err)
		assert.Equal(t, "New leave request", stored.Title)
		assert.Equal(t, "Ana requested Vacation for 2025-03-03 to 2025-03-05 (3 business days).", stored.Body)
	})

	t.Run("duplicate event is skipped", func(t *testing.T) {
		svc := notification.NewService(&fakeRepo{createFn: func(ctx context.Context, n *notification.Notification) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_notifications_event_id"}
		}})

		ok, err := svc.Store(ctx, sampleEvent(events.LeaveSubmittedEvent))
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("other storage errors propagate", func(t *testing.T) {
		svc := notification.NewService(&fakeRepo{createFn: func(ctx context.Context, n *notification.Notification) error {
			return errors.New("db down")
		}})

		_, err := svc.Store(ctx, sampleEvent(events.LeaveSubmittedEvent))
		assert.EqualError(t, err, "db down")
	})

	t.Run("malformed recipient", func(t *testing.T) {
		svc := notification.NewService(&fakeRepo{})
		ev := sampleEvent(events.LeaveSubmittedEvent)
		ev.RecipientID = "nope"

		_, err := svc.Store(ctx, ev)
		assert.ErrorIs(t, err, notificationerrors.ErrInvalidRecipientID)
	})
}

func TestNotificationService_List(t *testing.T) {
	recipient := uuid.New()
	svc := notification.NewService(&fakeRepo{
		listFn: func(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, limit, offset int) ([]notification.Notification, int64, error) {
			assert.Equal(t, recipient, recipientID)
			assert.True(t, unreadOnly)
			assert.Equal(t, 10, limit)
			assert.Equal(t, 10, offset)
			return []notification.Notification{{ID: uuid.New(), Title: "t", Kind: notification.KindResponse}}, 11, nil
		},
	})

	items, meta, err := svc.List(context.Background(), recipient.String(), notification.ListQuery{Page: 2, Limit: 10, UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.False(t, items[0].Read)
	assert.Equal(t, int64(11), meta.Total)
	assert.Equal(t, 2, meta.TotalPages)
}

func TestNotificationService_MarkRead(t *testing.T) {
	recipient, id := uuid.New(), uuid.New()

	t.Run("marks read", func(t *testing.T) {
		svc := notification.NewService(&fakeRepo{
			markReadFn: func(ctx context.Context, r, n uuid.UUID, at time.Time) (bool, error) {
				assert.Equal(t, recipient, r)
				assert.Equal(t, id, n)
				return true, nil
			},
		})
		assert.NoError(t, svc.MarkRead(context.Background(), recipient.String(), id.String()))
	})

	t.Run("someone else's notification is not found", func(t *testing.T) {
		svc := notification.NewService(&fakeRepo{
			markReadFn: func(ctx context.Context, r, n uuid.UUID, at time.Time) (bool, error) {
				return false, nil
			},
		})
		err := svc.MarkRead(context.Background(), recipient.String(), id.String())
		assert.ErrorIs(t, err, notificationerrors.ErrNotFound)
	})
}
