// Package notification fans leave lifecycle transitions out to recipients.
//
// The HTTP process only records one outbox row per recipient. The worker
// relays those rows to Kafka and the consumer materializes them as in-app
// notifications; push and email senders subscribe to the same topic.
package notification

import (
	"context"
	"encoding/json"
	"time"

	"hris-leave/internal/calendar"
	"hris-leave/internal/events"
	"hris-leave/internal/leavepolicy"
	"hris-leave/internal/messaging/kafka"
	"hris-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Kind string

const (
	KindNewRequest         Kind = events.LeaveRequestedEvent
	KindConfirmation       Kind = events.LeaveSubmittedEvent
	KindResponse           Kind = events.LeaveRespondedEvent
	KindDepartmentApproval Kind = events.LeaveDepartmentApprovedEvent
)

const aggregateType = "leave_request"

// Payload describes the leave request a notification is about.
type Payload struct {
	RequestID    uuid.UUID
	EmployeeID   uuid.UUID
	EmployeeName string
	LeaveType    leavepolicy.Type
	LeaveLabel   string
	StartDate    time.Time
	EndDate      time.Time
	TotalDays    int
	Status       string
	Message      string
}

//go:generate mockgen -source=dispatcher.go -destination=mock/dispatcher_mock.go -package=mock
type Dispatcher interface {
	Notify(ctx context.Context, recipient uuid.UUID, kind Kind, payload Payload) error
}

type outboxDispatcher struct {
	outbox kafka.OutboxRepository
	topic  string
	now    func() time.Time
	logger *zap.Logger
}

func NewOutboxDispatcher(outbox kafka.OutboxRepository, topic string, logger ...*zap.Logger) Dispatcher {
	l := zap.L().Named("notification.dispatcher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.dispatcher")
	}
	if topic == "" {
		topic = events.LeaveNotificationTopic
	}
	return &outboxDispatcher{outbox: outbox, topic: topic, now: time.Now, logger: l}
}

func (d *outboxDispatcher) Notify(ctx context.Context, recipient uuid.UUID, kind Kind, payload Payload) error {
	event := events.LeaveNotificationEvent{
		EventID:      uuid.NewString(),
		EventType:    string(kind),
		RecipientID:  recipient.String(),
		RequestID:    payload.RequestID.String(),
		EmployeeID:   payload.EmployeeID.String(),
		EmployeeName: payload.EmployeeName,
		LeaveType:    string(payload.LeaveType),
		LeaveLabel:   payload.LeaveLabel,
		StartDate:    payload.StartDate.Format(calendar.DateLayout),
		EndDate:      payload.EndDate.Format(calendar.DateLayout),
		TotalDays:    payload.TotalDays,
		Status:       payload.Status,
		Message:      payload.Message,
		OccurredAt:   d.now().UTC(),
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = d.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            event.EventID,
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: aggregateType,
		AggregateID:   event.RequestID,
		EventType:     event.EventType,
		Topic:         d.topic,
		Payload:       body,
		Status:        kafka.OutboxStatusPending,
	})
	if err != nil {
		d.logger.Error("enqueue notification failed",
			zap.String("kind", string(kind)),
			zap.String("recipient_id", event.RecipientID),
			zap.String("leave_id", event.RequestID),
			zap.Error(err),
		)
		return err
	}

	d.logger.Debug("notification enqueued",
		zap.String("event_id", event.EventID),
		zap.String("kind", string(kind)),
		zap.String("recipient_id", event.RecipientID),
	)
	return nil
}
