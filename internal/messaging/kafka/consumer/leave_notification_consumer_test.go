package consumer_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"hris-leave/internal/events"
	"hris-leave/internal/messaging/kafka/consumer"
	notificationerrors "hris-leave/internal/notification/errors"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedReader returns queued messages and then blocks until cancelled.
type scriptedReader struct {
	messages  []kafkago.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *scriptedReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(r.messages) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafkago.Message{}, ctx.Err()
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

func (r *scriptedReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

type fakeStore struct {
	results map[string]error
	dups    map[string]bool
	stored  []string

	// outages fails an event with a connection error this many times before
	// it succeeds; -1 fails forever.
	outages  map[string]int
	attempts map[string]int
	onFail   func(attempt int)
}

func (f *fakeStore) Store(ctx context.Context, event events.LeaveNotificationEvent) (bool, error) {
	if f.attempts == nil {
		f.attempts = map[string]int{}
	}
	f.attempts[event.EventID]++
	if n := f.outages[event.EventID]; n != 0 {
		if n > 0 {
			f.outages[event.EventID] = n - 1
		}
		if f.onFail != nil {
			f.onFail(f.attempts[event.EventID])
		}
		return false, errors.New("connection refused")
	}
	if err := f.results[event.EventID]; err != nil {
		return false, err
	}
	if f.dups[event.EventID] {
		return false, nil
	}
	f.stored = append(f.stored, event.EventID)
	return true, nil
}

func message(t *testing.T, offset int64, eventID string) kafkago.Message {
	t.Helper()
	body, err := json.Marshal(events.LeaveNotificationEvent{EventID: eventID, EventType: events.LeaveRespondedEvent})
	require.NoError(t, err)
	return kafkago.Message{Offset: offset, Value: body}
}

var fastRetry = consumer.Options{RetryBackoff: time.Millisecond, MaxRetryBackoff: 2 * time.Millisecond}

func TestConsumeLeaveNotifications(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &scriptedReader{
		cancel: cancel,
		messages: []kafkago.Message{
			message(t, 1, "ok"),
			{Offset: 2, Value: []byte("not json")},
			message(t, 3, "dup"),
			message(t, 4, "db-down"),
			message(t, 5, "invalid"),
		},
	}
	store := &fakeStore{
		results: map[string]error{"invalid": notificationerrors.ErrInvalidRecipientID},
		dups:    map[string]bool{"dup": true},
		outages: map[string]int{"db-down": 2},
	}

	consumer.ConsumeLeaveNotifications(ctx, reader, store, fastRetry, zap.NewNop())

	assert.Equal(t, []string{"ok", "db-down"}, store.stored)
	assert.Equal(t, 3, store.attempts["db-down"])
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, reader.committed)
}

func TestConsumeLeaveNotifications_OutageHoldsOffset(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &scriptedReader{
		cancel: cancel,
		messages: []kafkago.Message{
			message(t, 10, "db-down"),
			message(t, 11, "ok"),
		},
	}
	store := &fakeStore{
		outages: map[string]int{"db-down": -1},
		onFail: func(attempt int) {
			if attempt == 3 {
				cancel()
			}
		},
	}

	consumer.ConsumeLeaveNotifications(ctx, reader, store, fastRetry, zap.NewNop())

	assert.Equal(t, 3, store.attempts["db-down"])
	assert.Empty(t, store.stored)
	assert.Empty(t, reader.committed)
	require.Len(t, reader.messages, 1, "nothing past the failing offset is fetched")
	assert.Equal(t, int64(11), reader.messages[0].Offset)
}
