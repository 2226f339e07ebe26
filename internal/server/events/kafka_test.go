package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs     []kafka.Message
	err      error
	deadline bool
	closed   bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestToMessage(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	msg, err := toMessage(Event{Type: UserLoggedIn, UserID: "u1", OccurredAt: at})
	require.NoError(t, err)

	assert.Equal(t, []byte("u1"), msg.Key)
	assert.Equal(t, at, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, "user_logged_in", string(msg.Headers[0].Value))

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "user_logged_in", body["type"])
	assert.Equal(t, "u1", body["userId"])
	assert.Equal(t, "2024-05-01T10:00:00Z", body["occurredAt"])
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{w: w}

	require.NoError(t, p.Publish(context.Background(), Event{Type: UserRegistered, UserID: "u1"}))
	require.Len(t, w.msgs, 1)
	assert.True(t, w.deadline, "writes are bounded by a timeout")

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_PublishError(t *testing.T) {
	p := &KafkaPublisher{w: &fakeWriter{err: errors.New("broker down")}}

	err := p.Publish(context.Background(), Event{Type: LoggedOut, UserID: "u1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logged_out")
	assert.Contains(t, err.Error(), "broker down")
}

func TestNewKafkaPublisher(t *testing.T) {
	p := NewKafkaPublisher([]string{"k1:9092", "k2:9092"}, "auth_events")

	w, ok := p.w.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "auth_events", w.Topic)
	require.NotNil(t, w.Addr)
	assert.Equal(t, "tcp,tcp", w.Addr.Network())
	assert.Equal(t, "k1:9092,k2:9092", w.Addr.String())
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), Event{}))
	assert.NoError(t, p.Close())
}
