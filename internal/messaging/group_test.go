package messaging_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/shorturls/internal/audit"
	"github.com/serroba/shorturls/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRunnable struct {
	started     bool
	shutdown    bool
	startErr    error
	shutdownErr error
}

func (m *mockRunnable) Start(_ context.Context) error {
	if m.startErr != nil {
		return m.startErr
	}

	m.started = true

	return nil
}

func (m *mockRunnable) Shutdown() error {
	m.shutdown = true

	return m.shutdownErr
}

type auditSink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (s *auditSink) handle(_ context.Context, event *audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, *event)

	return nil
}

func (s *auditSink) received() []audit.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]audit.Event(nil), s.events...)
}

func auditMessage(t *testing.T, event audit.Event) *message.Message {
	t.Helper()

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(messaging.MetadataTopic, audit.Topic)

	return msg
}

func TestConsumerGroup_DeliversAuditEvents(t *testing.T) {
	sub := newMockSubscriber()
	sink := &auditSink{}
	group := messaging.NewConsumerGroup(sub, zap.NewNop())
	group.Add(messaging.NewConsumer(sub, audit.Topic, sink.handle, zap.NewNop()))

	require.NoError(t, group.Start(context.Background()))

	event := audit.Event{Stack: "backend", Level: audit.LevelError, Package: audit.PackageRoute, Message: "Missing URL"}
	msg := auditMessage(t, event)
	sub.msgChan <- msg

	select {
	case <-msg.Acked():
	case <-time.After(time.Second):
		t.Fatal("audit message was not acked")
	}

	assert.Equal(t, []audit.Event{event}, sink.received())

	require.NoError(t, group.Shutdown())
	assert.True(t, sub.closed)
}

func TestConsumerGroup_Start(t *testing.T) {
	t.Run("starts every consumer", func(t *testing.T) {
		group := messaging.NewConsumerGroup(newMockSubscriber(), zap.NewNop())
		first, second := &mockRunnable{}, &mockRunnable{}
		group.Add(first)
		group.Add(second)

		require.NoError(t, group.Start(context.Background()))

		assert.Equal(t, 2, group.Len())
		assert.True(t, first.started)
		assert.True(t, second.started)
	})

	t.Run("shuts started consumers down when one fails", func(t *testing.T) {
		group := messaging.NewConsumerGroup(newMockSubscriber(), zap.NewNop())
		first := &mockRunnable{}
		failing := &mockRunnable{startErr: errors.New("subscribe audit.log: connection refused")}
		group.Add(first)
		group.Add(failing)

		err := group.Start(context.Background())

		require.ErrorContains(t, err, "connection refused")
		assert.True(t, first.shutdown)
		assert.False(t, failing.started)
	})
}

func TestConsumerGroup_Shutdown(t *testing.T) {
	t.Run("joins every error and still closes the subscriber", func(t *testing.T) {
		sub := newMockSubscriber()
		group := messaging.NewConsumerGroup(sub, zap.NewNop())
		first := &mockRunnable{shutdownErr: errors.New("first consumer")}
		second := &mockRunnable{shutdownErr: errors.New("second consumer")}
		group.Add(first)
		group.Add(second)

		err := group.Shutdown()

		require.ErrorContains(t, err, "first consumer")
		require.ErrorContains(t, err, "second consumer")
		assert.True(t, second.shutdown)
		assert.True(t, sub.closed)
	})

	t.Run("closes the subscriber of an empty group", func(t *testing.T) {
		sub := newMockSubscriber()

		require.NoError(t, messaging.NewConsumerGroup(sub, zap.NewNop()).Shutdown())
		assert.True(t, sub.closed)
	})
}
