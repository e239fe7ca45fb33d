package messaging_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/shorturls/internal/audit"
	"github.com/serroba/shorturls/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	messages   []*message.Message
	topic      string
	publishErr error
	closeErr   error
	closed     bool
}

func (m *mockPublisher) Publish(topic string, msgs ...*message.Message) error {
	if m.publishErr != nil {
		return m.publishErr
	}

	m.topic = topic
	m.messages = append(m.messages, msgs...)

	return nil
}

func (m *mockPublisher) Close() error {
	m.closed = true

	return m.closeErr
}

func TestNewPublishFunc(t *testing.T) {
	t.Run("publishes audit event in the collector format", func(t *testing.T) {
		pub := &mockPublisher{}
		publish := messaging.NewPublishFunc[audit.Event](pub, audit.Topic)

		err := publish(&audit.Event{
			Stack:   "backend",
			Level:   audit.LevelWarn,
			Package: audit.PackageRoute,
			Message: "Shortcode abc123 already exists. Generating new one.",
		})

		require.NoError(t, err)
		assert.Equal(t, audit.Topic, pub.topic)
		require.Len(t, pub.messages, 1)

		var payload map[string]string

		require.NoError(t, json.Unmarshal(pub.messages[0].Payload, &payload))
		assert.Equal(t, map[string]string{
			"stack":   "backend",
			"level":   "warn",
			"package": "route",
			"message": "Shortcode abc123 already exists. Generating new one.",
		}, payload)
	})

	t.Run("stamps topic and publish time", func(t *testing.T) {
		pub := &mockPublisher{}
		publish := messaging.NewPublishFunc[audit.Event](pub, audit.Topic)
		before := time.Now().UTC()

		require.NoError(t, publish(&audit.Event{Level: audit.LevelInfo, Message: "Listed 0 short urls"}))

		msg := pub.messages[0]
		assert.Equal(t, audit.Topic, msg.Metadata.Get(messaging.MetadataTopic))
		assert.NotEmpty(t, msg.UUID)

		publishedAt, err := time.Parse(time.RFC3339Nano, msg.Metadata.Get(messaging.MetadataPublishedAt))
		require.NoError(t, err)
		assert.False(t, publishedAt.Before(before.Truncate(time.Second)))
	})

	t.Run("gives every message its own id", func(t *testing.T) {
		pub := &mockPublisher{}
		publish := messaging.NewPublishFunc[audit.Event](pub, audit.Topic)

		for range 3 {
			require.NoError(t, publish(&audit.Event{Level: audit.LevelDebug, Message: "Resolved abc123"}))
		}

		ids := map[string]struct{}{}
		for _, msg := range pub.messages {
			ids[msg.UUID] = struct{}{}
		}

		assert.Len(t, ids, 3)
	})

	t.Run("surfaces transport errors", func(t *testing.T) {
		pub := &mockPublisher{publishErr: errors.New("stream unavailable")}
		publish := messaging.NewPublishFunc[audit.Event](pub, audit.Topic)

		err := publish(&audit.Event{Level: audit.LevelError, Message: "Missing URL"})

		require.ErrorContains(t, err, "stream unavailable")
		assert.Empty(t, pub.messages)
	})
}

func TestPublisherGroup(t *testing.T) {
	t.Run("exposes the publisher for audit publishing", func(t *testing.T) {
		pub := &mockPublisher{}
		group := messaging.NewPublisherGroup(pub)

		publish := messaging.NewPublishFunc[audit.Event](group.Publisher(), audit.Topic)
		require.NoError(t, publish(&audit.Event{Level: audit.LevelInfo, Message: "Stored shortcode abc123"}))

		assert.Len(t, pub.messages, 1)
	})

	t.Run("closes the publisher on shutdown", func(t *testing.T) {
		pub := &mockPublisher{}

		require.NoError(t, messaging.NewPublisherGroup(pub).Shutdown())
		assert.True(t, pub.closed)
	})

	t.Run("returns close errors", func(t *testing.T) {
		pub := &mockPublisher{closeErr: errors.New("already closed")}

		err := messaging.NewPublisherGroup(pub).Shutdown()

		require.ErrorContains(t, err, "already closed")
	})
}
