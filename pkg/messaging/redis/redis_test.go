package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/petclinic-api/pkg/messaging"
)

func newTestBroker(t *testing.T) messaging.Broker {
	t.Helper()

	mr := miniredis.RunT(t)
	logger := zerolog.Nop()
	broker, err := NewRedisBroker(Config{
		URL:          "redis://" + mr.Addr(),
		MaxRetries:   1,
		RetryBackoff: 10 * time.Millisecond,
		PoolSize:     2,
		MinIdleConns: 1,
	}, &logger)
	require.NoError(t, err)
	t.Cleanup(func() { broker.Close() })

	return broker
}

func TestPublishSubscribe(t *testing.T) {
	broker := newTestBroker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msgs, err := broker.Subscribe(ctx, messaging.ChannelBookingCreated)
	require.NoError(t, err)

	// Give the subscriber goroutine a moment to attach.
	time.Sleep(50 * time.Millisecond)

	err = broker.Publish(ctx, messaging.ChannelBookingCreated, messaging.Message{
		Type:    "booking.created",
		Payload: map[string]string{"booking_id": "b-1"},
	})
	require.NoError(t, err)

	select {
	case raw := <-msgs:
		var msg messaging.Message
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, "booking.created", msg.Type)
	case <-ctx.Done():
		t.Fatal("timed out waiting for message")
	}
}

func TestNewRedisBrokerBadURL(t *testing.T) {
	logger := zerolog.Nop()
	_, err := NewRedisBroker(Config{URL: "not-a-url"}, &logger)
	assert.Error(t, err)
}
