package messaging

import (
	"context"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Channels published by the booking workflows. Dashboards may subscribe to
// these instead of polling.
const (
	ChannelBookingCreated   = "booking.created"
	ChannelBookingCompleted = "booking.completed"
)

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
