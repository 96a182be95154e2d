// Package events publishes domain events as JSON messages.
package events

import "context"

const (
	TopicOrders   = "order_events"
	TopicProducts = "product_events"
	TopicUsers    = "user_events"
	TopicMessages = "message_events"
)

type Publisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}

type Nop struct{}

func (Nop) Publish(context.Context, string, string, any) error { return nil }
