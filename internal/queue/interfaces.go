// Package queue holds the broker contracts the record service depends on.
package queue

import "context"

// Consumer feeds broker messages into the store until ctx is done.
type Consumer interface {
	Start(ctx context.Context) error
}

// Publisher delivers an encoded record event under routingKey.
type Publisher interface {
	Publish(ctx context.Context, payload []byte, routingKey string) error
}

// PublisherFunc adapts a plain function to Publisher.
type PublisherFunc func(ctx context.Context, payload []byte, routingKey string) error

func (f PublisherFunc) Publish(ctx context.Context, payload []byte, routingKey string) error {
	return f(ctx, payload, routingKey)
}

// Discard accepts every event and delivers none. It stands in when no broker is configured.
var Discard Publisher = PublisherFunc(func(context.Context, []byte, string) error { return nil })
