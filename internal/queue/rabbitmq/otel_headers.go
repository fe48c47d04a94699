package rabbitmq

import (
	"fmt"
	"sort"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel/propagation"
)

// amqpHeaderCarrier exposes AMQP message headers to the otel propagator.
// Brokers and other clients may hand string headers back as []byte.
type amqpHeaderCarrier amqp.Table

var _ propagation.TextMapCarrier = amqpHeaderCarrier{}

func (c amqpHeaderCarrier) Get(key string) string {
	switch v := c[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

func (c amqpHeaderCarrier) Set(key, value string) {
	c[key] = value
}

// Keys is sorted so injected headers are stable across publishes.
func (c amqpHeaderCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
