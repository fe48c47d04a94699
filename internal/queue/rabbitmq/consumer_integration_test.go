//go:build integration

package rabbitmq

import (
	"context"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"recordstore/internal/config"
	"recordstore/internal/domain"
	"recordstore/internal/store/memory"
)

func TestConsumerIntegration(t *testing.T) {
	ctx := context.Background()
	amqpURL := startRabbitMQ(t, ctx)

	cfg := &config.Config{
		RabbitMQURL:       amqpURL,
		RabbitExchange:    "records",
		RabbitQueue:       "records.ingest",
		RabbitRoutingKey:  "ingest.record",
		RabbitConsumerTag: "record-store-consumer",
	}

	repo := memory.New(domain.IDPolicyLength, domain.SeedRecords(), zap.NewNop())
	svc := newIntegrationService(t, cfg, repo)
	consumer := NewConsumer(cfg, svc, zap.NewNop())

	consumeCtx, cancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() {
		errCh <- consumer.Start(consumeCtx)
	}()

	require.NoError(t, waitForConsumer(ctx, amqpURL, cfg.RabbitQueue, 5*time.Second))

	publishRaw(t, amqpURL, cfg.RabbitExchange, cfg.RabbitRoutingKey, []byte(`{"name":"Ana","age":41}`))

	require.Eventually(t, func() bool {
		n, _ := repo.Len(ctx)
		return n == 3
	}, 5*time.Second, 50*time.Millisecond)

	records, err := repo.ListRecords(ctx)
	require.NoError(t, err)
	id, _ := records[2].ID()
	require.Equal(t, int64(3), id)
	require.Equal(t, "Ana", records[2]["name"])

	cancel()
	select {
	case <-time.After(3 * time.Second):
		t.Fatalf("consumer did not stop")
	case <-errCh:
	}
}

func publishRaw(t *testing.T, amqpURL, exchange, routingKey string, body []byte) {
	t.Helper()

	conn, err := amqp.Dial(amqpURL)
	require.NoError(t, err)
	defer conn.Close()

	ch, err := conn.Channel()
	require.NoError(t, err)
	defer ch.Close()

	require.NoError(t, ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil))
	require.NoError(t, ch.PublishWithContext(context.Background(), exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	}))
}

func waitForConsumer(ctx context.Context, amqpURL, queue string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			conn, err := amqp.Dial(amqpURL)
			if err != nil {
				continue
			}
			ch, err := conn.Channel()
			if err != nil {
				_ = conn.Close()
				continue
			}
			q, err := ch.QueueInspect(queue)
			_ = ch.Close()
			_ = conn.Close()
			if err != nil {
				continue
			}
			if q.Consumers > 0 {
				return nil
			}
		}
	}
}
