package queue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPublisherFunc(t *testing.T) {
	var gotKey string
	var gotPayload []byte
	pub := PublisherFunc(func(_ context.Context, payload []byte, routingKey string) error {
		gotPayload, gotKey = payload, routingKey
		return nil
	})

	require.NoError(t, pub.Publish(context.Background(), []byte(`{"id":1}`), "record.created"))
	require.Equal(t, "record.created", gotKey)
	require.JSONEq(t, `{"id":1}`, string(gotPayload))

	require.NoError(t, Discard.Publish(context.Background(), nil, "record.deleted"))
}
