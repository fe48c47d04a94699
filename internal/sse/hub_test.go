package sse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"recordstore/internal/model"
)

func TestHubDeliversToRegisteredClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	a, b := NewClient(1), NewClient(1)
	hub.Register(a)
	hub.Register(b)
	require.Eventually(t, func() bool { return hub.Clients() == 2 }, time.Second, 10*time.Millisecond)

	require.True(t, hub.Broadcast(model.RecordEvent{Type: model.EventCreated, RecordID: 3}))
	for _, c := range []*Client{a, b} {
		select {
		case got := <-c.Ch:
			require.Equal(t, int64(3), got.RecordID)
		case <-time.After(time.Second):
			t.Fatalf("expected event")
		}
	}

	hub.Unregister(a)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)
}

func TestHubDropsWhenQueueFull(t *testing.T) {
	hub := NewHub()
	for i := 0; i < cap(hub.broadcast); i++ {
		require.True(t, hub.Broadcast(model.RecordEvent{RecordID: int64(i)}))
	}
	require.False(t, hub.Broadcast(model.RecordEvent{}))
}

func TestHubDropsForSlowClient(t *testing.T) {
	hub := NewHub()
	slow := NewClient(1)
	hub.clients[slow] = struct{}{}

	hub.fanOut(model.RecordEvent{RecordID: 1})
	hub.fanOut(model.RecordEvent{RecordID: 2})

	require.Len(t, slow.Ch, 1)
	got := <-slow.Ch
	require.Equal(t, int64(1), got.RecordID)
}

func TestHubStoppedDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := NewClient(1)
	require.True(t, hub.Register(client))
	cancel()
	<-stopped

	returned := make(chan bool, 1)
	go func() {
		hub.Unregister(client)
		returned <- hub.Register(NewClient(1))
	}()
	select {
	case ok := <-returned:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatalf("registration blocked after the hub stopped")
	}
	select {
	case <-hub.Done():
	default:
		t.Fatalf("done not closed")
	}
}
