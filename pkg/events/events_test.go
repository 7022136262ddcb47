package events

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"fletes/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventJSON(t *testing.T) {
	e := New(ViajeIniciado, "abc", "VJ-20240101-0001")
	e.ClientID = "c1"

	raw, err := e.ToJSON()
	require.NoError(t, err)

	back, err := FromJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, e.ID, back.ID)
	assert.Equal(t, ViajeIniciado, back.Type)
	assert.Equal(t, "c1", back.ClientID)
	assert.NotEmpty(t, e.ID)
}

func TestDispatcherDeliversInOrder(t *testing.T) {
	var mu sync.Mutex
	var got []string
	d := NewDispatcher(func(_ context.Context, e Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e.Reference)
		if e.Reference == "2" {
			return errors.New("handler failure is logged, not fatal")
		}
		return nil
	}, 10, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Run(ctx) }()

	for i := 1; i <= 3; i++ {
		require.NoError(t, d.Publish(ctx, New(CotizacionEnviada, "id", fmt.Sprint(i))))
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 3
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"1", "2", "3"}, got)
}

func TestDispatcherFlushesOnShutdown(t *testing.T) {
	var got []string
	d := NewDispatcher(func(_ context.Context, e Event) error {
		got = append(got, e.Reference)
		return nil
	}, 10, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	for i := 1; i <= 3; i++ {
		require.NoError(t, d.Publish(ctx, New(ViajeCompletado, "id", fmt.Sprint(i))))
	}
	cancel()

	require.NoError(t, d.Run(ctx))
	assert.Len(t, got, 3)
}

func TestDispatcherDrainIsBounded(t *testing.T) {
	var buf bytes.Buffer
	handled := 0
	d := NewDispatcher(func(context.Context, Event) error {
		handled++
		time.Sleep(20 * time.Millisecond)
		return nil
	}, 10, logger.NewWriterLogger(&buf, logger.WarnLevel))
	d.drainTimeout = 30 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	for i := 1; i <= 5; i++ {
		require.NoError(t, d.Publish(ctx, New(ViajeCompletado, "id", fmt.Sprint(i))))
	}
	cancel()

	start := time.Now()
	require.NoError(t, d.Run(ctx))
	assert.Less(t, time.Since(start), 150*time.Millisecond)
	assert.Less(t, handled, 5)
	assert.Contains(t, buf.String(), `"dropped"`)
}

func TestDispatcherQueueFull(t *testing.T) {
	d := NewDispatcher(func(context.Context, Event) error { return nil }, 1, logger.Discard())
	ctx := context.Background()

	require.NoError(t, d.Publish(ctx, New(ViajeAsignado, "a", "1")))
	assert.ErrorIs(t, d.Publish(ctx, New(ViajeAsignado, "b", "2")), ErrQueueFull)
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{12, 30 * time.Second},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			assert.Equal(t, tt.expected, exponentialBackoff(tt.attempt))
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	assert.False(t, isConnectionError(nil))
	assert.True(t, isConnectionError(errors.New("dial AMQP: connection refused")))
	assert.True(t, isConnectionError(errors.New("delivery channel closed")))
	assert.True(t, isConnectionError(errors.New("unexpected EOF")))
	assert.False(t, isConnectionError(errors.New("declare queue: access refused")))
}
