package events

import (
	"context"
	"errors"
	"time"

	"fletes/pkg/logger"
)

var ErrQueueFull = errors.New("events: dispatcher queue full")

// Dispatcher delivers events to a handler on a background goroutine. It is
// used when no broker is configured.
type Dispatcher struct {
	handler Handler
	queue   chan Event
	log     *logger.Logger
	// how long Run keeps delivering queued events after ctx is cancelled
	drainTimeout time.Duration
}

func NewDispatcher(handler Handler, size int, log *logger.Logger) *Dispatcher {
	if size <= 0 {
		size = 128
	}
	return &Dispatcher{
		handler: handler,
		queue:   make(chan Event, size),
		log:     log,

		drainTimeout: 5 * time.Second,
	}
}

func (d *Dispatcher) Publish(ctx context.Context, event Event) error {
	select {
	case d.queue <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

// Run delivers queued events until ctx is cancelled, then flushes what is
// left for up to drainTimeout.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			d.drain()
			return nil
		}
		select {
		case <-ctx.Done():
			d.drain()
			return nil
		case event := <-d.queue:
			d.handle(ctx, event)
		}
	}
}

func (d *Dispatcher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), d.drainTimeout)
	defer cancel()
	for {
		if ctx.Err() != nil {
			if n := len(d.queue); n > 0 {
				d.log.WithField("dropped", n).Warn("Dispatcher stopped with undelivered events")
			}
			return
		}
		select {
		case event := <-d.queue:
			d.handle(ctx, event)
		default:
			return
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, event Event) {
	if err := d.handler(ctx, event); err != nil {
		d.log.WithError(err).WithFields(map[string]interface{}{
			"event_id":   event.ID,
			"event_type": event.Type,
		}).Error("Failed to handle event")
	}
}

func (d *Dispatcher) Close() error { return nil }
