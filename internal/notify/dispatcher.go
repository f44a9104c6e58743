package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	queueSize      = 100
	publishTimeout = 5 * time.Second
)

// Dispatcher hands events to a Publisher from a background worker. A full
// queue drops the event; a request never waits on the broker.
type Dispatcher struct {
	pub   Publisher
	log   *zap.Logger
	queue chan Event
	wg    sync.WaitGroup
	once  sync.Once
}

func NewDispatcher(pub Publisher, log *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		pub:   pub,
		log:   log,
		queue: make(chan Event, queueSize),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		if err := d.pub.Publish(ctx, ev); err != nil {
			d.log.Error("notification publish failed",
				zap.String("type", string(ev.Type)),
				zap.Uint("recipient_id", ev.RecipientID),
				zap.Error(err),
			)
		}
		cancel()
	}
}

func (d *Dispatcher) Notify(ev Event) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	select {
	case d.queue <- ev:
	default:
		d.log.Warn("notification queue full, dropping event",
			zap.String("type", string(ev.Type)),
		)
	}
}

// Close stops accepting events and waits for queued ones to be published.
func (d *Dispatcher) Close() error {
	d.once.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
	return d.pub.Close()
}
