package notification

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"laborhub/internal/domain"
)

// Publisher sends events to the broker. *mq.Publisher implements it.
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Envelope is the broker message body for publish effects.
type Envelope struct {
	Event       string    `json:"event"`
	AggregateID int64     `json:"aggregate_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Payload     any       `json:"payload"`
}

var errDispatcherClosed = errors.New("dispatcher closed")

// Dispatcher delivers effects on a background worker after the write that
// produced them has committed. Delivery failures are logged and never retried.
// It is used when redis is not configured; TaskQueue replaces it otherwise.
type Dispatcher struct {
	deliverer *Deliverer
	timeout   time.Duration
	log       *zap.Logger

	queue  chan domain.Effect
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

type DispatcherConfig struct {
	QueueSize int
	Timeout   time.Duration
}

// NewDispatcher starts the worker. publisher may be nil.
func NewDispatcher(notifier *Service, mailer Mailer, publisher Publisher, cfg DispatcherConfig, log *zap.Logger) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dispatcher{
		deliverer: NewDeliverer(notifier, mailer, publisher, log),
		timeout:   cfg.Timeout,
		log:       log,
		queue:     make(chan domain.Effect, cfg.QueueSize),
	}
	d.wg.Add(1)
	go d.run()
	return d
}

// Dispatch enqueues effects without blocking. A full queue drops the effect.
func (d *Dispatcher) Dispatch(effects ...domain.Effect) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, e := range effects {
		if d.closed {
			d.log.Warn("effect dropped", zap.String("kind", string(e.Kind)), zap.Error(errDispatcherClosed))
			continue
		}
		select {
		case d.queue <- e:
		default:
			d.log.Warn("effect queue full, effect dropped",
				zap.String("kind", string(e.Kind)),
				zap.String("event", e.Event),
				zap.Int64("recipient_id", e.RecipientID),
			)
		}
	}
}

// Close stops accepting effects and waits for the queue to drain.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for e := range d.queue {
		d.deliver(e)
	}
}

func (d *Dispatcher) deliver(e domain.Effect) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.deliverer.Deliver(ctx, e); err != nil {
		d.deliverer.logFailure(e, err)
	}
}
