package notify

import (
	"context"
	"sync"
	"time"

	"github.com/clinichq/portal-api/internal/observability/metrics"
	"github.com/clinichq/portal-api/pkg/logging"
)

// DispatcherOptions tunes the background delivery queue.
type DispatcherOptions struct {
	Workers     int
	QueueSize   int
	MaxAttempts int
	BaseDelay   time.Duration
	SendTimeout time.Duration
}

func (o *DispatcherOptions) defaults() {
	if o.Workers <= 0 {
		o.Workers = 2
	}
	if o.QueueSize <= 0 {
		o.QueueSize = 256
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = 2 * time.Second
	}
	if o.SendTimeout <= 0 {
		o.SendTimeout = 10 * time.Second
	}
}

// Dispatcher delivers emails off the request path. Enqueue never blocks a
// caller: a full queue drops the message with a log line, matching the
// fire-and-forget contract of booking confirmations. Each message gets a
// bounded number of delivery attempts with exponential backoff; failures
// are logged and counted, never surfaced to the enqueuer.
type Dispatcher struct {
	sender  EmailSender
	logger  *logging.Logger
	metrics *metrics.BookingMetrics
	opts    DispatcherOptions

	queue     chan EmailMessage
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewDispatcher creates and starts a dispatcher. metrics may be nil.
func NewDispatcher(sender EmailSender, m *metrics.BookingMetrics, logger *logging.Logger, opts DispatcherOptions) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	opts.defaults()
	d := &Dispatcher{
		sender:  sender,
		logger:  logger,
		metrics: m,
		opts:    opts,
		queue:   make(chan EmailMessage, opts.QueueSize),
	}
	for i := 0; i < opts.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Enqueue queues a message for background delivery. Returns false when the
// queue is full and the message was dropped.
func (d *Dispatcher) Enqueue(msg EmailMessage) bool {
	select {
	case d.queue <- msg:
		return true
	default:
		d.logger.Warn("notify: queue full, dropping email", "to", msg.To, "subject", msg.Subject)
		d.metrics.ObserveEmail("dropped")
		return false
	}
}

// Close stops intake and waits for queued messages to drain.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for msg := range d.queue {
		d.deliver(msg)
	}
}

func (d *Dispatcher) deliver(msg EmailMessage) {
	delay := d.opts.BaseDelay
	for attempt := 1; attempt <= d.opts.MaxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), d.opts.SendTimeout)
		err := d.sender.Send(ctx, msg)
		cancel()
		if err == nil {
			d.metrics.ObserveEmail("sent")
			return
		}
		d.logger.Error("notify: delivery attempt failed",
			"error", err, "to", msg.To, "attempt", attempt, "max_attempts", d.opts.MaxAttempts)
		if attempt == d.opts.MaxAttempts {
			break
		}
		d.metrics.ObserveEmailRetry()
		time.Sleep(delay)
		delay *= 2
	}
	d.metrics.ObserveEmail("failed")
}
