package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/srgjo27/rail_booking/internal/core/domain"
	"github.com/srgjo27/rail_booking/internal/core/ports"
)

var (
	ErrQueueFull = errors.New("publish queue full")
	ErrClosed    = errors.New("publisher closed")
)

// AsyncPublisher hands events to one background worker over a bounded
// queue. Enqueueing never blocks: a full queue drops the event.
type AsyncPublisher struct {
	next    ports.EventPublisher
	timeout time.Duration
	log     *slog.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan domain.Booking
	done   chan struct{}
}

func NewAsyncPublisher(next ports.EventPublisher, size int, timeout time.Duration, log *slog.Logger) *AsyncPublisher {
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}

	p := &AsyncPublisher{
		next:    next,
		timeout: timeout,
		log:     log,
		queue:   make(chan domain.Booking, max(size, 1)),
		done:    make(chan struct{}),
	}

	go p.run()

	return p
}

// PublishBookingConfirmed queues a copy of booking; ctx is not used past
// the call.
func (p *AsyncPublisher) PublishBookingConfirmed(_ context.Context, booking *domain.Booking) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrClosed
	}

	select {
	case p.queue <- *booking:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting events and waits for queued ones to drain, or for
// ctx to end.
func (p *AsyncPublisher) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *AsyncPublisher) run() {
	defer close(p.done)

	for booking := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		err := p.next.PublishBookingConfirmed(ctx, &booking)
		cancel()

		if err != nil {
			p.log.Warn("publish booking confirmed failed", "transaction_id", booking.TransactionID, "err", err)
		}
	}
}
