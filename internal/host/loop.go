// Package host provides the single-threaded event loop used when the face
// runs without a terminal. Every callback into the core is posted here so
// settings and countdown code never run concurrently.
package host

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrClosed is returned by Post after the loop has stopped.
var ErrClosed = errors.New("event loop closed")

// DefaultQueueSize is the number of pending callbacks Post accepts before
// blocking.
const DefaultQueueSize = 64

// Loop runs posted functions one at a time on a single goroutine.
type Loop struct {
	queue  chan func()
	done   chan struct{}
	logger *slog.Logger
	once   sync.Once
}

// NewLoop creates a loop with the given queue size.
func NewLoop(queueSize int, logger *slog.Logger) *Loop {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		queue:  make(chan func(), queueSize),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Post queues fn to run on the loop. It blocks while the queue is full.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.done:
		return ErrClosed
	default:
	}

	select {
	case l.queue <- fn:
		return nil
	case <-l.done:
		return ErrClosed
	}
}

// Run executes posted functions until ctx is cancelled. Functions still
// queued when ctx ends are discarded.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })

	for {
		select {
		case <-ctx.Done():
			l.logger.Debug("event loop stopping", "pending", len(l.queue))
			return ctx.Err()
		case fn := <-l.queue:
			l.call(fn)
		}
	}
}

func (l *Loop) call(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("event loop callback panicked", "panic", r)
		}
	}()
	fn()
}
