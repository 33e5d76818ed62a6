// Package tick delivers a callback at the start of every wall-clock minute.
package tick

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// EveryMinute fires at second zero of every minute.
const EveryMinute = "* * * * *"

var (
	ErrStarted = errors.New("ticker already started")
	ErrStopped = errors.New("ticker stopped")
)

// Ticker runs a minute-granularity subscription on a cron scheduler.
// The callback runs on the scheduler's goroutine; callers that need a single
// thread hand the time to their own event loop.
type Ticker struct {
	cron     *cron.Cron
	logger   *slog.Logger
	onTick   func(time.Time)
	now      func() time.Time
	loc      *time.Location
	mu       sync.Mutex
	started  bool
	stopped  bool
	stopOnce sync.Once
}

// Option configures a Ticker.
type Option func(*Ticker)

// WithLocation evaluates the schedule in loc instead of time.Local.
func WithLocation(loc *time.Location) Option {
	return func(t *Ticker) {
		t.loc = loc
	}
}

// New creates a ticker that calls onTick with the current time every minute.
func New(onTick func(time.Time), logger *slog.Logger, opts ...Option) *Ticker {
	if logger == nil {
		logger = slog.Default()
	}

	t := &Ticker{
		logger: logger,
		onTick: onTick,
		now:    time.Now,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(t)
	}

	t.cron = cron.New(
		cron.WithLocation(t.loc),
		cron.WithLogger(cronLogger{logger}),
		cron.WithChain(cron.Recover(cronLogger{logger})),
	)
	return t
}

// Start registers the minute job and starts the scheduler.
func (t *Ticker) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return ErrStopped
	}
	if t.started {
		return ErrStarted
	}

	if _, err := t.cron.AddFunc(EveryMinute, t.fire); err != nil {
		return err
	}
	t.cron.Start()
	t.started = true

	t.logger.Debug("minute ticker started", "next", t.Next())
	return nil
}

func (t *Ticker) fire() {
	if t.onTick != nil {
		t.onTick(t.now().In(t.loc))
	}
}

// Next returns when the next tick is due. Before Start it is the next
// minute boundary from now.
func (t *Ticker) Next() time.Time {
	entries := t.cron.Entries()
	if len(entries) == 0 {
		return NextMinute(t.now().In(t.loc))
	}
	return entries[0].Next
}

// Stop stops the scheduler and waits for a running callback to return.
// Safe to call more than once.
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() {
		t.mu.Lock()
		t.stopped = true
		t.mu.Unlock()

		<-t.cron.Stop().Done()
		t.logger.Debug("minute ticker stopped")
	})
}

// NextMinute returns the start of the minute after now.
func NextMinute(now time.Time) time.Time {
	sched, err := cron.ParseStandard(EveryMinute)
	if err != nil {
		return now.Truncate(time.Minute).Add(time.Minute)
	}
	return sched.Next(now)
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append([]any{"error", err}, keysAndValues...)...)
}
