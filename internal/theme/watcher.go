package theme

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultPollInterval is how often a user palette is checked for changes.
const DefaultPollInterval = time.Second

// Watcher polls a user palette file and hands a freshly parsed copy to
// onChange whenever its modification time moves. The watcher owns its copy
// of the palette; callers never share it.
type Watcher struct {
	logger   *slog.Logger
	interval time.Duration
	onChange func(*Theme)

	theme *Theme // Only touched by the poll goroutine after Start

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewWatcher creates a watcher for theme. A zero interval uses
// DefaultPollInterval.
func NewWatcher(theme *Theme, interval time.Duration, onChange func(*Theme), logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	cp := *theme
	return &Watcher{
		logger:   logger,
		interval: interval,
		onChange: onChange,
		theme:    &cp,
	}
}

// Start polls until ctx ends or Stop is called. Bundled palettes have no
// file and are not watched.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel != nil {
		return
	}
	if w.theme.Path == "" {
		w.logger.Debug("not watching bundled theme", "name", w.theme.Name)
		return
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	go w.poll(ctx, w.done)

	w.logger.Debug("theme watcher started", "path", w.theme.Path, "interval", w.interval)
}

// Stop ends polling and waits for the poll goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (w *Watcher) poll(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.check()
		}
	}
}

func (w *Watcher) check() {
	changed, err := w.theme.Reload()
	if err != nil {
		// A missing file keeps the last good palette
		w.logger.Debug("theme reload failed", "path", w.theme.Path, "error", err)
		return
	}
	if !changed {
		return
	}

	w.logger.Info("theme file changed", "path", w.theme.Path)
	if w.onChange != nil {
		cp := *w.theme
		w.onChange(&cp)
	}
}
