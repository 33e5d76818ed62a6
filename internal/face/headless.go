package face

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/jmylchreest/daysuntil/internal/adapter/output"
	"github.com/jmylchreest/daysuntil/internal/config"
	"github.com/jmylchreest/daysuntil/internal/countdown"
	"github.com/jmylchreest/daysuntil/internal/dbus"
	"github.com/jmylchreest/daysuntil/internal/host"
	"github.com/jmylchreest/daysuntil/internal/message"
	"github.com/jmylchreest/daysuntil/internal/model"
	"github.com/jmylchreest/daysuntil/internal/settings"
	"github.com/jmylchreest/daysuntil/internal/store"
	"github.com/jmylchreest/daysuntil/internal/tick"
)

// Headless is the face without a terminal. It writes one status line to out
// whenever what the face would show changes. All methods must be called from
// a single goroutine; RunHeadless uses a host.Loop for that.
type Headless struct {
	settings  *settings.Store
	handler   *message.Handler
	changes   *changeSet
	formatter output.Formatter
	out       io.Writer
	clock24   bool
	now       func() time.Time
	logger    *slog.Logger

	snapshot model.Snapshot
	last     time.Time
	shown    shown
}

// shown is what was last written, used to skip repeated lines.
type shown struct {
	snapshot model.Snapshot
	label    string
	theme    model.Theme
}

// NewHeadless creates a headless face over st and registers it as the
// settings observer.
func NewHeadless(st *settings.Store, out io.Writer, formatter output.Formatter, clock24 bool, logger *slog.Logger) *Headless {
	if logger == nil {
		logger = slog.Default()
	}
	if formatter == nil {
		formatter = output.NewFormatter(output.FormatLine, output.DefaultFormatterOptions())
	}

	changes := &changeSet{}
	st.SetObserver(changes)

	return &Headless{
		settings:  st,
		handler:   message.NewHandler(st, logger),
		changes:   changes,
		formatter: formatter,
		out:       out,
		clock24:   clock24,
		now:       time.Now,
		logger:    logger,
	}
}

// Snapshot returns the last computed snapshot.
func (h *Headless) Snapshot() model.Snapshot {
	return h.snapshot
}

// Start computes the first snapshot and writes it.
func (h *Headless) Start() {
	h.Tick(h.now())
}

// Tick recomputes the countdown for t and writes it.
func (h *Headless) Tick(t time.Time) {
	h.last = t
	h.snapshot = countdown.Compute(t, h.settings.Target(), h.clock24)
	h.render()
}

// Apply hands an inbound message to the settings store.
func (h *Headless) Apply(msg message.Message) {
	h.handler.Handle(msg)
	h.flush()
}

// Dropped reports a lost inbound message.
func (h *Headless) Dropped(reason string) {
	h.handler.Dropped(reason)
}

// Reload re-reads persisted settings and redraws. Keys that are no longer
// stored fall back to their defaults.
func (h *Headless) Reload() {
	h.settings.Reload()
	h.changes.reset()
	h.Tick(h.now())
}

func (h *Headless) flush() {
	c := *h.changes
	h.changes.reset()

	switch {
	case c.target:
		h.Tick(h.now())
	case c.theme, c.label:
		h.render()
	}
}

func (h *Headless) render() {
	current := shown{snapshot: h.snapshot, label: h.settings.Label(), theme: h.settings.Theme()}
	if current == h.shown {
		return
	}
	h.shown = current

	status := output.NewStatus(h.last, h.snapshot, h.settings.Label(), h.settings.Theme())
	if err := h.formatter.Format(h.out, status); err != nil {
		h.logger.Warn("failed to write status", "error", err)
	}
	h.logger.Debug("countdown",
		"time", h.snapshot.TimeText,
		"days", h.snapshot.DaysRemaining,
		"inverted", h.settings.Inverted(),
	)
}

// HeadlessOptions configures RunHeadless.
type HeadlessOptions struct {
	Config  *config.Config
	KV      *store.FileKV
	Out     io.Writer
	Format  output.FormatType
	Logger  *slog.Logger
	Version string
}

// RunHeadless runs the face without a terminal until ctx ends.
func RunHeadless(ctx context.Context, opts HeadlessOptions) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	format := opts.Format
	if format == "" {
		format = output.FormatLine
	}

	loop := host.NewLoop(host.DefaultQueueSize, logger)
	post := func(fn func()) {
		if err := loop.Post(fn); err != nil {
			logger.Debug("event dropped", "error", err)
		}
	}

	st := settings.New(opts.KV, nil, logger)
	st.Load()

	h := NewHeadless(st, opts.Out, output.NewFormatter(format, output.DefaultFormatterOptions()), cfg.Clock24h(), logger)
	post(h.Start)

	if cfg.Companion.Enabled {
		server := dbus.NewSettingsServer(logger)
		server.SetServerInfo(dbus.ServerInfo{
			Name:    "daysuntil",
			Vendor:  "jmylchreest",
			Version: opts.Version,
		})
		server.SetMessageHandler(func(msg *dbus.SettingsMessage) error {
			return loop.Post(func() { h.Apply(msg) })
		})
		server.SetDropHandler(func(reason string) {
			post(func() { h.Dropped(reason) })
		})
		if err := server.Start(); err != nil {
			logger.Warn("companion channel unavailable", "error", err)
		} else {
			defer server.Stop()
		}
	}

	ticker := tick.New(func(t time.Time) {
		post(func() { h.Tick(t) })
	}, logger)
	if err := ticker.Start(); err != nil {
		return err
	}
	defer ticker.Stop()

	watcher, err := store.NewFileWatcher(opts.KV.Path(), func() {
		post(func() {
			if err := opts.KV.Reload(); err != nil {
				logger.Warn("failed to reload settings", "error", err)
				return
			}
			h.Reload()
		})
	}, logger)
	if err != nil {
		logger.Warn("failed to create settings watcher", "error", err)
	} else {
		if err := watcher.Start(); err != nil {
			logger.Warn("failed to start settings watcher", "error", err)
		}
		defer watcher.Stop()
	}

	logger.Info("headless face running", "settings", opts.KV.Path())

	err = loop.Run(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
