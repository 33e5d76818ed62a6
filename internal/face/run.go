package face

import (
	"context"
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/daysuntil/internal/config"
	"github.com/jmylchreest/daysuntil/internal/dbus"
	"github.com/jmylchreest/daysuntil/internal/settings"
	"github.com/jmylchreest/daysuntil/internal/store"
	"github.com/jmylchreest/daysuntil/internal/theme"
	"github.com/jmylchreest/daysuntil/internal/tick"
)

// RunOptions configures the interactive face.
type RunOptions struct {
	Config  *config.Config
	KV      *store.FileKV
	Logger  *slog.Logger
	Version string
}

// Run starts the face and blocks until the user quits or ctx ends.
func Run(ctx context.Context, opts RunOptions) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	themes := theme.NewLoader(theme.ThemesDir(config.ConfigDir()), logger)
	if err := themes.LoadTheme(cfg.Theme.Name); err != nil {
		logger.Warn("failed to load theme, using default", "name", cfg.Theme.Name, "error", err)
	}

	st := settings.New(opts.KV, nil, logger)
	st.Load()

	m := New(Options{
		Settings:         st,
		Themes:           themes,
		Reloader:         opts.KV,
		Clock24:          cfg.Clock24h(),
		ShowHelp:         cfg.Display.ShowHelp,
		ClipboardCommand: cfg.Clipboard.Command,
		Logger:           logger,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	// Everything below runs on its own goroutine and reaches the model only
	// through p.Send.
	if cfg.Companion.Enabled {
		server := dbus.NewSettingsServer(logger)
		server.SetServerInfo(dbus.ServerInfo{
			Name:    "daysuntil",
			Vendor:  "jmylchreest",
			Version: opts.Version,
		})
		server.SetMessageHandler(func(msg *dbus.SettingsMessage) error {
			p.Send(SettingsMsg{Message: msg})
			return nil
		})
		server.SetDropHandler(func(reason string) {
			p.Send(DroppedMsg{Reason: reason})
		})
		if err := server.Start(); err != nil {
			logger.Warn("companion channel unavailable", "error", err)
		} else {
			defer server.Stop()
		}
	}

	ticker := tick.New(func(t time.Time) {
		p.Send(TickMsg{Time: t})
	}, logger)
	if err := ticker.Start(); err != nil {
		return err
	}
	defer ticker.Stop()

	watcher, err := store.NewFileWatcher(opts.KV.Path(), func() {
		p.Send(ReloadMsg{})
	}, logger)
	if err != nil {
		logger.Warn("failed to create settings watcher", "error", err)
	} else {
		if err := watcher.Start(); err != nil {
			logger.Warn("failed to start settings watcher", "error", err)
		}
		defer watcher.Stop()
	}

	themes.StartHotReload(ctx, func() {
		p.Send(ThemeReloadMsg{})
	})
	defer themes.StopHotReload()

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
