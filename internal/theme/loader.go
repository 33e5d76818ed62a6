package theme

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Loader resolves a palette by name and keeps it current.
type Loader struct {
	mu          sync.RWMutex
	logger      *slog.Logger
	themesDir   string
	currentName string
	theme       *Theme
	watcher     *Watcher
}

// NewLoader creates a loader that looks for user palettes in themesDir.
// An empty themesDir disables user palettes.
func NewLoader(themesDir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}

	return &Loader{
		logger:    logger,
		themesDir: themesDir,
		theme:     NewDefaultTheme(),
	}
}

// ThemesDir returns the user palette directory under configDir.
func ThemesDir(configDir string) string {
	return filepath.Join(configDir, "themes")
}

// LoadTheme loads a palette by name.
// Resolution order:
//  1. User themes directory
//  2. Embedded palettes
//
// A user file with the same name as a bundled palette overrides it.
func (l *Loader) LoadTheme(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if name == "" {
		name = DefaultThemeName
	}

	if l.themesDir != "" {
		themePath := filepath.Join(l.themesDir, name+".toml")
		if _, err := os.Stat(themePath); err == nil {
			theme, err := NewTheme(name, themePath)
			if err != nil {
				l.logger.Warn("failed to load user theme, trying bundled", "theme", name, "error", err)
			} else {
				l.theme = theme
				l.currentName = name
				l.logger.Debug("loaded user theme", "name", name, "path", themePath)
				return nil
			}
		}
	}

	if data, found := GetEmbeddedTheme(name); found {
		theme, err := Parse(name, data)
		if err == nil {
			theme.IsDefault = name == DefaultThemeName
			l.theme = theme
			l.currentName = name
			l.logger.Debug("loaded bundled theme", "name", name)
			return nil
		}
		l.logger.Warn("failed to parse bundled theme", "theme", name, "error", err)
	}

	l.logger.Warn("theme not found, using default", "theme", name)
	l.theme = NewDefaultTheme()
	l.currentName = DefaultThemeName
	return nil
}

// Theme returns the currently loaded palette.
func (l *Loader) Theme() *Theme {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.theme
}

// Styles returns the face styles of the current palette.
func (l *Loader) Styles(inverted bool) Styles {
	return l.Theme().Styles(inverted)
}

// CurrentTheme returns the name of the currently loaded palette.
func (l *Loader) CurrentTheme() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.currentName
}

// StartHotReload polls a user palette file for changes and calls onChange
// after each reload. Bundled palettes are not watched.
func (l *Loader) StartHotReload(ctx context.Context, onChange func()) {
	l.StopHotReload()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.theme == nil || l.theme.Path == "" {
		l.logger.Debug("not starting hot-reload for bundled theme")
		return
	}

	l.watcher = NewWatcher(l.theme, DefaultPollInterval, func(t *Theme) {
		l.mu.Lock()
		l.theme = t
		l.mu.Unlock()

		l.logger.Info("hot-reloaded theme", "name", t.Name)
		if onChange != nil {
			onChange()
		}
	}, l.logger)
	l.watcher.Start(ctx)
}

// StopHotReload stops watching the palette for changes.
func (l *Loader) StopHotReload() {
	l.mu.Lock()
	w := l.watcher
	l.watcher = nil
	l.mu.Unlock()

	if w != nil {
		w.Stop()
	}
}

// ListThemes returns the names of available palettes, bundled first.
func (l *Loader) ListThemes() []string {
	infos, err := ListAvailableThemes(l.themesDir)
	if err != nil {
		l.logger.Debug("failed to read themes directory", "error", err)
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	return names
}
