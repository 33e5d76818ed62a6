// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultClock          = ClockAuto
	DefaultTheme          = "default"
	DefaultCompanionWait  = 5 * time.Second
	DefaultLogFileName    = "face.log"
	DefaultConfigFileName = "config.toml"
)

// ClockMode selects how the face formats the current time.
type ClockMode string

const (
	ClockAuto ClockMode = "auto" // From the locale
	Clock24h  ClockMode = "24h"
	Clock12h  ClockMode = "12h"
)

// ValidClockModes returns all valid clock values.
func ValidClockModes() []ClockMode {
	return []ClockMode{ClockAuto, Clock24h, Clock12h}
}

// Duration is a time.Duration that can be unmarshaled from human-readable strings.
// Supports formats like "5s", "1m", or integer milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '5s', '1m' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config represents the daysuntil configuration.
type Config struct {
	Display   DisplayConfig   `toml:"display"`
	Theme     ThemeConfig     `toml:"theme"`
	Companion CompanionConfig `toml:"companion"`
	Storage   StorageConfig   `toml:"storage"`
	Clipboard ClipboardConfig `toml:"clipboard"`
}

// DisplayConfig holds face display options.
type DisplayConfig struct {
	Clock    ClockMode `toml:"clock"`     // auto, 24h, 12h
	ShowHelp bool      `toml:"show_help"` // Key help line under the face
}

// ThemeConfig selects the palette set used for the dark and light themes.
type ThemeConfig struct {
	Name string `toml:"name"` // Palette name without .toml extension
}

// CompanionConfig holds settings for the inbound message channel.
type CompanionConfig struct {
	Enabled bool     `toml:"enabled"` // Export the D-Bus settings service
	Timeout Duration `toml:"timeout"` // Client call timeout for `send`
}

// StorageConfig holds the settings file location.
type StorageConfig struct {
	Path string `toml:"path"` // Empty = $XDG_DATA_HOME/daysuntil/settings.json
}

// ClipboardConfig holds clipboard settings (face only).
type ClipboardConfig struct {
	Command string `toml:"command"` // Auto-detected if empty
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Display: DisplayConfig{
			Clock:    DefaultClock,
			ShowHelp: true,
		},
		Theme: ThemeConfig{
			Name: DefaultTheme,
		},
		Companion: CompanionConfig{
			Enabled: true,
			Timeout: Duration(DefaultCompanionWait),
		},
		Storage: StorageConfig{
			Path: "",
		},
		Clipboard: ClipboardConfig{
			Command: "", // Auto-detect
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "daysuntil", DefaultConfigFileName)
}

// ConfigDir returns the directory holding the config file and user palettes.
func ConfigDir() string {
	return filepath.Dir(ConfigPath())
}

// StatePath returns the path to the state directory used for logs.
// Uses XDG_STATE_HOME if set, otherwise ~/.local/state.
func StatePath() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "daysuntil")
}

// LogPath returns the file the face writes its log to.
func LogPath() string {
	return filepath.Join(StatePath(), DefaultLogFileName)
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	// Start with defaults
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Overlay file contents on the defaults
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	validClock := false
	for _, m := range ValidClockModes() {
		if c.Display.Clock == m {
			validClock = true
			break
		}
	}
	if !validClock {
		return fmt.Errorf("invalid clock %q, must be one of: %v", c.Display.Clock, ValidClockModes())
	}

	if strings.TrimSpace(c.Theme.Name) == "" {
		return errors.New("theme name must not be empty")
	}

	if c.Companion.Timeout < 0 {
		return fmt.Errorf("companion timeout must not be negative, got %s", c.Companion.Timeout.Duration())
	}

	return nil
}

// Clock24h reports whether the face shows a 24-hour clock. In auto mode
// the locale decides: LC_ALL, then LC_TIME, then LANG.
func (c *Config) Clock24h() bool {
	switch c.Display.Clock {
	case Clock24h:
		return true
	case Clock12h:
		return false
	default:
		return localeUses24h(localeFromEnv())
	}
}

// SettingsPath returns the configured settings file, expanding ~.
// Empty means the store's default location.
func (c *Config) SettingsPath() string {
	return expandPath(c.Storage.Path)
}

func localeFromEnv() string {
	for _, name := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// twelveHourLocales use a 12-hour clock by convention.
var twelveHourLocales = []string{"en_US", "en_CA", "en_AU", "en_NZ", "en_PH", "en_IN", "hi_IN", "es_MX", "ar_EG"}

// localeUses24h reports whether locale (e.g. "en_US.UTF-8") uses a 24-hour clock.
func localeUses24h(locale string) bool {
	if locale == "" || locale == "C" || locale == "POSIX" {
		return true
	}
	name, _, _ := strings.Cut(locale, ".")
	name, _, _ = strings.Cut(name, "@")
	for _, l := range twelveHourLocales {
		if name == l {
			return false
		}
	}
	return true
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
