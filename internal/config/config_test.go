package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ClockAuto, cfg.Display.Clock)
	assert.True(t, cfg.Display.ShowHelp)
	assert.Equal(t, "default", cfg.Theme.Name)
	assert.True(t, cfg.Companion.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Companion.Timeout.Duration())
	assert.Empty(t, cfg.Storage.Path)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_ParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[display]
clock = "24h"
show_help = false

[theme]
name = "mono"

[companion]
enabled = false
timeout = "2s"

[storage]
path = "/tmp/daysuntil/settings.json"

[clipboard]
command = "xclip"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, Clock24h, cfg.Display.Clock)
	assert.False(t, cfg.Display.ShowHelp)
	assert.Equal(t, "mono", cfg.Theme.Name)
	assert.False(t, cfg.Companion.Enabled)
	assert.Equal(t, 2*time.Second, cfg.Companion.Timeout.Duration())
	assert.Equal(t, "/tmp/daysuntil/settings.json", cfg.Storage.Path)
	assert.Equal(t, "xclip", cfg.Clipboard.Command)
}

func TestLoadConfig_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[display]
clock = "12h"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	// Changed field
	assert.Equal(t, Clock12h, cfg.Display.Clock)

	// Unchanged fields should have defaults
	assert.True(t, cfg.Display.ShowHelp)
	assert.True(t, cfg.Companion.Enabled)
	assert.Equal(t, "default", cfg.Theme.Name)
}

func TestLoadConfig_TimeoutMilliseconds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[companion]\ntimeout = \"1500\"\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.Companion.Timeout.Duration())
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`this is not valid toml [`), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_InvalidClock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[display]\nclock = \"36h\"\n"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid clock")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"12h", func(c *Config) { c.Display.Clock = Clock12h }, false},
		{"bad clock", func(c *Config) { c.Display.Clock = "sundial" }, true},
		{"empty theme", func(c *Config) { c.Theme.Name = " " }, true},
		{"negative timeout", func(c *Config) { c.Companion.Timeout = Duration(-time.Second) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestConfig_Save(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "config.toml")

	cfg := DefaultConfig()
	cfg.Display.Clock = Clock24h
	cfg.Companion.Timeout = Duration(3 * time.Second)

	require.NoError(t, cfg.Save(path))

	_, err := os.Stat(path)
	require.NoError(t, err)

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, Clock24h, loaded.Display.Clock)
	assert.Equal(t, 3*time.Second, loaded.Companion.Timeout.Duration())
}

func TestClock24h(t *testing.T) {
	tests := []struct {
		name     string
		clock    ClockMode
		lcAll    string
		lcTime   string
		lang     string
		expected bool
	}{
		{"forced 24h", Clock24h, "en_US.UTF-8", "", "", true},
		{"forced 12h", Clock12h, "de_DE.UTF-8", "", "", false},
		{"auto US", ClockAuto, "", "", "en_US.UTF-8", false},
		{"auto GB", ClockAuto, "", "", "en_GB.UTF-8", true},
		{"auto LC_TIME wins over LANG", ClockAuto, "", "de_DE.UTF-8", "en_US.UTF-8", true},
		{"auto LC_ALL wins", ClockAuto, "en_US.UTF-8", "de_DE.UTF-8", "", false},
		{"auto C locale", ClockAuto, "", "", "C", true},
		{"auto unset", ClockAuto, "", "", "", true},
		{"auto modifier", ClockAuto, "", "", "en_US@euro", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LC_ALL", tt.lcAll)
			t.Setenv("LC_TIME", tt.lcTime)
			t.Setenv("LANG", tt.lang)

			cfg := DefaultConfig()
			cfg.Display.Clock = tt.clock
			assert.Equal(t, tt.expected, cfg.Clock24h())
		})
	}
}

func TestSettingsPath_ExpandsHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	cfg := DefaultConfig()
	assert.Empty(t, cfg.SettingsPath())

	cfg.Storage.Path = "~/countdown/settings.json"
	assert.Equal(t, "/home/tester/countdown/settings.json", cfg.SettingsPath())
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/daysuntil/config.toml", ConfigPath())
	assert.Equal(t, "/custom/config/daysuntil", ConfigDir())
}

func TestConfigPathDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	assert.Contains(t, ConfigPath(), "daysuntil/config.toml")
}

func TestLogPath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/custom/state")
	assert.Equal(t, "/custom/state/daysuntil", StatePath())
	assert.Equal(t, "/custom/state/daysuntil/face.log", LogPath())
}
