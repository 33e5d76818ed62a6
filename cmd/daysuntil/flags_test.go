package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/daysuntil/internal/config"
	"github.com/jmylchreest/daysuntil/internal/message"
)

func newFlagCmd(t *testing.T, args ...string) (*cobra.Command, *settingsFlags) {
	t.Helper()

	var f settingsFlags
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd, &f
}

func TestSettingsFlags_Build(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    message.Settings
		wantErr bool
	}{
		{
			name: "theme",
			args: []string{"--theme", "light"},
			want: message.Settings{ThemeName: ptr("light")},
		},
		{
			name: "empty label is still a change",
			args: []string{"--label", ""},
			want: message.Settings{LabelText: ptr("")},
		},
		{
			name: "event with time",
			args: []string{"--event", "2026-03-01 09:30"},
			want: message.Settings{Target: &message.Event{Day: 1, Month: 3, YearOffset: 26, Hour: 9, Minute: 30}},
		},
		{
			name: "bare date is midnight",
			args: []string{"--event", "2026-12-24"},
			want: message.Settings{Target: &message.Event{Day: 24, Month: 12, YearOffset: 26}},
		},
		{name: "unknown theme", args: []string{"--theme", "sepia"}, wantErr: true},
		{name: "bad event", args: []string{"--event", "soon"}, wantErr: true},
		{name: "nothing", args: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, f := newFlagCmd(t, tt.args...)
			got, err := f.build(cmd)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCLI_SetStatusReset(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LC_ALL", "C")
	t.Setenv("XDG_CONFIG_HOME", dir)

	settingsFile := filepath.Join(dir, "settings.json")
	run := func(args ...string) string {
		t.Helper()
		out, err := execute(settingsFile, args...)
		require.NoError(t, err)
		return out
	}

	out := run("set", "--label", "launch", "--event", "2999-01-01", "--theme", "light")
	assert.Contains(t, out, "until launch")

	var status struct {
		Label       string `json:"label"`
		Theme       string `json:"theme"`
		Passed      bool   `json:"passed"`
		FaceRunning bool   `json:"face_running"`
	}
	require.NoError(t, json.Unmarshal([]byte(run("status", "--no-bus", "--format", "json")), &status))
	assert.Equal(t, "launch", status.Label)
	assert.Equal(t, "light", status.Theme)
	assert.False(t, status.Passed)
	assert.False(t, status.FaceRunning)

	assert.Contains(t, run("reset", "--yes"), "reset")

	require.NoError(t, json.Unmarshal([]byte(run("status", "--no-bus", "--format", "json")), &status))
	assert.Equal(t, "the event", status.Label)
	assert.Equal(t, "dark", status.Theme)
}

func TestCLI_ThemesAndConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	settingsFile := filepath.Join(dir, "settings.json")

	out, err := execute(settingsFile, "themes")
	require.NoError(t, err)
	assert.Contains(t, out, "* default\n")
	assert.Contains(t, out, "  catppuccin\n")

	out, err = execute(settingsFile, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "[display]")

	out, err = execute(settingsFile, "config", "--write")
	require.NoError(t, err)
	path := filepath.Join(dir, "daysuntil", "config.toml")
	assert.Equal(t, path+"\n", out)

	// Refuses to overwrite
	_, err = execute(settingsFile, "config", "--write")
	assert.Error(t, err)

	loaded, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), loaded)
}

// execute runs the CLI with a private settings file and returns stdout.
func execute(settingsFile string, args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"--settings-file=" + settingsFile}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func ptr[T any](v T) *T { return &v }
