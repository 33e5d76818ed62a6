package face

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/daysuntil/internal/message"
	"github.com/jmylchreest/daysuntil/internal/model"
	"github.com/jmylchreest/daysuntil/internal/settings"
	"github.com/jmylchreest/daysuntil/internal/store"
	"github.com/jmylchreest/daysuntil/internal/theme"
)

var testNow = time.Date(2025, time.January, 1, 10, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T, kv store.KV) (Model, *settings.Store) {
	t.Helper()

	st := settings.New(kv, nil, nil)
	st.Load()

	m := New(Options{
		Settings: st,
		Themes:   theme.NewLoader("", nil),
		Clock24:  true,
		Now:      func() time.Time { return testNow },
	})
	return m, st
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func ptr[T any](v T) *T { return &v }

func TestNew_InitialSnapshot(t *testing.T) {
	m, _ := newTestModel(t, store.NewMemoryKV())

	snap := m.Snapshot()
	assert.Equal(t, "10:00", snap.TimeText)
	// Default target is in the past
	assert.Equal(t, 0, snap.DaysRemaining)
}

func TestUpdate_Tick(t *testing.T) {
	m, _ := newTestModel(t, store.NewMemoryKV())

	m, cmd := update(t, m, TickMsg{Time: testNow.Add(5 * time.Minute)})
	assert.Nil(t, cmd)
	assert.Equal(t, "10:05", m.Snapshot().TimeText)
}

func TestUpdate_SettingsMsgEvent(t *testing.T) {
	kv := store.NewMemoryKV()
	m, st := newTestModel(t, kv)

	m, _ = update(t, m, SettingsMsg{Message: message.Settings{
		Target: &message.Event{Day: 11, Month: 1, YearOffset: 25, Hour: 12, Minute: 0},
	}})

	assert.Equal(t, 10, m.Snapshot().DaysRemaining)
	assert.Equal(t, 2025, st.Target().Year)

	year, ok := kv.ReadInt(store.KeyYear)
	require.True(t, ok)
	assert.Equal(t, 25, year)
}

func TestUpdate_SettingsMsgTheme(t *testing.T) {
	m, st := newTestModel(t, store.NewMemoryKV())
	loader := theme.NewLoader("", nil)

	assert.Equal(t, loader.Styles(true), m.styles)

	m, _ = update(t, m, SettingsMsg{Message: message.Settings{ThemeName: ptr("light")}})

	assert.Equal(t, model.ThemeLight, st.Theme())
	assert.Equal(t, loader.Styles(false), m.styles)
}

func TestUpdate_SettingsMsgLabelOnly(t *testing.T) {
	m, st := newTestModel(t, store.NewMemoryKV())
	before := m.Snapshot()

	m, _ = update(t, m, SettingsMsg{Message: message.Settings{LabelText: ptr("launch")}})

	assert.Equal(t, "launch", st.Label())
	assert.Equal(t, before, m.Snapshot())
	assert.Contains(t, m.View(), "launch")
}

func TestUpdate_ToggleThemeKey(t *testing.T) {
	m, st := newTestModel(t, store.NewMemoryKV())

	m, cmd := update(t, m, runes("t"))
	require.NotNil(t, cmd)
	assert.Equal(t, model.ThemeLight, st.Theme())
	assert.Equal(t, statusMsg{text: "Theme: light"}, cmd())

	_, _ = update(t, m, runes("t"))
	assert.Equal(t, model.ThemeDark, st.Theme())
}

func TestUpdate_Quit(t *testing.T) {
	m, _ := newTestModel(t, store.NewMemoryKV())

	_, cmd := update(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestUpdate_HelpToggle(t *testing.T) {
	m, _ := newTestModel(t, store.NewMemoryKV())

	m, _ = update(t, m, runes("?"))
	assert.True(t, m.help.ShowAll)
	m, _ = update(t, m, runes("?"))
	assert.False(t, m.help.ShowAll)
}

func TestUpdate_ReloadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	kv, err := store.NewFileKV(path)
	require.NoError(t, err)

	st := settings.New(kv, nil, nil)
	st.Load()
	m := New(Options{
		Settings: st,
		Themes:   theme.NewLoader("", nil),
		Reloader: kv,
		Clock24:  true,
		Now:      func() time.Time { return testNow },
	})

	// Another process writes the file
	other, err := store.NewFileKV(path)
	require.NoError(t, err)
	require.NoError(t, other.WriteString(store.KeyLabel, "from cli"))
	require.NoError(t, other.WriteString(store.KeyTheme, "light"))

	m, _ = update(t, m, ReloadMsg{})

	assert.Equal(t, "from cli", st.Label())
	assert.False(t, st.Inverted())
	assert.Equal(t, theme.NewLoader("", nil).Styles(false), m.styles)
}

func TestUpdate_StatusMessage(t *testing.T) {
	m, _ := newTestModel(t, store.NewMemoryKV())

	m, cmd := update(t, m, statusMsg{text: "Copied to clipboard"})
	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "Copied to clipboard")

	m, _ = update(t, m, clearStatusMsg{})
	assert.NotContains(t, m.View(), "Copied to clipboard")
}

func TestUpdate_CopyResult(t *testing.T) {
	m, _ := newTestModel(t, store.NewMemoryKV())

	_, cmd := update(t, m, copyResultMsg{err: assert.AnError})
	require.NotNil(t, cmd)
	msg, ok := cmd().(statusMsg)
	require.True(t, ok)
	assert.True(t, msg.isErr)
}

func TestView_ShowsFace(t *testing.T) {
	m, _ := newTestModel(t, store.NewMemoryKV())
	m, _ = update(t, m, SettingsMsg{Message: message.Settings{
		LabelText: ptr("launch"),
		Target:    &message.Event{Day: 11, Month: 1, YearOffset: 25, Hour: 12, Minute: 0},
	}})

	view := m.View()
	assert.Contains(t, view, "10:00")
	assert.Contains(t, view, "10")
	assert.Contains(t, view, Caption)
	assert.Contains(t, view, "launch")

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Contains(t, m.View(), Caption)
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name     string
		day      int
		expected string
	}{
		{"plural", 11, "10 days until the event"},
		{"singular", 2, "1 day until the event"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t, store.NewMemoryKV())
			m, _ = update(t, m, SettingsMsg{Message: message.Settings{
				Target: &message.Event{Day: tt.day, Month: 1, YearOffset: 25, Hour: 12, Minute: 0},
			}})
			assert.Equal(t, tt.expected, m.summary())
		})
	}
}

func TestUpdate_ReloadAfterResetShowsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	kv, err := store.NewFileKV(path)
	require.NoError(t, err)

	st := settings.New(kv, nil, nil)
	st.Load()
	m := New(Options{
		Settings: st,
		Themes:   theme.NewLoader("", nil),
		Reloader: kv,
		Clock24:  true,
		Now:      func() time.Time { return testNow },
	})

	m, _ = update(t, m, SettingsMsg{Message: message.Settings{
		ThemeName: ptr("light"),
		LabelText: ptr("launch"),
		Target:    &message.Event{Day: 1, Month: 6, YearOffset: 30, Hour: 0, Minute: 0},
	}})
	require.Equal(t, "launch", st.Label())

	// `daysuntil reset` from another process
	other, err := store.NewFileKV(path)
	require.NoError(t, err)
	require.NoError(t, other.Clear())

	m, _ = update(t, m, ReloadMsg{})

	assert.Equal(t, model.ThemeDark, st.Theme())
	assert.Equal(t, model.DefaultLabel, st.Label())
	assert.Equal(t, model.DefaultEventTarget(), st.Target())
	assert.Equal(t, 0, m.Snapshot().DaysRemaining)
	assert.Equal(t, theme.NewLoader("", nil).Styles(true), m.styles)
}
