// Package face provides the BubbleTea-based countdown face.
package face

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/daysuntil/internal/countdown"
	"github.com/jmylchreest/daysuntil/internal/message"
	"github.com/jmylchreest/daysuntil/internal/model"
	"github.com/jmylchreest/daysuntil/internal/settings"
	"github.com/jmylchreest/daysuntil/internal/theme"
)

// Caption is drawn under the day count.
const Caption = "Days Until"

// TickMsg is delivered at the start of every minute.
type TickMsg struct {
	Time time.Time
}

// SettingsMsg carries an inbound companion message.
type SettingsMsg struct {
	Message message.Message
}

// DroppedMsg reports an inbound message that was lost.
type DroppedMsg struct {
	Reason string
}

// ReloadMsg is sent when the settings file changed on disk.
type ReloadMsg struct{}

// ThemeReloadMsg is sent when the palette file changed on disk.
type ThemeReloadMsg struct{}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type copyResultMsg struct {
	err error
}

// Reloader re-reads persisted settings from disk.
type Reloader interface {
	Reload() error
}

// changeSet records settings notifications between updates.
// It is the settings.Observer of the face.
type changeSet struct {
	theme  bool
	label  bool
	target bool
}

func (c *changeSet) ThemeChanged(bool)               { c.theme = true }
func (c *changeSet) LabelChanged(string)             { c.label = true }
func (c *changeSet) TargetChanged(model.EventTarget) { c.target = true }

func (c *changeSet) reset() {
	*c = changeSet{}
}

// Options configures the face model.
type Options struct {
	Settings         *settings.Store
	Themes           *theme.Loader
	Reloader         Reloader // Nil disables reloads from disk
	Clock24          bool
	ShowHelp         bool
	ClipboardCommand string
	Now              func() time.Time
	Logger           *slog.Logger
}

// Model is the face model. The BubbleTea update loop is the only goroutine
// that touches the settings store.
type Model struct {
	settings *settings.Store
	handler  *message.Handler
	themes   *theme.Loader
	reloader Reloader
	changes  *changeSet
	logger   *slog.Logger
	now      func() time.Time

	clock24          bool
	showHelp         bool
	clipboardCommand string

	snapshot model.Snapshot
	styles   theme.Styles
	keys     KeyMap
	help     help.Model

	width  int
	height int

	statusMsg string
	statusErr bool
}

// New creates a face model and registers it as the settings observer.
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	themes := opts.Themes
	if themes == nil {
		themes = theme.NewLoader("", logger)
	}

	changes := &changeSet{}
	opts.Settings.SetObserver(changes)

	m := Model{
		settings:         opts.Settings,
		handler:          message.NewHandler(opts.Settings, logger),
		themes:           themes,
		reloader:         opts.Reloader,
		changes:          changes,
		logger:           logger,
		now:              now,
		clock24:          opts.Clock24,
		showHelp:         opts.ShowHelp,
		clipboardCommand: opts.ClipboardCommand,
		keys:             DefaultKeyMap(),
		help:             help.New(),
	}
	m.recompute(now())
	m.styles = themes.Styles(opts.Settings.Inverted())

	return m
}

// Init initializes the face.
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("daysuntil")
}

// Snapshot returns what the face currently shows.
func (m Model) Snapshot() model.Snapshot {
	return m.snapshot
}

func (m *Model) recompute(now time.Time) {
	m.snapshot = countdown.Compute(now, m.settings.Target(), m.clock24)
}

// applyChanges redraws whatever the settings store reported as changed.
func (m *Model) applyChanges() {
	if m.changes.target {
		m.recompute(m.now())
	}
	if m.changes.theme {
		m.styles = m.themes.Styles(m.settings.Inverted())
	}
	m.changes.reset()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		m.recompute(msg.Time)
		return m, nil

	case SettingsMsg:
		m.handler.Handle(msg.Message)
		m.applyChanges()
		return m, nil

	case DroppedMsg:
		m.handler.Dropped(msg.Reason)
		return m, nil

	case ReloadMsg:
		if m.reloader != nil {
			if err := m.reloader.Reload(); err != nil {
				m.logger.Warn("failed to reload settings", "error", err)
				return m, nil
			}
		}
		m.settings.Reload()
		m.recompute(m.now())
		m.styles = m.themes.Styles(m.settings.Inverted())
		return m, nil

	case ThemeReloadMsg:
		m.styles = m.themes.Styles(m.settings.Inverted())
		return m, nil

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			return m, func() tea.Msg {
				return statusMsg{text: "Copy failed: " + msg.err.Error(), isErr: true}
			}
		}
		return m, func() tea.Msg {
			return statusMsg{text: "Copied to clipboard", isErr: false}
		}
	}

	return m, nil
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.ToggleTheme):
		next := model.ThemeLight
		if m.settings.Theme() == model.ThemeLight {
			next = model.ThemeDark
		}
		m.settings.SetTheme(string(next))
		m.applyChanges()
		return m, func() tea.Msg {
			return statusMsg{text: "Theme: " + string(next)}
		}

	case key.Matches(msg, m.keys.Refresh):
		m.recompute(m.now())
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		return m, m.copyToClipboard(m.summary())
	}

	return m, nil
}

// summary is the one-line text copied to the clipboard.
func (m Model) summary() string {
	days := m.snapshot.DaysRemaining
	unit := "days"
	if days == 1 {
		unit = "day"
	}
	return fmt.Sprintf("%d %s until %s", days, unit, m.settings.Label())
}

// copyToClipboard copies text to the system clipboard.
func (m Model) copyToClipboard(text string) tea.Cmd {
	command := m.clipboardCommand
	return func() tea.Msg {
		return copyResultMsg{err: copyText(text, command)}
	}
}

// View renders the face.
func (m Model) View() string {
	face := m.renderFace()

	var footer string
	switch {
	case m.statusMsg != "":
		style := m.styles.Help
		if m.statusErr {
			style = style.Foreground(lipgloss.Color("9"))
		}
		footer = style.Render(m.statusMsg)
	case m.showHelp:
		footer = m.help.View(m.keys)
	}

	if m.width == 0 || m.height == 0 {
		if footer == "" {
			return face
		}
		return face + "\n" + footer
	}

	body := lipgloss.Place(m.width, max(m.height-1, 1), lipgloss.Center, lipgloss.Center, face)
	return body + "\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, footer)
}

func (m Model) renderFace() string {
	label := m.settings.Label()
	if m.width > 0 {
		// Leave room for the frame border and padding
		label = m.styles.Label.MaxWidth(max(m.width-12, 8)).Render(label)
	} else {
		label = m.styles.Label.Render(label)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		m.styles.Time.Render(m.snapshot.TimeText),
		"",
		m.styles.Days.Render(strconv.Itoa(m.snapshot.DaysRemaining)),
		m.styles.Caption.Render(Caption),
		label,
	)

	return m.styles.Frame.Render(content)
}
