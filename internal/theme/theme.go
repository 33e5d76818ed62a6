package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"
)

// Colors is one variant of a palette.
type Colors struct {
	Foreground string `toml:"foreground"`
	Background string `toml:"background"`
	Accent     string `toml:"accent"` // Day count
	Muted      string `toml:"muted"`  // Caption and help
}

// Theme is a named palette with dark and light variants.
type Theme struct {
	Name        string    `toml:"-"`
	Path        string    `toml:"-"` // Empty for bundled palettes
	ModTime     time.Time `toml:"-"`
	IsDefault   bool      `toml:"-"`
	Description string    `toml:"description"`
	Dark        Colors    `toml:"dark"`
	Light       Colors    `toml:"light"`
}

// Parse decodes a palette file. Colors missing from a variant are taken
// from the default palette.
func Parse(name string, data []byte) (*Theme, error) {
	t := &Theme{Name: name}
	if err := toml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("parse theme %s: %w", name, err)
	}

	if name != DefaultThemeName {
		def := NewDefaultTheme()
		t.Dark = t.Dark.withDefaults(def.Dark)
		t.Light = t.Light.withDefaults(def.Light)
	}
	return t, nil
}

func (c Colors) withDefaults(def Colors) Colors {
	if c.Foreground == "" {
		c.Foreground = def.Foreground
	}
	if c.Background == "" {
		c.Background = def.Background
	}
	if c.Accent == "" {
		c.Accent = def.Accent
	}
	if c.Muted == "" {
		c.Muted = def.Muted
	}
	return c
}

// NewTheme loads a palette file from disk.
func NewTheme(name, path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	t, err := Parse(name, data)
	if err != nil {
		return nil, err
	}
	t.Path = path
	t.ModTime = info.ModTime()
	return t, nil
}

// NewDefaultTheme returns the embedded default palette.
func NewDefaultTheme() *Theme {
	t := &Theme{
		Name:      DefaultThemeName,
		IsDefault: true,
		Dark:      Colors{Foreground: "#FFFFFF", Background: "#000000", Accent: "#FFFFFF", Muted: "#A0A0A0"},
		Light:     Colors{Foreground: "#000000", Background: "#FFFFFF", Accent: "#000000", Muted: "#505050"},
	}
	if data, ok := GetEmbeddedTheme(DefaultThemeName); ok {
		_ = toml.Unmarshal(data, t)
	}
	return t
}

// Colors returns the variant for the display state. Inverted draws light
// on dark.
func (t *Theme) Colors(inverted bool) Colors {
	if inverted {
		return t.Dark
	}
	return t.Light
}

// Reload re-reads the palette from disk.
// Returns true if the file changed.
func (t *Theme) Reload() (bool, error) {
	if t.Path == "" {
		return false, nil
	}

	info, err := os.Stat(t.Path)
	if err != nil {
		return false, err
	}

	if !info.ModTime().After(t.ModTime) {
		return false, nil
	}

	fresh, err := NewTheme(t.Name, t.Path)
	if err != nil {
		return false, err
	}

	changed := fresh.Dark != t.Dark || fresh.Light != t.Light
	t.Dark = fresh.Dark
	t.Light = fresh.Light
	t.Description = fresh.Description
	t.ModTime = fresh.ModTime
	return changed, nil
}

// Styles are the lipgloss styles for each part of the face.
type Styles struct {
	Frame   lipgloss.Style
	Time    lipgloss.Style
	Days    lipgloss.Style
	Caption lipgloss.Style
	Label   lipgloss.Style
	Help    lipgloss.Style
}

// Styles builds the face styles for the display state.
func (t *Theme) Styles(inverted bool) Styles {
	c := t.Colors(inverted)
	fg := lipgloss.Color(c.Foreground)
	bg := lipgloss.Color(c.Background)

	base := lipgloss.NewStyle().Foreground(fg).Background(bg)

	return Styles{
		Frame: base.
			Padding(1, 4).
			Align(lipgloss.Center).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(c.Muted)).
			BorderBackground(bg),
		Time:    base.Bold(true),
		Days:    base.Foreground(lipgloss.Color(c.Accent)).Bold(true),
		Caption: base.Foreground(lipgloss.Color(c.Muted)),
		Label:   base.Italic(true),
		Help:    lipgloss.NewStyle().Foreground(lipgloss.Color(c.Muted)),
	}
}

// ThemeInfo provides basic palette information for listing.
type ThemeInfo struct {
	Name      string
	Path      string
	IsDefault bool
	IsBundled bool
}

// ListAvailableThemes lists all palettes (bundled + user) found in themesDir.
func ListAvailableThemes(themesDir string) ([]ThemeInfo, error) {
	seen := make(map[string]bool)
	var themes []ThemeInfo

	for _, name := range ListEmbeddedThemes() {
		if !seen[name] {
			seen[name] = true
			themes = append(themes, ThemeInfo{
				Name:      name,
				IsDefault: name == DefaultThemeName,
				IsBundled: true,
			})
		}
	}

	if themesDir == "" {
		return themes, nil
	}

	entries, err := os.ReadDir(themesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return themes, nil
		}
		return themes, err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) == ".toml" {
			themeName := name[:len(name)-5]
			if !seen[themeName] {
				seen[themeName] = true
				themes = append(themes, ThemeInfo{
					Name: themeName,
					Path: filepath.Join(themesDir, name),
				})
			}
		}
	}

	return themes, nil
}
