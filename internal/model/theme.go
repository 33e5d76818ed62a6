package model

import "time"

// Theme is the display theme of the face.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// DefaultTheme is used until a theme is configured.
const DefaultTheme = ThemeDark

// ParseTheme maps a theme name to a Theme. Anything other than exactly
// "light" is dark.
func ParseTheme(name string) Theme {
	if name == string(ThemeLight) {
		return ThemeLight
	}
	return ThemeDark
}

// Inverted reports whether the display is drawn inverted (light on dark).
func (t Theme) Inverted() bool {
	return t != ThemeLight
}

// Snapshot is what the face draws for one tick.
type Snapshot struct {
	TimeText      string `json:"time" yaml:"time"`
	DaysRemaining int    `json:"days_remaining" yaml:"days_remaining"`

	// Target is the normalized target instant the count was taken against.
	Target time.Time `json:"target" yaml:"target"`
}
