package theme

import (
	"embed"
	"io/fs"
	"path/filepath"
	"strings"
)

// EmbeddedThemes contains all bundled palette files.
//
//go:embed themes/*.toml
var EmbeddedThemes embed.FS

// DefaultThemeName is the name of the built-in default palette.
const DefaultThemeName = "default"

// BundledThemes lists all embedded palette names.
var BundledThemes = []string{"default", "catppuccin", "terminal"}

// GetEmbeddedTheme retrieves a bundled palette file by name.
func GetEmbeddedTheme(name string) ([]byte, bool) {
	data, err := EmbeddedThemes.ReadFile("themes/" + name + ".toml")
	if err != nil {
		return nil, false
	}
	return data, true
}

// ListEmbeddedThemes returns names of all embedded palettes.
func ListEmbeddedThemes() []string {
	var themes []string

	entries, err := fs.ReadDir(EmbeddedThemes, "themes")
	if err != nil {
		return BundledThemes
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if ext := filepath.Ext(name); ext == ".toml" {
			themes = append(themes, strings.TrimSuffix(name, ext))
		}
	}

	return themes
}

// IsEmbeddedTheme checks if a palette name is bundled.
func IsEmbeddedTheme(name string) bool {
	_, found := GetEmbeddedTheme(name)
	return found
}
