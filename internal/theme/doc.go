// Package theme provides the color palettes the face is drawn with.
// Palettes are TOML files with a dark and a light variant. Bundled palettes
// are embedded; files in ~/.config/daysuntil/themes/ override them by name
// and are hot-reloaded.
package theme
