// Package store provides the persistent key-value store behind the settings.
package store

import (
	"os"
	"path/filepath"
)

// Key identifies a stored value. The numeric values match the message keys
// the companion uses, so stored and transmitted ids never disagree.
type Key uint32

const (
	KeyTheme Key = iota
	KeyEvent     // Message only; never stored
	KeyLabel
	KeyDay
	KeyMonth
	KeyYear // Stored as an offset from model.YearBase
	KeyHour
	KeyMinute
)

var keyNames = map[Key]string{
	KeyTheme:  "theme",
	KeyEvent:  "event",
	KeyLabel:  "label",
	KeyDay:    "day",
	KeyMonth:  "month",
	KeyYear:   "year",
	KeyHour:   "hour",
	KeyMinute: "minute",
}

// String returns the name the key is stored under.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "unknown"
}

// DateKeys are the keys that together hold the event target.
var DateKeys = []Key{KeyDay, KeyMonth, KeyYear, KeyHour, KeyMinute}

// KV is a small typed key-value store with an existence check.
type KV interface {
	// Exists reports whether a value is stored under key.
	Exists(key Key) bool

	// ReadString returns the string stored under key.
	// ok is false if nothing is stored or the value is not a string.
	ReadString(key Key) (value string, ok bool)

	// ReadInt returns the integer stored under key.
	ReadInt(key Key) (value int, ok bool)

	WriteString(key Key, value string) error
	WriteInt(key Key, value int) error

	// WriteInts stores every value in one update, so a reader never sees
	// some of them without the others.
	WriteInts(values map[Key]int) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key Key) error
}

// DataDir returns the path to the daysuntil data directory.
// Uses XDG_DATA_HOME or defaults to ~/.local/share/daysuntil.
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "daysuntil"), nil
}

// SettingsPath returns the default path of the settings file.
func SettingsPath() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "settings.json"), nil
}

// storeError is a constant error type.
type storeError string

func (e storeError) Error() string {
	return string(e)
}

const (
	// ErrStoreClosed is returned when writing to a closed store.
	ErrStoreClosed = storeError("store is closed")
	// ErrCorrupt is returned when the settings file cannot be parsed.
	ErrCorrupt = storeError("settings file is corrupt")
)
