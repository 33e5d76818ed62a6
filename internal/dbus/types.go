package dbus

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/daysuntil/internal/message"
)

// Dictionary keys of a settings message.
const (
	KeyTheme = "theme"
	KeyLabel = "label"
	KeyEvent = "event"
)

// SettingsMessage is an incoming Send call.
// It implements message.Message.
type SettingsMessage struct {
	ID      string
	Entries map[string]dbus.Variant
}

// NewSettingsMessage wraps entries with a fresh ULID.
func NewSettingsMessage(entries map[string]dbus.Variant) (*SettingsMessage, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate message id: %w", err)
	}
	return &SettingsMessage{
		ID:      id.String(),
		Entries: entries,
	}, nil
}

// Theme extracts the theme entry.
func (m *SettingsMessage) Theme() (string, bool) {
	return m.stringEntry(KeyTheme)
}

// Label extracts the label entry.
func (m *SettingsMessage) Label() (string, bool) {
	return m.stringEntry(KeyLabel)
}

func (m *SettingsMessage) stringEntry(key string) (string, bool) {
	if v, ok := m.Entries[key]; ok {
		if s, ok := v.Value().(string); ok {
			return s, true
		}
	}
	return "", false
}

// Event extracts the event tuple. A malformed entry is treated as absent;
// EventTuple reports why.
func (m *SettingsMessage) Event() (message.Event, bool) {
	ev, present, err := m.EventTuple()
	if !present || err != nil {
		return message.Event{}, false
	}
	return ev, true
}

// EventTuple decodes the event entry. The tuple may be sent as ay, an, aq,
// ai, au or ax, and must hold exactly five values.
func (m *SettingsMessage) EventTuple() (ev message.Event, present bool, err error) {
	v, ok := m.Entries[KeyEvent]
	if !ok {
		return message.Event{}, false, nil
	}

	vals, err := intSlice(v.Value())
	if err != nil {
		return message.Event{}, true, err
	}

	ev, err = message.EventFromTuple(vals)
	return ev, true, err
}

func intSlice(value any) ([]int, error) {
	switch s := value.(type) {
	case []byte:
		return convert(s), nil
	case []int16:
		return convert(s), nil
	case []uint16:
		return convert(s), nil
	case []int32:
		return convert(s), nil
	case []uint32:
		return convert(s), nil
	case []int64:
		return convert(s), nil
	default:
		return nil, fmt.Errorf("event has unsupported type %T", value)
	}
}

type integer interface {
	~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64
}

func convert[T integer](in []T) []int {
	out := make([]int, len(in))
	for i, v := range in {
		out[i] = int(v)
	}
	return out
}

// Keys returns the entry names present in the message.
func (m *SettingsMessage) Keys() []string {
	keys := make([]string, 0, len(m.Entries))
	for k := range m.Entries {
		keys = append(keys, k)
	}
	return keys
}

// EncodeSettings builds the Send dictionary for s. The event tuple is sent
// as ai.
func EncodeSettings(s message.Settings) map[string]dbus.Variant {
	entries := make(map[string]dbus.Variant, 3)
	if theme, ok := s.Theme(); ok {
		entries[KeyTheme] = dbus.MakeVariant(theme)
	}
	if label, ok := s.Label(); ok {
		entries[KeyLabel] = dbus.MakeVariant(label)
	}
	if ev, ok := s.Event(); ok {
		tuple := ev.Tuple()
		vals := make([]int32, len(tuple))
		for i, v := range tuple {
			vals[i] = int32(v)
		}
		entries[KeyEvent] = dbus.MakeVariant(vals)
	}
	return entries
}

// ServerInfo contains information about the settings service.
type ServerInfo struct {
	Name    string // "daysuntil"
	Vendor  string // "jmylchreest"
	Version string // Build version
}

// DefaultServerInfo returns the default server information.
func DefaultServerInfo() ServerInfo {
	return ServerInfo{
		Name:    "daysuntil",
		Vendor:  "jmylchreest",
		Version: "dev",
	}
}
