// Package settings holds the face's configurable state: theme, label and
// event target. Values are loaded from and written through to a store.KV.
package settings

import (
	"log/slog"

	"github.com/jmylchreest/daysuntil/internal/model"
	"github.com/jmylchreest/daysuntil/internal/store"
)

// Observer is notified after a setting changes.
type Observer interface {
	// ThemeChanged is called with the new inversion flag.
	ThemeChanged(inverted bool)
	LabelChanged(label string)
	// TargetChanged is called after the event target changes; the face
	// recomputes its snapshot and redraws.
	TargetChanged(target model.EventTarget)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) ThemeChanged(bool)               {}
func (NopObserver) LabelChanged(string)             {}
func (NopObserver) TargetChanged(model.EventTarget) {}

// Store is the single source of truth for the face's settings.
// It is not safe for concurrent use; callers serialize access through their
// event loop.
type Store struct {
	kv     store.KV
	obs    Observer
	logger *slog.Logger

	theme  model.Theme
	label  string
	target model.EventTarget
}

// New creates a Store holding the compiled-in defaults.
func New(kv store.KV, obs Observer, logger *slog.Logger) *Store {
	if obs == nil {
		obs = NopObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		kv:     kv,
		obs:    obs,
		logger: logger,
		theme:  model.DefaultTheme,
		label:  model.DefaultLabel,
		target: model.DefaultEventTarget(),
	}
}

// SetObserver replaces the observer. A nil observer disables notifications.
func (s *Store) SetObserver(obs Observer) {
	if obs == nil {
		obs = NopObserver{}
	}
	s.obs = obs
}

// Load reads every stored setting. Absent keys keep their current value.
// The event target is only taken from storage when all date keys exist.
// Load never writes and never notifies.
func (s *Store) Load() {
	if v, ok := s.kv.ReadString(store.KeyTheme); ok {
		s.theme = model.ParseTheme(v)
	}

	if v, ok := s.kv.ReadString(store.KeyLabel); ok {
		s.label = model.TruncateLabel(v)
	}

	if target, ok := s.loadTarget(); ok {
		s.target = target
	}

	s.logger.Debug("settings loaded",
		"theme", s.theme,
		"label", s.label,
		"target", s.target.String(),
	)
}

// Reload replaces every setting with what is stored, falling back to the
// compiled-in defaults for absent keys. Used when the store was changed by
// another process, including being cleared. Like Load it never notifies.
func (s *Store) Reload() {
	s.theme = model.DefaultTheme
	s.label = model.DefaultLabel
	s.target = model.DefaultEventTarget()
	s.Load()
}

func (s *Store) loadTarget() (model.EventTarget, bool) {
	vals := make(map[store.Key]int, len(store.DateKeys))
	for _, key := range store.DateKeys {
		v, ok := s.kv.ReadInt(key)
		if !ok {
			if s.kv.Exists(key) {
				s.logger.Warn("ignoring stored event target: bad value", "key", key)
			}
			return model.EventTarget{}, false
		}
		vals[key] = v
	}

	return model.EventTarget{
		Day:    vals[store.KeyDay],
		Month:  vals[store.KeyMonth],
		Year:   vals[store.KeyYear] + model.YearBase,
		Hour:   vals[store.KeyHour],
		Minute: vals[store.KeyMinute],
	}, true
}

// SetTheme stores the theme by name. Names other than "light" select dark.
func (s *Store) SetTheme(name string) {
	theme := model.ParseTheme(name)

	s.write(store.KeyTheme, func() error {
		return s.kv.WriteString(store.KeyTheme, string(theme))
	})

	s.theme = theme
	s.obs.ThemeChanged(theme.Inverted())
}

// SetLabel stores the label, truncated to model.MaxLabelBytes.
func (s *Store) SetLabel(text string) {
	label := model.TruncateLabel(text)
	if len(label) < len(text) {
		s.logger.Debug("label truncated", "from", len(text), "to", len(label))
	}

	s.write(store.KeyLabel, func() error {
		return s.kv.WriteString(store.KeyLabel, label)
	})

	s.label = label
	s.obs.LabelChanged(label)
}

// SetEventTarget stores a new target. year is absolute; it is stored as an
// offset from model.YearBase.
func (s *Store) SetEventTarget(day, month, year, hour, minute int) {
	target := model.EventTarget{
		Day:    day,
		Month:  month,
		Year:   year,
		Hour:   hour,
		Minute: minute,
	}

	// One write, so a reader never loads half of the new target
	s.write(store.KeyDay, func() error {
		return s.kv.WriteInts(map[store.Key]int{
			store.KeyDay:    target.Day,
			store.KeyMonth:  target.Month,
			store.KeyYear:   target.YearOffset(),
			store.KeyHour:   target.Hour,
			store.KeyMinute: target.Minute,
		})
	})

	s.target = target
	s.obs.TargetChanged(target)
}

// write runs fn and logs a failure. Persistence errors never reach callers;
// the in-memory value is updated regardless.
func (s *Store) write(key store.Key, fn func() error) {
	if err := fn(); err != nil {
		s.logger.Warn("failed to persist setting", "key", key, "error", err)
	}
}

// Theme returns the current theme.
func (s *Store) Theme() model.Theme {
	return s.theme
}

// Inverted reports whether the face draws light on dark.
func (s *Store) Inverted() bool {
	return s.theme.Inverted()
}

// Label returns the current label.
func (s *Store) Label() string {
	return s.label
}

// Target returns the current event target.
func (s *Store) Target() model.EventTarget {
	return s.target
}
