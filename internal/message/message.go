// Package message dispatches inbound settings messages from the companion to
// the settings store.
package message

import (
	"fmt"
	"log/slog"

	"github.com/jmylchreest/daysuntil/internal/model"
)

// EventFields is the number of values in an event tuple.
const EventFields = 5

// Event is the event tuple as carried on the wire: day, month, year offset
// from model.YearBase, hour, minute.
type Event struct {
	Day        int
	Month      int
	YearOffset int
	Hour       int
	Minute     int
}

// EventFromTuple builds an Event from its ordered wire values.
func EventFromTuple(vals []int) (Event, error) {
	if len(vals) != EventFields {
		return Event{}, fmt.Errorf("event tuple has %d values, want %d", len(vals), EventFields)
	}
	return Event{
		Day:        vals[0],
		Month:      vals[1],
		YearOffset: vals[2],
		Hour:       vals[3],
		Minute:     vals[4],
	}, nil
}

// EventFor returns the wire tuple for target.
func EventFor(target model.EventTarget) Event {
	return Event{
		Day:        target.Day,
		Month:      target.Month,
		YearOffset: target.YearOffset(),
		Hour:       target.Hour,
		Minute:     target.Minute,
	}
}

// Tuple returns the ordered wire values.
func (e Event) Tuple() []int {
	return []int{e.Day, e.Month, e.YearOffset, e.Hour, e.Minute}
}

// Target converts the tuple to an absolute event target.
func (e Event) Target() model.EventTarget {
	return model.EventTarget{
		Day:    e.Day,
		Month:  e.Month,
		Year:   e.YearOffset + model.YearBase,
		Hour:   e.Hour,
		Minute: e.Minute,
	}
}

// Message is an inbound settings message. Each lookup reports whether the
// key was present.
type Message interface {
	Theme() (string, bool)
	Label() (string, bool)
	Event() (Event, bool)
}

// Settings is a Message built in code. Nil fields are absent.
type Settings struct {
	ThemeName *string `json:"theme,omitempty" yaml:"theme,omitempty"`
	LabelText *string `json:"label,omitempty" yaml:"label,omitempty"`
	Target    *Event  `json:"event,omitempty" yaml:"event,omitempty"`
}

// Theme returns the theme name, if set.
func (s Settings) Theme() (string, bool) {
	if s.ThemeName == nil {
		return "", false
	}
	return *s.ThemeName, true
}

// Label returns the label text, if set.
func (s Settings) Label() (string, bool) {
	if s.LabelText == nil {
		return "", false
	}
	return *s.LabelText, true
}

// Event returns the event tuple, if set.
func (s Settings) Event() (Event, bool) {
	if s.Target == nil {
		return Event{}, false
	}
	return *s.Target, true
}

// Empty reports whether no key is set.
func (s Settings) Empty() bool {
	return s.ThemeName == nil && s.LabelText == nil && s.Target == nil
}

// Setter receives the values of a message. *settings.Store implements it.
type Setter interface {
	SetTheme(name string)
	SetLabel(text string)
	SetEventTarget(day, month, year, hour, minute int)
}

// Handler applies inbound messages to a Setter.
type Handler struct {
	setter Setter
	logger *slog.Logger
}

// NewHandler creates a handler that applies messages to setter.
func NewHandler(setter Setter, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		setter: setter,
		logger: logger,
	}
}

// Handle applies every key present in msg, in the order theme, label, event.
// Missing keys are skipped; an empty message changes nothing.
func (h *Handler) Handle(msg Message) {
	if msg == nil {
		return
	}

	if theme, ok := msg.Theme(); ok {
		h.logger.Debug("message: theme", "value", theme)
		h.setter.SetTheme(theme)
	}

	if label, ok := msg.Label(); ok {
		h.logger.Debug("message: label", "bytes", len(label))
		h.setter.SetLabel(label)
	}

	if ev, ok := msg.Event(); ok {
		target := ev.Target()
		h.logger.Debug("message: event", "target", target.String())
		h.setter.SetEventTarget(target.Day, target.Month, target.Year, target.Hour, target.Minute)
	}
}

// Dropped records that an inbound message was lost before it could be read.
func (h *Handler) Dropped(reason string) {
	h.logger.Debug("inbound message dropped", "reason", reason)
}
