// Package model defines the core data structures for daysuntil.
package model

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// YearBase is added to the year offset carried on the wire and in storage.
const YearBase = 2000

// MaxLabelBytes is the largest label kept, in bytes.
const MaxLabelBytes = 254

// DefaultLabel is shown until a label is configured.
const DefaultLabel = "the event"

// EventTarget is the date and time being counted down to.
// Fields are not validated; out-of-range values are normalized by time.Date.
type EventTarget struct {
	Month  int `json:"month" yaml:"month"`
	Day    int `json:"day" yaml:"day"`
	Year   int `json:"year" yaml:"year"` // Absolute year, e.g. 2025
	Hour   int `json:"hour" yaml:"hour"`
	Minute int `json:"minute" yaml:"minute"`
}

// DefaultEventTarget returns the compiled-in target used before any
// configuration arrives.
func DefaultEventTarget() EventTarget {
	return EventTarget{
		Month:  1,
		Day:    1,
		Year:   2014,
		Hour:   12,
		Minute: 0,
	}
}

// YearOffset returns the year as an offset from YearBase.
func (e EventTarget) YearOffset() int {
	return e.Year - YearBase
}

// In returns the target as an instant in loc, seconds fixed at zero.
func (e EventTarget) In(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(e.Year, time.Month(e.Month), e.Day, e.Hour, e.Minute, 0, 0, loc)
}

// String formats the target as "2006-01-02 15:04" without normalizing.
func (e EventTarget) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d", e.Year, e.Month, e.Day, e.Hour, e.Minute)
}

// ParseEventTarget parses "2006-01-02 15:04", "2006-01-02T15:04" or a bare
// date (midnight).
func ParseEventTarget(s string) (EventTarget, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"} {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return EventTarget{
			Month:  int(t.Month()),
			Day:    t.Day(),
			Year:   t.Year(),
			Hour:   t.Hour(),
			Minute: t.Minute(),
		}, nil
	}
	return EventTarget{}, fmt.Errorf("invalid event time %q: expected YYYY-MM-DD or YYYY-MM-DD HH:MM", s)
}

// TruncateLabel cuts label to at most MaxLabelBytes without splitting a rune.
func TruncateLabel(label string) string {
	if len(label) <= MaxLabelBytes {
		return label
	}
	cut := MaxLabelBytes
	for cut > 0 && !utf8.RuneStart(label[cut]) {
		cut--
	}
	return label[:cut]
}
