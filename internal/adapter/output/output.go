// Package output provides output formatters for the countdown status.
package output

import (
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/daysuntil/internal/model"
)

// Status is everything the status command reports.
type Status struct {
	Time          string      `json:"time" yaml:"time"`
	DaysRemaining int         `json:"days_remaining" yaml:"days_remaining"`
	Label         string      `json:"label" yaml:"label"`
	Theme         model.Theme `json:"theme" yaml:"theme"`
	Target        time.Time   `json:"target" yaml:"target"`
	Relative      string      `json:"relative" yaml:"relative"` // e.g. "3 months from now"
	Passed        bool        `json:"passed" yaml:"passed"`
	FaceRunning   bool        `json:"face_running" yaml:"face_running"`
	FaceVersion   string      `json:"face_version,omitempty" yaml:"face_version,omitempty"`
}

// NewStatus builds a Status from a snapshot taken at now.
func NewStatus(now time.Time, snap model.Snapshot, label string, theme model.Theme) Status {
	return Status{
		Time:          snap.TimeText,
		DaysRemaining: snap.DaysRemaining,
		Label:         label,
		Theme:         theme,
		Target:        snap.Target,
		Relative:      humanize.RelTime(snap.Target, now, "ago", "from now"),
		Passed:        !snap.Target.After(now),
	}
}

// Formatter formats a status for output.
type Formatter interface {
	// Format writes the formatted status to the writer.
	Format(w io.Writer, s Status) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatPlain FormatType = "plain"
	FormatLine  FormatType = "line"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
)

// ValidFormats returns all valid format names.
func ValidFormats() []FormatType {
	return []FormatType{FormatPlain, FormatLine, FormatJSON, FormatYAML}
}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(opts)
	case FormatYAML:
		return NewYAMLFormatter(opts)
	case FormatLine:
		return NewLineFormatter(opts)
	case FormatPlain:
		fallthrough
	default:
		return NewPlainFormatter(opts)
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template    string // Custom template for plain/line format
	LabelMaxLen int    // Maximum label length in line format (0 = unlimited)
}

// DefaultFormatterOptions returns sensible defaults.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		LabelMaxLen: 40,
	}
}
