package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/dustin/go-humanize"
)

// PlainFormatter formats the status as human-readable text.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	f := &PlainFormatter{opts: opts}

	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes the status as a few lines of text.
func (f *PlainFormatter) Format(w io.Writer, s Status) error {
	if f.template != nil {
		if err := f.template.Execute(w, s); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	}

	var sb strings.Builder
	sb.WriteString(s.Time + "\n")
	sb.WriteString(fmt.Sprintf("%s %s until %s\n", humanize.Comma(int64(s.DaysRemaining)), dayWord(s.DaysRemaining), s.Label))
	sb.WriteString(fmt.Sprintf("Target: %s (%s)\n", s.Target.Format("Mon 2 Jan 2006 15:04"), s.Relative))
	sb.WriteString(fmt.Sprintf("Theme:  %s\n", s.Theme))
	if s.FaceRunning {
		if s.FaceVersion != "" {
			sb.WriteString(fmt.Sprintf("Face:   running (%s)\n", s.FaceVersion))
		} else {
			sb.WriteString("Face:   running\n")
		}
	}

	_, err := w.Write([]byte(sb.String()))
	return err
}

// LineFormatter writes a single line, suitable for status bars.
type LineFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewLineFormatter creates a new single-line formatter.
func NewLineFormatter(opts FormatterOptions) *LineFormatter {
	f := &LineFormatter{opts: opts}

	if opts.Template != "" {
		tmpl, err := template.New("line").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes "<days> days until <label>".
func (f *LineFormatter) Format(w io.Writer, s Status) error {
	var line string
	if f.template != nil {
		var sb strings.Builder
		if err := f.template.Execute(&sb, s); err != nil {
			return err
		}
		line = sb.String()
	} else {
		line = fmt.Sprintf("%d %s until %s", s.DaysRemaining, dayWord(s.DaysRemaining), truncate(s.Label, f.opts.LabelMaxLen))
	}

	line = strings.ReplaceAll(line, "\n", " ")
	_, err := fmt.Fprintln(w, line)
	return err
}

// templateFuncs returns template helper functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate": truncate,
		"comma": func(n int) string {
			return humanize.Comma(int64(n))
		},
		"plural": dayWord,
	}
}

func dayWord(n int) string {
	if n == 1 {
		return "day"
	}
	return "days"
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
