package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/daysuntil/internal/message"
	"github.com/jmylchreest/daysuntil/internal/model"
)

// settingsFlags are the settings a user can change from the command line.
// They mirror the keys of a companion message.
type settingsFlags struct {
	theme string
	label string
	event string
}

func (f *settingsFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.theme, "theme", "",
		"Colour theme (dark, light)")
	cmd.Flags().StringVar(&f.label, "label", "",
		"Event label shown under the day count")
	cmd.Flags().StringVar(&f.event, "event", "",
		`Event time as "YYYY-MM-DD HH:MM" or "YYYY-MM-DD" (local time)`)
}

// build turns the flags that were given into a settings message.
func (f *settingsFlags) build(cmd *cobra.Command) (message.Settings, error) {
	var s message.Settings

	if cmd.Flags().Changed("theme") {
		switch model.Theme(f.theme) {
		case model.ThemeDark, model.ThemeLight:
		default:
			return s, fmt.Errorf("invalid theme %q (valid: dark, light)", f.theme)
		}
		theme := f.theme
		s.ThemeName = &theme
	}

	if cmd.Flags().Changed("label") {
		label := f.label
		s.LabelText = &label
	}

	if cmd.Flags().Changed("event") {
		target, err := model.ParseEventTarget(f.event)
		if err != nil {
			return s, err
		}
		ev := message.EventFor(target)
		s.Target = &ev
	}

	if s.Empty() {
		return s, fmt.Errorf("nothing to change: use --theme, --label or --event")
	}
	return s, nil
}
