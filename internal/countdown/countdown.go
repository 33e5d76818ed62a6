// Package countdown turns the current time and an event target into what the
// face displays.
package countdown

import (
	"time"

	"github.com/jmylchreest/daysuntil/internal/model"
)

const secondsPerDay = 24 * 60 * 60

// Time layouts for the clock line.
const (
	Layout24h = "15:04"
	Layout12h = "03:04"
)

// Compute returns the snapshot for now. The target is built from the event
// fields in now's location with seconds fixed at zero, and the day count is
// the truncated number of whole days between the two instants, never negative.
func Compute(now time.Time, target model.EventTarget, clock24 bool) model.Snapshot {
	layout := Layout12h
	if clock24 {
		layout = Layout24h
	}

	at := target.In(now.Location())

	return model.Snapshot{
		TimeText:      now.Format(layout),
		DaysRemaining: DaysBetween(now, at),
		Target:        at,
	}
}

// DaysBetween returns whole days from now until at, clamped at zero.
func DaysBetween(now, at time.Time) int {
	days := int((at.Unix() - now.Unix()) / secondsPerDay)
	if days < 0 {
		return 0
	}
	return days
}

// Until returns the time left until the target, clamped at zero.
func Until(now time.Time, target model.EventTarget) time.Duration {
	d := target.In(now.Location()).Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
