package countdown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/daysuntil/internal/model"
)

func at(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

func targetOf(t time.Time) model.EventTarget {
	return model.EventTarget{
		Month:  int(t.Month()),
		Day:    t.Day(),
		Year:   t.Year(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
	}
}

func TestCompute_DaysRemaining(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		target   time.Time
		expected int
	}{
		{"two and a half days", at(2024, 1, 1, 0, 0), at(2024, 1, 3, 12, 0), 2},
		{"same day earlier", at(2024, 6, 15, 10, 0), at(2024, 6, 15, 9, 0), 0},
		{"equal", at(2024, 6, 15, 10, 0), at(2024, 6, 15, 10, 0), 0},
		{"just under a day", at(2024, 6, 15, 10, 0), at(2024, 6, 16, 9, 59), 0},
		{"exactly a day", at(2024, 6, 15, 10, 0), at(2024, 6, 16, 10, 0), 1},
		{"across leap day", at(2024, 2, 28, 0, 0), at(2024, 3, 1, 0, 0), 2},
		{"long past", at(2030, 1, 1, 0, 0), at(2014, 1, 1, 12, 0), 0},
		{"a year out", at(2025, 1, 1, 0, 0), at(2026, 1, 1, 0, 0), 365},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := Compute(tt.now, targetOf(tt.target), true)
			assert.Equal(t, tt.expected, snap.DaysRemaining)
		})
	}
}

func TestCompute_FutureMatchesWholeDays(t *testing.T) {
	now := at(2024, 3, 10, 8, 17)
	for hours := 0; hours < 24*40; hours += 7 {
		target := now.Add(time.Duration(hours) * time.Hour)
		snap := Compute(now, targetOf(target), true)

		assert.Equal(t, hours/24, snap.DaysRemaining, "hours=%d", hours)
		if hours > 24 {
			assert.Positive(t, snap.DaysRemaining)
		}
	}
}

func TestCompute_NeverNegative(t *testing.T) {
	now := at(2024, 3, 10, 8, 17)
	for hours := 0; hours < 24*40; hours += 5 {
		target := now.Add(-time.Duration(hours) * time.Hour)
		snap := Compute(now, targetOf(target), true)
		assert.Zero(t, snap.DaysRemaining, "hours=%d", hours)
	}
}

func TestCompute_SecondsOfNowCount(t *testing.T) {
	// Target seconds are zero, the current seconds are not
	now := time.Date(2024, 1, 1, 12, 0, 30, 0, time.UTC)
	snap := Compute(now, targetOf(at(2024, 1, 2, 12, 0)), true)
	assert.Equal(t, 0, snap.DaysRemaining)
}

func TestCompute_TimeText(t *testing.T) {
	now := at(2024, 7, 4, 15, 4)

	assert.Equal(t, "15:04", Compute(now, model.DefaultEventTarget(), true).TimeText)
	assert.Equal(t, "03:04", Compute(now, model.DefaultEventTarget(), false).TimeText)

	morning := at(2024, 7, 4, 0, 9)
	assert.Equal(t, "00:09", Compute(morning, model.DefaultEventTarget(), true).TimeText)
	assert.Equal(t, "12:09", Compute(morning, model.DefaultEventTarget(), false).TimeText)
}

func TestCompute_UsesLocationOfNow(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, loc)
	target := model.EventTarget{Month: 1, Day: 3, Year: 2024, Hour: 0, Minute: 0}

	snap := Compute(now, target, true)
	assert.Equal(t, 2, snap.DaysRemaining)
	assert.Equal(t, loc, snap.Target.Location())
}

func TestCompute_NormalizesOutOfRangeFields(t *testing.T) {
	now := at(2025, 4, 1, 0, 0)
	// 31 April rolls over to 1 May
	target := model.EventTarget{Month: 4, Day: 31, Year: 2025, Hour: 0, Minute: 0}

	snap := Compute(now, target, true)
	assert.Equal(t, 30, snap.DaysRemaining)
	assert.Equal(t, time.May, snap.Target.Month())
}

func TestUntil(t *testing.T) {
	now := at(2024, 1, 1, 0, 0)
	assert.Equal(t, 36*time.Hour, Until(now, targetOf(at(2024, 1, 2, 12, 0))))
	assert.Zero(t, Until(now, targetOf(at(2023, 12, 31, 0, 0))))
}
