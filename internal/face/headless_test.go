package face

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/daysuntil/internal/config"
	"github.com/jmylchreest/daysuntil/internal/message"
	"github.com/jmylchreest/daysuntil/internal/settings"
	"github.com/jmylchreest/daysuntil/internal/store"
)

func newTestHeadless(t *testing.T) (*Headless, *bytes.Buffer) {
	t.Helper()

	st := settings.New(store.NewMemoryKV(), nil, nil)
	st.Load()

	var buf bytes.Buffer
	h := NewHeadless(st, &buf, nil, true, nil)
	h.now = func() time.Time { return testNow }
	return h, &buf
}

func lines(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimSpace(buf.String()), "\n")
}

func TestHeadless_Start(t *testing.T) {
	h, buf := newTestHeadless(t)
	h.Start()

	assert.Equal(t, []string{"0 days until the event"}, lines(buf))
	assert.Equal(t, "10:00", h.Snapshot().TimeText)
}

func TestHeadless_ApplyWritesOnce(t *testing.T) {
	h, buf := newTestHeadless(t)
	h.Start()

	h.Apply(message.Settings{
		LabelText: ptr("launch"),
		Target:    &message.Event{Day: 11, Month: 1, YearOffset: 25, Hour: 12, Minute: 0},
	})

	assert.Equal(t, []string{
		"0 days until the event",
		"10 days until launch",
	}, lines(buf))
}

func TestHeadless_SkipsUnchanged(t *testing.T) {
	h, buf := newTestHeadless(t)
	h.Start()

	h.Apply(message.Settings{LabelText: ptr("the event")})
	h.Tick(testNow)

	assert.Len(t, lines(buf), 1)
}

func TestHeadless_TickRecomputes(t *testing.T) {
	h, buf := newTestHeadless(t)
	h.Apply(message.Settings{
		Target: &message.Event{Day: 11, Month: 1, YearOffset: 25, Hour: 12, Minute: 0},
	})
	buf.Reset()

	h.Tick(testNow.Add(24 * time.Hour))
	assert.Equal(t, 9, h.Snapshot().DaysRemaining)
	assert.Equal(t, []string{"9 days until the event"}, lines(buf))
}

func TestHeadless_ReloadAfterClear(t *testing.T) {
	kv, err := store.NewFileKV(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)

	st := settings.New(kv, nil, nil)
	var buf bytes.Buffer
	h := NewHeadless(st, &buf, nil, true, nil)
	h.now = func() time.Time { return testNow }

	h.Apply(message.Settings{
		LabelText: ptr("launch"),
		Target:    &message.Event{Day: 11, Month: 1, YearOffset: 25, Hour: 12, Minute: 0},
	})
	require.NoError(t, kv.Clear())
	buf.Reset()

	h.Reload()

	assert.Equal(t, []string{"0 days until the event"}, lines(&buf))
}

func TestRunHeadless(t *testing.T) {
	kv, err := store.NewFileKV(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)
	require.NoError(t, kv.WriteString(store.KeyLabel, "launch"))

	cfg := config.DefaultConfig()
	cfg.Companion.Enabled = false

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	var buf bytes.Buffer
	err = RunHeadless(ctx, HeadlessOptions{
		Config: cfg,
		KV:     kv,
		Out:    &buf,
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "until launch")
}
