package events_test

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"euclid-swap/pkg/events"
)

func TestLogger_FanOut(t *testing.T) {
	t.Parallel()

	a, b := &events.Recorder{}, &events.Recorder{}
	log := events.New(a, b)

	log.Info("quote received")
	log.Warn("retry %d/%d", 1, 5)
	log.Progress(1, 3)

	for _, r := range []*events.Recorder{a, b} {
		evs := r.Events()
		require.Len(t, evs, 2)
		assert.Equal(t, events.LevelInfo, evs[0].Level)
		assert.Equal(t, "retry 1/5", evs[1].Message)
		assert.Equal(t, [][2]int{{1, 3}}, r.ProgressUpdates())
	}
}

func TestLogger_WithDoesNotLeakFields(t *testing.T) {
	t.Parallel()

	rec := &events.Recorder{}
	base := events.New(rec)
	child := base.With("attempt", 2)

	child.Step("building")
	base.Step("summary")

	evs := rec.Events()
	require.Len(t, evs, 2)
	assert.Equal(t, 2, evs[0].Fields["attempt"])
	assert.Nil(t, evs[1].Fields)
}

func TestNop(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		log := events.Nop()
		log.Error("nothing listens")
		log.Progress(1, 1)
	})
}

func TestConsole_Prefixes(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	c := events.NewConsole(&buf, false)
	log := events.New(c)

	log.Info("Quote received")
	log.Warn("Rate limit hit")
	log.Error("Transaction failed!")
	log.Success("Transaction successful!")
	log.Loading("Waiting for confirmation...")
	log.Step("Building swap transaction...")
	log.Progress(2, 5)

	out := buf.String()
	assert.Contains(t, out, "[✓] Quote received")
	assert.Contains(t, out, "[⚠] Rate limit hit")
	assert.Contains(t, out, "[✗] Transaction failed!")
	assert.Contains(t, out, "[✅] Transaction successful!")
	assert.Contains(t, out, "[⟳] Waiting for confirmation...")
	assert.Contains(t, out, "[➤] Building swap transaction...")
	assert.Contains(t, out, "Progress: 2/5")
}

func TestZap_Levels(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	log := events.New(events.NewZap(zap.New(core))).With("batch", "b-1")

	log.Success("done")
	log.Warn("careful")
	log.Error("broken")
	log.Progress(3, 3)

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "success", entries[0].ContextMap()["event"])
	assert.Equal(t, "b-1", entries[0].ContextMap()["batch"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "progress", entries[3].Message)
	assert.EqualValues(t, 3, entries[3].ContextMap()["completed"])
}
