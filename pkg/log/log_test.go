package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologAdapter_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologWithLogger(zerolog.New(&buf))

	logger.Warn("seed record failed",
		String("task", "tips"),
		Int("index", 3),
		Bool("fatal", false),
		Duration("elapsed", 2*time.Second),
		Err(errors.New("disk full")),
	)

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "warn", got["level"])
	assert.Equal(t, "seed record failed", got["message"])
	assert.Equal(t, "tips", got["task"])
	assert.Equal(t, float64(3), got["index"])
	assert.Equal(t, false, got["fatal"])
	assert.Equal(t, "disk full", got["error"])
}

func TestZerologAdapter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologWithLogger(zerolog.New(&buf).Level(zerolog.WarnLevel))

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Error("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
}

// recordingLogger captures messages; an optional gate blocks delivery.
type recordingLogger struct {
	mu   sync.Mutex
	msgs []string
	gate chan struct{}
}

func (r *recordingLogger) record(msg string) {
	if r.gate != nil {
		<-r.gate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recordingLogger) Debug(msg string, _ ...Field) { r.record(msg) }
func (r *recordingLogger) Info(msg string, _ ...Field)  { r.record(msg) }
func (r *recordingLogger) Warn(msg string, _ ...Field)  { r.record(msg) }
func (r *recordingLogger) Error(msg string, _ ...Field) { r.record(msg) }

func (r *recordingLogger) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.msgs...)
}

func TestAsyncLogger_DeliversInOrderOnClose(t *testing.T) {
	rec := &recordingLogger{}
	async := NewAsync(rec, 16)

	async.Debug("one")
	async.Info("two")
	async.Warn("three")
	async.Error("four")
	async.Close()

	assert.Equal(t, []string{"one", "two", "three", "four"}, rec.messages())
	assert.Zero(t, async.Dropped())
}

func TestAsyncLogger_DropsWhenFull(t *testing.T) {
	rec := &recordingLogger{gate: make(chan struct{})}
	async := NewAsync(rec, 1)

	// The first entry is taken by the worker and blocks on the gate; the
	// buffer then holds one more, and the rest are dropped.
	async.Info("first")
	require.Eventually(t, func() bool { return len(async.entries) == 0 }, time.Second, time.Millisecond)
	for i := 0; i < 5; i++ {
		async.Info("extra")
	}

	assert.Equal(t, int64(4), async.Dropped())
	close(rec.gate)
	async.Close()
	assert.Len(t, rec.messages(), 2)
}

func TestAsyncLogger_CloseIsIdempotentAndDropsLateEntries(t *testing.T) {
	async := NewAsync(NewNoop(), 4)
	async.Close()
	async.Close()

	async.Info("late")
	assert.Equal(t, int64(1), async.Dropped())
}

type panickingLogger struct{ NoopLogger }

func (panickingLogger) Warn(string, ...Field) { panic("sink exploded") }

func TestAsyncLogger_SurvivesPanickingSink(t *testing.T) {
	rec := &recordingLogger{}
	async := NewAsync(panickingLogger{}, 4)
	assert.NotPanics(t, func() {
		async.Warn("boom")
		async.Close()
	})

	after := NewAsync(rec, 4)
	after.Info("still works")
	after.Close()
	assert.Equal(t, []string{"still works"}, rec.messages())
}
