package modelkeep

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelkeep/modelkeep/pkg/modelkeep/store"
)

// testLogHandler captures log records for testing.
type testLogHandler struct {
	buf   *bytes.Buffer
	level slog.Level
}

func newTestLogHandler() *testLogHandler {
	return &testLogHandler{
		buf:   &bytes.Buffer{},
		level: slog.LevelDebug,
	}
}

func (h *testLogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *testLogHandler) Handle(_ context.Context, r slog.Record) error {
	data := map[string]any{
		"level": r.Level.String(),
		"msg":   r.Message,
	}
	r.Attrs(func(a slog.Attr) bool {
		data[a.Key] = a.Value.Any()
		return true
	})
	enc := json.NewEncoder(h.buf)
	return enc.Encode(data)
}

func (h *testLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *testLogHandler) WithGroup(name string) slog.Handler {
	return h
}

func (h *testLogHandler) getRecords() []map[string]any {
	var records []map[string]any
	lines := bytes.Split(h.buf.Bytes(), []byte("\n"))
	for _, line := range lines {
		if len(line) > 0 {
			var m map[string]any
			if err := json.Unmarshal(line, &m); err == nil {
				records = append(records, m)
			}
		}
	}
	return records
}

// recordingMetrics counts recorder calls for assertions.
type recordingMetrics struct {
	saves        int
	saveErrors   int
	loads        int
	loadErrors   int
	pruneDeleted int64
	pruneFailed  int64
	lastSaveSize int64
}

func (r *recordingMetrics) RecordSave(_ context.Context, _ time.Duration, sizeBytes int64, err error) {
	if err != nil {
		r.saveErrors++
		return
	}
	r.saves++
	r.lastSaveSize = sizeBytes
}

func (r *recordingMetrics) RecordLoad(_ context.Context, _ time.Duration, err error) {
	if err != nil {
		r.loadErrors++
		return
	}
	r.loads++
}

func (r *recordingMetrics) RecordPrune(_ context.Context, deleted, failed int64) {
	r.pruneDeleted += deleted
	r.pruneFailed += failed
}

func (r *recordingMetrics) RecordRoundExecution(_ context.Context, _ time.Duration, _ error) {}

func (r *recordingMetrics) RecordTrainingRun(_ context.Context, _ bool, _ time.Duration) {}

func TestManager_WithLogger(t *testing.T) {
	h := newTestLogHandler()
	logger := slog.New(h)

	st := store.NewMemoryStore()
	defer st.Close()
	mgr := New[testModel](st, "ckpt", JSONCodec[testModel]{}, WithLogger(logger))
	ctx := context.Background()

	require.NoError(t, mgr.SaveAndPrune(ctx, 3, testModel{Weight: 3}))
	require.NoError(t, mgr.SaveAndPrune(ctx, 5, testModel{Weight: 5}))

	snap, err := mgr.LoadLatest(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)

	records := h.getRecords()
	require.NotEmpty(t, records, "Expected log records")

	var foundSave, foundDelete, foundResume bool
	for _, r := range records {
		msg, _ := r["msg"].(string)
		switch msg {
		case "checkpoint saved":
			foundSave = true
			assert.NotNil(t, r["round"])
			assert.NotNil(t, r["version"])
			assert.NotNil(t, r["size_bytes"])
		case "checkpoint deleted":
			foundDelete = true
			assert.Equal(t, "ckpt/6.model", r["path"])
		case "resuming from checkpoint":
			foundResume = true
			assert.Equal(t, float64(5), r["round"])
			assert.Equal(t, float64(10), r["version"])
		}
	}

	assert.True(t, foundSave, "Expected 'checkpoint saved' log")
	assert.True(t, foundDelete, "Expected 'checkpoint deleted' log")
	assert.True(t, foundResume, "Expected 'resuming from checkpoint' log")
}

func TestManager_WithLogger_DeleteFailure(t *testing.T) {
	h := newTestLogHandler()
	logger := slog.New(h)

	mem := store.NewMemoryStore()
	defer mem.Close()
	seedEntry(t, mem, "ckpt/6.model", testModel{Weight: 3})

	st := &failingStore{Store: mem, failDeletes: map[string]bool{"ckpt/6.model": true}}
	mgr := New[testModel](st, "ckpt", JSONCodec[testModel]{}, WithLogger(logger))

	require.NoError(t, mgr.SaveAndPrune(context.Background(), 5, testModel{Weight: 5}))

	var foundWarn bool
	for _, r := range h.getRecords() {
		if msg, _ := r["msg"].(string); msg == "checkpoint delete failed" {
			foundWarn = true
			assert.Equal(t, "WARN", r["level"])
			assert.Equal(t, "ckpt/6.model", r["path"])
			assert.NotNil(t, r["error"])
		}
	}
	assert.True(t, foundWarn, "Expected 'checkpoint delete failed' log")
}

func TestManager_RecordsMetrics(t *testing.T) {
	rec := &recordingMetrics{}

	st := store.NewMemoryStore()
	defer st.Close()
	mgr := New[testModel](st, "ckpt", JSONCodec[testModel]{}, WithMetricsRecorder(rec))
	ctx := context.Background()

	require.NoError(t, mgr.SaveAndPrune(ctx, 3, testModel{Weight: 3}))
	require.NoError(t, mgr.SaveAndPrune(ctx, 5, testModel{Weight: 5}))

	_, err := mgr.LoadLatest(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, rec.saves)
	assert.Equal(t, 0, rec.saveErrors)
	assert.Positive(t, rec.lastSaveSize)
	assert.Equal(t, 1, rec.loads)
	assert.Equal(t, int64(1), rec.pruneDeleted, "second save sweeps the first entry")
	assert.Equal(t, int64(0), rec.pruneFailed)
}

func TestManager_RecordsMetrics_Failures(t *testing.T) {
	rec := &recordingMetrics{}

	mem := store.NewMemoryStore()
	defer mem.Close()
	seedEntry(t, mem, "ckpt/6.model", testModel{Weight: 3})

	st := &failingStore{Store: mem, failWrite: true}
	mgr := New[testModel](st, "ckpt", JSONCodec[testModel]{}, WithMetricsRecorder(rec))

	require.Error(t, mgr.SaveAndPrune(context.Background(), 5, testModel{Weight: 5}))
	assert.Equal(t, 1, rec.saveErrors)
	assert.Equal(t, 0, rec.saves)
}

func TestManager_RecordsMetrics_PruneFailure(t *testing.T) {
	rec := &recordingMetrics{}

	mem := store.NewMemoryStore()
	defer mem.Close()
	seedEntry(t, mem, "ckpt/6.model", testModel{Weight: 3})
	seedEntry(t, mem, "ckpt/10.model", testModel{Weight: 5})

	st := &failingStore{Store: mem, failDeletes: map[string]bool{"ckpt/10.model": true}}
	mgr := New[testModel](st, "ckpt", JSONCodec[testModel]{}, WithMetricsRecorder(rec))

	require.NoError(t, mgr.PruneStale(context.Background(), 3))
	assert.Equal(t, int64(1), rec.pruneDeleted)
	assert.Equal(t, int64(1), rec.pruneFailed)
}

func TestManager_WithMetrics_Enabled(t *testing.T) {
	// Enable metrics - should not panic even without a provider.
	st := store.NewMemoryStore()
	defer st.Close()
	mgr := New[testModel](st, "ckpt", JSONCodec[testModel]{}, WithMetrics(true))

	require.NoError(t, mgr.SaveAndPrune(context.Background(), 1, testModel{Weight: 1}))
}

func TestManager_WithTracing_Enabled(t *testing.T) {
	// Enable tracing - should not panic even without a provider.
	st := store.NewMemoryStore()
	defer st.Close()
	mgr := New[testModel](st, "ckpt", JSONCodec[testModel]{}, WithTracing(true))
	ctx := context.Background()

	require.NoError(t, mgr.SaveAndPrune(ctx, 1, testModel{Weight: 1}))
	_, err := mgr.LoadLatest(ctx)
	require.NoError(t, err)
	require.NoError(t, mgr.PruneStale(ctx, 2))
	_, err = mgr.SavingRounds(ctx, 5, 17)
	require.NoError(t, err)
}

func TestManagerOptions_AreApplied(t *testing.T) {
	t.Run("WithLogger sets logger", func(t *testing.T) {
		cfg := defaultManagerConfig()
		logger := slog.Default()
		WithLogger(logger)(&cfg)
		assert.Equal(t, logger, cfg.logger)
	})

	t.Run("WithMetrics true sets recorder", func(t *testing.T) {
		cfg := defaultManagerConfig()
		WithMetrics(true)(&cfg)
		assert.NotNil(t, cfg.metrics)
	})

	t.Run("WithTracing true sets tracingEnabled", func(t *testing.T) {
		cfg := defaultManagerConfig()
		WithTracing(true)(&cfg)
		assert.True(t, cfg.tracingEnabled)
		assert.NotNil(t, cfg.spans)
	})

	t.Run("WithTracing false sets noop", func(t *testing.T) {
		cfg := defaultManagerConfig()
		WithTracing(false)(&cfg)
		assert.False(t, cfg.tracingEnabled)
	})

	t.Run("WithMetricsRecorder overrides recorder", func(t *testing.T) {
		cfg := defaultManagerConfig()
		rec := &recordingMetrics{}
		WithMetricsRecorder(rec)(&cfg)
		assert.Equal(t, rec, cfg.metrics)
	})

	t.Run("WithMetricsRecorder ignores nil", func(t *testing.T) {
		cfg := defaultManagerConfig()
		WithMetricsRecorder(nil)(&cfg)
		assert.NotNil(t, cfg.metrics)
	})
}
