package modelkeep

import (
	"context"
	"fmt"
	"path"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/modelkeep/modelkeep/pkg/modelkeep/observability"
	"github.com/modelkeep/modelkeep/pkg/modelkeep/store"
)

// Snapshot is a checkpoint restored from the durable store.
type Snapshot[S any] struct {
	// Round is the number of completed rounds the snapshot captures.
	Round int
	// Version is the storage version the snapshot was read from.
	Version int
	// State is the restored model state.
	State S
}

// Manager coordinates the checkpoint lifecycle for one training job:
// writing entries as rounds complete, restoring the newest entry on
// startup, and pruning entries that are no longer needed.
//
// The store directory under the checkpoint root is the only record of
// which checkpoints exist; there is no separate index to maintain or
// corrupt. A Manager assumes it is the only writer under its root.
type Manager[S any] struct {
	store store.Store
	root  string
	codec Codec[S]
	cfg   managerConfig
}

// New creates a Manager that keeps checkpoint entries under root in st.
// An empty root disables checkpointing: saves are rejected, loads
// report no checkpoint, and prunes do nothing.
func New[S any](st store.Store, root string, codec Codec[S], opts ...Option) *Manager[S] {
	cfg := defaultManagerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Manager[S]{
		store: st,
		root:  root,
		codec: codec,
		cfg:   cfg,
	}
}

// Enabled reports whether the manager has a checkpoint root to write to.
func (m *Manager[S]) Enabled() bool {
	return m.root != ""
}

// Root returns the checkpoint root path. Empty when disabled.
func (m *Manager[S]) Root() string {
	return m.root
}

// entryPath returns the store path for a version.
func (m *Manager[S]) entryPath(version int) string {
	return path.Join(m.root, FileName(version))
}

// Versions returns the versions of all checkpoint entries under the
// root, in no particular order. A missing or empty root yields an
// empty result. Entries whose names do not parse are skipped.
func (m *Manager[S]) Versions(ctx context.Context) ([]int, error) {
	if !m.Enabled() {
		return nil, nil
	}

	names, err := m.store.List(ctx, m.root)
	if err != nil {
		return nil, &StorageError{Op: "list", Path: m.root, Err: err}
	}

	versions := make([]int, 0, len(names))
	for _, name := range names {
		if v, ok := ParseFileName(name); ok {
			versions = append(versions, v)
		}
	}
	return versions, nil
}

// LoadLatest restores the checkpoint with the highest version under
// the root. Returns (nil, nil) when no checkpoint exists, leaving the
// caller to start fresh.
//
// A latest entry that cannot be read or decoded is an error, not a
// fresh start: falling back to an older entry would silently replay
// rounds the job already trained, so the failure surfaces instead.
func (m *Manager[S]) LoadLatest(ctx context.Context) (snap *Snapshot[S], err error) {
	if m.cfg.tracingEnabled {
		var span trace.Span
		ctx, span = m.cfg.spans.StartCheckpointSpan(ctx, "load")
		defer func() { m.cfg.spans.EndSpanWithError(span, err) }()
	}

	versions, err := m.Versions(ctx)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, nil
	}

	latest := versions[0]
	for _, v := range versions[1:] {
		if v > latest {
			latest = v
		}
	}

	p := m.entryPath(latest)
	start := time.Now()
	data, err := m.store.Read(ctx, p)
	if err != nil {
		m.cfg.metrics.RecordLoad(ctx, time.Since(start), err)
		return nil, &StorageError{Op: "read", Path: p, Err: err}
	}

	state, err := m.codec.Decode(data)
	if err != nil {
		m.cfg.metrics.RecordLoad(ctx, time.Since(start), err)
		return nil, &DecodeError{Path: p, Err: err}
	}
	m.cfg.metrics.RecordLoad(ctx, time.Since(start), nil)

	round := DecodeVersion(latest)
	observability.LogResume(m.cfg.logger, round, latest)

	return &Snapshot[S]{
		Round:   round,
		Version: latest,
		State:   state,
	}, nil
}

// SaveAndPrune writes the checkpoint for a just-completed round, then
// deletes the entries it supersedes. The write lands before any
// delete, so a crash mid-operation can leave extra entries behind but
// never zero. Delete failures are logged and tolerated; entries left
// behind are swept again on the next save.
func (m *Manager[S]) SaveAndPrune(ctx context.Context, round int, state S) (err error) {
	if m.cfg.tracingEnabled {
		var span trace.Span
		ctx, span = m.cfg.spans.StartCheckpointSpan(ctx, "save")
		defer func() { m.cfg.spans.EndSpanWithError(span, err) }()
	}

	if !m.Enabled() {
		return &ConfigError{Option: "checkpoint_path", Err: ErrCheckpointingDisabled}
	}
	if round < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeRound, round)
	}

	// Enumerate before writing so the new entry is never in its own
	// deletion set.
	stale, err := m.Versions(ctx)
	if err != nil {
		return err
	}

	data, err := m.codec.Encode(state)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSerializeState, err)
	}

	version := EncodeRound(round)
	p := m.entryPath(version)
	start := time.Now()
	if werr := m.store.Write(ctx, p, data); werr != nil {
		m.cfg.metrics.RecordSave(ctx, time.Since(start), 0, werr)
		return &StorageError{Op: "write", Path: p, Err: werr}
	}
	m.cfg.metrics.RecordSave(ctx, time.Since(start), int64(len(data)), nil)
	observability.LogCheckpointSaved(m.cfg.logger, round, version, len(data))

	var deleted, failed int64
	for _, v := range stale {
		// Re-saving a round overwrites in place; the fresh entry
		// must survive the sweep.
		if v == version {
			continue
		}
		ep := m.entryPath(v)
		if derr := m.store.Delete(ctx, ep); derr != nil {
			failed++
			observability.LogCheckpointDeleteError(m.cfg.logger, ep, derr)
			continue
		}
		deleted++
		observability.LogCheckpointDeleted(m.cfg.logger, ep)
	}
	m.cfg.metrics.RecordPrune(ctx, deleted, failed)

	return nil
}

// PruneStale deletes every entry recording progress at or beyond
// currentRound. A job that restarts at round N calls PruneStale(N) so
// entries from a farther-ahead past life cannot shadow the rounds it
// is about to retrain. Delete failures are logged and tolerated.
func (m *Manager[S]) PruneStale(ctx context.Context, currentRound int) (err error) {
	if m.cfg.tracingEnabled {
		var span trace.Span
		ctx, span = m.cfg.spans.StartCheckpointSpan(ctx, "prune")
		defer func() { m.cfg.spans.EndSpanWithError(span, err) }()
	}

	if currentRound < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeRound, currentRound)
	}
	if !m.Enabled() {
		return nil
	}

	versions, err := m.Versions(ctx)
	if err != nil {
		return err
	}

	var deleted, failed int64
	for _, v := range versions {
		if DecodeVersion(v) < currentRound {
			continue
		}
		ep := m.entryPath(v)
		if derr := m.store.Delete(ctx, ep); derr != nil {
			failed++
			observability.LogCheckpointDeleteError(m.cfg.logger, ep, derr)
			continue
		}
		deleted++
		observability.LogCheckpointDeleted(m.cfg.logger, ep)
	}
	m.cfg.metrics.RecordPrune(ctx, deleted, failed)

	return nil
}
