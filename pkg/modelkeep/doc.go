/*
Package modelkeep manages the checkpoint lifecycle of long-running,
round-based training jobs.

# Overview

A training job advances one round at a time and must survive losing
its machine mid-run. modelkeep persists model state after chosen
rounds, restores the newest state on restart, and prunes entries that
are no longer needed, so a job resumes where it left off instead of
retraining from round zero.

The library provides:
  - Type-safe generics for model state
  - Pluggable durable stores (filesystem, SQLite, bbolt, S3, memory)
  - Crash-safe save-then-prune ordering
  - A resume-aware saving schedule
  - OpenTelemetry integration for observability

# Versions and Rounds

Progress is recorded in entry names, not in a separate index. A
checkpoint taken after round N completes is stored as version 2N
under the checkpoint root, in a file named <version>.model. Decoding
truncates, so an entry written mid-round at an odd version still
reports the last fully completed round. The directory listing is the
only catalog of what exists; there is nothing else to corrupt.

# Basic Usage

Open a store, create a manager, restore, train, save:

	type Model struct {
	    Weights []float64
	}

	st, err := store.NewFSStore("/data")
	if err != nil {
	    log.Fatal(err)
	}
	defer st.Close()

	mgr := modelkeep.New(st, "ckpt", modelkeep.JSONCodec[Model]{})

	ctx := context.Background()
	start, model := 0, Model{}
	if snap, err := mgr.LoadLatest(ctx); err != nil {
	    log.Fatal(err)
	} else if snap != nil {
	    start, model = snap.Round, snap.State
	}

	for round := start + 1; round <= 100; round++ {
	    model = fit(model, round)
	    if err := mgr.SaveAndPrune(ctx, round, model); err != nil {
	        log.Fatal(err)
	    }
	}

An empty root ("") disables checkpointing: LoadLatest reports no
checkpoint and SaveAndPrune returns ErrCheckpointingDisabled.

# Saving Schedule

Jobs that should not pay the save cost every round compute a schedule
instead:

	rounds, err := mgr.SavingRounds(ctx, 5, 17)
	// fresh job: [5 10 15 17]
	// job resumed at round 3: [8 13 17]

The schedule counts from recorded progress and always ends at the
total, so the final model is never lost.

# Driving a Job

The train subpackage wires restore, prune, schedule, and the round
loop together:

	loop := train.NewLoop(mgr, func(ctx context.Context, round int, m Model) (Model, error) {
	    return fit(m, round), nil
	})
	final, err := loop.Run(ctx, 100, 5, Model{})

# Observability

Enable logging, metrics, and tracing:

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	mgr := modelkeep.New(st, "ckpt", modelkeep.JSONCodec[Model]{},
	    modelkeep.WithLogger(logger),
	    modelkeep.WithMetrics(true),
	    modelkeep.WithTracing(true))

Logs include structured fields: round, version, path, size_bytes.
OpenTelemetry metrics: modelkeep.checkpoint.saves,
modelkeep.checkpoint.save_latency_ms, etc.
OpenTelemetry tracing: modelkeep.checkpoint.{save,load,prune} spans.

# Error Handling

Errors carry enough context to act on:

	err := mgr.SaveAndPrune(ctx, round, model)
	var storageErr *modelkeep.StorageError
	if errors.As(err, &storageErr) {
	    log.Printf("store %s failed at %s: %v", storageErr.Op, storageErr.Path, storageErr.Err)
	}

	if errors.Is(err, modelkeep.ErrCheckpointingDisabled) {
	    // no root configured; saves are rejected
	}

A latest entry that cannot be decoded surfaces as *DecodeError rather
than silently falling back to an older entry.

# Thread Safety

  - Manager[S] assumes a single driver goroutine; it performs no
    internal locking and must be the only writer under its root
  - Store implementations are safe for concurrent use
  - Codec implementations must be stateless

# Subpackages

  - store: durable blob stores (memory, filesystem, SQLite, bbolt, S3)
  - config: typed extraction of job settings from YAML/JSON
  - observability: logging, metrics, and tracing helpers
  - train: a resume-aware training loop driver
*/
package modelkeep
