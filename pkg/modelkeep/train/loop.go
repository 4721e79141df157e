// Package train drives round-based training jobs on top of a
// checkpoint manager: it restores the newest checkpoint, prunes
// entries from a farther-ahead past life, computes the saving
// schedule, and runs rounds until the target, saving where scheduled.
package train

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/modelkeep/modelkeep/pkg/modelkeep"
	"github.com/modelkeep/modelkeep/pkg/modelkeep/observability"
)

// RoundFn executes one training round. It receives the 1-based round
// number and the state after the previous round, and returns the
// state after this round.
type RoundFn[S any] func(ctx context.Context, round int, state S) (S, error)

// Loop runs a training job round by round with automatic resume.
type Loop[S any] struct {
	mgr *modelkeep.Manager[S]
	fn  RoundFn[S]
	cfg loopConfig
}

// NewLoop creates a Loop driving fn under mgr's checkpoint lifecycle.
func NewLoop[S any](mgr *modelkeep.Manager[S], fn RoundFn[S], opts ...LoopOption) *Loop[S] {
	cfg := defaultLoopConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Loop[S]{mgr: mgr, fn: fn, cfg: cfg}
}

// Run trains from the newest checkpoint (or initial, when none exists)
// through totalRounds, saving at the rounds the frequency schedules.
// The returned state reflects the last completed round even when the
// run ends in an error, so callers can still inspect it.
//
// A run that restores round N executes rounds N+1 through totalRounds.
// Checkpoints recording progress beyond N are pruned before training
// starts; they belong to a past life of the job that got further and
// would shadow the rounds about to be retrained.
func (l *Loop[S]) Run(ctx context.Context, totalRounds, frequency int, initial S) (state S, err error) {
	state = initial
	if totalRounds < 0 {
		return state, fmt.Errorf("%w: %d", modelkeep.ErrNegativeRound, totalRounds)
	}

	runID := l.cfg.runID
	if runID == "" {
		runID = uuid.NewString()
	}

	startTime := time.Now()
	executed := 0
	failedRound := 0

	if l.cfg.tracingEnabled {
		var runSpan trace.Span
		ctx, runSpan = l.cfg.spans.StartRunSpan(ctx, l.cfg.jobName, runID)
		defer func() { l.cfg.spans.EndSpanWithError(runSpan, err) }()
	}

	defer func() {
		duration := time.Since(startTime)
		durationMs := float64(duration.Milliseconds())
		l.cfg.metrics.RecordTrainingRun(ctx, err == nil, duration)
		if err != nil {
			observability.LogRunError(l.cfg.logger, runID, err, durationMs, failedRound)
			return
		}
		observability.LogRunComplete(l.cfg.logger, runID, durationMs, executed)
	}()

	snap, err := l.mgr.LoadLatest(ctx)
	if err != nil {
		return state, err
	}
	start := 0
	if snap != nil {
		start, state = snap.Round, snap.State
	}

	if err = l.mgr.PruneStale(ctx, start+1); err != nil {
		return state, err
	}

	schedule, err := l.mgr.SavingRounds(ctx, frequency, totalRounds)
	if err != nil {
		return state, err
	}
	saveAt := make(map[int]bool, len(schedule))
	for _, r := range schedule {
		saveAt[r] = true
	}

	observability.LogRunStart(l.cfg.logger, runID, start, totalRounds)

	for round := start + 1; round <= totalRounds; round++ {
		select {
		case <-ctx.Done():
			failedRound = round
			err = &CancellationError{Round: round, Cause: ctx.Err()}
			return state, err
		default:
		}

		observability.LogRoundStart(l.cfg.logger, round)

		roundCtx := ctx
		var roundSpan trace.Span
		if l.cfg.tracingEnabled {
			roundCtx, roundSpan = l.cfg.spans.StartRoundSpan(ctx, round)
		}

		roundStart := time.Now()
		var roundErr error
		state, roundErr = l.fn(roundCtx, round, state)
		roundDuration := time.Since(roundStart)

		l.cfg.metrics.RecordRoundExecution(roundCtx, roundDuration, roundErr)
		if l.cfg.tracingEnabled {
			l.cfg.spans.EndSpanWithError(roundSpan, roundErr)
		}

		if roundErr != nil {
			failedRound = round
			err = &RoundError{Round: round, Err: roundErr}
			return state, err
		}
		observability.LogRoundComplete(l.cfg.logger, round, float64(roundDuration.Milliseconds()))
		executed++

		// A disabled manager still runs the loop; the final-save-only
		// schedule just has nowhere to write.
		if saveAt[round] && l.mgr.Enabled() {
			if err = l.mgr.SaveAndPrune(ctx, round, state); err != nil {
				failedRound = round
				return state, err
			}
		}
	}

	return state, nil
}
