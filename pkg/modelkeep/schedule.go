package modelkeep

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"
)

// SavingRounds computes the rounds at which a job should write a
// checkpoint, given its saving frequency and total round target.
//
// With frequency <= 0 the schedule is a single save at totalRounds,
// so a finished job always leaves its final model behind. A positive
// frequency schedules every frequency-th round counted from recorded
// progress, then totalRounds last: resuming at round 3 with frequency
// 5 and a 17-round target yields 8, 13, 17. Progress is the highest
// round already stored under the root, zero for a fresh job.
//
// A positive frequency with no checkpoint root is a configuration
// error; there is nowhere to put the periodic saves.
func (m *Manager[S]) SavingRounds(ctx context.Context, frequency, totalRounds int) (rounds []int, err error) {
	if m.cfg.tracingEnabled {
		var span trace.Span
		ctx, span = m.cfg.spans.StartCheckpointSpan(ctx, "schedule")
		defer func() { m.cfg.spans.EndSpanWithError(span, err) }()
	}

	if totalRounds < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeRound, totalRounds)
	}
	if frequency <= 0 {
		return []int{totalRounds}, nil
	}
	if !m.Enabled() {
		return nil, &ConfigError{Option: "checkpoint_path", Err: ErrPathRequired}
	}

	versions, err := m.Versions(ctx)
	if err != nil {
		return nil, err
	}
	progress := 0
	for _, v := range versions {
		if r := DecodeVersion(v); r > progress {
			progress = r
		}
	}

	for r := progress + frequency; r < totalRounds; r += frequency {
		rounds = append(rounds, r)
	}
	rounds = append(rounds, totalRounds)
	return rounds, nil
}
