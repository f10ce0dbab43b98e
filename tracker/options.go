package tracker

import (
	"context"

	"github.com/katalvlaran/celltrack/hgraph"
	"github.com/rs/zerolog"
)

// defaultBatchSize is the original's batch_size: a run is organized into
// batches of this many forward/backward pass pairs, the last pair of
// which is rounding, with the best primal seen remembered after each
// rounding pass.
const defaultBatchSize = 100

// defaultConflictRounds is the original's hardcoded inner loop count (5)
// of alternating SendToConflict/SendToDetection rounds performed at each
// timestep before its transition message is sent.
const defaultConflictRounds = 5

// Option configures a Tracker. Use with New(opts...), following the
// functional-options style of package dfs.
type Option func(*options)

type options struct {
	logger         zerolog.Logger
	maxIterations  int
	batchSize      int
	conflictRounds int
	ctx            context.Context
	graphOpts      []hgraph.GraphOption
}

func defaultOptions() options {
	return options{
		logger:         zerolog.Nop(),
		maxIterations:  1000,
		batchSize:      defaultBatchSize,
		conflictRounds: defaultConflictRounds,
		ctx:            context.Background(),
	}
}

// WithLogger sets the zerolog.Logger used for per-batch diagnostics
// during Run. Defaults to a no-op logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMaxIterations sets the total iteration budget of Run; it is
// rounded up to a whole number of batches, matching the original's
// "(max_iterations + batch_size - 1) / batch_size". Default 1000.
func WithMaxIterations(n int) Option {
	return func(o *options) { o.maxIterations = n }
}

// WithBatchSize overrides the number of forward/backward pass pairs per
// batch (batch_size in the original, hardcoded to 100 there). Exposed
// here so tests can exercise the rounding/remember-best logic without
// running 99 throwaway pass pairs first.
func WithBatchSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithConflictRounds overrides the number of SendToConflict/
// SendToDetection round-trips performed per timestep per single_step
// (hardcoded to 5 in the original).
func WithConflictRounds(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.conflictRounds = n
		}
	}
}

// WithContext sets the context whose cancellation stops Run early,
// alongside (not instead of) SIGINT. A nil context is ignored.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// WithArenaCapacity pre-sizes the underlying graph's detection, conflict
// and cost arenas, turning allocator exhaustion into an explicit panic
// at construction time instead of unbounded growth. Pass 0 for any
// dimension to leave it growing.
func WithArenaCapacity(detections, conflicts, costs int) Option {
	return func(o *options) {
		if detections > 0 {
			o.graphOpts = append(o.graphOpts, hgraph.WithDetectionCapacity(detections))
		}
		if conflicts > 0 {
			o.graphOpts = append(o.graphOpts, hgraph.WithConflictCapacity(conflicts))
		}
		if costs > 0 {
			o.graphOpts = append(o.graphOpts, hgraph.WithCostCapacity(costs))
		}
	}
}
