package tracker

import (
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/katalvlaran/celltrack/factor"
	"github.com/katalvlaran/celltrack/hgraph"
	"github.com/katalvlaran/celltrack/messages"
	"github.com/katalvlaran/celltrack/subsolver"
)

// Tracker owns an hgraph.Graph and drives it through dual message
// passing and primal rounding. Debug enables the lower-bound
// monotonicity assertion after every SinglePass, mirroring the
// original's NDEBUG-gated check (see hgraph.Graph.Debug's doc comment
// for why this is an explicit flag rather than a compile-time strip).
//
// Grounded on original_source/include/ct/tracker.hpp.
type Tracker struct {
	Graph *hgraph.Graph
	Debug bool

	iterations int
	constant   factor.Cost
	opts       options
	best       PrimalSnapshot
}

// New constructs a Tracker over a freshly created graph, configured by
// opts. Build the graph via t.Graph's hgraph.Graph API, call
// t.Graph.Finalize(), then Run.
func New(opts ...Option) *Tracker {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Tracker{
		Graph: hgraph.NewGraph(o.graphOpts...),
		opts:  o,
	}
}

// SetConstant sets the tracker-level additive cost offset folded into
// LowerBound and EvaluatePrimal — e.g. the portion of an external cost
// model not represented by any factor.
func (t *Tracker) SetConstant(c factor.Cost) { t.constant = c }

// Constant returns the current additive offset.
func (t *Tracker) Constant() factor.Cost { return t.constant }

// Iterations returns the number of iterations Run has executed, where one
// iteration is a forward pass followed by a backward pass.
func (t *Tracker) Iterations() int { return t.iterations }

func (t *Tracker) forEachDetection(f func(*hgraph.DetectionNode)) {
	for _, ts := range t.Graph.Timesteps() {
		for _, d := range ts.Detections {
			f(d)
		}
	}
}

func (t *Tracker) forEachConflict(f func(*hgraph.ConflictNode)) {
	for _, ts := range t.Graph.Timesteps() {
		for _, c := range ts.Conflicts {
			f(c)
		}
	}
}

// LowerBound returns constant + the sum of every factor's LowerBound().
func (t *Tracker) LowerBound() factor.Cost {
	t.Graph.CheckStructure()

	result := t.constant
	t.forEachDetection(func(d *hgraph.DetectionNode) { result += d.Factor.LowerBound() })
	t.forEachConflict(func(c *hgraph.ConflictNode) { result += c.Factor.LowerBound() })

	return result
}

// EvaluatePrimal returns constant + the sum of every factor's
// EvaluatePrimal(), plus +Inf for every node whose primal is
// inconsistent with its neighbors.
func (t *Tracker) EvaluatePrimal() factor.Cost {
	result := t.constant

	t.forEachDetection(func(d *hgraph.DetectionNode) {
		if !messages.CheckAllTransitionConsistency(d).IsNotInconsistent() {
			result += factor.PositiveInfinity
		}
		result += d.Factor.EvaluatePrimal()
	})
	t.forEachConflict(func(c *hgraph.ConflictNode) {
		if !messages.CheckAllConflictConsistency(c).IsNotInconsistent() {
			result += factor.PositiveInfinity
		}
		result += c.Factor.EvaluatePrimal()
	})

	return result
}

// UpperBound is an alias for EvaluatePrimal, matching the original's
// upper_bound() naming at call sites that read better that way.
func (t *Tracker) UpperBound() factor.Cost { return t.EvaluatePrimal() }

// ResetPrimal resets every factor's primal to Undecided.
func (t *Tracker) ResetPrimal() {
	t.forEachDetection(func(d *hgraph.DetectionNode) { d.Factor.ResetPrimal() })
	t.forEachConflict(func(c *hgraph.ConflictNode) { c.Factor.ResetPrimal() })
}

// PrimalSnapshot is an opaque, order-matched copy of every factor's
// primal state, returned by BestPrimal and accepted by RestorePrimal.
// It exposes the original's remember/restore-best-primal bookkeeping
// (tracker.hpp's run()) publicly: the only snapshot a caller can obtain
// is the best primal remembered by Run; there is no exported way to
// snapshot the current primal.
type PrimalSnapshot struct {
	detections []factor.DetectionPrimal
	conflicts  []factor.ConflictPrimal
}

func (t *Tracker) snapshotPrimal() PrimalSnapshot {
	var snap PrimalSnapshot
	t.forEachDetection(func(d *hgraph.DetectionNode) {
		snap.detections = append(snap.detections, *d.Factor.Primal())
	})
	t.forEachConflict(func(c *hgraph.ConflictNode) {
		snap.conflicts = append(snap.conflicts, *c.Factor.Primal())
	})

	return snap
}

// RestorePrimal overwrites every factor's primal with snap, which must
// have been produced by this Tracker's BestPrimal or an equivalent
// snapshot taken over the same graph.
func (t *Tracker) RestorePrimal(snap PrimalSnapshot) {
	di, ci := 0, 0
	t.forEachDetection(func(d *hgraph.DetectionNode) {
		*d.Factor.Primal() = snap.detections[di]
		di++
	})
	t.forEachConflict(func(c *hgraph.ConflictNode) {
		*c.Factor.Primal() = snap.conflicts[ci]
		ci++
	})
}

// BestPrimal returns the best (lowest EvaluatePrimal) primal snapshot
// remembered across every rounding pass of the most recent Run.
func (t *Tracker) BestPrimal() PrimalSnapshot { return t.best }

// SingleStep runs one non-rounding single_step over the timestep at
// timestepIdx, in the given direction. This is exposed only for
// externally driven rounding code; Run never calls it directly, using
// SinglePass instead.
func (t *Tracker) SingleStep(timestepIdx int, forward bool) {
	timesteps := t.Graph.Timesteps()
	if timestepIdx < 0 || timestepIdx >= len(timesteps) {
		panic(fmt.Errorf("%w: %d", ErrTimestepIndexOutOfRange, timestepIdx))
	}

	t.singleStep(timesteps[timestepIdx], forward, false)
}

func (t *Tracker) singleStep(ts *hgraph.Timestep, forward, rounding bool) {
	for i := 0; i < t.opts.conflictRounds; i++ {
		for _, c := range ts.Conflicts {
			messages.SendToConflict(c)
		}
		for _, c := range ts.Conflicts {
			messages.SendToDetection(c)
		}
	}

	if rounding {
		t.roundTimestep(ts, forward)
	}

	for _, d := range ts.Detections {
		messages.SendTransition(d, forward, 1.0)
	}
}

// roundTimestep performs the primal-rounding block of single_step: drain
// every conflict's cost into its members' detection term (a temporary,
// non-reparametrizing manipulation, undone at the end), solve the exact
// 0/1 conflict subproblem, then round each detection (cheapest
// min_detection first) and propagate its choice to its transition
// neighbor and its conflicts, checking after each propagation (under
// Debug) that it did not leave an inconsistent assignment behind.
func (t *Tracker) roundTimestep(ts *hgraph.Timestep, forward bool) {
	for _, c := range ts.Conflicts {
		for i, link := range c.Detections {
			link.Node.Factor.RepamDetection(c.Factor.Get(i))
		}
	}

	sub := subsolver.New()
	for _, d := range ts.Detections {
		sub.AddDetection(d)
	}
	for _, c := range ts.Conflicts {
		sub.AddConflict(c)
	}
	sub.Optimize()
	for _, d := range ts.Detections {
		if !sub.Assignment(d) {
			d.Factor.Primal().SetDetectionOff()
		}
	}

	sorted := append([]*hgraph.DetectionNode(nil), ts.Detections...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Factor.MinDetection() < sorted[j].Factor.MinDetection()
	})

	for _, node := range sorted {
		possible := messages.GetPrimalPossibilities(node, forward)
		node.Factor.RoundPrimal(forward, possible)

		messages.PropagateTransitionPrimal(node, !forward)
		t.assertConsistent(messages.CheckAllTransitionConsistency(node))

		for _, link := range node.Conflicts {
			messages.PropagatePrimalToConflict(link.Node)
			t.assertConsistent(messages.CheckAllConflictConsistency(link.Node))

			messages.PropagatePrimalToDetections(link.Node)
			t.assertConsistent(messages.CheckAllConflictConsistency(link.Node))
		}
	}

	for _, c := range ts.Conflicts {
		for i, link := range c.Detections {
			link.Node.Factor.RepamDetection(-c.Factor.Get(i))
		}
	}
}

// assertConsistent panics if result is Inconsistent and t.Debug is set,
// mirroring the original's NDEBUG-gated check_messages(): after every
// primal propagation during rounding, no transition or conflict the
// propagation touched may have become inconsistent.
func (t *Tracker) assertConsistent(result factor.Consistency) {
	if t.Debug && !result.IsNotInconsistent() {
		panic("tracker: primal propagation produced an inconsistent assignment")
	}
}

// SinglePass runs singleStep over every timestep, in timestep order
// (forward) or reverse order (!forward); a rounding pass additionally
// fixes every detection's primal to its nirvana slot on whichever side
// rounding left undecided, once all timesteps have been visited.
func (t *Tracker) SinglePass(forward, rounding bool) {
	var lbBefore factor.Cost
	if t.Debug {
		lbBefore = t.LowerBound()
	}

	timesteps := t.Graph.Timesteps()
	if forward {
		for _, ts := range timesteps {
			t.singleStep(ts, forward, rounding)
		}
	} else {
		for i := len(timesteps) - 1; i >= 0; i-- {
			t.singleStep(timesteps[i], forward, rounding)
		}
	}

	if rounding {
		for _, ts := range timesteps {
			for _, d := range ts.Detections {
				d.Factor.FixPrimal()
			}
		}
	}

	if t.Debug {
		lbAfter := t.LowerBound()
		if lbBefore > lbAfter+factor.Epsilon {
			panic(fmt.Errorf("tracker: lower bound decreased: %v -> %v", lbBefore, lbAfter))
		}
	}
}

// ForwardPass runs SinglePass(true, rounding).
func (t *Tracker) ForwardPass(rounding bool) { t.SinglePass(true, rounding) }

// BackwardPass runs SinglePass(false, rounding).
func (t *Tracker) BackwardPass(rounding bool) { t.SinglePass(false, rounding) }

// Run executes batches of message-passing sweeps until the configured
// iteration budget is exhausted, the tracker's context is cancelled, or
// SIGINT arrives. It panics up front if any detection still holds an
// unset (NaN) cost. Each batch is batchSize-1 non-rounding forward/backward
// sweep pairs followed by one rounding forward and one rounding backward
// sweep; the best (lowest EvaluatePrimal) primal seen after either
// rounding sweep is remembered and restored once Run returns.
//
// SIGINT is intercepted for the duration of Run and re-raised afterward
// if it fired, matching signal_handler.hpp's install/restore/re-raise
// pattern so that a second Ctrl-C (or the process's normal disposition
// once Run has returned) still takes effect.
func (t *Tracker) Run() {
	t.Graph.CheckStructure()
	t.forEachDetection(func(d *hgraph.DetectionNode) {
		if !d.Factor.IsPrepared() {
			panic(fmt.Errorf("tracker: detection (%d,%d) has an unset (NaN) cost", d.Factor.Timestep, d.Factor.Index))
		}
	})
	maxBatches := (t.opts.maxIterations + t.opts.batchSize - 1) / t.opts.batchSize

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	interrupted := false

	bestUB := factor.PositiveInfinity
	rememberBest := func() {
		ub := t.EvaluatePrimal()
		if ub < bestUB {
			bestUB = ub
			t.best = t.snapshotPrimal()
		}
	}

	clockStart := time.Now()

batches:
	for i := 0; i < maxBatches; i++ {
		select {
		case <-sigCh:
			interrupted = true

			break batches
		case <-t.opts.ctx.Done():
			break batches
		default:
		}

		for j := 0; j < t.opts.batchSize-1; j++ {
			t.ForwardPass(false)
			t.BackwardPass(false)
		}

		t.ResetPrimal()
		t.ForwardPass(true)
		rememberBest()

		t.ResetPrimal()
		t.BackwardPass(true)
		rememberBest()

		elapsed := time.Since(clockStart)
		lb := t.LowerBound()
		t.iterations += t.opts.batchSize

		t.opts.logger.Info().
			Int("it", t.iterations).
			Float64("lb", lb).
			Float64("ub", bestUB).
			Float64("gap_percent", 100.0*(bestUB-lb)/math.Abs(lb)).
			Float64("t", elapsed.Seconds()).
			Msg("batch complete")
	}

	signal.Stop(sigCh)
	if interrupted {
		if p, err := os.FindProcess(os.Getpid()); err == nil {
			_ = p.Signal(os.Interrupt)
		}
	}

	if t.best.detections != nil || t.best.conflicts != nil {
		t.RestorePrimal(t.best)
	}
}
