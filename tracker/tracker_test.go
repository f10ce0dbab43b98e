package tracker_test

import (
	"testing"

	"github.com/katalvlaran/celltrack/factor"
	"github.com/katalvlaran/celltrack/tracker"
	"github.com/stretchr/testify/require"
)

// chain builds a two-timestep, single-lineage graph: one detection
// per timestep, wired by a simple transition, with a negative detection
// cost so rounding reliably turns every node on.
func chain(t *testing.T) *tracker.Tracker {
	t.Helper()
	tr := tracker.New(tracker.WithBatchSize(4), tracker.WithMaxIterations(4))

	d0 := tr.Graph.AddDetection(0, 0, 0, 1, 0)
	d0.Factor.SetDetectionCost(-2)
	d0.Factor.SetAppearanceCost(0)
	d0.Factor.SetDisappearanceCost(5)
	d0.Factor.SetOutgoingCost(0, 0)

	d1 := tr.Graph.AddDetection(1, 0, 1, 0, 0)
	d1.Factor.SetDetectionCost(-2)
	d1.Factor.SetIncomingCost(0, 0)
	d1.Factor.SetAppearanceCost(5)
	d1.Factor.SetDisappearanceCost(0)

	tr.Graph.AddTransition(0, 0, 0, 0, 0)
	tr.Graph.Finalize()

	return tr
}

// forked builds a single mother dividing into two daughters at t=1, with
// a conflict clique over the two daughters so at most one may commit.
func forked(t *testing.T) *tracker.Tracker {
	t.Helper()
	tr := tracker.New(tracker.WithBatchSize(4), tracker.WithMaxIterations(4))

	mother := tr.Graph.AddDetection(0, 0, 0, 1, 0)
	mother.Factor.SetDetectionCost(-1)
	mother.Factor.SetAppearanceCost(0)
	mother.Factor.SetDisappearanceCost(10)
	mother.Factor.SetOutgoingCost(0, 0)

	d1 := tr.Graph.AddDetection(1, 0, 1, 0, 1)
	d1.Factor.SetDetectionCost(-3)
	d1.Factor.SetIncomingCost(0, 0)
	d1.Factor.SetAppearanceCost(10)
	d1.Factor.SetDisappearanceCost(0)

	d2 := tr.Graph.AddDetection(1, 1, 1, 0, 1)
	d2.Factor.SetDetectionCost(-1)
	d2.Factor.SetIncomingCost(0, 0)
	d2.Factor.SetAppearanceCost(10)
	d2.Factor.SetDisappearanceCost(0)

	tr.Graph.AddDivision(0, 0, 0, 0, 0, 1, 0)

	tr.Graph.AddConflict(1, 0, 2)
	tr.Graph.AddConflictLink(1, 0, 0, 0, 0)
	tr.Graph.AddConflictLink(1, 0, 1, 1, 0)

	tr.Graph.Finalize()

	return tr
}

func TestTracker_LowerBoundStartsAtSumOfFactors(t *testing.T) {
	tr := chain(t)
	lb := tr.LowerBound()
	require.InDelta(t, -4.0, float64(lb), 1e-9)
}

func TestTracker_SinglePassPreservesLowerBound(t *testing.T) {
	tr := chain(t)
	before := tr.LowerBound()
	tr.ForwardPass(false)
	after := tr.LowerBound()
	require.InDelta(t, float64(before), float64(after), 1e-6)
}

func TestTracker_SinglePassIsMonotoneUnderDebug(t *testing.T) {
	tr := chain(t)
	tr.Debug = true
	require.NotPanics(t, func() {
		tr.ForwardPass(false)
		tr.BackwardPass(false)
	})
}

func TestTracker_RoundingPassProducesConsistentPrimal(t *testing.T) {
	tr := chain(t)
	tr.ForwardPass(true)

	ub := tr.EvaluatePrimal()
	require.Less(t, float64(ub), float64(factor.PositiveInfinity))
}

func TestTracker_PrimalNeverBeatsDual(t *testing.T) {
	tr := chain(t)
	tr.ForwardPass(true)

	lb := tr.LowerBound()
	ub := tr.EvaluatePrimal()
	require.GreaterOrEqual(t, float64(ub)+1e-6, float64(lb))
}

func TestTracker_ResetPrimalClearsRounding(t *testing.T) {
	tr := chain(t)
	tr.ForwardPass(true)
	require.Less(t, float64(tr.EvaluatePrimal()), float64(factor.PositiveInfinity))

	tr.ResetPrimal()
	ub := tr.EvaluatePrimal()
	require.Equal(t, factor.PositiveInfinity, ub)
}

func TestTracker_SingleStepOutOfRangePanics(t *testing.T) {
	tr := chain(t)
	require.Panics(t, func() {
		tr.SingleStep(5, true)
	})
}

func TestTracker_DivisionRoundingRespectsConflict(t *testing.T) {
	tr := forked(t)
	for i := 0; i < 4; i++ {
		tr.ForwardPass(false)
		tr.BackwardPass(false)
	}
	tr.ForwardPass(true)

	ub := tr.EvaluatePrimal()
	require.Less(t, float64(ub), float64(factor.PositiveInfinity))
}

func TestTracker_RunRemembersBestPrimal(t *testing.T) {
	tr := chain(t)
	tr.Run()

	best := tr.BestPrimal()
	tr.RestorePrimal(best)
	ub := tr.EvaluatePrimal()
	require.Less(t, float64(ub), float64(factor.PositiveInfinity))
	require.Equal(t, 4, tr.Iterations())
}

func TestTracker_ConstantOffsetsBothBounds(t *testing.T) {
	tr := chain(t)
	lbBefore := tr.LowerBound()
	tr.SetConstant(7)
	require.InDelta(t, float64(lbBefore)+7, float64(tr.LowerBound()), 1e-9)
	require.Equal(t, factor.Cost(7), tr.Constant())
}
