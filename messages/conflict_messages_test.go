package messages_test

import (
	"testing"

	"github.com/katalvlaran/celltrack/factor"
	"github.com/katalvlaran/celltrack/hgraph"
	"github.com/katalvlaran/celltrack/messages"
	"github.com/stretchr/testify/require"
)

func conflictGraph(t *testing.T) (*hgraph.Graph, *hgraph.ConflictNode) {
	t.Helper()
	g := hgraph.NewGraph()

	d0 := g.AddDetection(0, 0, 0, 0, 1)
	d1 := g.AddDetection(0, 1, 0, 0, 1)
	c := g.AddConflict(0, 0, 2)
	g.AddConflictLink(0, 0, 0, 0, 0)
	g.AddConflictLink(0, 0, 1, 1, 0)

	d0.Factor.SetDetectionCost(-3)
	d0.Factor.SetAppearanceCost(0)
	d0.Factor.SetDisappearanceCost(0)
	d1.Factor.SetDetectionCost(-5)
	d1.Factor.SetAppearanceCost(0)
	d1.Factor.SetDisappearanceCost(0)

	return g, c
}

// Gathering moves both members' full min-detection (-3, -5) onto the
// conflict, whose bound is then min(-3, -5, 0) = -5: the sum of lower
// bounds rises from -8 to -5 and never drops.
func TestSendToConflict_DoesNotDecreaseSumOfLowerBounds(t *testing.T) {
	g, c := conflictGraph(t)
	before := sumLowerBounds(g)

	messages.SendToConflict(c)

	after := sumLowerBounds(g)
	require.InDelta(t, -8.0, float64(before), 1e-9)
	require.InDelta(t, -5.0, float64(after), 1e-9)
}

func TestSendToDetection_PreservesSumOfLowerBounds(t *testing.T) {
	g, c := conflictGraph(t)
	messages.SendToConflict(c) // first move mass onto the conflict

	before := sumLowerBounds(g)
	messages.SendToDetection(c)
	after := sumLowerBounds(g)

	require.InDelta(t, float64(before), float64(after), 1e-9)
}

func TestPropagatePrimalToConflict_PicksOnMember(t *testing.T) {
	_, c := conflictGraph(t)
	d0 := c.Detections[0].Node
	d1 := c.Detections[1].Node

	d0.Factor.Primal().SetIncoming(0)
	d0.Factor.Primal().SetOutgoing(0)
	d1.Factor.Primal().SetDetectionOff()

	messages.PropagatePrimalToConflict(c)

	require.True(t, c.Factor.Primal().IsSet())
	require.Equal(t, 0, c.Factor.Primal().Get())
}

func TestPropagatePrimalToConflict_AllOffPicksLastSlot(t *testing.T) {
	_, c := conflictGraph(t)
	d0 := c.Detections[0].Node
	d1 := c.Detections[1].Node
	d0.Factor.Primal().SetDetectionOff()
	d1.Factor.Primal().SetDetectionOff()

	messages.PropagatePrimalToConflict(c)

	require.Equal(t, c.Factor.Size()-1, c.Factor.Primal().Get())
}

func TestPropagatePrimalToDetections_TurnsOffNonChosenMembers(t *testing.T) {
	_, c := conflictGraph(t)
	d0 := c.Detections[0].Node
	d1 := c.Detections[1].Node

	c.Factor.Primal().Set(0)
	messages.PropagatePrimalToDetections(c)

	require.False(t, d0.Factor.Primal().IsDetectionOff())
	require.True(t, d1.Factor.Primal().IsDetectionOff())
}

func TestCheckConflictConsistency_UnknownWhenUndecided(t *testing.T) {
	_, c := conflictGraph(t)
	result := messages.CheckAllConflictConsistency(c)
	require.Equal(t, factor.Unknown, result)
}
