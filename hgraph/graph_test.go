package hgraph_test

import (
	"testing"

	"github.com/katalvlaran/celltrack/hgraph"
	"github.com/stretchr/testify/require"
)

func TestGraph_AddDetectionSequential(t *testing.T) {
	g := hgraph.NewGraph()

	d0 := g.AddDetection(0, 0, 0, 1, 0)
	d1 := g.AddDetection(0, 1, 0, 1, 0)
	require.NotNil(t, d0)
	require.NotNil(t, d1)
	require.Equal(t, 2, g.NumberOfDetections())
	require.Equal(t, 0, g.NumberOfConflicts())
}

func TestGraph_AddDetectionOutOfOrderPanics(t *testing.T) {
	g := hgraph.NewGraph()

	require.Panics(t, func() {
		g.AddDetection(0, 1, 0, 0, 0) // index 1 before index 0 exists
	})
}

func TestGraph_AddDetectionSkippingTimestepPanics(t *testing.T) {
	g := hgraph.NewGraph()

	require.Panics(t, func() {
		g.AddDetection(1, 0, 0, 0, 0) // timestep 1 before timestep 0 exists
	})
}

func TestGraph_ConflictBeforeAllDetectionsPanics(t *testing.T) {
	g := hgraph.NewGraph()
	g.AddDetection(0, 0, 0, 0, 1)
	g.AddConflict(0, 0, 2)

	require.Panics(t, func() {
		g.AddDetection(0, 1, 0, 0, 1) // detection added after a conflict at the same timestep
	})
}

func TestGraph_AddConflictRequiresTwoMembers(t *testing.T) {
	g := hgraph.NewGraph()
	g.AddDetection(0, 0, 0, 0, 1)

	require.Panics(t, func() {
		g.AddConflict(0, 0, 1)
	})
}

func TestGraph_SimpleTransitionWiresBothSides(t *testing.T) {
	g := hgraph.NewGraph()
	from := g.AddDetection(0, 0, 0, 1, 0)
	g.AddDetection(1, 0, 1, 0, 0)

	g.AddTransition(0, 0, 0, 0, 0)

	to := g.Detection(1, 0)
	require.True(t, from.Outgoing[0].IsPrepared())
	require.True(t, to.Incoming[0].IsPrepared())
	require.False(t, from.Outgoing[0].IsDivision())
	require.Same(t, to, from.Outgoing[0].Node1)
	require.Same(t, from, to.Incoming[0].Node1)
}

func TestGraph_DivisionWiresSiblingPointers(t *testing.T) {
	g := hgraph.NewGraph()
	g.AddDetection(0, 0, 0, 1, 0)
	g.AddDetection(1, 0, 1, 0, 0)
	g.AddDetection(1, 1, 1, 0, 0)

	g.AddDivision(0, 0, 0, 0, 0, 1, 0)

	mother := g.Detection(0, 0)
	d1 := g.Detection(1, 0)
	d2 := g.Detection(1, 1)

	require.True(t, mother.Outgoing[0].IsDivision())
	require.Same(t, d1, mother.Outgoing[0].Node1)
	require.Same(t, d2, mother.Outgoing[0].Node2)

	require.Same(t, mother, d1.Incoming[0].Node1)
	require.Same(t, d2, d1.Incoming[0].Node2)
	require.Same(t, mother, d2.Incoming[0].Node1)
	require.Same(t, d1, d2.Incoming[0].Node2)
}

func TestGraph_RewiringAlreadyWiredSlotPanics(t *testing.T) {
	g := hgraph.NewGraph()
	g.AddDetection(0, 0, 0, 1, 0)
	g.AddDetection(1, 0, 1, 0, 0)
	g.AddTransition(0, 0, 0, 0, 0)

	require.Panics(t, func() {
		g.AddTransition(0, 0, 0, 0, 0)
	})
}

func TestGraph_ConflictLinkWiresBothSides(t *testing.T) {
	g := hgraph.NewGraph()
	g.AddDetection(0, 0, 0, 0, 1)
	g.AddDetection(0, 1, 0, 0, 1)
	c := g.AddConflict(0, 0, 2)

	g.AddConflictLink(0, 0, 0, 0, 0)
	g.AddConflictLink(0, 0, 1, 1, 0)

	d0 := g.Detection(0, 0)
	d1 := g.Detection(0, 1)
	require.Same(t, d0, c.Detections[0].Node)
	require.Same(t, d1, c.Detections[1].Node)
	require.Same(t, c, d0.Conflicts[0].Node)
	require.Same(t, c, d1.Conflicts[0].Node)
}

func TestGraph_FinalizeFreezesStructure(t *testing.T) {
	g := hgraph.NewGraph()
	g.AddDetection(0, 0, 0, 0, 0)
	g.Finalize()
	require.True(t, g.IsFinalized())

	require.Panics(t, func() {
		g.AddDetection(1, 0, 0, 0, 0)
	})
}

func TestGraph_CheckStructureNoOpUnlessDebug(t *testing.T) {
	g := hgraph.NewGraph()
	g.AddDetection(0, 0, 0, 1, 0) // outgoing slot left unwired

	require.NotPanics(t, func() { g.CheckStructure() })

	g.Debug = true
	require.Panics(t, func() { g.CheckStructure() })
}

func TestGraph_DetectionNotFoundPanics(t *testing.T) {
	g := hgraph.NewGraph()
	g.AddDetection(0, 0, 0, 0, 0)

	require.Panics(t, func() {
		g.Detection(0, 5)
	})
	require.Panics(t, func() {
		g.Detection(3, 0)
	})
}

func TestGraph_FixedCapacityExhaustionPanics(t *testing.T) {
	g := hgraph.NewGraph(hgraph.WithDetectionCapacity(1))
	g.AddDetection(0, 0, 0, 0, 0)

	require.Panics(t, func() {
		g.AddDetection(1, 0, 0, 0, 0)
	})
}
