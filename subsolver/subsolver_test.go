package subsolver_test

import (
	"testing"

	"github.com/katalvlaran/celltrack/hgraph"
	"github.com/katalvlaran/celltrack/subsolver"
	"github.com/stretchr/testify/require"
)

func buildGraph(t *testing.T, detectionCosts []float64) (*hgraph.Graph, []*hgraph.DetectionNode) {
	t.Helper()
	g := hgraph.NewGraph()

	nodes := make([]*hgraph.DetectionNode, len(detectionCosts))
	for i, cost := range detectionCosts {
		n := g.AddDetection(0, i, 0, 0, len(detectionCosts)-1)
		n.Factor.SetDetectionCost(cost)
		n.Factor.SetAppearanceCost(0)
		n.Factor.SetDisappearanceCost(0)
		nodes[i] = n
	}

	return g, nodes
}

func TestSubsolver_NoConflictsEveryNegativeNodeOn(t *testing.T) {
	g, nodes := buildGraph(t, []float64{-3, -1, 2})
	_ = g

	s := subsolver.New()
	for _, n := range nodes {
		s.AddDetection(n)
	}
	s.Optimize()

	require.True(t, s.Assignment(nodes[0]))
	require.True(t, s.Assignment(nodes[1]))
	require.False(t, s.Assignment(nodes[2]))
}

func TestSubsolver_FullCliquePicksCheapest(t *testing.T) {
	g, nodes := buildGraph(t, []float64{-3, -7, -1})
	c := g.AddConflict(0, 0, 3)
	for i, n := range nodes {
		g.AddConflictLink(0, 0, i, i, 0)
		_ = n
	}

	s := subsolver.New()
	for _, n := range nodes {
		s.AddDetection(n)
	}
	s.AddConflict(c)
	s.Optimize()

	require.False(t, s.Assignment(nodes[0]))
	require.True(t, s.Assignment(nodes[1]))
	require.False(t, s.Assignment(nodes[2]))
}

func TestSubsolver_OverlappingCliques(t *testing.T) {
	// Three detections: 0-1 conflict, 1-2 conflict. All negative weight,
	// so the optimum picks 0 and 2 (both on, 1 off) rather than just 1.
	g, nodes := buildGraph(t, []float64{-2, -2.5, -2})
	c01 := g.AddConflict(0, 0, 2)
	g.AddConflictLink(0, 0, 0, 0, 0)
	g.AddConflictLink(0, 0, 1, 1, 0)
	c12 := g.AddConflict(0, 1, 2)
	g.AddConflictLink(0, 1, 0, 1, 1)
	g.AddConflictLink(0, 1, 1, 2, 0)

	s := subsolver.New()
	for _, n := range nodes {
		s.AddDetection(n)
	}
	s.AddConflict(c01)
	s.AddConflict(c12)
	s.Optimize()

	require.True(t, s.Assignment(nodes[0]))
	require.False(t, s.Assignment(nodes[1]))
	require.True(t, s.Assignment(nodes[2]))
}

func TestSubsolver_DuplicateAddDetectionPanics(t *testing.T) {
	_, nodes := buildGraph(t, []float64{-1})
	s := subsolver.New()
	s.AddDetection(nodes[0])

	require.Panics(t, func() {
		s.AddDetection(nodes[0])
	})
}

func TestSubsolver_AssignmentBeforeOptimizePanics(t *testing.T) {
	_, nodes := buildGraph(t, []float64{-1})
	s := subsolver.New()
	s.AddDetection(nodes[0])

	require.Panics(t, func() {
		s.Assignment(nodes[0])
	})
}
