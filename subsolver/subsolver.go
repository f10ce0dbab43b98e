package subsolver

import (
	"github.com/katalvlaran/celltrack/factor"
	"github.com/katalvlaran/celltrack/hgraph"
)

// Subsolver solves the single-timestep conflict subproblem described in
// the package doc comment. Use AddDetection to register every detection
// of a timestep, AddConflict to register every conflict clique over
// them, then Optimize once; Assignment then reports the solved value for
// each registered detection.
//
// Grounded on original_source/include/ct/conflict_subsolver.hpp's
// conflict_subsolver<GRAPH_TYPE>, with the Gurobi model replaced by an
// in-process exact solve (see package doc comment).
type Subsolver struct {
	nodes      []*hgraph.DetectionNode
	index      map[*hgraph.DetectionNode]int
	weight     []factor.Cost
	cliqueOf   [][]int // cliqueOf[i] = indices into cliques that node i belongs to
	cliques    [][]int // cliques[k] = member node indices
	assignment []bool
	solved     bool
}

// New returns an empty Subsolver.
func New() *Subsolver {
	return &Subsolver{
		index: make(map[*hgraph.DetectionNode]int),
	}
}

// AddDetection registers node as a variable of the subproblem, weighted
// by its current MinDetection(). Registering the same node twice panics.
func (s *Subsolver) AddDetection(node *hgraph.DetectionNode) {
	if _, ok := s.index[node]; ok {
		panic("subsolver: detection already added")
	}

	idx := len(s.nodes)
	s.index[node] = idx
	s.nodes = append(s.nodes, node)
	s.weight = append(s.weight, node.Factor.MinDetection())
	s.cliqueOf = append(s.cliqueOf, nil)
	s.solved = false
}

// AddConflict registers node's member detections as a mutual-exclusion
// clique. Every member must already have been added via AddDetection.
func (s *Subsolver) AddConflict(node *hgraph.ConflictNode) {
	k := len(s.cliques)

	members := make([]int, 0, len(node.Detections))
	for _, link := range node.Detections {
		idx, ok := s.index[link.Node]
		if !ok {
			panic("subsolver: conflict member was not added via AddDetection")
		}
		members = append(members, idx)
		s.cliqueOf[idx] = append(s.cliqueOf[idx], k)
	}
	s.cliques = append(s.cliques, members)
	s.solved = false
}

// Optimize solves the subproblem exactly via branch-and-bound. It must
// be called before Assignment.
func (s *Subsolver) Optimize() {
	n := len(s.nodes)
	profit := make([]factor.Cost, n)
	for i, w := range s.weight {
		profit[i] = -w // selecting node i contributes -w[i] to -objective, i.e. profit to maximize
	}

	// Suffix sum of positive profit, used as an optimistic upper bound
	// on how much more value remaining (unexcluded) variables could add.
	suffixPositive := make([]factor.Cost, n+1)
	for i := n - 1; i >= 0; i-- {
		suffixPositive[i] = suffixPositive[i+1]
		if profit[i] > 0 {
			suffixPositive[i] += profit[i]
		}
	}

	selected := make([]bool, n)
	best := make([]bool, n)
	var bestValue factor.Cost

	excluded := make([]bool, n)

	var search func(i int, value factor.Cost, excluded []bool)
	search = func(i int, value factor.Cost, excluded []bool) {
		if value+suffixPositive[i] <= bestValue {
			return // cannot possibly beat the incumbent even taking everything available
		}
		if i == n {
			if value > bestValue {
				bestValue = value
				copy(best, selected)
			}

			return
		}

		// Branch: exclude i.
		search(i+1, value, excluded)

		// Branch: include i, if not already excluded by a prior choice and
		// doing so is not strictly wasteful (profit <= 0 is never taken).
		if !excluded[i] && profit[i] > 0 {
			next := append([]bool(nil), excluded...)
			for _, k := range s.cliqueOf[i] {
				for _, j := range s.cliques[k] {
					if j != i {
						next[j] = true
					}
				}
			}

			selected[i] = true
			search(i+1, value+profit[i], next)
			selected[i] = false
		}
	}

	search(0, 0, excluded)

	s.assignment = best
	s.solved = true
}

// Assignment returns the solved 0/1 value for node (true = on). Panics
// if Optimize has not yet been called, or node was never added.
func (s *Subsolver) Assignment(node *hgraph.DetectionNode) bool {
	if !s.solved {
		panic("subsolver: Assignment called before Optimize")
	}

	idx, ok := s.index[node]
	if !ok {
		panic("subsolver: node was not added")
	}

	return s.assignment[idx]
}
