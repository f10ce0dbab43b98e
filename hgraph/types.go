package hgraph

import "github.com/katalvlaran/celltrack/factor"

// MaxDetectionSlots is the largest number of incoming/outgoing slots a
// single detection may declare.
const MaxDetectionSlots = 128

// TransitionEdge connects a detection's outgoing slot to one (Simple)
// or two (Division) neighboring detections' incoming slots across
// adjacent timesteps.
//
// Node1/Slot1 is always populated once the edge is wired; Node2/Slot2
// are populated only for a division, naming the second daughter (from
// the mother's perspective) or the sibling daughter (from either
// daughter's incoming-side perspective) — see graph.go's AddDivision.
//
// Grounded on original_source/include/ct/graph.hpp's transition_edge.
type TransitionEdge struct {
	Node1, Node2 *DetectionNode
	Slot1, Slot2 int
}

// IsDivision reports whether this edge represents a division (two
// daughters) rather than a simple transition.
func (e TransitionEdge) IsDivision() bool { return e.Node2 != nil }

// IsPrepared reports whether the edge has been wired by AddTransition or
// AddDivision. An unwired (zero-value) edge has a nil Node1.
func (e TransitionEdge) IsPrepared() bool { return e.Node1 != nil }

// ConflictLink is held on the detection side: a pointer to the conflict
// node this detection participates in, and the detection's slot index
// within that conflict's cost vector.
type ConflictLink struct {
	Node *ConflictNode
	Slot int
}

// IsPrepared reports whether AddConflictLink has wired this slot.
func (l ConflictLink) IsPrepared() bool { return l.Node != nil }

// DetectionLink is held on the conflict side: a pointer to a member
// detection, and that detection's slot index within its own Conflicts list.
type DetectionLink struct {
	Node *DetectionNode
	Slot int
}

// IsPrepared reports whether AddConflictLink has wired this slot.
func (l DetectionLink) IsPrepared() bool { return l.Node != nil }

// DetectionNode pairs a DetectionFactor with the transition and conflict
// edges wired to it. Incoming/Outgoing/Conflicts are fixed-size slices,
// sized at AddDetection time and never resized.
//
// Grounded on original_source/include/ct/graph.hpp's detection_node.
type DetectionNode struct {
	Factor    *factor.DetectionFactor
	Incoming  []TransitionEdge
	Outgoing  []TransitionEdge
	Conflicts []ConflictLink
}

// Transitions returns Outgoing (toRight) or Incoming (!toRight),
// matching detection_node::transitions<to_right>.
func (n *DetectionNode) Transitions(toRight bool) []TransitionEdge {
	if toRight {
		return n.Outgoing
	}

	return n.Incoming
}

// CheckStructure verifies every edge incident to n is wired and that
// back-references agree, panicking on the first violation found. It is
// O(degree(n)) and is only ever invoked when a Graph's Debug flag is set
// (see Graph.CheckStructure): walking every back-pointer on every
// lower-bound evaluation would be wasteful once the graph is known good,
// so the original only enforces these invariants in debug builds, and
// this port preserves that tradeoff behind an explicit flag.
func (n *DetectionNode) CheckStructure() {
	for _, e := range n.Incoming {
		if !e.IsPrepared() {
			panic("hgraph: unwired incoming transition slot")
		}
		if e.Node1.Outgoing[e.Slot1].Node1 != n && e.Node1.Outgoing[e.Slot1].Node2 != n {
			panic("hgraph: incoming transition back-reference mismatch")
		}
		if e.IsDivision() {
			sib := e.Node2.Incoming[e.Slot2]
			if sib.Node1 != e.Node1 || sib.Node2 != n {
				panic("hgraph: division sibling back-reference mismatch")
			}
		}
	}

	for _, e := range n.Outgoing {
		if !e.IsPrepared() {
			panic("hgraph: unwired outgoing transition slot")
		}
		if e.Node1.Incoming[e.Slot1].Node1 != n {
			panic("hgraph: outgoing transition back-reference mismatch")
		}
		if e.IsDivision() && e.Node2.Incoming[e.Slot2].Node1 != n {
			panic("hgraph: division daughter back-reference mismatch")
		}
	}

	for _, l := range n.Conflicts {
		if !l.IsPrepared() {
			panic("hgraph: unwired conflict link")
		}
		if l.Node.Detections[l.Slot].Node != n {
			panic("hgraph: conflict link back-reference mismatch")
		}
	}
}

// ConflictNode pairs a ConflictFactor with the detections wired to it.
//
// Grounded on original_source/include/ct/graph.hpp's conflict_node.
type ConflictNode struct {
	Factor     *factor.ConflictFactor
	Detections []DetectionLink
}

// CheckStructure is the conflict-node analogue of
// DetectionNode.CheckStructure.
func (n *ConflictNode) CheckStructure() {
	for _, l := range n.Detections {
		if !l.IsPrepared() {
			panic("hgraph: unwired conflict member slot")
		}
		if l.Node.Conflicts[l.Slot].Node != n {
			panic("hgraph: conflict member back-reference mismatch")
		}
	}
}

// Timestep holds the detection and conflict nodes created at a single
// time index, in construction order.
type Timestep struct {
	Detections       []*DetectionNode
	Conflicts        []*ConflictNode
	conflictsStarted bool
}
