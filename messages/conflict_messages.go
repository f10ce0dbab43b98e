package messages

import (
	"math"

	"github.com/katalvlaran/celltrack/factor"
	"github.com/katalvlaran/celltrack/hgraph"
)

// SendToConflict moves cost from each member detection's own detection
// term onto the conflict's corresponding slot. The per-member weight is
// 1/(k - s), where k is the number of conflicts that member detection
// itself participates in and s is this conflict's slot within that
// detection's own Conflicts list — an intentionally asymmetric,
// non-normalized weighting preserved verbatim from conflict_messages.hpp;
// see DESIGN.md's "Open Questions resolved" for why it is kept as-is.
func SendToConflict(node *hgraph.ConflictNode) {
	c := node.Factor

	for slot, link := range node.Detections {
		d := link.Node.Factor
		weight := 1.0 / (factor.Cost(len(link.Node.Conflicts)) - factor.Cost(link.Slot))
		msg := d.MinDetection() * weight
		d.RepamDetection(-msg)
		c.Repam(slot, msg)
	}
}

// SendToDetection moves cost from the conflict back onto each member
// detection's detection term, centered on the conflict's two smallest
// slot costs (clamped at zero, matching LowerBound's "detection off"
// clamp).
func SendToDetection(node *hgraph.ConflictNode) {
	c := node.Factor

	first, second := factor.LeastTwo(c.Costs())
	m := math.Min(0.5*(first+second), 0.0)

	for slot, link := range node.Detections {
		d := link.Node.Factor
		msg := c.Get(slot) - m
		c.Repam(slot, -msg)
		d.RepamDetection(msg)
	}
}

// CheckConflictConsistency checks whether member detection slot agrees
// with the conflict's own committed primal: the member must be on iff
// it is the chosen slot, off otherwise. Unknown if either side is not
// yet decided enough to tell.
func CheckConflictConsistency(node *hgraph.ConflictNode, slot int) factor.Consistency {
	var result factor.Consistency

	c := node.Factor
	d := node.Detections[slot].Node.Factor

	if c.Primal().IsSet() && !d.Primal().IsUndecided() {
		if slot == c.Primal().Get() {
			if !d.Primal().IsDetectionOn() {
				result.MarkInconsistent()
			}
		} else {
			if !d.Primal().IsDetectionOff() {
				result.MarkInconsistent()
			}
		}
	} else {
		result.MarkUnknown()
	}

	return result
}

// CheckAllConflictConsistency merges CheckConflictConsistency over every
// member slot of node.
func CheckAllConflictConsistency(node *hgraph.ConflictNode) factor.Consistency {
	var result factor.Consistency

	for slot := range node.Detections {
		result.Merge(CheckConflictConsistency(node, slot))
	}

	return result
}

// PropagatePrimalToConflict commits the conflict's primal from its
// members': the slot of whichever member is on, or the trailing
// "all off" slot if every member is off. Panics if two members are
// simultaneously on (a caller/rounding bug: conflicts are mutually
// exclusive by construction).
func PropagatePrimalToConflict(node *hgraph.ConflictNode) {
	c := node.Factor

	allOff := true
	for slot, link := range node.Detections {
		d := link.Node.Factor

		if d.Primal().IsDetectionOn() {
			if c.Primal().IsSet() && c.Primal().Get() != slot {
				panic("messages: two conflict members committed on simultaneously")
			}
			c.Primal().Set(slot)
		}
		if !d.Primal().IsDetectionOff() {
			allOff = false
		}
	}

	if allOff {
		c.Primal().Set(c.Size() - 1)
	}
}

// PropagatePrimalToDetections turns off every member detection not
// matching the conflict's already-committed primal slot. No-op if the
// conflict's primal is still undecided.
func PropagatePrimalToDetections(node *hgraph.ConflictNode) {
	c := node.Factor
	if c.Primal().IsUndecided() {
		return
	}

	for slot, link := range node.Detections {
		d := link.Node.Factor
		if slot != c.Primal().Get() {
			d.Primal().SetDetectionOff()
		}
	}
}
