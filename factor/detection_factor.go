package factor

import "math"

// DetectionFactor stores and reparametrizes the cost vectors of a single
// detection hypothesis, and holds its primal assignment.
//
// incoming has length numIncoming+1; outgoing has length numOutgoing+1.
// The trailing slot of each is the "nirvana" slot: Appearance (incoming)
// or Disappearance (outgoing) — entering from, or leaving to, nowhere.
//
// Grounded on original_source/include/ct/detection_factor.hpp.
type DetectionFactor struct {
	detection Cost
	incoming  []Cost
	outgoing  []Cost
	primal    DetectionPrimal

	// Timestep/Index are debug labels only (dbg_info in the original);
	// they play no role in the algorithm.
	Timestep, Index int
}

// NewDetectionFactor builds a DetectionFactor over the given incoming and
// outgoing cost slices. The slices are taken by reference, not copied:
// callers (typically hgraph.Graph, backing them with an arena.Arena)
// retain the ability to size and own the underlying storage. Both
// slices must include the trailing nirvana slot and should be
// initialized to UninitializedCost until real costs are set.
func NewDetectionFactor(incoming, outgoing []Cost) *DetectionFactor {
	if len(incoming) == 0 || len(outgoing) == 0 {
		panic("factor: detection factor requires at least the nirvana slot on each side")
	}

	return &DetectionFactor{
		detection: UninitializedCost,
		incoming:  incoming,
		outgoing:  outgoing,
		primal:    NewDetectionPrimal(len(incoming), len(outgoing)),
	}
}

//
// cost getters
//

// Detection returns theta, the cost of the detection itself.
func (d *DetectionFactor) Detection() Cost { return d.detection }

// Appearance returns the nirvana (trailing) incoming slot's cost.
func (d *DetectionFactor) Appearance() Cost { return d.incoming[len(d.incoming)-1] }

// Disappearance returns the nirvana (trailing) outgoing slot's cost.
func (d *DetectionFactor) Disappearance() Cost { return d.outgoing[len(d.outgoing)-1] }

// Incoming returns the cost of real (non-nirvana) incoming slot idx.
func (d *DetectionFactor) Incoming(idx int) Cost {
	d.assertIncoming(idx)
	return d.incoming[idx]
}

// Outgoing returns the cost of real (non-nirvana) outgoing slot idx.
func (d *DetectionFactor) Outgoing(idx int) Cost {
	d.assertOutgoing(idx)
	return d.outgoing[idx]
}

// NumIncoming returns the number of real incoming slots (excluding nirvana).
func (d *DetectionFactor) NumIncoming() int { return len(d.incoming) - 1 }

// NumOutgoing returns the number of real outgoing slots (excluding nirvana).
func (d *DetectionFactor) NumOutgoing() int { return len(d.outgoing) - 1 }

//
// cost setters
//

// SetDetectionCost sets theta.
func (d *DetectionFactor) SetDetectionCost(c Cost) { d.detection = c }

// SetAppearanceCost sets the trailing incoming (nirvana) slot's cost.
func (d *DetectionFactor) SetAppearanceCost(c Cost) { d.incoming[len(d.incoming)-1] = c }

// SetDisappearanceCost sets the trailing outgoing (nirvana) slot's cost.
func (d *DetectionFactor) SetDisappearanceCost(c Cost) { d.outgoing[len(d.outgoing)-1] = c }

// SetIncomingCost sets the cost of real incoming slot idx.
func (d *DetectionFactor) SetIncomingCost(idx int, c Cost) {
	d.assertIncoming(idx)
	d.incoming[idx] = c
}

// SetOutgoingCost sets the cost of real outgoing slot idx.
func (d *DetectionFactor) SetOutgoingCost(idx int, c Cost) {
	d.assertOutgoing(idx)
	d.outgoing[idx] = c
}

// IsPrepared reports whether every cost slot (detection, all incoming,
// all outgoing, including nirvana) has been set to a non-NaN value.
// Called by Tracker.Run before its first sweep to catch an incompletely
// built graph.
func (d *DetectionFactor) IsPrepared() bool {
	if math.IsNaN(d.detection) {
		return false
	}
	for _, x := range d.incoming {
		if math.IsNaN(x) {
			return false
		}
	}
	for _, x := range d.outgoing {
		if math.IsNaN(x) {
			return false
		}
	}

	return true
}

//
// Lower bound, rounding, and reparametrization.
//

// MinIncoming returns the minimum cost over all incoming slots (nirvana included).
func (d *DetectionFactor) MinIncoming() Cost { return minOf(d.incoming) }

// MinOutgoing returns the minimum cost over all outgoing slots (nirvana included).
func (d *DetectionFactor) MinOutgoing() Cost { return minOf(d.outgoing) }

// MinDetection returns theta + MinIncoming + MinOutgoing, without the
// "detection off" clamp to zero that LowerBound applies.
func (d *DetectionFactor) MinDetection() Cost {
	return d.detection + d.MinIncoming() + d.MinOutgoing()
}

// LowerBound returns min(MinDetection(), 0): the factor's contribution
// to the global dual lower bound, where 0 represents "detection off".
func (d *DetectionFactor) LowerBound() Cost {
	return math.Min(d.MinDetection(), 0.0)
}

// RepamDetection adds delta to theta.
func (d *DetectionFactor) RepamDetection(delta Cost) { d.detection += delta }

// RepamIncoming adds delta to real incoming slot idx.
func (d *DetectionFactor) RepamIncoming(idx int, delta Cost) {
	d.assertIncoming(idx)
	d.incoming[idx] += delta
}

// RepamOutgoing adds delta to real outgoing slot idx.
func (d *DetectionFactor) RepamOutgoing(idx int, delta Cost) {
	d.assertOutgoing(idx)
	d.outgoing[idx] += delta
}

// RepamIncomingSlot adds delta to incoming slot idx, where idx may also
// address the nirvana slot (len(incoming)-1). Used internally by
// package messages, which addresses slots generically including
// nirvana.
func (d *DetectionFactor) RepamIncomingSlot(idx int, delta Cost) { d.incoming[idx] += delta }

// RepamOutgoingSlot is the outgoing analogue of RepamIncomingSlot.
func (d *DetectionFactor) RepamOutgoingSlot(idx int, delta Cost) { d.outgoing[idx] += delta }

// IncomingSlot returns the cost at incoming slot idx, nirvana included.
func (d *DetectionFactor) IncomingSlot(idx int) Cost { return d.incoming[idx] }

// OutgoingSlot returns the cost at outgoing slot idx, nirvana included.
func (d *DetectionFactor) OutgoingSlot(idx int) Cost { return d.outgoing[idx] }

// IncomingSlots exposes the full incoming cost vector (nirvana
// included) for package messages' two-smallest-value scans.
func (d *DetectionFactor) IncomingSlots() []Cost { return d.incoming }

// OutgoingSlots is the outgoing analogue of IncomingSlots.
func (d *DetectionFactor) OutgoingSlots() []Cost { return d.outgoing }

// Primal returns a pointer to the factor's mutable primal state.
func (d *DetectionFactor) Primal() *DetectionPrimal { return &d.primal }

// ResetPrimal returns the primal to Undecided.
func (d *DetectionFactor) ResetPrimal() { d.primal.Reset() }

// EvaluatePrimal returns the cost of the current primal assignment: 0
// if off, incoming+theta+outgoing if both sides are committed to a real
// slot, or +Inf otherwise (partially committed / undecided).
func (d *DetectionFactor) EvaluatePrimal() Cost {
	switch {
	case d.primal.IsDetectionOff():
		return 0.0
	case d.primal.IsIncomingSet() && d.primal.IsOutgoingSet():
		return d.incoming[d.primal.Incoming()] + d.detection + d.outgoing[d.primal.Outgoing()]
	default:
		return PositiveInfinity
	}
}

// RoundPrimal commits the fromLeft side (incoming if true, outgoing if
// false) to its minimum-cost slot among those active allows, provided
// doing so does not worsen the objective versus switching off; active
// must have length len(incoming) (fromLeft) or len(outgoing) (!fromLeft),
// nirvana slot included, and at least one entry must be true.
//
// Grounded on detection_factor.hpp's template<bool from_left> round_primal.
func (d *DetectionFactor) RoundPrimal(fromLeft bool, active []bool) {
	if fromLeft && d.primal.IsIncomingSet() {
		return
	}
	if !fromLeft && d.primal.IsOutgoingSet() {
		return
	}

	var oppositeSide Cost
	var thisSideCosts []Cost
	if fromLeft {
		oppositeSide = d.MinOutgoing()
		thisSideCosts = d.incoming
	} else {
		oppositeSide = d.MinIncoming()
		thisSideCosts = d.outgoing
	}

	bestSlot := argMinMasked(thisSideCosts, active)
	if bestSlot == -1 {
		panic("factor: round_primal called with an all-false mask")
	}

	if thisSideCosts[bestSlot]+d.detection+oppositeSide <= 0 || d.primal.IsDetectionOn() {
		if fromLeft {
			d.primal.SetIncoming(bestSlot)
		} else {
			d.primal.SetOutgoing(bestSlot)
		}
	} else {
		d.primal.SetDetectionOff()
	}
}

// RoundIndependently commits the primal using only this factor's own
// costs, ignoring every neighbor: on if MinDetection() < 0, off
// otherwise. The tracker's rounding does not call it; the source marks
// whether reset_primal should be called here as an open question and
// preserves "no reset" — this rework preserves that choice too.
func (d *DetectionFactor) RoundIndependently() {
	if d.MinDetection() < 0.0 {
		d.primal.SetIncoming(argMinMasked(d.incoming, allTrue(len(d.incoming))))
		d.primal.SetOutgoing(argMinMasked(d.outgoing, allTrue(len(d.outgoing))))
	} else {
		d.primal.SetDetectionOff()
	}
}

// FixPrimal completes a half-set primal (exactly one side committed) by
// pinning the unset side to its nirvana slot. Called at the end of a
// rounding sweep to complete every detection's primal.
func (d *DetectionFactor) FixPrimal() {
	if !d.primal.IsIncomingSet() && !d.primal.IsOutgoingSet() {
		panic("factor: fix_primal requires at least one side already committed")
	}
	if !d.primal.IsIncomingSet() {
		d.primal.SetIncoming(len(d.incoming) - 1)
	}
	if !d.primal.IsOutgoingSet() {
		d.primal.SetOutgoing(len(d.outgoing) - 1)
	}
}

func (d *DetectionFactor) assertIncoming(idx int) {
	if idx < 0 || idx >= len(d.incoming)-1 {
		panic("factor: incoming slot index out of range")
	}
}

func (d *DetectionFactor) assertOutgoing(idx int) {
	if idx < 0 || idx >= len(d.outgoing)-1 {
		panic("factor: outgoing slot index out of range")
	}
}

func allTrue(n int) []bool {
	m := make([]bool, n)
	for i := range m {
		m[i] = true
	}

	return m
}
