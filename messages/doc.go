// Package messages implements the dual message-passing updates of the
// cell-tracking factor graph: reparametrizations sent along transition/
// division edges between adjacent detections, and between a conflict and
// its member detections. No Send* function decreases the sum of the
// endpoints' lower bounds, which is what keeps the dual bound
// monotonically improving across sweeps; the Check*Consistency and
// Propagate* functions implement the primal-side analogues used by
// tracker's rounding sweeps.
//
// Functions here operate directly on *hgraph.DetectionNode and
// *hgraph.ConflictNode rather than being methods, mirroring
// transition_messages.hpp and conflict_messages.hpp's stateless static
// structs: a message update is a function of two neighboring factors,
// not a method of either one.
package messages
