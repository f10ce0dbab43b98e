// Package celltrack implements cell tracking as Lagrangean decomposition:
// a factor graph of per-timestep detection hypotheses and mutual-exclusion
// cliques, solved by dual block-coordinate message passing with interleaved
// primal rounding.
//
// The model is a chain of timesteps. Each timestep holds detection nodes
// (candidate cells, each with an on/off cost and a set of incoming/outgoing
// transition slots to neighboring timesteps, including lineage divisions)
// and conflict nodes (mutual-exclusion cliques over detections that cannot
// all be active at once, e.g. overlapping segmentation candidates). Solving
// means finding, for every timestep, which detections are on and how they
// connect across time — while message passing tightens a dual lower bound
// that never decreases, and rounding periodically produces a consistent,
// feasible primal assignment.
//
// Package layout:
//
//	factor/    — DetectionFactor, ConflictFactor: the Lagrangean-dual
//	             sub-problems at each node, their lower bound, primal
//	             rounding, and reparametrization (message) operations
//	hgraph/    — Graph, Timestep, DetectionNode, ConflictNode: the wired
//	             factor graph and its arena-backed construction API
//	messages/  — the message-passing operators (SendTransition,
//	             SendToConflict, SendToDetection) and primal propagation
//	subsolver/ — exact 0/1 maximum-weight independent-set solver used to
//	             round an entire timestep's detections under its conflicts
//	tracker/   — Tracker: drives forward/backward message-passing sweeps
//	             and rounding passes to convergence
//
// See DESIGN.md for how each package is grounded in, and adapted from,
// the upstream graph library this module builds on.
package celltrack
