// Package factor implements the two Lagrangean-dual sub-problems of the
// cell-tracking factor graph: DetectionFactor, which owns a single
// detection's cost vectors (detection/incoming/outgoing,
// the last incoming/outgoing slot being the "nirvana" appearance /
// disappearance cost), and ConflictFactor, which owns the per-slot costs
// of a mutual-exclusion clique over one timestep's detections.
//
// Both factor types also own their primal state (DetectionPrimal /
// ConflictPrimal) and the operations needed to reparametrize, evaluate,
// and round that state. Package messages builds the actual dual message
// passing and primal propagation on top of these primitives; package
// factor itself knows nothing about neighbors, timesteps, or the graph —
// it is the leaf of the dependency chain, same role core/ plays for
// lvlath's graph algorithms.
package factor
