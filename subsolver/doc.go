// Package subsolver implements the per-timestep conflict subproblem of
// the cell-tracking rounding step: given a set of detections, each with a
// fixed min-detection weight, and a set of conflict cliques over them,
// choose a 0/1 assignment minimizing the sum of selected weights subject
// to "at most one member on per clique".
//
// The original solves this via an ILP (Gurobi, conflict_subsolver.hpp);
// no ILP/MIP/SAT library exists anywhere in the retrieval pack (see
// DESIGN.md), so this is an exact bitmask-pruned branch-and-bound over
// the equivalent maximum-weight independent-set formulation: only
// detections with a strictly negative min-detection weight are ever
// worth selecting, and selecting one excludes every other member of
// every clique it participates in.
package subsolver
