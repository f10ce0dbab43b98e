// Package hgraph implements the timestep-indexed hypothesis graph of the
// cell-tracking factor graph: detection nodes, conflict nodes, the
// transition edges (including divisions) that connect detections across
// adjacent timesteps, and the conflict links that connect a conflict
// node to its member detections.
//
// Graph construction must happen in timestep order, and within a
// timestep all detections must be added before any conflict — Graph
// enforces both unconditionally (a caller bug, not a debug-only check;
// see SPEC_FULL.md §7's "Structural precondition violations" note). Graph
// owns the arena.Arena instances backing every node, edge and cost slice
// it allocates, and Finalize freezes them; each detection's and
// conflict's factor struct is still allocated individually on the heap.
//
// Nodes are referenced by stable pointer (*DetectionNode, *ConflictNode)
// rather than by an indirection layer: the original C++ design favors
// (id, slot) pairs over raw aliased pointers specifically to work around
// C++'s lack of garbage collection and strict aliasing rules under a
// relocating allocator. Go has neither problem — the arena guarantees
// address stability (package arena's doc comment) and the GC makes the
// aliasing safe — so node pointers serve the same purpose an (id, slot)
// pair would, with one fewer indirection.
package hgraph
