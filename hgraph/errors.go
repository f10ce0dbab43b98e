// File: errors.go — sentinel errors for package hgraph.
//
// Error policy, mirrored from the upstream graph library's builder
// package:
//   - Only sentinel variables are exposed; callers use errors.Is.
//   - Structural precondition violations are caller bugs: construction
//     methods panic with these sentinels wrapped via fmt.Errorf("%w: ...")
//     rather than returning them, because a malformed graph cannot be
//     partially built and handed back for the caller to retry. The
//     sentinels remain exported so panic recovery sites can still
//     errors.As/errors.Is against them.
package hgraph

import "errors"

var (
	// ErrTimestepOutOfOrder indicates a detection or conflict was added
	// at a timestep index that skips ahead of the graph's current extent.
	ErrTimestepOutOfOrder = errors.New("hgraph: timesteps must be created in order")

	// ErrDetectionIndexOutOfOrder indicates AddDetection's index argument
	// does not equal the number of detections already present at that timestep.
	ErrDetectionIndexOutOfOrder = errors.New("hgraph: detection index out of order")

	// ErrConflictIndexOutOfOrder is the conflict analogue of
	// ErrDetectionIndexOutOfOrder.
	ErrConflictIndexOutOfOrder = errors.New("hgraph: conflict index out of order")

	// ErrConflictBeforeDetections indicates a conflict was added at a
	// timestep that has not yet received all of its detections — i.e. a
	// detection was added after a conflict at the same timestep.
	ErrConflictBeforeDetections = errors.New("hgraph: all detections at a timestep must be added before any conflict")

	// ErrTooManySlots indicates a detection's incoming/outgoing slot
	// count exceeds MaxDetectionSlots.
	ErrTooManySlots = errors.New("hgraph: detection slot count exceeds limit")

	// ErrConflictTooSmall indicates a conflict was declared with fewer
	// than 2 members.
	ErrConflictTooSmall = errors.New("hgraph: conflict requires at least 2 members")

	// ErrSlotAlreadyWired indicates a transition or conflict-link
	// endpoint was already connected.
	ErrSlotAlreadyWired = errors.New("hgraph: slot already connected")

	// ErrNodeNotFound indicates a lookup (Detection/Conflict) addressed
	// a timestep/index pair that was never created.
	ErrNodeNotFound = errors.New("hgraph: node not found")

	// ErrAlreadyFinalized indicates a mutating call happened after Finalize.
	ErrAlreadyFinalized = errors.New("hgraph: graph already finalized")
)
