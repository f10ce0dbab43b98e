// Package arena provides a generic bump allocator used to back the
// fixed-size node and slot storage of package hgraph.
//
// An Arena[T] can be created with a fixed capacity up front via NewFixed
// (the analogue of the C++ original's pre-sized memory_block, which asks
// the OS for up to 1 TiB and steps down by 512 MiB until an allocation
// succeeds — Go's runtime makes that stepping-down dance unnecessary,
// since make([]T, 0, n) either succeeds or the program is already out of
// memory) or left to grow on demand via New. Either way the discipline is
// preserved: allocation is bump-only, no single element is ever freed
// individually, and Finalize only freezes the arena against further
// Alloc calls — it does not shrink or reallocate any already-allocated
// slab.
//
// Addresses into an Arena are stable for the arena's lifetime: every
// slice Alloc returns keeps its backing array for as long as the Arena
// itself is reachable, which is the property package hgraph relies on to
// hand out raw *DetectionNode / *ConflictNode pointers as edge endpoints
// instead of reference-counted or map-indirected handles.
package arena
