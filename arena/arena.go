package arena

import "errors"

// Sentinel errors returned by Arena.Alloc.
//
// Usage: if errors.Is(err, arena.ErrFinalized) { /* construction happened
// too late */ }.
var (
	// ErrFinalized indicates Alloc was called after Finalize froze the arena.
	ErrFinalized = errors.New("arena: allocation after finalize")

	// ErrExhausted indicates a fixed-capacity arena (NewFixed) has no room
	// left for the requested allocation. Mirrors the original's allocator
	// exhaustion failure mode; unlike the C++ original there is no
	// OS-level stepping-down retry here, because Go's allocator already
	// fails fast and uniformly. Neither hgraph nor tracker retries with a
	// smaller capacity either: tracker.WithArenaCapacity only fixes the
	// capacities up front.
	ErrExhausted = errors.New("arena: capacity exhausted")

	// ErrInvalidSize indicates a negative allocation size was requested.
	ErrInvalidSize = errors.New("arena: invalid allocation size")
)

// Arena is a bump allocator for T. It never frees individual elements;
// the entire arena is reclaimed by the garbage collector once every
// slice it ever handed out is unreachable.
//
// Arena is not safe for concurrent use. This is deliberate: every
// consumer of this package (hgraph.Graph) is built and solved on a
// single goroutine, cooperatively and without parallelism across
// timesteps or factors, unlike the upstream graph library's core.Graph
// which guards itself with RWMutex because it is a general-purpose,
// concurrently-used library.
type Arena[T any] struct {
	grow      bool
	slabSize  int
	slabs     [][]T
	count     int
	capacity  int
	finalized bool
}

// New creates a growing Arena that allocates additional slabs of
// slabSize elements (or exactly the requested size, if larger) whenever
// the current slab has no room. slabSize must be positive.
func New[T any](slabSize int) *Arena[T] {
	if slabSize <= 0 {
		slabSize = 1
	}

	return &Arena[T]{
		grow:     true,
		slabSize: slabSize,
	}
}

// NewFixed creates an Arena with exactly one slab of capacity elements.
// Alloc returns ErrExhausted once capacity is exceeded instead of
// allocating a new slab. Use this when the caller can size the graph up
// front and wants allocation failures to be explicit rather than silent
// growth.
func NewFixed[T any](capacity int) *Arena[T] {
	if capacity < 0 {
		capacity = 0
	}

	a := &Arena[T]{
		grow:     false,
		slabSize: capacity,
		capacity: capacity,
	}
	a.slabs = [][]T{make([]T, 0, capacity)}

	return a
}

// Alloc returns a freshly zeroed slice of n elements. The returned slice
// is never resliced or reused by the arena; callers own it for the
// arena's remaining lifetime and its address is stable until the arena
// itself becomes unreachable (Finalize does not invalidate prior
// allocations, it only forbids new ones).
func (a *Arena[T]) Alloc(n int) ([]T, error) {
	if n < 0 {
		return nil, ErrInvalidSize
	}
	if a.finalized {
		return nil, ErrFinalized
	}
	if n == 0 {
		return []T{}, nil
	}

	if len(a.slabs) == 0 {
		if !a.grow {
			return nil, ErrExhausted
		}
		a.slabs = append(a.slabs, make([]T, 0, a.slabSize))
	}

	last := a.slabs[len(a.slabs)-1]
	if cap(last)-len(last) < n {
		if !a.grow {
			return nil, ErrExhausted
		}
		size := a.slabSize
		if n > size {
			size = n
		}
		last = make([]T, 0, size)
		a.slabs = append(a.slabs, last)
	}

	idx := len(last)
	last = last[:idx+n]
	a.slabs[len(a.slabs)-1] = last
	a.count += n

	return last[idx : idx+n : idx+n], nil
}

// MustAlloc is Alloc, panicking on error. It is meant for callers (like
// hgraph.Graph) that have already classified allocation failure as fatal
// and want a single call site for that conversion.
func (a *Arena[T]) MustAlloc(n int) []T {
	s, err := a.Alloc(n)
	if err != nil {
		panic(err)
	}

	return s
}

// Finalize freezes the arena: subsequent Alloc calls return ErrFinalized.
// It is idempotent.
func (a *Arena[T]) Finalize() {
	a.finalized = true
}

// IsFinalized reports whether Finalize has been called.
func (a *Arena[T]) IsFinalized() bool { return a.finalized }

// Len returns the total number of elements allocated so far (the
// arena's high-water mark).
func (a *Arena[T]) Len() int { return a.count }

// Cap returns the total capacity committed across all slabs. For a
// NewFixed arena this is constant; for a growing arena it only ever
// increases.
func (a *Arena[T]) Cap() int {
	total := 0
	for _, s := range a.slabs {
		total += cap(s)
	}

	return total
}
