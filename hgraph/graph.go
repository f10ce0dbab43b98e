package hgraph

import (
	"fmt"

	"github.com/katalvlaran/celltrack/arena"
	"github.com/katalvlaran/celltrack/factor"
)

const (
	defaultNodeSlab = 64
	defaultCostSlab = 512
	defaultEdgeSlab = 512
	defaultLinkSlab = 256
)

// GraphOption configures the capacity of a Graph's backing arenas at
// construction time. See WithDetectionCapacity and friends.
type GraphOption func(*graphConfig)

type graphConfig struct {
	detectionCapacity int
	conflictCapacity  int
	costCapacity      int
	edgeCapacity      int
	linkCapacity      int
}

// WithDetectionCapacity fixes the maximum number of detections the graph
// will ever hold; AddDetection beyond that returns arena.ErrExhausted,
// surfaced as a panic since allocator exhaustion is fatal here. Omit to
// let the detection arena grow as needed.
func WithDetectionCapacity(n int) GraphOption {
	return func(c *graphConfig) { c.detectionCapacity = n }
}

// WithConflictCapacity is the conflict-node analogue of WithDetectionCapacity.
func WithConflictCapacity(n int) GraphOption {
	return func(c *graphConfig) { c.conflictCapacity = n }
}

// WithCostCapacity fixes the total number of Cost scalars (summed across
// every detection's incoming/outgoing vectors and every conflict's cost
// vector) the graph will ever allocate.
func WithCostCapacity(n int) GraphOption {
	return func(c *graphConfig) { c.costCapacity = n }
}

func sizedArena[T any](capacity, slab int) *arena.Arena[T] {
	if capacity > 0 {
		return arena.NewFixed[T](capacity)
	}

	return arena.New[T](slab)
}

// Graph owns the timesteps, detection/conflict nodes, and the arenas
// backing their storage. Construction must proceed in timestep order,
// and within a timestep all detections must precede any conflict;
// violating either is a caller bug and panics.
//
// Grounded on original_source/include/ct/graph.hpp's graph<ALLOCATOR>.
type Graph struct {
	// Debug enables the O(degree) CheckStructure back-reference walk
	// on every call; it is off by default so that Tracker.LowerBound
	// (which calls CheckStructure once per invocation, mirroring
	// tracker.hpp's lower_bound()) pays nothing for that call in normal
	// operation, matching the C++ original's NDEBUG-stripped behavior.
	Debug bool

	timesteps []*Timestep

	detectionArena *arena.Arena[DetectionNode]
	conflictArena  *arena.Arena[ConflictNode]
	costArena      *arena.Arena[factor.Cost]
	edgeArena      *arena.Arena[TransitionEdge]
	confLinkArena  *arena.Arena[ConflictLink]
	detLinkArena   *arena.Arena[DetectionLink]

	finalized bool
}

// NewGraph constructs an empty Graph. By default every backing arena
// grows on demand; pass WithDetectionCapacity/WithConflictCapacity/
// WithCostCapacity to pre-size them (and turn exhaustion into an
// explicit, fail-fast panic instead of silent growth).
func NewGraph(opts ...GraphOption) *Graph {
	var cfg graphConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Graph{
		detectionArena: sizedArena[DetectionNode](cfg.detectionCapacity, defaultNodeSlab),
		conflictArena:  sizedArena[ConflictNode](cfg.conflictCapacity, defaultNodeSlab),
		costArena:      sizedArena[factor.Cost](cfg.costCapacity, defaultCostSlab),
		edgeArena:      sizedArena[TransitionEdge](cfg.edgeCapacity, defaultEdgeSlab),
		confLinkArena:  sizedArena[ConflictLink](cfg.linkCapacity, defaultLinkSlab),
		detLinkArena:   sizedArena[DetectionLink](cfg.linkCapacity, defaultLinkSlab),
	}
}

// Timesteps returns the graph's timesteps in order. The returned slice
// must not be mutated by callers outside this package.
func (g *Graph) Timesteps() []*Timestep { return g.timesteps }

func (g *Graph) allocCosts(n int) []factor.Cost {
	return g.costArena.MustAlloc(n)
}

func (g *Graph) fillUninitialized(xs []factor.Cost) []factor.Cost {
	for i := range xs {
		xs[i] = factor.UninitializedCost
	}

	return xs
}

// AddDetection creates detection i at timestep t with nIn incoming slots
// (plus an implicit nirvana/appearance slot), nOut outgoing slots (plus
// nirvana/disappearance), and nConflicts conflict-link slots. i must
// equal the number of detections already present at t.
func (g *Graph) AddDetection(t, i, nIn, nOut, nConflicts int) *DetectionNode {
	if g.finalized {
		panic(fmt.Errorf("%w: AddDetection", ErrAlreadyFinalized))
	}
	if nIn < 0 || nIn > MaxDetectionSlots || nOut < 0 || nOut > MaxDetectionSlots {
		panic(fmt.Errorf("%w: n_in=%d n_out=%d", ErrTooManySlots, nIn, nOut))
	}
	if nConflicts < 0 {
		panic("hgraph: negative conflict count")
	}

	ts := g.timestepForWrite(t)
	if ts.conflictsStarted {
		panic(fmt.Errorf("%w: timestep %d", ErrConflictBeforeDetections, t))
	}
	if i != len(ts.Detections) {
		panic(fmt.Errorf("%w: timestep %d wants index %d, got %d", ErrDetectionIndexOutOfOrder, t, len(ts.Detections), i))
	}

	incoming := g.fillUninitialized(g.allocCosts(nIn + 1))
	outgoing := g.fillUninitialized(g.allocCosts(nOut + 1))
	f := factor.NewDetectionFactor(incoming, outgoing)
	f.Timestep, f.Index = t, i

	slab := g.detectionArena.MustAlloc(1)
	node := &slab[0]
	node.Factor = f
	node.Incoming = g.edgeArena.MustAlloc(nIn)
	node.Outgoing = g.edgeArena.MustAlloc(nOut)
	node.Conflicts = g.confLinkArena.MustAlloc(nConflicts)

	ts.Detections = append(ts.Detections, node)

	return node
}

// AddConflict creates conflict k at timestep t with m member slots (plus
// the implicit "all off" slot). t must already have received all of its
// detections; k must equal the number of conflicts already present at t.
func (g *Graph) AddConflict(t, k, m int) *ConflictNode {
	if g.finalized {
		panic(fmt.Errorf("%w: AddConflict", ErrAlreadyFinalized))
	}
	if m < 2 {
		panic(fmt.Errorf("%w: m=%d", ErrConflictTooSmall, m))
	}
	if t < 0 || t >= len(g.timesteps) {
		panic(fmt.Errorf("%w: timestep %d has no detections yet", ErrTimestepOutOfOrder, t))
	}

	ts := g.timesteps[t]
	ts.conflictsStarted = true
	if k != len(ts.Conflicts) {
		panic(fmt.Errorf("%w: timestep %d wants index %d, got %d", ErrConflictIndexOutOfOrder, t, len(ts.Conflicts), k))
	}

	costs := g.allocCosts(m + 1) // conflict costs default to 0, not NaN.
	f := factor.NewConflictFactor(costs)
	f.Timestep, f.Index = t, k

	slab := g.conflictArena.MustAlloc(1)
	node := &slab[0]
	node.Factor = f
	node.Detections = g.detLinkArena.MustAlloc(m)

	ts.Conflicts = append(ts.Conflicts, node)

	return node
}

// timestepForWrite returns the Timestep at index t, creating it (and any
// skipped... no, timesteps may not be skipped) if t == len(g.timesteps).
func (g *Graph) timestepForWrite(t int) *Timestep {
	if t < 0 || t > len(g.timesteps) {
		panic(fmt.Errorf("%w: timestep %d", ErrTimestepOutOfOrder, t))
	}
	if t == len(g.timesteps) {
		g.timesteps = append(g.timesteps, &Timestep{})
	}

	return g.timesteps[t]
}

// AddTransition wires a simple transition from D(t,i).out[sOut] to
// D(t+1,j).in[sIn]. Both endpoints must be previously unconnected.
func (g *Graph) AddTransition(t, i, sOut, j, sIn int) {
	from := g.Detection(t, i)
	to := g.Detection(t+1, j)

	if from.Outgoing[sOut].IsPrepared() || to.Incoming[sIn].IsPrepared() {
		panic(fmt.Errorf("%w: transition (%d,%d)[%d] -> (%d,%d)[%d]", ErrSlotAlreadyWired, t, i, sOut, t+1, j, sIn))
	}

	from.Outgoing[sOut] = TransitionEdge{Node1: to, Slot1: sIn}
	to.Incoming[sIn] = TransitionEdge{Node1: from, Slot1: sOut}
}

// AddDivision wires a division: D(t,i).out[sOut] forks into both
// D(t+1,j1).in[sIn1] and D(t+1,j2).in[sIn2]. Each daughter's incoming
// edge also records the other daughter as its Node2/Slot2 sibling
// pointer, so that either daughter knows both its progenitor and its
// sibling.
func (g *Graph) AddDivision(t, i, sOut, j1, sIn1, j2, sIn2 int) {
	from := g.Detection(t, i)
	to1 := g.Detection(t+1, j1)
	to2 := g.Detection(t+1, j2)

	if from.Outgoing[sOut].IsPrepared() || to1.Incoming[sIn1].IsPrepared() || to2.Incoming[sIn2].IsPrepared() {
		panic(fmt.Errorf("%w: division (%d,%d)[%d]", ErrSlotAlreadyWired, t, i, sOut))
	}

	from.Outgoing[sOut] = TransitionEdge{Node1: to1, Slot1: sIn1, Node2: to2, Slot2: sIn2}
	to1.Incoming[sIn1] = TransitionEdge{Node1: from, Slot1: sOut, Node2: to2, Slot2: sIn2}
	to2.Incoming[sIn2] = TransitionEdge{Node1: from, Slot1: sOut, Node2: to1, Slot2: sIn1}
}

// AddConflictLink symmetrically wires C(t,k).members[sc] to D(t,i).conflicts[sd].
func (g *Graph) AddConflictLink(t, k, sc, i, sd int) {
	c := g.Conflict(t, k)
	d := g.Detection(t, i)

	if c.Detections[sc].IsPrepared() || d.Conflicts[sd].IsPrepared() {
		panic(fmt.Errorf("%w: conflict link (%d,%d)[%d] <-> (%d,%d)[%d]", ErrSlotAlreadyWired, t, k, sc, t, i, sd))
	}

	c.Detections[sc] = DetectionLink{Node: d, Slot: sd}
	d.Conflicts[sd] = ConflictLink{Node: c, Slot: sc}
}

// Detection returns the detection node at (t, i), panicking if it was
// never created.
func (g *Graph) Detection(t, i int) *DetectionNode {
	if t < 0 || t >= len(g.timesteps) {
		panic(fmt.Errorf("%w: timestep %d", ErrNodeNotFound, t))
	}
	ts := g.timesteps[t]
	if i < 0 || i >= len(ts.Detections) {
		panic(fmt.Errorf("%w: detection (%d,%d)", ErrNodeNotFound, t, i))
	}

	return ts.Detections[i]
}

// Conflict returns the conflict node at (t, k), panicking if it was
// never created.
func (g *Graph) Conflict(t, k int) *ConflictNode {
	if t < 0 || t >= len(g.timesteps) {
		panic(fmt.Errorf("%w: timestep %d", ErrNodeNotFound, t))
	}
	ts := g.timesteps[t]
	if k < 0 || k >= len(ts.Conflicts) {
		panic(fmt.Errorf("%w: conflict (%d,%d)", ErrNodeNotFound, t, k))
	}

	return ts.Conflicts[k]
}

// NumberOfDetections returns the total detection count across all timesteps.
func (g *Graph) NumberOfDetections() int {
	n := 0
	for _, ts := range g.timesteps {
		n += len(ts.Detections)
	}

	return n
}

// NumberOfConflicts returns the total conflict count across all timesteps.
func (g *Graph) NumberOfConflicts() int {
	n := 0
	for _, ts := range g.timesteps {
		n += len(ts.Conflicts)
	}

	return n
}

// Finalize freezes every backing arena: further AddDetection/AddConflict
// calls panic. Call once graph construction — every node, edge and cost
// — is complete; mutating the graph's structure afterward is forbidden.
func (g *Graph) Finalize() {
	g.finalized = true
	g.detectionArena.Finalize()
	g.conflictArena.Finalize()
	g.costArena.Finalize()
	g.edgeArena.Finalize()
	g.confLinkArena.Finalize()
	g.detLinkArena.Finalize()
}

// IsFinalized reports whether Finalize has been called.
func (g *Graph) IsFinalized() bool { return g.finalized }

// CheckStructure walks every node's incident edges verifying that
// back-references agree and that every slot has been wired, panicking
// on the first inconsistency found. It is a no-op unless g.Debug is
// true (see the Debug field's doc comment).
func (g *Graph) CheckStructure() {
	if !g.Debug {
		return
	}

	for _, ts := range g.timesteps {
		for _, d := range ts.Detections {
			d.CheckStructure()
		}
		for _, c := range ts.Conflicts {
			c.CheckStructure()
		}
	}
}
