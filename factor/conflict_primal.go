package factor

// ConflictPrimal is the primal state of a ConflictFactor: the chosen
// slot index (a member, or the trailing "all off" slot), or Undecided.
//
// Grounded on original_source/include/ct/conflict_factor.hpp's
// conflict_primal.
type ConflictPrimal struct {
	index int
}

// NewConflictPrimal returns an undecided ConflictPrimal.
func NewConflictPrimal() ConflictPrimal {
	return ConflictPrimal{index: Undecided}
}

// Reset returns the primal to Undecided.
func (p *ConflictPrimal) Reset() { p.index = Undecided }

// Set commits the primal to slot i. Setting the same value twice is a
// no-op; setting a different value once committed is a caller bug.
func (p *ConflictPrimal) Set(i int) {
	if p.index != Undecided && p.index != i {
		panic("factor: conflict primal already committed to a different slot")
	}
	p.index = i
}

// Get returns the committed slot, or Undecided.
func (p ConflictPrimal) Get() int { return p.index }

// IsUndecided reports whether no slot has been committed.
func (p ConflictPrimal) IsUndecided() bool { return p.index == Undecided }

// IsSet reports whether a slot has been committed.
func (p ConflictPrimal) IsSet() bool { return p.index != Undecided }
