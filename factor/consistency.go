package factor

// Consistency is the tri-state result of checking a primal assignment
// against a neighboring factor: Consistent, Unknown (not enough of the
// primal has been decided yet to tell) or Inconsistent. The zero value
// is Consistent, matching consistency.hpp's default constructor.
//
// Merge rule: Inconsistent dominates; then Unknown; then Consistent.
type Consistency int

const (
	Consistent Consistency = iota
	Inconsistent
	Unknown
)

// MarkUnknown downgrades a Consistent value to Unknown. It is a no-op on
// an already-Inconsistent value, matching consistency.hpp's
// mark_unknown (inconsistency must never be silently forgotten).
func (c *Consistency) MarkUnknown() {
	if *c == Inconsistent {
		return
	}
	*c = Unknown
}

// MarkInconsistent sets the value to Inconsistent unconditionally.
func (c *Consistency) MarkInconsistent() {
	*c = Inconsistent
}

// IsNotInconsistent reports whether c is Consistent or Unknown. Used by
// the tracker's rounding-sweep debug assertions after each primal
// propagation step.
func (c Consistency) IsNotInconsistent() bool { return c != Inconsistent }

// Merge folds other into c according to the dominance rule above.
func (c *Consistency) Merge(other Consistency) {
	switch other {
	case Inconsistent:
		c.MarkInconsistent()
	case Unknown:
		c.MarkUnknown()
	case Consistent:
		// no change
	}
}
