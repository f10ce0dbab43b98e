package factor

import "math"

// Cost is the real-valued scalar type used throughout the solver:
// detection/transition/conflict costs, lower bounds, and primal values.
//
// Cost carries signed infinity (math.Inf) and NaN (math.NaN, quiet) as
// sentinels: signed infinity marks an infeasible/forced outcome, and NaN
// marks a cost slot that has not yet been assigned a real value.
type Cost = float64

// Epsilon bounds numerical slack in the dual-monotonicity and
// reparametrization-invariance assertions.
const Epsilon Cost = 1e-8

// UninitializedCost is the sentinel value newly created factor cost
// slots hold before their real value is set. IsPrepared reports whether
// any such sentinel remains. The original used a signaling NaN; Go has
// no portable signaling-vs-quiet NaN distinction exposed by math.NaN, so
// a quiet NaN is used here — it is never intended to survive into an
// arithmetic expression, only to be detected by IsNaN in IsPrepared.
var UninitializedCost Cost = math.NaN()

// PositiveInfinity and NegativeInfinity are the signed-infinity
// sentinels available to the cost scalar.
var (
	PositiveInfinity Cost = math.Inf(1)
	NegativeInfinity Cost = math.Inf(-1)
)

// LeastTwo returns the two smallest values in xs, in (first, second)
// order, as +Inf if xs has fewer than that many elements. Exported for
// package messages, which needs it over both detection slot vectors and
// conflict cost vectors. Grounded on
// original_source/include/ct/misc.hpp's least_two_values.
func LeastTwo(xs []Cost) (first, second Cost) { return leastTwo(xs) }

// leastTwo returns the two smallest values in xs, in (first, second)
// order, as +Inf if xs has fewer than that many elements. Grounded on
// original_source/include/ct/misc.hpp's least_two_values.
func leastTwo(xs []Cost) (first, second Cost) {
	first, second = PositiveInfinity, PositiveInfinity
	for _, x := range xs {
		switch {
		case x < first:
			second = first
			first = x
		case x < second:
			second = x
		}
	}

	return first, second
}

// minOf returns the minimum value in xs. xs must be non-empty.
func minOf(xs []Cost) Cost {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}

	return m
}

// argMinMasked returns the index of the smallest xs[i] for which
// active[i] is true. active must be at least as long as xs. Grounded on
// misc.hpp's masked min_element.
func argMinMasked(xs []Cost, active []bool) int {
	best := -1
	for i, x := range xs {
		if active[i] && (best == -1 || x < xs[best]) {
			best = i
		}
	}

	return best
}
