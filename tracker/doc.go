// Package tracker drives the dual block-coordinate ascent and primal
// rounding of the cell-tracking solver over an hgraph.Graph: repeated
// forward/backward message-passing sweeps that monotonically improve the
// dual lower bound, periodically interleaved with rounding sweeps that
// produce a feasible primal (and remember the best one seen so far).
//
// Grounded on original_source/include/ct/tracker.hpp's tracker<ALLOCATOR>.
// Interrupt handling (Ctrl-C during Run) follows signal_handler.hpp's
// install/restore/re-raise pattern, adapted to os/signal; Run also
// honors a context.Context for cooperative cancellation, which the
// original has no equivalent of (a Go-idiomatic supplement, not a
// departure from any documented behavior).
package tracker
