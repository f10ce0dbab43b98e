package tracker

import "errors"

// ErrTimestepIndexOutOfRange indicates SingleStep was called with an
// index outside the graph's current timestep range.
var ErrTimestepIndexOutOfRange = errors.New("tracker: timestep index out of range")
