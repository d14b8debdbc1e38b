package forward

import "errors"

// ErrCorrupt is returned when a stored value does not decode to a
// 4-byte SortableValue.
var ErrCorrupt = errors.New("forward: corrupt value")
