package bucket

import "errors"

// ErrInvariantViolation is returned by Add when value is outside the
// bucket's addressable range: value must be >= base and value-base
// must fit in a uint16 delta.
var ErrInvariantViolation = errors.New("bucket: invariant violation")

// ErrCorrupt is returned by Deserialize and ReadSummaryBitmap when the
// payload is short, declares a size exceeding the buffer, or has an
// inconsistent entry count.
var ErrCorrupt = errors.New("bucket: corrupt payload")
