//go:build !nid64

// Package rid defines the record-identifier type shared by the forward
// and inverted indexes. Its width is fixed at compile time: this file
// builds by default and sets the width to 32 bits; building with
// `-tags nid64` swaps in id64.go instead.
package rid

// ID identifies a record in the host collection. 32-bit build.
type ID uint32

// Size is the encoded width of ID in bytes, as used by the bucket
// payload's little-endian id array.
const Size = 4
