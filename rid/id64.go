//go:build nid64

package rid

// ID identifies a record in the host collection. 64-bit build, enabled
// by the nid64 build tag.
type ID uint64

// Size is the encoded width of ID in bytes, as used by the bucket
// payload's little-endian id array.
const Size = 8
