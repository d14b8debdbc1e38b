// Package forward implements the per-(field, id) current-value table:
// the authoritative record of whether a record currently participates
// in a field's index and, if so, with what SortableValue.
package forward

import (
	"encoding/binary"
	"strconv"

	"github.com/attrindex/numidx/kvstore"
	"github.com/attrindex/numidx/rid"
)

// BucketName is the KV sub-database holding forward entries.
const BucketName = "numeric_forward"

// MakeKey returns the forward-index key for (field, id):
// field || ":" || ascii_decimal(id).
func MakeKey(field string, id rid.ID) []byte {
	key := make([]byte, 0, len(field)+1+20)
	key = append(key, field...)
	key = append(key, ':')
	key = strconv.AppendUint(key, uint64(id), 10)
	return key
}

// Get returns the current SortableValue stored for (field, id), and
// whether an entry exists. It is not an error for the entry to be
// absent.
func Get(b kvstore.Bucket, field string, id rid.ID) (value uint32, ok bool, err error) {
	v, err := b.Get(MakeKey(field, id))
	if err == kvstore.ErrNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if len(v) != 4 {
		return 0, false, ErrCorrupt
	}
	return binary.LittleEndian.Uint32(v), true, nil
}

// Put records value as the current SortableValue for (field, id).
func Put(b kvstore.Bucket, field string, id rid.ID, value uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], value)
	return b.Put(MakeKey(field, id), buf[:])
}

// Delete removes the forward entry for (field, id), if present.
func Delete(b kvstore.Bucket, field string, id rid.ID) error {
	return b.Delete(MakeKey(field, id))
}
