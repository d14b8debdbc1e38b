// Package bucketkey builds and parses the ordered keys under which
// the inverted index stores bucket payloads: field name, a ':'
// separator, and the bucket's base value encoded big-endian so that
// lexicographic byte order tracks numeric order.
package bucketkey

import "encoding/binary"

const sep = ':'

// Make returns the inverted-index key for a bucket with the given
// field and base value.
func Make(field string, base uint32) []byte {
	key := make([]byte, 0, len(field)+1+4)
	key = append(key, field...)
	key = append(key, sep)
	key = binary.BigEndian.AppendUint32(key, base)
	return key
}

// ParseBase extracts the base value from the last four bytes of key.
// key must be at least 4 bytes long.
func ParseBase(key []byte) uint32 {
	n := len(key)
	return binary.BigEndian.Uint32(key[n-4:])
}

// HasFieldPrefix reports whether key was produced by Make for field.
func HasFieldPrefix(key []byte, field string) bool {
	prefix := len(field) + 1
	if len(key) < prefix {
		return false
	}
	if string(key[:len(field)]) != field {
		return false
	}
	return key[len(field)] == sep
}
