// Package bucket implements the inverted index's on-disk unit of
// storage: a contiguous, sorted group of (delta, id) entries sharing a
// base SortableValue, plus a summary bitmap of the ids it holds.
package bucket

import (
	"encoding/binary"
	"sort"

	"github.com/attrindex/numidx/internal/ridbitmap"
	"github.com/attrindex/numidx/rid"
)

// MaxDelta is the largest value a bucket entry may sit above its base;
// structurally fixed by the u16 delta width.
const MaxDelta = 65535

// minPayloadLen is the smallest a serialized bucket can be: a 4-byte
// bitmap-size field of zero, an empty bitmap, and a 2-byte count of
// zero.
const minPayloadLen = 4 + 2

// Bucket is a mutable, in-memory view of one bucket's entries. It
// carries no base in its serialized form — the base lives in the
// inverted-index key and is supplied by the caller on deserialize.
type Bucket struct {
	Base   uint32
	Deltas []uint16
	IDs    []rid.ID

	summary *ridbitmap.Bitmap
}

// New returns an empty bucket with the given base value.
func New(base uint32) *Bucket {
	return &Bucket{Base: base, summary: ridbitmap.New()}
}

// FromSorted builds a bucket directly from already-sorted, already
// consistent deltas and ids slices, as produced by a split's right
// half. The bitmap is built fresh from ids.
func FromSorted(base uint32, deltas []uint16, ids []rid.ID) *Bucket {
	b := &Bucket{Base: base, Deltas: deltas, IDs: ids}
	b.RebuildBitmap()
	return b
}

// RebuildBitmap regenerates the summary bitmap from IDs. Callers must
// invoke this after directly mutating Deltas/IDs (as a split's left
// half does after truncation) instead of going through Add/Remove.
func (b *Bucket) RebuildBitmap() { b.rebuildBitmap() }

// Len returns the number of entries in the bucket.
func (b *Bucket) Len() int { return len(b.IDs) }

// IsEmpty reports whether the bucket holds no entries.
func (b *Bucket) IsEmpty() bool { return len(b.IDs) == 0 }

// MinValue returns the smallest value resident in the bucket. Callers
// must not invoke this on an empty bucket.
func (b *Bucket) MinValue() uint32 { return b.Base + uint32(b.Deltas[0]) }

// MaxValue returns the largest value resident in the bucket. Callers
// must not invoke this on an empty bucket.
func (b *Bucket) MaxValue() uint32 { return b.Base + uint32(b.Deltas[len(b.Deltas)-1]) }

// SummaryBitmap returns the bucket's authoritative set of ids. The
// returned bitmap is owned by the Bucket; callers that need to keep it
// past the Bucket's lifetime should Clone it.
func (b *Bucket) SummaryBitmap() *ridbitmap.Bitmap {
	if b.summary == nil {
		b.rebuildBitmap()
	}
	return b.summary
}

func (b *Bucket) rebuildBitmap() {
	if b.summary != nil {
		b.summary.Release()
	}
	b.summary = ridbitmap.New()
	for _, id := range b.IDs {
		b.summary.Add(id)
	}
}

// Add inserts (value, id) at the lower-bound position that keeps
// Deltas non-decreasing. value must be >= Base and value-Base must fit
// in a uint16, or ErrInvariantViolation is returned. Add does not
// deduplicate by id; callers must ensure id is not already present.
func (b *Bucket) Add(value uint32, id rid.ID) error {
	if value < b.Base || value-b.Base > MaxDelta {
		return ErrInvariantViolation
	}
	delta := uint16(value - b.Base)

	pos := sort.Search(len(b.Deltas), func(i int) bool { return b.Deltas[i] >= delta })

	b.Deltas = append(b.Deltas, 0)
	copy(b.Deltas[pos+1:], b.Deltas[pos:])
	b.Deltas[pos] = delta

	b.IDs = append(b.IDs, 0)
	copy(b.IDs[pos+1:], b.IDs[pos:])
	b.IDs[pos] = id

	if b.summary == nil {
		b.rebuildBitmap()
	} else {
		b.summary.Add(id)
	}
	return nil
}

// Remove deletes the entry for id, if present, and reports whether it
// was found.
func (b *Bucket) Remove(id rid.ID) bool {
	for i, existing := range b.IDs {
		if existing != id {
			continue
		}
		b.Deltas = append(b.Deltas[:i], b.Deltas[i+1:]...)
		b.IDs = append(b.IDs[:i], b.IDs[i+1:]...)
		if b.summary != nil {
			b.summary.Remove(id)
		}
		return true
	}
	return false
}

// Serialize emits the canonical bucket payload: a length-prefixed
// Roaring-encoded summary bitmap, an entry count, the delta array, and
// the id array, all little-endian except the bitmap's own serialized
// form.
func (b *Bucket) Serialize() ([]byte, error) {
	b.SummaryBitmap().RunOptimize()
	bitmapBytes, err := b.summary.ToBytes()
	if err != nil {
		return nil, err
	}

	count := len(b.IDs)
	out := make([]byte, 0, 4+len(bitmapBytes)+2+2*count+rid.Size*count)

	out = binary.LittleEndian.AppendUint32(out, uint32(len(bitmapBytes)))
	out = append(out, bitmapBytes...)
	out = binary.LittleEndian.AppendUint16(out, uint16(count))
	for _, d := range b.Deltas {
		out = binary.LittleEndian.AppendUint16(out, d)
	}
	for _, id := range b.IDs {
		out = appendID(out, id)
	}
	return out, nil
}

// Deserialize parses a payload produced by Serialize, rehydrating base
// from the caller since it is not repeated in the payload. It returns
// ErrCorrupt on any short read or a declared size exceeding the
// buffer.
func Deserialize(data []byte, base uint32) (*Bucket, error) {
	if len(data) < minPayloadLen {
		return nil, ErrCorrupt
	}

	bitmapSize := binary.LittleEndian.Uint32(data[0:4])
	offset := 4
	if uint64(offset)+uint64(bitmapSize) > uint64(len(data)) {
		return nil, ErrCorrupt
	}
	bitmapBytes := data[offset : offset+int(bitmapSize)]
	offset += int(bitmapSize)

	if offset+2 > len(data) {
		return nil, ErrCorrupt
	}
	count := int(binary.LittleEndian.Uint16(data[offset : offset+2]))
	offset += 2

	deltasEnd := offset + 2*count
	idsEnd := deltasEnd + rid.Size*count
	if deltasEnd > len(data) || idsEnd > len(data) {
		return nil, ErrCorrupt
	}

	deltas := make([]uint16, count)
	for i := 0; i < count; i++ {
		deltas[i] = binary.LittleEndian.Uint16(data[offset+2*i : offset+2*i+2])
	}
	ids := make([]rid.ID, count)
	for i := 0; i < count; i++ {
		ids[i] = readID(data[deltasEnd+rid.Size*i : deltasEnd+rid.Size*(i+1)])
	}

	summary := ridbitmap.New()
	if len(bitmapBytes) > 0 {
		if err := summary.FromBytes(bitmapBytes); err != nil {
			return nil, ErrCorrupt
		}
	}

	return &Bucket{Base: base, Deltas: deltas, IDs: ids, summary: summary}, nil
}

// ReadSummaryBitmap deserializes only the leading bitmap of a payload,
// without touching the delta/id tail. It is the fast path used by a
// full-overlap range scan, which needs only the id set, not the
// individual values.
func ReadSummaryBitmap(data []byte) (*ridbitmap.Bitmap, error) {
	if len(data) < 4 {
		return nil, ErrCorrupt
	}
	bitmapSize := binary.LittleEndian.Uint32(data[0:4])
	if uint64(4)+uint64(bitmapSize) > uint64(len(data)) {
		return nil, ErrCorrupt
	}
	bm := ridbitmap.New()
	if bitmapSize > 0 {
		if err := bm.FromBytes(data[4 : 4+bitmapSize]); err != nil {
			return nil, ErrCorrupt
		}
	}
	return bm, nil
}

// PeekBounds reads only the smallest and largest resident values of a
// serialized bucket, without parsing its bitmap or the bulk of its
// delta/id arrays. It is the routing step a range scan uses to decide
// between the full-overlap bitmap-union fast path and a per-entry
// filter.
func PeekBounds(data []byte, base uint32) (min, max uint32, err error) {
	if len(data) < 4 {
		return 0, 0, ErrCorrupt
	}
	bitmapSize := binary.LittleEndian.Uint32(data[0:4])
	offset := 4
	if uint64(offset)+uint64(bitmapSize) > uint64(len(data)) {
		return 0, 0, ErrCorrupt
	}
	offset += int(bitmapSize)

	if offset+2 > len(data) {
		return 0, 0, ErrCorrupt
	}
	count := int(binary.LittleEndian.Uint16(data[offset : offset+2]))
	offset += 2
	if count == 0 {
		return base, base, ErrCorrupt
	}

	deltasEnd := offset + 2*count
	if deltasEnd > len(data) {
		return 0, 0, ErrCorrupt
	}
	first := binary.LittleEndian.Uint16(data[offset : offset+2])
	last := binary.LittleEndian.Uint16(data[deltasEnd-2 : deltasEnd])
	return base + uint32(first), base + uint32(last), nil
}

func appendID(dst []byte, id rid.ID) []byte {
	if rid.Size == 4 {
		return binary.LittleEndian.AppendUint32(dst, uint32(id))
	}
	return binary.LittleEndian.AppendUint64(dst, uint64(id))
}

func readID(src []byte) rid.ID {
	if rid.Size == 4 {
		return rid.ID(binary.LittleEndian.Uint32(src))
	}
	return rid.ID(binary.LittleEndian.Uint64(src))
}
