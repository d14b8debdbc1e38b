//go:build nid64

package ridbitmap

import (
	"io"
	"sync"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/attrindex/numidx/rid"
)

var bitmapPool = sync.Pool{
	New: func() any { return roaring64.New() },
}

// Bitmap is a width-matched summary bitmap over record identifiers.
type Bitmap struct {
	b *roaring64.Bitmap
}

// New returns an empty bitmap, preferring a pooled instance.
func New() *Bitmap {
	return &Bitmap{b: bitmapPool.Get().(*roaring64.Bitmap)}
}

// Release returns the bitmap's backing storage to the pool. The Bitmap
// must not be used afterwards.
func (bm *Bitmap) Release() {
	if bm == nil || bm.b == nil {
		return
	}
	bm.b.Clear()
	bitmapPool.Put(bm.b)
	bm.b = nil
}

func (bm *Bitmap) Add(id rid.ID) { bm.b.Add(uint64(id)) }

func (bm *Bitmap) Remove(id rid.ID) { bm.b.Remove(uint64(id)) }

func (bm *Bitmap) Contains(id rid.ID) bool { return bm.b.Contains(uint64(id)) }

func (bm *Bitmap) IsEmpty() bool { return bm.b.IsEmpty() }

func (bm *Bitmap) Cardinality() uint64 { return bm.b.GetCardinality() }

func (bm *Bitmap) Clone() *Bitmap {
	c := New()
	c.b.Or(bm.b)
	return c
}

// Or unions other into bm in place.
func (bm *Bitmap) Or(other *Bitmap) { bm.b.Or(other.b) }

// AndNot removes every element of other from bm in place.
func (bm *Bitmap) AndNot(other *Bitmap) { bm.b.AndNot(other.b) }

// ForEach calls fn for every id in ascending order, stopping early if
// fn returns false.
func (bm *Bitmap) ForEach(fn func(rid.ID) bool) {
	it := bm.b.Iterator()
	for it.HasNext() {
		if !fn(rid.ID(it.Next())) {
			return
		}
	}
}

func (bm *Bitmap) RunOptimize() { bm.b.RunOptimize() }

func (bm *Bitmap) WriteTo(w io.Writer) (int64, error) { return bm.b.WriteTo(w) }

func (bm *Bitmap) ReadFrom(r io.Reader) (int64, error) { return bm.b.ReadFrom(r) }

// FromBytes replaces bm's contents by decoding the Roaring serialized
// form in data.
func (bm *Bitmap) FromBytes(data []byte) error { return bm.b.UnmarshalBinary(data) }

// ToBytes returns bm's Roaring serialized form.
func (bm *Bitmap) ToBytes() ([]byte, error) { return bm.b.ToBytes() }
