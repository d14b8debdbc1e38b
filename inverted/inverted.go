// Package inverted implements the bucketed inverted index: the sorted
// store of buckets keyed by (field, base-value), supporting covering-
// bucket lookup, insert with slide-split, delete, and full/partial
// range scans that union or filter per-bucket summary bitmaps.
package inverted

import (
	"context"

	"github.com/attrindex/numidx/bucket"
	"github.com/attrindex/numidx/bucketkey"
	"github.com/attrindex/numidx/internal/ridbitmap"
	"github.com/attrindex/numidx/kvstore"
	"github.com/attrindex/numidx/resource"
	"github.com/attrindex/numidx/rid"
)

// BucketName is the KV sub-database holding bucket payloads.
const BucketName = "numeric_inverted"

// DefaultMaxSize is the entry count above which a bucket splits.
const DefaultMaxSize = 1024

// LocateCovering positions cur at the bucket whose base is the
// greatest base <= value for field, and returns its key and payload.
// It reports ok=false if no such bucket exists. Implementations of
// kvstore.Cursor that offer only seek->=key must retain the
// predecessor and last-key fallbacks below; a floor-capable ordered
// map could collapse this to one lookup.
func LocateCovering(cur kvstore.Cursor, field string, value uint32) (key, payload []byte, ok bool) {
	k, v, found := cur.SeekGE(bucketkey.Make(field, value))
	if !found {
		k, v, found = cur.Last()
		if !found {
			return nil, nil, false
		}
	} else if !bucketkey.HasFieldPrefix(k, field) || bucketkey.ParseBase(k) > value {
		k, v, found = cur.Prev()
		if !found {
			return nil, nil, false
		}
	}

	if !bucketkey.HasFieldPrefix(k, field) {
		return nil, nil, false
	}
	return k, v, true
}

// Insert adds (value, id) to the bucket covering value for field,
// creating a new singleton bucket if none covers it or the covering
// bucket has no delta room left, and splitting if the insert
// saturates it beyond maxSize. controller throttles the I/O volume of
// a resulting split's bucket rewrites; a nil controller is unlimited.
func Insert(ctx context.Context, kvBucket kvstore.Bucket, field string, value uint32, id rid.ID, maxSize int, controller *resource.Controller) error {
	cur := kvBucket.Cursor()
	key, payload, ok := LocateCovering(cur, field, value)

	if !ok {
		return createSingleton(kvBucket, field, value, id)
	}

	base := bucketkey.ParseBase(key)
	if value < base || value-base > bucket.MaxDelta {
		return createSingleton(kvBucket, field, value, id)
	}

	bkt, err := bucket.Deserialize(payload, base)
	if err != nil {
		return err
	}
	if err := bkt.Add(value, id); err != nil {
		return err
	}

	if bkt.Len() <= maxSize {
		data, err := bkt.Serialize()
		if err != nil {
			return err
		}
		return cur.PutCurrent(data)
	}

	return splitAndWrite(ctx, kvBucket, cur, field, bkt, controller)
}

func createSingleton(kvBucket kvstore.Bucket, field string, value uint32, id rid.ID) error {
	nb := bucket.New(value)
	if err := nb.Add(value, id); err != nil {
		return err
	}
	data, err := nb.Serialize()
	if err != nil {
		return err
	}
	return kvBucket.Put(bucketkey.Make(field, value), data)
}

// splitAndWrite performs the slide split of an oversized bucket that
// already contains the newly-inserted entry in its correct sorted
// position, and writes the resulting one or two buckets. It never
// re-invokes bucket.Add on either half: the original C++ source this
// index was modeled on had a confused fallback that re-added the new
// entry to the left half after computing the cut, which could
// re-trigger saturation. Since the entry is already in the combined,
// sorted array before the cut is chosen, splitting the array in place
// is sufficient and always terminates.
func splitAndWrite(ctx context.Context, kvBucket kvstore.Bucket, cur kvstore.Cursor, field string, left *bucket.Bucket, controller *resource.Controller) error {
	cutIdx, ok := findSplitIndex(left.Deltas)
	if !ok {
		// Every resident entry shares one value: splitting would
		// violate the one-bucket-per-value rule. Keep the bucket
		// oversized rather than adopt a secondary overflow list.
		data, err := left.Serialize()
		if err != nil {
			return err
		}
		return cur.PutCurrent(data)
	}

	rightBase := left.Base + uint32(left.Deltas[cutIdx])
	rightDeltas := make([]uint16, len(left.Deltas)-cutIdx)
	for i, d := range left.Deltas[cutIdx:] {
		rightDeltas[i] = d - left.Deltas[cutIdx]
	}
	rightIDs := append([]rid.ID(nil), left.IDs[cutIdx:]...)
	right := bucket.FromSorted(rightBase, rightDeltas, rightIDs)

	left.Deltas = left.Deltas[:cutIdx]
	left.IDs = left.IDs[:cutIdx]
	left.RebuildBitmap()

	leftData, err := left.Serialize()
	if err != nil {
		return err
	}
	rightData, err := right.Serialize()
	if err != nil {
		return err
	}

	// A split rewrites both halves of the bucket; throttle its total
	// byte volume as background compaction I/O rather than letting it
	// compete unbounded with foreground writers.
	if err := controller.WaitSplitIO(ctx, len(leftData)+len(rightData)); err != nil {
		return err
	}

	if err := cur.PutCurrent(leftData); err != nil {
		return err
	}
	return kvBucket.Put(bucketkey.Make(field, rightBase), rightData)
}

// findSplitIndex locates the slide-split cut point: starting from the
// midpoint, it advances rightward past any run of equal deltas, and if
// that reaches the end without finding a boundary, retreats leftward
// from the midpoint instead. It reports ok=false when the whole bucket
// is one value and no boundary exists on either side.
func findSplitIndex(deltas []uint16) (idx int, ok bool) {
	size := len(deltas)
	if size < 2 {
		return 0, false
	}
	mid := size / 2

	k := mid
	for k < size && deltas[k] == deltas[k-1] {
		k++
	}
	if k < size {
		return k, true
	}

	k = mid
	for k > 0 && deltas[k] == deltas[k-1] {
		k--
	}
	if k > 0 {
		return k, true
	}
	return 0, false
}

// Delete removes id from the bucket covering value for field. It is a
// no-op if no covering bucket exists or id is not present in it. If
// the bucket becomes empty, its key is deleted.
func Delete(kvBucket kvstore.Bucket, field string, value uint32, id rid.ID) error {
	cur := kvBucket.Cursor()
	key, payload, ok := LocateCovering(cur, field, value)
	if !ok {
		return nil
	}

	base := bucketkey.ParseBase(key)
	bkt, err := bucket.Deserialize(payload, base)
	if err != nil {
		return err
	}
	if !bkt.Remove(id) {
		return nil
	}

	if bkt.IsEmpty() {
		return cur.DeleteCurrent()
	}

	data, err := bkt.Serialize()
	if err != nil {
		return err
	}
	return cur.PutCurrent(data)
}

// Range returns the bitmap of ids whose value lies in [min, max] for
// field. Buckets fully contained by the range are unioned via their
// summary bitmap; buckets only partially overlapping are filtered
// entry by entry.
func Range(kvBucket kvstore.Bucket, field string, min, max uint32) (*ridbitmap.Bitmap, error) {
	result := ridbitmap.New()
	cur := kvBucket.Cursor()

	key, payload, ok := LocateCovering(cur, field, min)
	if !ok {
		key, payload, ok = cur.SeekGE(bucketkey.Make(field, 0))
	}

	for ok {
		if !bucketkey.HasFieldPrefix(key, field) {
			break
		}
		base := bucketkey.ParseBase(key)
		if base > max {
			break
		}

		if err := accumulate(result, payload, base, min, max); err != nil {
			return nil, err
		}

		key, payload, ok = cur.Next()
	}
	return result, nil
}

func accumulate(result *ridbitmap.Bitmap, payload []byte, base, min, max uint32) error {
	bMin, bMax, err := bucket.PeekBounds(payload, base)
	if err != nil {
		return err
	}

	if bMin >= min && bMax <= max {
		bm, err := bucket.ReadSummaryBitmap(payload)
		if err != nil {
			return err
		}
		result.Or(bm)
		bm.Release()
		return nil
	}

	bkt, err := bucket.Deserialize(payload, base)
	if err != nil {
		return err
	}
	for i, d := range bkt.Deltas {
		v := base + uint32(d)
		if v >= min && v <= max {
			result.Add(bkt.IDs[i])
		}
	}
	return nil
}
