package inverted

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/attrindex/numidx/kvstore"
	"github.com/attrindex/numidx/rid"
	"github.com/attrindex/numidx/sortkey"
)

func newTestBucket(t *testing.T) kvstore.Bucket {
	t.Helper()
	env := kvstore.OpenMemory()
	tx, err := env.Begin(context.Background(), true)
	if err != nil {
		t.Fatal(err)
	}
	b, err := tx.Bucket(BucketName)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { tx.Commit() })
	return b
}

func TestCategoryLikeBucketFillAndRange(t *testing.T) {
	b := newTestBucket(t)
	ctx := context.Background()
	for i := 1; i <= 2048; i++ {
		if err := Insert(ctx, b, "x", uint32(i), rid.ID(i), DefaultMaxSize, nil); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
	}

	result, err := Range(b, "x", 500, 1500)
	if err != nil {
		t.Fatal(err)
	}
	if result.Cardinality() != 1001 {
		t.Fatalf("cardinality = %d, want 1001", result.Cardinality())
	}
	for i := 500; i <= 1500; i++ {
		if !result.Contains(rid.ID(i)) {
			t.Fatalf("expected id %d in range result", i)
		}
	}

	cur := b.Cursor()
	count := 0
	for k, _, ok := cur.First(); ok; k, _, ok = cur.Next() {
		_ = k
		count++
	}
	if count < 2 {
		t.Fatalf("expected at least 2 buckets after 2048 inserts, got %d", count)
	}
}

func TestPointUpdate(t *testing.T) {
	b := newTestBucket(t)
	ctx := context.Background()
	if err := Insert(ctx, b, "x", 10, 1, DefaultMaxSize, nil); err != nil {
		t.Fatal(err)
	}
	if err := Delete(b, "x", 10, 1); err != nil {
		t.Fatal(err)
	}
	if err := Insert(ctx, b, "x", 20, 1, DefaultMaxSize, nil); err != nil {
		t.Fatal(err)
	}

	r10, err := Range(b, "x", 10, 10)
	if err != nil {
		t.Fatal(err)
	}
	if !r10.IsEmpty() {
		t.Fatalf("expected range(10,10) empty after move, got cardinality %d", r10.Cardinality())
	}

	r20, err := Range(b, "x", 20, 20)
	if err != nil {
		t.Fatal(err)
	}
	if r20.Cardinality() != 1 || !r20.Contains(1) {
		t.Fatalf("expected range(20,20) = {1}")
	}
}

func TestDeleteByID(t *testing.T) {
	b := newTestBucket(t)
	ctx := context.Background()
	if err := Insert(ctx, b, "x", 100, 7, DefaultMaxSize, nil); err != nil {
		t.Fatal(err)
	}
	if err := Insert(ctx, b, "x", 100, 8, DefaultMaxSize, nil); err != nil {
		t.Fatal(err)
	}

	if err := Delete(b, "x", 100, 7); err != nil {
		t.Fatal(err)
	}
	r, err := Range(b, "x", 100, 100)
	if err != nil {
		t.Fatal(err)
	}
	if r.Cardinality() != 1 || !r.Contains(8) {
		t.Fatalf("expected range(100,100) = {8} after removing 7")
	}

	if err := Delete(b, "x", 100, 8); err != nil {
		t.Fatal(err)
	}

	cur := b.Cursor()
	if _, _, ok := cur.SeekGE(nil); ok {
		t.Fatalf("expected no buckets to remain after both entries removed")
	}
}

func TestDuplicateValueSplitResistance(t *testing.T) {
	b := newTestBucket(t)
	ctx := context.Background()
	for i := 1; i <= 1025; i++ {
		if err := Insert(ctx, b, "y", 42, rid.ID(i), DefaultMaxSize, nil); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
	}

	r, err := Range(b, "y", 42, 42)
	if err != nil {
		t.Fatal(err)
	}
	if r.Cardinality() != 1025 {
		t.Fatalf("cardinality = %d, want 1025", r.Cardinality())
	}

	cur := b.Cursor()
	count := 0
	for k, _, ok := cur.First(); ok; k, _, ok = cur.Next() {
		_ = k
		count++
	}
	if count != 1 {
		t.Fatalf("expected the pathological bucket to remain unsplit (1 bucket), got %d", count)
	}
}

func TestCrossSplitRange(t *testing.T) {
	b := newTestBucket(t)
	ctx := context.Background()
	ids := rand.New(rand.NewSource(1)).Perm(3001)
	for value, id := range ids {
		if err := Insert(ctx, b, "y", uint32(value), rid.ID(id+1), DefaultMaxSize, nil); err != nil {
			t.Fatalf("Insert(%d): %v", value, err)
		}
	}

	result, err := Range(b, "y", 800, 2200)
	if err != nil {
		t.Fatal(err)
	}
	if result.Cardinality() != 1401 {
		t.Fatalf("cardinality = %d, want 1401", result.Cardinality())
	}
}

func TestFloatOrderingScenario(t *testing.T) {
	// Sortable-encoded values for {-1.5, -0.0, 0.0, 0.5, 10.25},
	// inserted in ascending order; the range [-1, 1] must pick out the
	// middle three across the buckets they land in.
	type entry struct {
		id    rid.ID
		value uint32
	}

	entries := []entry{
		{1, sortkey.EncodeFloat32(-1.5)},
		{2, sortkey.EncodeFloat32(float32(math.Copysign(0, -1)))},
		{3, sortkey.EncodeFloat32(0.0)},
		{4, sortkey.EncodeFloat32(0.5)},
		{5, sortkey.EncodeFloat32(10.25)},
	}

	b := newTestBucket(t)
	ctx := context.Background()
	for _, e := range entries {
		if err := Insert(ctx, b, "p", e.value, e.id, DefaultMaxSize, nil); err != nil {
			t.Fatal(err)
		}
	}

	minV := sortkey.EncodeFloat32(-1.0)
	maxV := sortkey.EncodeFloat32(1.0)

	result, err := Range(b, "p", minV, maxV)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []rid.ID{2, 3, 4} {
		if !result.Contains(want) {
			t.Fatalf("expected id %d in [-1,1] range, cardinality %d", want, result.Cardinality())
		}
	}
	if result.Cardinality() != 3 {
		t.Fatalf("cardinality = %d, want 3", result.Cardinality())
	}
}
