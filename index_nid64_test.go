//go:build nid64

package numidx

import (
	"context"
	"testing"
	"unsafe"

	"github.com/attrindex/numidx/kvstore"
	"github.com/attrindex/numidx/rid"
	"github.com/stretchr/testify/require"
)

// TestNid64WidensRecordID verifies that building with -tags nid64
// widens rid.ID to 64 bits (and, transitively, the summary bitmap
// backend to roaring64.Bitmap) without changing any exported Index
// behavior.
func TestNid64WidensRecordID(t *testing.T) {
	var id rid.ID
	require.Equal(t, 8, int(unsafe.Sizeof(id)))
	require.Equal(t, 8, rid.Size)

	ctx := context.Background()
	env := kvstore.OpenMemory()
	defer env.Close()

	idx, err := New(WithBackend(env))
	require.NoError(t, err)

	bigID := rid.ID(1) << 40
	require.NoError(t, idx.Put(ctx, "price", bigID, 100))

	hits, err := idx.Range(ctx, "price", 0, 1000)
	require.NoError(t, err)
	require.True(t, hits.Contains(bigID))
	hits.Release()
}
