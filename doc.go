// Package numidx implements the numeric secondary index of a
// vector-search database's attribute filter subsystem.
//
// The index answers range predicates (min ≤ v ≤ max) and point
// predicates over a numeric attribute of each record, returning the
// set of record identifiers that satisfy the predicate. Matches are
// meant to be consumed by a higher-level filter compositor that ANDs
// per-field predicate bitmaps together before handing the result to
// an approximate-nearest-neighbor search.
//
// # Quick Start
//
//	env := kvstore.OpenMemory() // or kvstore.OpenBolt(path, nil) for durability
//	idx, _ := numidx.New(numidx.WithBackend(env))
//
//	idx.Put(ctx, "price", rid.ID(1), sortkey.EncodeInt32(100))
//	idx.Put(ctx, "price", rid.ID(2), sortkey.EncodeInt32(900))
//
//	hits, _ := idx.Range(ctx, "price", sortkey.EncodeInt32(0), sortkey.EncodeInt32(500))
//	// hits.Contains(rid.ID(1)) == true
//
// # On-disk layout
//
// The hard engineering lives in the inverted package: a sorted,
// bucketed inverted index with per-bucket delta compression and a
// per-bucket summary bitmap for O(1) full-overlap union during range
// scans. A forward index (package forward) tracks each record's
// current value per field so updates and deletes don't require a
// reverse scan.
//
// # Backends and durability
//
// numidx depends only on the kvstore.Env/Tx/Bucket/Cursor interfaces,
// never on a concrete store. kvstore.OpenBolt backs it with
// go.etcd.io/bbolt for durability; kvstore.OpenMemory backs it with a
// dependency-free in-memory structure for tests. snapshot.Snapshot
// exports a consistent, compressed copy of either backend to local
// disk, S3, or any S3-compatible endpoint.
package numidx
