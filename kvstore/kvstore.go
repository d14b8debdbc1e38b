// Package kvstore defines the ordered, transactional key-value store
// contract the numeric index is built against: environment open and
// close, read-only and read-write transactions with commit and abort,
// named sub-databases created on open, get/put/delete, and a cursor
// supporting seek-to-greater-or-equal, exact seek, predecessor,
// successor, last, and current-position put/delete. Ordering is
// lexicographic on raw key bytes.
//
// Two implementations are provided: bolt.go over go.etcd.io/bbolt for
// durable storage, and memory.go over an in-memory sorted structure
// for dependency-free tests and non-durable embedders. Callers of the
// numeric index depend only on these interfaces.
package kvstore

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Get when a key is absent.
var ErrNotFound = errors.New("kvstore: key not found")

// ErrBucketNotFound is returned by Tx.Bucket in a read-only
// transaction when the named sub-database has not been created.
var ErrBucketNotFound = errors.New("kvstore: sub-database not found")

// Env is an open key-value environment: a durable store or an
// in-memory stand-in, holding one or more named sub-databases.
type Env interface {
	// Begin starts a transaction. writable transactions serialize
	// with all other writable transactions; read-only transactions
	// observe a consistent snapshot for their duration. In the bbolt
	// backend readers and a writer run concurrently; in the in-memory
	// backend a writable transaction excludes readers until it ends.
	Begin(ctx context.Context, writable bool) (Tx, error)

	// WriteTo streams a consistent, point-in-time copy of the entire
	// environment to w, for backup/export.
	WriteTo(ctx context.Context, w io.Writer) (int64, error)

	// Close releases the environment's resources.
	Close() error
}

// Tx is a single transaction against an Env.
type Tx interface {
	// Bucket returns a handle to the named sub-database, creating it
	// if this is a writable transaction and it does not yet exist.
	// A read-only transaction returns ErrBucketNotFound for a
	// sub-database that was never created by a prior writable
	// transaction.
	Bucket(name string) (Bucket, error)

	// Commit finalizes a writable transaction's changes. It is a
	// no-op error-free call on a read-only transaction.
	Commit() error

	// Abort discards the transaction's changes (if any) and releases
	// its resources. Calling Abort after Commit is a no-op.
	Abort() error
}

// Bucket is a named sub-database within a transaction.
type Bucket interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(key []byte) ([]byte, error)

	// Put stores value under key, creating or overwriting the entry.
	// Only valid within a writable transaction.
	Put(key, value []byte) error

	// Delete removes the entry for key, if present. Only valid
	// within a writable transaction.
	Delete(key []byte) error

	// Cursor returns a new cursor over the bucket's keys in
	// lexicographic order.
	Cursor() Cursor
}

// Cursor iterates a Bucket's keys in lexicographic order. A cursor is
// scoped to the transaction that produced its Bucket and must not be
// used after that transaction ends.
type Cursor interface {
	// SeekGE positions the cursor at the first key >= key. It reports
	// ok=false if no such key exists.
	SeekGE(key []byte) (k, v []byte, ok bool)

	// Seek positions the cursor at exactly key. It reports ok=false
	// if key is absent.
	Seek(key []byte) (k, v []byte, ok bool)

	// First positions the cursor at the smallest key.
	First() (k, v []byte, ok bool)

	// Last positions the cursor at the largest key.
	Last() (k, v []byte, ok bool)

	// Next advances to the next key after the cursor's current
	// position.
	Next() (k, v []byte, ok bool)

	// Prev moves to the key before the cursor's current position.
	Prev() (k, v []byte, ok bool)

	// PutCurrent overwrites the value at the cursor's current
	// position. The cursor must be positioned on an existing key.
	PutCurrent(value []byte) error

	// DeleteCurrent removes the entry at the cursor's current
	// position. The cursor must be positioned on an existing key.
	DeleteCurrent() error
}
