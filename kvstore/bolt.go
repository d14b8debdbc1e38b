package kvstore

import (
	"bytes"
	"context"
	"io"

	bolt "go.etcd.io/bbolt"
)

// boltEnv adapts a *bbolt.DB to the Env contract. bbolt's own
// transaction and cursor semantics already match the contract almost
// exactly: Bucket.Cursor().Seek positions at the first key >= the
// argument (our SeekGE), and CreateBucketIfNotExists gives us
// create-on-open sub-databases for free.
type boltEnv struct {
	db *bolt.DB
}

// OpenBolt opens (creating if absent) a bbolt-backed environment at
// path.
func OpenBolt(path string, options *bolt.Options) (Env, error) {
	db, err := bolt.Open(path, 0600, options)
	if err != nil {
		return nil, err
	}
	return &boltEnv{db: db}, nil
}

func (e *boltEnv) Begin(_ context.Context, writable bool) (Tx, error) {
	tx, err := e.db.Begin(writable)
	if err != nil {
		return nil, err
	}
	return &boltTx{tx: tx}, nil
}

func (e *boltEnv) WriteTo(_ context.Context, w io.Writer) (int64, error) {
	tx, err := e.db.Begin(false)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()
	return tx.WriteTo(w)
}

func (e *boltEnv) Close() error { return e.db.Close() }

type boltTx struct {
	tx *bolt.Tx
}

func (t *boltTx) Bucket(name string) (Bucket, error) {
	if t.tx.Writable() {
		b, err := t.tx.CreateBucketIfNotExists([]byte(name))
		if err != nil {
			return nil, err
		}
		return &boltBucket{b: b}, nil
	}
	b := t.tx.Bucket([]byte(name))
	if b == nil {
		return nil, ErrBucketNotFound
	}
	return &boltBucket{b: b}, nil
}

func (t *boltTx) Commit() error {
	if !t.tx.Writable() {
		return t.tx.Rollback()
	}
	return t.tx.Commit()
}

func (t *boltTx) Abort() error { return t.tx.Rollback() }

type boltBucket struct {
	b *bolt.Bucket
}

func (b *boltBucket) Get(key []byte) ([]byte, error) {
	v := b.b.Get(key)
	if v == nil {
		return nil, ErrNotFound
	}
	// bbolt's returned slice is only valid for the transaction's
	// lifetime; copy it out so callers can retain it afterwards.
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (b *boltBucket) Put(key, value []byte) error { return b.b.Put(key, value) }

func (b *boltBucket) Delete(key []byte) error { return b.b.Delete(key) }

func (b *boltBucket) Cursor() Cursor { return &boltCursor{c: b.b.Cursor()} }

type boltCursor struct {
	c       *bolt.Cursor
	lastKey []byte
}

func (c *boltCursor) capture(k, v []byte) (rk, rv []byte, ok bool) {
	if k == nil {
		c.lastKey = nil
		return nil, nil, false
	}
	c.lastKey = append(c.lastKey[:0], k...)
	return k, v, true
}

func (c *boltCursor) SeekGE(key []byte) ([]byte, []byte, bool) {
	k, v := c.c.Seek(key)
	return c.capture(k, v)
}

func (c *boltCursor) Seek(key []byte) ([]byte, []byte, bool) {
	k, v := c.c.Seek(key)
	if k == nil || !bytes.Equal(k, key) {
		c.lastKey = nil
		return nil, nil, false
	}
	return c.capture(k, v)
}

func (c *boltCursor) First() ([]byte, []byte, bool) {
	k, v := c.c.First()
	return c.capture(k, v)
}

func (c *boltCursor) Last() ([]byte, []byte, bool) {
	k, v := c.c.Last()
	return c.capture(k, v)
}

func (c *boltCursor) Next() ([]byte, []byte, bool) {
	k, v := c.c.Next()
	return c.capture(k, v)
}

func (c *boltCursor) Prev() ([]byte, []byte, bool) {
	k, v := c.c.Prev()
	return c.capture(k, v)
}

func (c *boltCursor) PutCurrent(value []byte) error {
	if c.lastKey == nil {
		return ErrNotFound
	}
	return c.c.Bucket().Put(c.lastKey, value)
}

func (c *boltCursor) DeleteCurrent() error {
	if c.lastKey == nil {
		return ErrNotFound
	}
	return c.c.Delete()
}
