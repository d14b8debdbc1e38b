package kvstore

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
)

// memEnv is a dependency-free, non-durable Env backed by in-memory
// sorted slices. It is single-writer/multi-reader like the durable
// backend: one writable transaction excludes all others (including
// readers) for its duration, matching the coarse locking a real
// embedded store enforces at the environment level.
type memEnv struct {
	mu      sync.RWMutex
	buckets map[string]*memTable
}

// OpenMemory returns a new in-memory environment.
func OpenMemory() Env {
	return &memEnv{buckets: make(map[string]*memTable)}
}

func (e *memEnv) Begin(_ context.Context, writable bool) (Tx, error) {
	if writable {
		e.mu.Lock()
	} else {
		e.mu.RLock()
	}
	return &memTx{env: e, writable: writable}, nil
}

func (e *memEnv) WriteTo(_ context.Context, w io.Writer) (int64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var total int64
	names := make([]string, 0, len(e.buckets))
	for name := range e.buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := e.buckets[name]
		n, err := writeUvarint(w, uint64(len(name)))
		total += n
		if err != nil {
			return total, err
		}
		nn, err := io.WriteString(w, name)
		total += int64(nn)
		if err != nil {
			return total, err
		}
		n, err = writeUvarint(w, uint64(len(t.entries)))
		total += n
		if err != nil {
			return total, err
		}
		for _, e := range t.entries {
			n, err = writeUvarint(w, uint64(len(e.key)))
			total += n
			if err != nil {
				return total, err
			}
			nn, err = w.Write(e.key)
			total += int64(nn)
			if err != nil {
				return total, err
			}
			n, err = writeUvarint(w, uint64(len(e.value)))
			total += n
			if err != nil {
				return total, err
			}
			nn, err = w.Write(e.value)
			total += int64(nn)
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

func (e *memEnv) Close() error { return nil }

type memEntry struct {
	key, value []byte
}

type memTable struct {
	entries []memEntry
}

func (t *memTable) find(key []byte) (int, bool) {
	i := sort.Search(len(t.entries), func(i int) bool {
		return bytes.Compare(t.entries[i].key, key) >= 0
	})
	if i < len(t.entries) && bytes.Equal(t.entries[i].key, key) {
		return i, true
	}
	return i, false
}

func (t *memTable) get(key []byte) ([]byte, bool) {
	i, ok := t.find(key)
	if !ok {
		return nil, false
	}
	return t.entries[i].value, true
}

func (t *memTable) put(key, value []byte) {
	i, ok := t.find(key)
	k := append([]byte(nil), key...)
	v := append([]byte(nil), value...)
	if ok {
		t.entries[i].value = v
		return
	}
	t.entries = append(t.entries, memEntry{})
	copy(t.entries[i+1:], t.entries[i:])
	t.entries[i] = memEntry{key: k, value: v}
}

func (t *memTable) delete(key []byte) {
	i, ok := t.find(key)
	if !ok {
		return
	}
	t.entries = append(t.entries[:i], t.entries[i+1:]...)
}

type memTx struct {
	env      *memEnv
	writable bool
	done     bool
}

func (tx *memTx) Bucket(name string) (Bucket, error) {
	t, ok := tx.env.buckets[name]
	if !ok {
		if !tx.writable {
			return nil, ErrBucketNotFound
		}
		t = &memTable{}
		tx.env.buckets[name] = t
	}
	return &memBucket{t: t, writable: tx.writable}, nil
}

func (tx *memTx) Commit() error { return tx.release() }
func (tx *memTx) Abort() error  { return tx.release() }

func (tx *memTx) release() error {
	if tx.done {
		return nil
	}
	tx.done = true
	if tx.writable {
		tx.env.mu.Unlock()
	} else {
		tx.env.mu.RUnlock()
	}
	return nil
}

type memBucket struct {
	t        *memTable
	writable bool
}

func (b *memBucket) Get(key []byte) ([]byte, error) {
	v, ok := b.t.get(key)
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (b *memBucket) Put(key, value []byte) error {
	b.t.put(key, value)
	return nil
}

func (b *memBucket) Delete(key []byte) error {
	b.t.delete(key)
	return nil
}

func (b *memBucket) Cursor() Cursor { return &memCursor{t: b.t, pos: -1} }

type memCursor struct {
	t   *memTable
	pos int
}

func (c *memCursor) at(i int) ([]byte, []byte, bool) {
	if i < 0 || i >= len(c.t.entries) {
		c.pos = -1
		return nil, nil, false
	}
	c.pos = i
	e := c.t.entries[i]
	return e.key, e.value, true
}

func (c *memCursor) SeekGE(key []byte) ([]byte, []byte, bool) {
	i, _ := c.t.find(key)
	return c.at(i)
}

func (c *memCursor) Seek(key []byte) ([]byte, []byte, bool) {
	i, ok := c.t.find(key)
	if !ok {
		c.pos = -1
		return nil, nil, false
	}
	return c.at(i)
}

func (c *memCursor) First() ([]byte, []byte, bool) { return c.at(0) }

func (c *memCursor) Last() ([]byte, []byte, bool) { return c.at(len(c.t.entries) - 1) }

func (c *memCursor) Next() ([]byte, []byte, bool) { return c.at(c.pos + 1) }

func (c *memCursor) Prev() ([]byte, []byte, bool) { return c.at(c.pos - 1) }

func (c *memCursor) PutCurrent(value []byte) error {
	if c.pos < 0 || c.pos >= len(c.t.entries) {
		return ErrNotFound
	}
	c.t.entries[c.pos].value = append([]byte(nil), value...)
	return nil
}

func (c *memCursor) DeleteCurrent() error {
	if c.pos < 0 || c.pos >= len(c.t.entries) {
		return ErrNotFound
	}
	c.t.entries = append(c.t.entries[:c.pos], c.t.entries[c.pos+1:]...)
	c.pos--
	return nil
}

func writeUvarint(w io.Writer, v uint64) (int64, error) {
	var buf [10]byte
	n := 0
	for v >= 0x80 {
		buf[n] = byte(v) | 0x80
		v >>= 7
		n++
	}
	buf[n] = byte(v)
	n++
	written, err := w.Write(buf[:n])
	return int64(written), err
}
