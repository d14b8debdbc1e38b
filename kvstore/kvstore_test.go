package kvstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func envs(t *testing.T) map[string]Env {
	t.Helper()
	dir := t.TempDir()
	boltEnv, err := OpenBolt(filepath.Join(dir, "test.db"), nil)
	if err != nil {
		t.Fatalf("OpenBolt: %v", err)
	}
	t.Cleanup(func() { boltEnv.Close() })
	return map[string]Env{
		"bolt":   boltEnv,
		"memory": OpenMemory(),
	}
}

func TestPutGetDelete(t *testing.T) {
	for name, env := range envs(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			tx, err := env.Begin(ctx, true)
			if err != nil {
				t.Fatal(err)
			}
			b, err := tx.Bucket("test")
			if err != nil {
				t.Fatal(err)
			}
			if err := b.Put([]byte("k1"), []byte("v1")); err != nil {
				t.Fatal(err)
			}
			if err := tx.Commit(); err != nil {
				t.Fatal(err)
			}

			tx, err = env.Begin(ctx, false)
			if err != nil {
				t.Fatal(err)
			}
			b, err = tx.Bucket("test")
			if err != nil {
				t.Fatal(err)
			}
			v, err := b.Get([]byte("k1"))
			if err != nil {
				t.Fatal(err)
			}
			if string(v) != "v1" {
				t.Fatalf("Get = %q, want v1", v)
			}
			if _, err := b.Get([]byte("missing")); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			tx.Abort()

			tx, _ = env.Begin(ctx, true)
			b, _ = tx.Bucket("test")
			if err := b.Delete([]byte("k1")); err != nil {
				t.Fatal(err)
			}
			tx.Commit()

			tx, _ = env.Begin(ctx, false)
			b, _ = tx.Bucket("test")
			if _, err := b.Get([]byte("k1")); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound after delete, got %v", err)
			}
			tx.Abort()
		})
	}
}

func TestCursorSeekGEAndFallbacks(t *testing.T) {
	for name, env := range envs(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			tx, _ := env.Begin(ctx, true)
			b, _ := tx.Bucket("test")
			for _, k := range []string{"a", "c", "e"} {
				if err := b.Put([]byte(k), []byte(k)); err != nil {
					t.Fatal(err)
				}
			}
			if err := tx.Commit(); err != nil {
				t.Fatal(err)
			}

			tx, _ = env.Begin(ctx, false)
			b, _ = tx.Bucket("test")
			cur := b.Cursor()

			if k, _, ok := cur.SeekGE([]byte("b")); !ok || string(k) != "c" {
				t.Fatalf("SeekGE(b) = %q,%v, want c,true", k, ok)
			}
			if k, _, ok := cur.Prev(); !ok || string(k) != "a" {
				t.Fatalf("Prev = %q,%v, want a,true", k, ok)
			}
			if k, _, ok := cur.Last(); !ok || string(k) != "e" {
				t.Fatalf("Last = %q,%v, want e,true", k, ok)
			}
			if _, _, ok := cur.SeekGE([]byte("z")); ok {
				t.Fatalf("expected SeekGE past the end to report not found")
			}
			if _, _, ok := cur.Seek([]byte("b")); ok {
				t.Fatalf("expected exact Seek for absent key to report not found")
			}
			if k, _, ok := cur.Seek([]byte("c")); !ok || string(k) != "c" {
				t.Fatalf("Seek(c) = %q,%v, want c,true", k, ok)
			}
			tx.Abort()
		})
	}
}

func TestCursorCurrentPutDelete(t *testing.T) {
	for name, env := range envs(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			tx, _ := env.Begin(ctx, true)
			b, _ := tx.Bucket("test")
			_ = b.Put([]byte("a"), []byte("1"))
			_ = b.Put([]byte("b"), []byte("2"))
			if err := tx.Commit(); err != nil {
				t.Fatal(err)
			}

			tx, _ = env.Begin(ctx, true)
			b, _ = tx.Bucket("test")
			cur := b.Cursor()
			if _, _, ok := cur.Seek([]byte("a")); !ok {
				t.Fatal("expected to find key a")
			}
			if err := cur.PutCurrent([]byte("11")); err != nil {
				t.Fatal(err)
			}
			if _, _, ok := cur.Seek([]byte("b")); !ok {
				t.Fatal("expected to find key b")
			}
			if err := cur.DeleteCurrent(); err != nil {
				t.Fatal(err)
			}
			if err := tx.Commit(); err != nil {
				t.Fatal(err)
			}

			tx, _ = env.Begin(ctx, false)
			b, _ = tx.Bucket("test")
			v, err := b.Get([]byte("a"))
			if err != nil || string(v) != "11" {
				t.Fatalf("Get(a) = %q,%v, want 11,nil", v, err)
			}
			if _, err := b.Get([]byte("b")); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected b deleted, got %v", err)
			}
			tx.Abort()
		})
	}
}

func TestEnvWriteTo(t *testing.T) {
	dir := t.TempDir()
	env, err := OpenBolt(filepath.Join(dir, "src.db"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer env.Close()

	ctx := context.Background()
	tx, _ := env.Begin(ctx, true)
	b, _ := tx.Bucket("test")
	_ = b.Put([]byte("k"), []byte("v"))
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}

	out, err := os.Create(filepath.Join(dir, "copy.db"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.WriteTo(ctx, out); err != nil {
		t.Fatal(err)
	}
	out.Close()

	copied, err := OpenBolt(filepath.Join(dir, "copy.db"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer copied.Close()

	tx, _ = copied.Begin(ctx, false)
	b, err = tx.Bucket("test")
	if err != nil {
		t.Fatal(err)
	}
	v, err := b.Get([]byte("k"))
	if err != nil || string(v) != "v" {
		t.Fatalf("Get(k) on copy = %q,%v, want v,nil", v, err)
	}
	tx.Abort()
}
