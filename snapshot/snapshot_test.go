package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/attrindex/numidx/kvstore"
)

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	env, err := kvstore.OpenBolt(filepath.Join(dir, "live.db"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer env.Close()

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
	if err := b.Put([]byte("k2"), []byte("v2")); err != nil {
		t.Fatal(err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}

	exporter, err := NewLocalExporter(filepath.Join(dir, "backups"))
	if err != nil {
		t.Fatal(err)
	}
	if err := Snapshot(ctx, env, exporter, "snap1.zst"); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	compressed, err := os.Open(filepath.Join(dir, "backups", "snap1.zst"))
	if err != nil {
		t.Fatal(err)
	}
	defer compressed.Close()

	restoredPath := filepath.Join(dir, "restored.db")
	out, err := os.Create(restoredPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := Restore(out, compressed); err != nil {
		t.Fatal(err)
	}
	out.Close()

	restored, err := kvstore.OpenBolt(restoredPath, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer restored.Close()

	rtx, err := restored.Begin(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	defer rtx.Abort()

	rb, err := rtx.Bucket("test")
	if err != nil {
		t.Fatal(err)
	}
	v1, err := rb.Get([]byte("k1"))
	if err != nil || string(v1) != "v1" {
		t.Fatalf("Get(k1) on restored env = %q,%v, want v1,nil", v1, err)
	}
	v2, err := rb.Get([]byte("k2"))
	if err != nil || string(v2) != "v2" {
		t.Fatalf("Get(k2) on restored env = %q,%v, want v2,nil", v2, err)
	}
}
