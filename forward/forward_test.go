package forward

import (
	"context"
	"testing"

	"github.com/attrindex/numidx/kvstore"
)

func TestPutGetDelete(t *testing.T) {
	env := kvstore.OpenMemory()
	ctx := context.Background()

	tx, err := env.Begin(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	b, err := tx.Bucket(BucketName)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok, err := Get(b, "price", 1); err != nil || ok {
		t.Fatalf("expected absent entry, got ok=%v err=%v", ok, err)
	}

	if err := Put(b, "price", 1, 42); err != nil {
		t.Fatal(err)
	}
	v, ok, err := Get(b, "price", 1)
	if err != nil || !ok || v != 42 {
		t.Fatalf("Get = %d,%v,%v, want 42,true,nil", v, ok, err)
	}

	if err := Put(b, "price", 1, 99); err != nil {
		t.Fatal(err)
	}
	v, ok, err = Get(b, "price", 1)
	if err != nil || !ok || v != 99 {
		t.Fatalf("Get after overwrite = %d,%v,%v, want 99,true,nil", v, ok, err)
	}

	if err := Delete(b, "price", 1); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := Get(b, "price", 1); err != nil || ok {
		t.Fatalf("expected absent after delete, got ok=%v err=%v", ok, err)
	}

	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}
}

func TestKeysDoNotAliasAcrossFields(t *testing.T) {
	k1 := MakeKey("x", 1)
	k2 := MakeKey("y", 1)
	if string(k1) == string(k2) {
		t.Fatalf("expected distinct keys for distinct fields")
	}
}
