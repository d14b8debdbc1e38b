// Package snapshot backs up the numeric index's two KV sub-databases.
// Buckets live on disk only (§3 Ownership), so backup means copying
// the environment's underlying files, not any in-memory structure.
// Snapshot streams a consistent, compressed copy of the environment to
// an Exporter; three Exporters are provided for local disk, S3, and
// any S3-compatible endpoint reachable via MinIO's client.
package snapshot

import (
	"context"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/attrindex/numidx/kvstore"
)

// Exporter accepts a named byte stream. It is the write-side
// counterpart to a read-only blob store: where a blob store answers
// "open this named blob for reading", an Exporter answers "persist
// this named stream".
type Exporter interface {
	Export(ctx context.Context, name string, r io.Reader) error
}

// Snapshot reads a consistent point-in-time copy of env, compresses it
// with zstd, and hands the result to exporter under name.
func Snapshot(ctx context.Context, env kvstore.Env, exporter Exporter, name string) error {
	pr, pw := io.Pipe()

	enc, err := zstd.NewWriter(pw)
	if err != nil {
		pw.Close()
		return fmt.Errorf("snapshot: creating zstd encoder: %w", err)
	}

	writeErr := make(chan error, 1)
	go func() {
		_, err := env.WriteTo(ctx, enc)
		if closeErr := enc.Close(); err == nil {
			err = closeErr
		}
		if pipeErr := pw.CloseWithError(err); err == nil {
			err = pipeErr
		}
		writeErr <- err
	}()

	if err := exporter.Export(ctx, name, pr); err != nil {
		pr.Close()
		<-writeErr
		return fmt.Errorf("snapshot: export: %w", err)
	}

	if err := <-writeErr; err != nil && err != io.EOF {
		return fmt.Errorf("snapshot: reading environment: %w", err)
	}
	return nil
}

// Restore decompresses a snapshot produced by Snapshot into w, e.g. a
// freshly created local file that will then be reopened as a
// kvstore.Env.
func Restore(w io.Writer, r io.Reader) error {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return fmt.Errorf("snapshot: creating zstd decoder: %w", err)
	}
	defer dec.Close()

	if _, err := io.Copy(w, dec); err != nil {
		return fmt.Errorf("snapshot: decompressing: %w", err)
	}
	return nil
}
