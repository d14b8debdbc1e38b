package snapshot

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// LocalExporter writes snapshots as plain files under a root
// directory.
type LocalExporter struct {
	Root string
}

// NewLocalExporter returns an Exporter rooted at dir. dir is created
// if it does not exist.
func NewLocalExporter(dir string) (*LocalExporter, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	return &LocalExporter{Root: dir}, nil
}

func (e *LocalExporter) Export(_ context.Context, name string, r io.Reader) error {
	path := filepath.Join(e.Root, name)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return err
	}
	return f.Sync()
}
