package snapshot

import (
	"context"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
)

// MinioExporter writes snapshots to an S3-compatible endpoint via the
// MinIO client, for self-hosted object storage deployments.
type MinioExporter struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinioExporter returns an Exporter storing objects under
// bucket/prefix via client.
func NewMinioExporter(client *minio.Client, bucket, prefix string) *MinioExporter {
	return &MinioExporter{client: client, bucket: bucket, prefix: prefix}
}

func (e *MinioExporter) key(name string) string {
	return path.Join(e.prefix, name)
}

func (e *MinioExporter) Export(ctx context.Context, name string, r io.Reader) error {
	_, err := e.client.PutObject(ctx, e.bucket, e.key(name), r, -1, minio.PutObjectOptions{})
	return err
}
