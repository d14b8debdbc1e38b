package snapshot

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// UploadConfig tunes the multipart upload used by S3Exporter. Part
// size is sized up from the SDK's 5MB default since snapshots are
// typically much larger than a single vector segment.
type UploadConfig struct {
	PartSize    int64
	Concurrency int
}

// DefaultUploadConfig returns production-sized upload settings.
func DefaultUploadConfig() UploadConfig {
	return UploadConfig{PartSize: 16 * 1024 * 1024, Concurrency: 5}
}

// S3Exporter writes snapshots as objects in an S3 bucket.
type S3Exporter struct {
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

// NewS3Exporter builds an Exporter over client, storing objects under
// bucket/prefix.
func NewS3Exporter(client *s3.Client, bucket, prefix string, cfg UploadConfig) *S3Exporter {
	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = cfg.PartSize
		u.Concurrency = cfg.Concurrency
	})
	return &S3Exporter{uploader: uploader, bucket: bucket, prefix: prefix}
}

// NewS3ExporterFromEnv builds an S3Exporter using the AWS SDK's
// default credential chain (environment, shared config, IMDS), for
// callers that don't already have an *s3.Client on hand.
func NewS3ExporterFromEnv(ctx context.Context, bucket, prefix string, cfg UploadConfig) (*S3Exporter, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: loading AWS config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg)
	return NewS3Exporter(client, bucket, prefix, cfg), nil
}

func (e *S3Exporter) Export(ctx context.Context, name string, r io.Reader) error {
	key := name
	if e.prefix != "" {
		key = e.prefix + "/" + name
	}
	_, err := e.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(e.bucket),
		Key:    aws.String(key),
		Body:   r,
	})
	return err
}
