// Package gcs stores objects in a Google Cloud Storage bucket.
package gcs

import (
	"context"
	"fmt"

	gstorage "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/skewt/avwxingest/internal/storage"
)

// Config locates the bucket. CredentialsJSON is optional; when unset the
// client uses the ambient application-default credentials.
type Config struct {
	Bucket          string
	CredentialsJSON string
}

// Store is a BlobStore backed by one GCS bucket.
type Store struct {
	client *gstorage.Client
	bucket *gstorage.BucketHandle
}

func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("gcs: bucket is required")
	}
	var opts []option.ClientOption
	if cfg.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	}
	client, err := gstorage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs: creating client: %w", err)
	}
	return &Store{client: client, bucket: client.Bucket(cfg.Bucket)}, nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte, meta storage.ObjectMeta) error {
	w := s.bucket.Object(key).NewWriter(ctx)
	w.ContentType = meta.ContentType
	if len(meta.Metadata) > 0 {
		w.Metadata = meta.Metadata
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("gcs: writing %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcs: writing %s: %w", key, err)
	}
	return nil
}

// HeadBucket reads the bucket attributes as a liveness probe.
func (s *Store) HeadBucket(ctx context.Context) error {
	if _, err := s.bucket.Attrs(ctx); err != nil {
		return fmt.Errorf("gcs: bucket attrs for %s: %w", s.bucket.BucketName(), err)
	}
	return nil
}

func (s *Store) Close() error { return s.client.Close() }
