// Package storage defines the object-store seam the ingestion pipeline
// writes through. Concrete backends live in the s3 and gcs subpackages;
// MemoryStore backs dry runs and tests.
package storage

import "context"

// ObjectMeta is the content type and user metadata attached to a stored
// object.
type ObjectMeta struct {
	ContentType string
	Metadata    map[string]string
}

// BlobStore is the minimal object-store surface the pipeline needs.
// Implementations must be safe for concurrent use.
type BlobStore interface {
	// Put writes data at key, replacing any existing object.
	Put(ctx context.Context, key string, data []byte, meta ObjectMeta) error

	// HeadBucket probes that the backing bucket exists and is reachable.
	HeadBucket(ctx context.Context) error

	// Close releases the backend's resources. The store rejects further
	// writes afterwards.
	Close() error
}
