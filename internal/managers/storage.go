package managers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/skewt/avwxingest/internal/storage"
	"github.com/skewt/avwxingest/internal/storage/gcs"
	"github.com/skewt/avwxingest/internal/storage/s3"
	"github.com/skewt/avwxingest/pkg/config"
)

// StorageManager selects and holds the active object-store backend.
type StorageManager struct {
	Store   storage.BlobStore
	backend string
	logger  *zap.SugaredLogger
}

// NewStorageManager builds the backend named in the configuration. An
// empty backend name selects the in-memory store, which keeps dry runs
// and local development working without bucket credentials.
func NewStorageManager(ctx context.Context, cfg *config.StorageData, logger *zap.SugaredLogger) (*StorageManager, error) {
	backend := cfg.Backend
	if backend == "" {
		backend = "memory"
	}

	m := &StorageManager{
		backend: backend,
		logger:  logger,
	}

	switch backend {
	case "s3":
		if cfg.S3 == nil {
			return nil, fmt.Errorf("storage backend is s3 but no s3 section is configured")
		}
		store, err := s3.New(ctx, s3.Config{
			Bucket:       cfg.S3.Bucket,
			Region:       cfg.S3.Region,
			Endpoint:     cfg.S3.Endpoint,
			AccessKey:    cfg.S3.AccessKey,
			SecretKey:    cfg.S3.SecretKey,
			UsePathStyle: cfg.S3.UsePathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("could not add S3 storage backend: %w", err)
		}
		m.Store = store
		logger.Infof("using S3 storage backend, bucket %s", cfg.S3.Bucket)
	case "gcs":
		if cfg.GCS == nil {
			return nil, fmt.Errorf("storage backend is gcs but no gcs section is configured")
		}
		store, err := gcs.New(ctx, gcs.Config{
			Bucket:          cfg.GCS.Bucket,
			CredentialsJSON: cfg.GCS.CredentialsJSON,
		})
		if err != nil {
			return nil, fmt.Errorf("could not add GCS storage backend: %w", err)
		}
		m.Store = store
		logger.Infof("using GCS storage backend, bucket %s", cfg.GCS.Bucket)
	case "memory":
		m.Store = storage.NewMemoryStore()
		logger.Warn("using in-memory storage backend, stored reports will not persist")
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}

	return m, nil
}

// Backend names the active backend.
func (m *StorageManager) Backend() string {
	return m.backend
}

// Close releases the backend.
func (m *StorageManager) Close() error {
	if m.Store == nil {
		return nil
	}
	return m.Store.Close()
}
