// Package uploader serializes reports and writes them to the object store
// under partitioned speed-layer keys.
package uploader

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/skewt/avwxingest/internal/log"
	"github.com/skewt/avwxingest/internal/storage"
	"github.com/skewt/avwxingest/internal/wx"
	"github.com/skewt/avwxingest/internal/wxerr"
)

// maxConcurrentUploads bounds batch upload parallelism.
const maxConcurrentUploads = 5

// Uploader writes report documents and raw payloads to one blob store.
// Safe for concurrent use.
type Uploader struct {
	store  storage.BlobStore
	logger *zap.SugaredLogger
}

// New builds an uploader over store. A nil logger falls back to the
// package logger.
func New(store storage.BlobStore, logger *zap.SugaredLogger) *Uploader {
	if logger == nil {
		logger = log.GetSugaredLogger()
	}
	return &Uploader{store: store, logger: logger}
}

// Upload serializes the report and puts it at its speed-layer key,
// returning the key. The object carries content type application/json and
// metadata identifying source, station, report type, and ingestion time.
func (u *Uploader) Upload(ctx context.Context, report wx.Report) (string, error) {
	if report == nil || report.Envelope() == nil {
		return "", wxerr.New(wxerr.KindInvalidData, "invalid input: nil report")
	}
	env := report.Envelope()

	data, err := wx.MarshalReport(report)
	if err != nil {
		return "", err
	}

	key := SpeedLayerKey(env.Source, report.DataType(), env.StationID, env.IngestionTime)
	meta := storage.ObjectMeta{
		ContentType: "application/json",
		Metadata: map[string]string{
			"source":         env.Source.String(),
			"station-id":     env.StationID,
			"report-type":    report.DataType(),
			"ingestion-time": env.IngestionTime.UTC().Format(time.RFC3339),
		},
	}
	if err := u.store.Put(ctx, key, data, meta); err != nil {
		return "", wxerr.Wrapf(wxerr.KindStorage, err, "uploading %s", key).WithStation(env.StationID)
	}
	u.logger.Debugf("uploaded %s (%d bytes)", key, len(data))
	return key, nil
}

// UploadBatch uploads each report independently and returns the keys of
// the successes in input order. Failures are logged and skipped; the call
// fails only when at least one upload was attempted and every one failed.
func (u *Uploader) UploadBatch(ctx context.Context, reports []wx.Report) ([]string, error) {
	if len(reports) == 0 {
		return nil, nil
	}

	results := make([]string, len(reports))
	failures := make([]error, len(reports))

	g := new(errgroup.Group)
	g.SetLimit(maxConcurrentUploads)
	for i, r := range reports {
		i, r := i, r
		g.Go(func() error {
			key, err := u.Upload(ctx, r)
			if err != nil {
				u.logger.Warnf("batch upload failed for %s: %v", wxerr.StationOf(err), err)
				failures[i] = err
				return nil
			}
			results[i] = key
			return nil
		})
	}
	g.Wait()

	keys := make([]string, 0, len(reports))
	var lastErr error
	for i := range reports {
		if failures[i] != nil {
			lastErr = failures[i]
			continue
		}
		keys = append(keys, results[i])
	}
	if len(keys) == 0 {
		return nil, wxerr.Wrap(wxerr.KindStorage, lastErr, "every upload in the batch failed")
	}
	return keys, nil
}

// UploadRaw archives a verbatim upstream payload under the raw-data key,
// returning the key. Empty inputs are rejected.
func (u *Uploader) UploadRaw(ctx context.Context, source wx.Source, raw, stationID string) (string, error) {
	if raw == "" {
		return "", wxerr.New(wxerr.KindInvalidData, "invalid input: empty raw payload")
	}
	id, err := wx.NormalizeStationID(stationID)
	if err != nil {
		return "", err
	}

	key := RawDataKey(source, id, time.Now())
	meta := storage.ObjectMeta{
		ContentType: "text/plain",
		Metadata: map[string]string{
			"source":         source.String(),
			"station-id":     id,
			"ingestion-time": time.Now().UTC().Format(time.RFC3339),
		},
	}
	if err := u.store.Put(ctx, key, []byte(raw), meta); err != nil {
		return "", wxerr.Wrapf(wxerr.KindStorage, err, "uploading %s", key).WithStation(id)
	}
	u.logger.Debugf("archived raw payload at %s (%d bytes)", key, len(raw))
	return key, nil
}

// HeadBucket probes store liveness without raising.
func (u *Uploader) HeadBucket(ctx context.Context) bool {
	if err := u.store.HeadBucket(ctx); err != nil {
		u.logger.Warnf("bucket probe failed: %v", err)
		return false
	}
	return true
}
