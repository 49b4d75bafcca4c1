// Package speedlayer validates, enriches, and uploads fetched reports
// into the speed-layer storage tier.
package speedlayer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/skewt/avwxingest/internal/log"
	"github.com/skewt/avwxingest/internal/uploader"
	"github.com/skewt/avwxingest/internal/wx"
	"github.com/skewt/avwxingest/internal/wxerr"
	"github.com/skewt/avwxingest/pkg/solar"
)

const (
	defaultMaxConcurrent = 5
	batchBudget          = 60 * time.Second
)

// ErrShutdown is returned for work submitted after Shutdown.
var ErrShutdown = errors.New("speed-layer processor is shut down")

// ReportFetcher is the upstream surface the processor consumes.
type ReportFetcher interface {
	FetchReports(ctx context.Context, reportType wx.ReportType, stationIDs ...string) ([]wx.Report, error)
	FetchByBoundingBox(ctx context.Context, minLat, minLon, maxLat, maxLon float64, reportType wx.ReportType) ([]wx.Report, error)
}

// Processor drives the fetch, validate, enrich, upload pipeline for one
// report type. Safe for concurrent use until Shutdown.
type Processor struct {
	fetcher       ReportFetcher
	uploader      *uploader.Uploader
	reportType    wx.ReportType
	maxConcurrent int
	logger        *zap.SugaredLogger

	closed   atomic.Bool
	failures atomic.Int64
}

// New builds a processor for reportType. maxConcurrent <= 0 selects the
// default of 5 parallel stations per batch.
func New(fetcher ReportFetcher, up *uploader.Uploader, reportType wx.ReportType, maxConcurrent int, logger *zap.SugaredLogger) *Processor {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	if logger == nil {
		logger = log.GetSugaredLogger()
	}
	return &Processor{
		fetcher:       fetcher,
		uploader:      up,
		reportType:    reportType,
		maxConcurrent: maxConcurrent,
		logger:        logger,
	}
}

// FailureCount returns how many station runs have failed since the
// processor was built.
func (p *Processor) FailureCount() int64 { return p.failures.Load() }

// ProcessStation fetches the latest report for the station, validates and
// enriches it, uploads it, and returns it with its storage location in
// the metadata. An empty upstream result is a NoData failure.
func (p *Processor) ProcessStation(ctx context.Context, stationID string) (wx.Report, error) {
	if p.closed.Load() {
		return nil, ErrShutdown
	}

	reports, err := p.fetcher.FetchReports(ctx, p.reportType, stationID)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, wxerr.NoData(stationID)
	}
	report := latestOf(reports)

	if err := p.enrich(report); err != nil {
		return nil, err
	}
	key, err := p.uploader.Upload(ctx, report)
	if err != nil {
		return nil, err
	}
	report.Envelope().AddMetadata("storage_location", key)
	return report, nil
}

// latestOf picks the report with the newest observation time; ties and
// zero times fall back to the first.
func latestOf(reports []wx.Report) wx.Report {
	latest := reports[0]
	for _, r := range reports[1:] {
		if r.Envelope().ObservationTime.After(latest.Envelope().ObservationTime) {
			latest = r
		}
	}
	return latest
}

// enrich validates the envelope and stamps the speed-layer markers.
func (p *Processor) enrich(report wx.Report) error {
	env := report.Envelope()
	if env.StationID == "" {
		return wxerr.New(wxerr.KindInvalidData, "report without station identifier")
	}
	if env.Source == "" {
		return wxerr.InvalidData(env.StationID, "report without source")
	}

	env.AddMetadata("validated", true)
	env.AddMetadata("validation_timestamp", time.Now().UTC().Format(time.RFC3339))
	env.AddMetadata("processor", "SpeedLayerProcessor")
	env.Layer = wx.SpeedLayer

	if env.Location != nil {
		daylight := solar.IsDaylight(time.Now(), env.Location.Latitude(), env.Location.Longitude())
		env.AddMetadata("daylight", daylight)
	}
	return nil
}

// ProcessBatch fans ProcessStation out over the worker pool and returns
// the successes in completion order. Failed stations are logged and
// counted, not returned. The batch runs under a 60 second budget.
func (p *Processor) ProcessBatch(ctx context.Context, stationIDs []string) []wx.Report {
	if p.closed.Load() || len(stationIDs) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, batchBudget)
	defer cancel()

	var (
		mu      sync.Mutex
		results []wx.Report
	)
	g := new(errgroup.Group)
	g.SetLimit(p.maxConcurrent)
	for _, id := range stationIDs {
		id := id
		g.Go(func() error {
			report, err := p.ProcessStation(ctx, id)
			if err != nil {
				p.failures.Add(1)
				p.logger.Warnf("station %s failed: %v", id, err)
				return nil
			}
			mu.Lock()
			results = append(results, report)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	return results
}

// ProcessRegion fetches every report inside the bounding box, enriches
// each, and uploads them in one batch. Storage locations are attached
// back to the reports positionally, truncated to the shorter of the two
// sequences.
func (p *Processor) ProcessRegion(ctx context.Context, minLat, minLon, maxLat, maxLon float64) ([]wx.Report, error) {
	if p.closed.Load() {
		return nil, ErrShutdown
	}

	fetched, err := p.fetcher.FetchByBoundingBox(ctx, minLat, minLon, maxLat, maxLon, p.reportType)
	if err != nil {
		return nil, err
	}
	if len(fetched) == 0 {
		return nil, nil
	}

	enriched := make([]wx.Report, 0, len(fetched))
	for _, report := range fetched {
		if err := p.enrich(report); err != nil {
			p.failures.Add(1)
			p.logger.Warnf("skipping region report for %s: %v", report.Envelope().StationID, err)
			continue
		}
		enriched = append(enriched, report)
	}
	if len(enriched) == 0 {
		return nil, nil
	}

	keys, err := p.uploader.UploadBatch(ctx, enriched)
	if err != nil {
		return nil, err
	}
	for i := 0; i < len(keys) && i < len(enriched); i++ {
		enriched[i].Envelope().AddMetadata("storage_location", keys[i])
	}
	return enriched, nil
}

// RunContinuous loops ProcessBatch until the deadline now + duration,
// sleeping interval between runs. Context cancellation breaks the loop
// promptly.
func (p *Processor) RunContinuous(ctx context.Context, stationIDs []string, interval, duration time.Duration) {
	deadline := time.Now().Add(duration)
	p.logger.Infof("continuous processing of %d stations until %s", len(stationIDs), deadline.Format(time.RFC3339))

	for time.Now().Before(deadline) {
		if ctx.Err() != nil || p.closed.Load() {
			return
		}
		reports := p.ProcessBatch(ctx, stationIDs)
		p.logger.Infof("batch complete: %d/%d stations", len(reports), len(stationIDs))

		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

// Shutdown makes the processor reject further work. In-flight batches
// drain through their own contexts.
func (p *Processor) Shutdown() {
	if p.closed.Swap(true) {
		return
	}
	p.logger.Info("speed-layer processor shut down")
}
