// Package ingest drives station ingestion end to end: fetch from the
// source, validate the record, upload it, and count every outcome.
//
// One Orchestrator instance serves one source (METAR or TAF). It owns
// two bounded pools: a worker pool for per-station tasks and a timer
// pool for scheduled runs. Both are released by Shutdown.
package ingest

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/skewt/avwxingest/internal/log"
	"github.com/skewt/avwxingest/internal/metrics"
	"github.com/skewt/avwxingest/internal/uploader"
	"github.com/skewt/avwxingest/internal/wx"
	"github.com/skewt/avwxingest/internal/wxerr"
)

const (
	defaultMaxConcurrentFetches = 10
	timerPoolSize               = 2

	batchBudget = 2 * time.Minute
	workerGrace = 60 * time.Second
	timerGrace  = 10 * time.Second
)

// ErrShutdown is returned for work submitted after Shutdown.
var ErrShutdown = errors.New("ingestion orchestrator is shut down")

// Orchestrator runs the per-station ingestion state machine for one
// source. Safe for concurrent use until Shutdown.
type Orchestrator struct {
	fetch    FetchFunc
	uploader *uploader.Uploader
	logger   *zap.SugaredLogger

	maxConcurrentFetches int
	workerSlots          chan struct{}
	timerSlots           chan struct{}

	counters  *metrics.Metrics
	durations *metrics.DurationTracker

	// baseCtx is canceled at forced shutdown to fail remaining work.
	baseCtx context.Context
	cancel  context.CancelFunc

	workers sync.WaitGroup
	timers  sync.WaitGroup

	mu        sync.Mutex
	closed    bool
	schedules []context.CancelFunc
	recordRun RunRecorder
}

// RunRecorder receives the outcome of every scheduled batch run: how many
// stations the run covered, how many produced a stored report, and how
// long the run took.
type RunRecorder func(requested, stored int, elapsed time.Duration)

// New builds an orchestrator around the given fetch step and uploader.
// maxConcurrentFetches <= 0 selects the default of 10 parallel station
// tasks.
func New(fetch FetchFunc, up *uploader.Uploader, maxConcurrentFetches int, logger *zap.SugaredLogger) *Orchestrator {
	if maxConcurrentFetches <= 0 {
		maxConcurrentFetches = defaultMaxConcurrentFetches
	}
	if logger == nil {
		logger = log.GetSugaredLogger()
	}
	o := &Orchestrator{
		fetch:                fetch,
		uploader:             up,
		logger:               logger,
		maxConcurrentFetches: maxConcurrentFetches,
		workerSlots:          make(chan struct{}, maxConcurrentFetches),
		timerSlots:           make(chan struct{}, timerPoolSize),
		counters:             &metrics.Metrics{},
		durations:            metrics.NewDurationTracker(),
	}
	o.baseCtx, o.cancel = context.WithCancel(context.Background())
	return o
}

// runCtx derives a context canceled by the caller, by the returned stop
// function, or by a forced shutdown.
func (o *Orchestrator) runCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	unlink := context.AfterFunc(o.baseCtx, cancel)
	return ctx, func() {
		unlink()
		cancel()
	}
}

func (o *Orchestrator) isClosed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closed
}

// IngestStation runs the ingestion state machine for one station and
// returns the stored report with ingestion_duration_ms and
// storage_location attached. The station identifier is validated up
// front; a malformed one is rejected before any counter moves.
func (o *Orchestrator) IngestStation(ctx context.Context, stationID string) (wx.Report, error) {
	if o.isClosed() {
		return nil, ErrShutdown
	}
	id, err := wx.NormalizeStationID(stationID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := o.runCtx(ctx)
	defer cancel()
	return o.ingest(ctx, id)
}

// ingest is the state machine shared by every ingestion surface. Each
// terminal state moves exactly one counter: a fetch error other than
// NoData counts as a fetch failure, as does a record that fails
// validation.
func (o *Orchestrator) ingest(ctx context.Context, stationID string) (wx.Report, error) {
	start := time.Now()

	o.counters.IncFetchAttempts()
	report, err := o.fetch(ctx, stationID)
	if err != nil {
		if wxerr.IsKind(err, wxerr.KindNoData) {
			o.counters.IncNoData()
		} else {
			o.counters.IncFetchFailures()
		}
		return nil, err
	}
	if report == nil {
		o.counters.IncNoData()
		return nil, wxerr.NoData(stationID)
	}
	o.counters.IncFetchSuccesses()

	if err := validateReport(report); err != nil {
		o.counters.IncFetchFailures()
		return nil, err
	}

	key, err := o.uploader.Upload(ctx, report)
	if err != nil {
		o.counters.IncUploadFailures()
		return nil, err
	}
	o.counters.IncUploadSuccesses()

	elapsed := time.Since(start)
	env := report.Envelope()
	env.AddMetadata("storage_location", key)
	env.AddMetadata("ingestion_duration_ms", elapsed.Milliseconds())
	o.durations.Observe(elapsed)
	return report, nil
}

// validateReport checks the fields every stored record must carry.
func validateReport(report wx.Report) error {
	env := report.Envelope()
	if env.StationID == "" {
		return wxerr.New(wxerr.KindInvalidData, "fetched report without station identifier")
	}
	if env.RawData == "" {
		return wxerr.InvalidData(env.StationID, "fetched report without raw data")
	}
	if env.Source == "" {
		return wxerr.InvalidData(env.StationID, "fetched report without source")
	}
	return nil
}

// IngestStationsBatch fans the state machine out over the worker pool
// and returns the reports that succeeded, in completion order. The
// batch runs under a 2 minute budget; on expiry, stations not yet
// scheduled are dropped and whatever completed is returned. Per-station
// failures are logged and counted, not returned.
func (o *Orchestrator) IngestStationsBatch(ctx context.Context, stationIDs []string) []wx.Report {
	if o.isClosed() || len(stationIDs) == 0 {
		return nil
	}

	ctx, stop := o.runCtx(ctx)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, batchBudget)
	defer cancel()

	var (
		mu      sync.Mutex
		results []wx.Report
		wg      sync.WaitGroup
	)
	scheduled := 0

dispatch:
	for _, id := range stationIDs {
		id := id
		select {
		case o.workerSlots <- struct{}{}:
		case <-ctx.Done():
			o.logger.Warnf("batch budget exhausted, %d of %d stations not attempted",
				len(stationIDs)-scheduled, len(stationIDs))
			break dispatch
		}
		scheduled++
		wg.Add(1)
		o.workers.Add(1)
		go func() {
			defer func() {
				<-o.workerSlots
				o.workers.Done()
				wg.Done()
			}()
			report, err := o.ingest(ctx, id)
			if err != nil {
				o.logger.Warnf("station %s failed: %v", id, err)
				return
			}
			mu.Lock()
			results = append(results, report)
			mu.Unlock()
		}()
	}
	wg.Wait()
	return results
}

// IngestStationsSequential is the failure-visible variant: it walks the
// stations serially and returns an aggregate with every success and
// every per-station error.
func (o *Orchestrator) IngestStationsSequential(ctx context.Context, stationIDs []string) *metrics.IngestionResult {
	result := metrics.NewIngestionResult()
	if o.isClosed() {
		result.Finish()
		return result
	}

	ctx, stop := o.runCtx(ctx)
	defer stop()

	for _, id := range stationIDs {
		report, err := o.ingest(ctx, id)
		if err != nil {
			o.logger.Warnf("station %s failed: %v", id, err)
			result.AddFailure(id, err)
			continue
		}
		result.AddSuccess(report)
	}
	result.Finish()
	return result
}

// MetricsSnapshot reads the counter set.
func (o *Orchestrator) MetricsSnapshot() metrics.Snapshot { return o.counters.Snapshot() }

// DurationStats summarizes recent successful ingestion durations.
func (o *Orchestrator) DurationStats() metrics.DurationStats { return o.durations.Stats() }

// IsHealthy reports whether the orchestrator still accepts work.
func (o *Orchestrator) IsHealthy() bool { return !o.isClosed() }

// SetRunRecorder installs a callback invoked after every scheduled
// batch run. Pass nil to remove it.
func (o *Orchestrator) SetRunRecorder(fn RunRecorder) {
	o.mu.Lock()
	o.recordRun = fn
	o.mu.Unlock()
}

func (o *Orchestrator) runRecorder() RunRecorder {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.recordRun
}

// Shutdown stops intake, cancels the schedules, waits up to 60 s for
// the worker pool and 10 s for the timer pool, then forcibly cancels
// whatever remains. It never fails and is safe to call more than once.
func (o *Orchestrator) Shutdown() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	schedules := o.schedules
	o.schedules = nil
	o.mu.Unlock()

	for _, cancel := range schedules {
		cancel()
	}

	if !waitTimeout(&o.workers, workerGrace) {
		o.logger.Warn("worker pool did not drain within grace, forcing cancellation")
	}
	if !waitTimeout(&o.timers, timerGrace) {
		o.logger.Warn("timer pool did not drain within grace, forcing cancellation")
	}
	o.cancel()
	o.logger.Info("ingestion orchestrator shut down")
}

// waitTimeout waits for the group up to d and reports whether it
// drained in time.
func waitTimeout(wg *sync.WaitGroup, d time.Duration) bool {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}
