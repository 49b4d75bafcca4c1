package ingest

import (
	"context"
	"time"

	"github.com/skewt/avwxingest/internal/wxerr"
)

// SchedulePeriodicIngestion dispatches IngestStationsBatch for the
// stations at a fixed rate: the first run starts immediately and each
// subsequent run is dispatched interval after the start of the one
// before, regardless of how long runs take. Overlapping runs are
// permitted; they contend for the two timer slots and the shared
// worker pool, so a run that outlives the interval delays dispatch
// beyond two in flight rather than being skipped.
//
// The returned token cancels the schedule: no further runs are
// dispatched and runs still in flight are interrupted. Shutdown cancels
// every live schedule the same way.
func (o *Orchestrator) SchedulePeriodicIngestion(stationIDs []string, interval time.Duration) (func(), error) {
	if len(stationIDs) == 0 {
		return nil, wxerr.New(wxerr.KindInvalidStationCode, "no station identifiers given")
	}
	if interval <= 0 {
		return nil, wxerr.Newf(wxerr.KindInvalidData, "non-positive ingestion interval %v", interval)
	}

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil, ErrShutdown
	}
	sctx, scancel := context.WithCancel(context.Background())
	o.schedules = append(o.schedules, scancel)
	o.mu.Unlock()

	o.logger.Infof("scheduling periodic ingestion of %d stations every %v", len(stationIDs), interval)

	o.timers.Add(1)
	go func() {
		defer o.timers.Done()

		// A ticker only starts firing after the interval has elapsed,
		// so the first run is dispatched before the ticker starts.
		o.dispatchScheduledRun(sctx, stationIDs)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-sctx.Done():
				return
			case <-ticker.C:
				o.dispatchScheduledRun(sctx, stationIDs)
			}
		}
	}()

	return scancel, nil
}

// dispatchScheduledRun hands one batch run to the timer pool without
// blocking the dispatch loop.
func (o *Orchestrator) dispatchScheduledRun(sctx context.Context, stationIDs []string) {
	o.timers.Add(1)
	go func() {
		defer o.timers.Done()
		select {
		case o.timerSlots <- struct{}{}:
			defer func() { <-o.timerSlots }()
		case <-sctx.Done():
			return
		}
		start := time.Now()
		reports := o.IngestStationsBatch(sctx, stationIDs)
		elapsed := time.Since(start)
		o.logger.Infof("scheduled run finished: %d/%d stations stored", len(reports), len(stationIDs))
		if record := o.runRecorder(); record != nil {
			record(len(stationIDs), len(reports), elapsed)
		}
	}()
}
