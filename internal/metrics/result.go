package metrics

import (
	"time"

	"github.com/skewt/avwxingest/internal/wx"
)

// IngestionResult aggregates one sequential batch run: which stations
// produced a report, which failed and why, and how long the run took.
//
// It is single-writer: the iterating caller appends while the run is in
// progress and other goroutines read it only after Finish.
type IngestionResult struct {
	started  time.Time
	duration time.Duration
	finished bool

	reports  []wx.Report
	failures map[string]error
}

// NewIngestionResult starts the run clock.
func NewIngestionResult() *IngestionResult {
	return &IngestionResult{
		started:  time.Now(),
		failures: make(map[string]error),
	}
}

// AddSuccess records a station that produced a stored report.
func (r *IngestionResult) AddSuccess(report wx.Report) {
	r.reports = append(r.reports, report)
}

// AddFailure records a station's terminal error.
func (r *IngestionResult) AddFailure(stationID string, err error) {
	r.failures[stationID] = err
}

// Finish stops the run clock. Calling it again keeps the first duration.
func (r *IngestionResult) Finish() {
	if !r.finished {
		r.duration = time.Since(r.started)
		r.finished = true
	}
}

// Reports returns the successful reports in the order they were recorded.
func (r *IngestionResult) Reports() []wx.Report { return r.reports }

// Failures maps failed station ids to their terminal errors.
func (r *IngestionResult) Failures() map[string]error { return r.failures }

func (r *IngestionResult) SuccessCount() int { return len(r.reports) }
func (r *IngestionResult) FailureCount() int { return len(r.failures) }

// TotalStations is the number of stations the run attempted.
func (r *IngestionResult) TotalStations() int { return len(r.reports) + len(r.failures) }

// SuccessRate is successes over attempts; zero when nothing was attempted.
func (r *IngestionResult) SuccessRate() float64 {
	total := r.TotalStations()
	if total == 0 {
		return 0
	}
	return float64(len(r.reports)) / float64(total)
}

// Duration is the wall-clock span of the run; until Finish is called it
// reports the elapsed time so far.
func (r *IngestionResult) Duration() time.Duration {
	if r.finished {
		return r.duration
	}
	return time.Since(r.started)
}
