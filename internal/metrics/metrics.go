// Package metrics tracks ingestion pipeline counters and per-run result
// aggregates.
//
// Counters mutate atomically and independently. A Snapshot reads each
// counter atomically but is not a consistent cross-counter view, so
// derived rates are approximate while ingestion is running.
package metrics

import "sync/atomic"

// Metrics is the shared counter set for one orchestrator instance. The
// zero value is ready to use.
type Metrics struct {
	fetchAttempts   atomic.Int64
	fetchSuccesses  atomic.Int64
	fetchFailures   atomic.Int64
	noDataCount     atomic.Int64
	uploadSuccesses atomic.Int64
	uploadFailures  atomic.Int64
}

func (m *Metrics) IncFetchAttempts()   { m.fetchAttempts.Add(1) }
func (m *Metrics) IncFetchSuccesses()  { m.fetchSuccesses.Add(1) }
func (m *Metrics) IncFetchFailures()   { m.fetchFailures.Add(1) }
func (m *Metrics) IncNoData()          { m.noDataCount.Add(1) }
func (m *Metrics) IncUploadSuccesses() { m.uploadSuccesses.Add(1) }
func (m *Metrics) IncUploadFailures()  { m.uploadFailures.Add(1) }

// Snapshot is a point-in-time read of the counters plus derived rates.
type Snapshot struct {
	FetchAttempts   int64 `json:"fetch_attempts"`
	FetchSuccesses  int64 `json:"fetch_successes"`
	FetchFailures   int64 `json:"fetch_failures"`
	NoDataCount     int64 `json:"no_data_count"`
	UploadSuccesses int64 `json:"upload_successes"`
	UploadFailures  int64 `json:"upload_failures"`

	FetchSuccessRate  float64 `json:"fetch_success_rate"`
	UploadSuccessRate float64 `json:"upload_success_rate"`
}

// Snapshot loads every counter atomically. Counters may advance between
// loads; callers must treat the rates as approximate.
func (m *Metrics) Snapshot() Snapshot {
	s := Snapshot{
		FetchAttempts:   m.fetchAttempts.Load(),
		FetchSuccesses:  m.fetchSuccesses.Load(),
		FetchFailures:   m.fetchFailures.Load(),
		NoDataCount:     m.noDataCount.Load(),
		UploadSuccesses: m.uploadSuccesses.Load(),
		UploadFailures:  m.uploadFailures.Load(),
	}
	if s.FetchAttempts > 0 {
		s.FetchSuccessRate = float64(s.FetchSuccesses) / float64(s.FetchAttempts)
	}
	if attempted := s.UploadSuccesses + s.UploadFailures; attempted > 0 {
		s.UploadSuccessRate = float64(s.UploadSuccesses) / float64(attempted)
	}
	return s
}
