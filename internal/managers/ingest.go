// Package managers wires configuration into running subsystems: the
// object-store backend and the per-report-type ingestion orchestrators.
package managers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/skewt/avwxingest/internal/ingest"
	"github.com/skewt/avwxingest/internal/journal"
	"github.com/skewt/avwxingest/internal/noaa"
	"github.com/skewt/avwxingest/internal/storage"
	"github.com/skewt/avwxingest/internal/uploader"
	"github.com/skewt/avwxingest/internal/wx"
	"github.com/skewt/avwxingest/pkg/config"
)

const (
	defaultIngestInterval = 10 * time.Minute
	journalWriteTimeout   = 10 * time.Second
)

// IngestManager owns the upstream client, the uploader, and one
// orchestrator per report type that has stations configured.
type IngestManager struct {
	client        *noaa.Client
	uploader      *uploader.Uploader
	orchestrators map[wx.ReportType]*ingest.Orchestrator
	stations      map[wx.ReportType][]string
	interval      time.Duration
	journal       *journal.Journal
	logger        *zap.SugaredLogger
}

// NewIngestManager builds the upstream client from the ingestion
// configuration and an orchestrator for each report type with at least
// one station. A configuration naming no stations at all is rejected.
func NewIngestManager(cfg *config.IngestData, store storage.BlobStore, logger *zap.SugaredLogger) (*IngestManager, error) {
	if len(cfg.METARStations) == 0 && len(cfg.TAFStations) == 0 {
		return nil, fmt.Errorf("no stations configured for any report type")
	}

	client := noaa.NewClient(noaa.ClientConfig{
		BaseURL:        cfg.APIEndpoint,
		RequestTimeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		UserAgent:      cfg.UserAgent,
	}, logger)

	interval := time.Duration(cfg.IntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = defaultIngestInterval
	}

	m := &IngestManager{
		client:        client,
		uploader:      uploader.New(store, logger),
		orchestrators: make(map[wx.ReportType]*ingest.Orchestrator),
		stations:      make(map[wx.ReportType][]string),
		interval:      interval,
		logger:        logger,
	}

	if len(cfg.METARStations) > 0 {
		m.orchestrators[wx.ReportMETAR] = ingest.New(ingest.METARSource(client), m.uploader, cfg.MaxConcurrentFetches, logger)
		m.stations[wx.ReportMETAR] = cfg.METARStations
	}
	if len(cfg.TAFStations) > 0 {
		m.orchestrators[wx.ReportTAF] = ingest.New(ingest.TAFSource(client), m.uploader, cfg.MaxConcurrentFetches, logger)
		m.stations[wx.ReportTAF] = cfg.TAFStations
	}

	return m, nil
}

// SetJournal attaches the run journal. Must be called before
// StartScheduledIngestion to take effect.
func (m *IngestManager) SetJournal(j *journal.Journal) {
	m.journal = j
}

// StartScheduledIngestion begins the periodic runs for every configured
// report type. When a journal is attached, each finished run is recorded
// there; journal failures are logged and do not disturb ingestion.
func (m *IngestManager) StartScheduledIngestion() error {
	for reportType, orch := range m.orchestrators {
		if m.journal != nil {
			orch.SetRunRecorder(m.journalRecorder(reportType))
		}
		if _, err := orch.SchedulePeriodicIngestion(m.stations[reportType], m.interval); err != nil {
			return fmt.Errorf("could not schedule %s ingestion: %w", reportType, err)
		}
		m.logger.Infof("scheduled %s ingestion of %d stations every %v",
			reportType, len(m.stations[reportType]), m.interval)
	}
	return nil
}

func (m *IngestManager) journalRecorder(reportType wx.ReportType) ingest.RunRecorder {
	return func(requested, stored int, elapsed time.Duration) {
		ctx, cancel := context.WithTimeout(context.Background(), journalWriteTimeout)
		defer cancel()
		if err := m.journal.RecordBatchRun(ctx, reportType, requested, stored, elapsed); err != nil {
			m.logger.Errorf("could not journal %s run: %v", reportType, err)
		}
	}
}

// Orchestrators exposes the live orchestrators keyed by report type.
func (m *IngestManager) Orchestrators() map[wx.ReportType]*ingest.Orchestrator {
	return m.orchestrators
}

// Uploader exposes the shared uploader.
func (m *IngestManager) Uploader() *uploader.Uploader {
	return m.uploader
}

// Healthy reports whether every orchestrator still accepts work.
func (m *IngestManager) Healthy() bool {
	for _, orch := range m.orchestrators {
		if !orch.IsHealthy() {
			return false
		}
	}
	return true
}

// Shutdown stops the schedules and drains each orchestrator in turn.
func (m *IngestManager) Shutdown() {
	for reportType, orch := range m.orchestrators {
		m.logger.Infof("shutting down %s ingestion", reportType)
		orch.Shutdown()
	}
}
