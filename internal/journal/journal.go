// Package journal persists one row per ingestion run to TimescaleDB.
//
// The journal is an audit trail, not a dependency of the ingestion path:
// callers record runs after the fact and treat journal errors as
// log-and-continue. A deployment without a journal connection string
// simply runs without one.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgtype"
	"gorm.io/gorm"

	"github.com/skewt/avwxingest/internal/database"
	"github.com/skewt/avwxingest/internal/log"
	"github.com/skewt/avwxingest/internal/metrics"
	"github.com/skewt/avwxingest/internal/wx"
	"go.uber.org/zap"
)

// IngestionRunRecord is one completed ingestion run. CreatedAt from
// gorm.Model dates the row; DurationMs is the wall-clock span of the run.
type IngestionRunRecord struct {
	gorm.Model

	ReportType        string       `gorm:"index:idx_runs_report_type;not null"`
	StationsRequested int          `gorm:"not null"`
	StationsStored    int          `gorm:"not null"`
	StationsFailed    int          `gorm:"not null"`
	SuccessRate       float64      `gorm:"not null"`
	DurationMs        int64        `gorm:"not null"`
	Failures          pgtype.JSONB `gorm:"type:jsonb;default:'{}';not null"`
}

func (IngestionRunRecord) TableName() string {
	return "ingestion_runs"
}

// Journal writes run records through a shared database client.
type Journal struct {
	db     *database.Client
	logger *zap.SugaredLogger
}

// New connects to TimescaleDB and ensures the journal table exists.
func New(connectionString string, logger *zap.SugaredLogger) (*Journal, error) {
	db, err := database.NewClient(connectionString, logger)
	if err != nil {
		return nil, fmt.Errorf("error connecting to journal database: %w", err)
	}

	j := &Journal{
		db:     db,
		logger: logger,
	}

	if err := j.CreateTables(); err != nil {
		return nil, err
	}

	return j, nil
}

// CreateTables migrates the journal schema.
func (j *Journal) CreateTables() error {
	err := j.db.DB.AutoMigrate(IngestionRunRecord{})
	if err != nil {
		return fmt.Errorf("error creating ingestion_runs table: %w", err)
	}
	return nil
}

// RecordRun stores the outcome of one finished run.
func (j *Journal) RecordRun(ctx context.Context, reportType wx.ReportType, result *metrics.IngestionResult) error {
	record, err := newRunRecord(reportType, result)
	if err != nil {
		return err
	}

	if err := j.db.DB.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("error saving ingestion run record: %w", err)
	}

	log.Debugf("journaled %s run: %d/%d stations stored", reportType, record.StationsStored, record.StationsRequested)
	return nil
}

// RecordBatchRun stores the outcome of a scheduled batch run, which
// reports totals only: per-station failures are logged by the
// orchestrator but not collected, so the failures column stays empty.
func (j *Journal) RecordBatchRun(ctx context.Context, reportType wx.ReportType, requested, stored int, elapsed time.Duration) error {
	record, err := newBatchRunRecord(reportType, requested, stored, elapsed)
	if err != nil {
		return err
	}

	if err := j.db.DB.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("error saving ingestion run record: %w", err)
	}

	log.Debugf("journaled %s run: %d/%d stations stored", reportType, stored, requested)
	return nil
}

// RecentRuns returns up to limit runs for a report type, newest first.
// An empty reportType returns runs of every type.
func (j *Journal) RecentRuns(ctx context.Context, reportType wx.ReportType, limit int) ([]IngestionRunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	var records []IngestionRunRecord
	q := j.db.DB.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if reportType != "" {
		q = q.Where("report_type = ?", string(reportType))
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("error querying ingestion run records: %w", err)
	}

	return records, nil
}

// Health pings the journal database.
func (j *Journal) Health(ctx context.Context) error {
	return j.db.Health(ctx)
}

// Close releases the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

func newBatchRunRecord(reportType wx.ReportType, requested, stored int, elapsed time.Duration) (*IngestionRunRecord, error) {
	failed := requested - stored
	if failed < 0 {
		failed = 0
	}
	rate := 0.0
	if requested > 0 {
		rate = float64(stored) / float64(requested)
	}

	record := &IngestionRunRecord{
		ReportType:        string(reportType),
		StationsRequested: requested,
		StationsStored:    stored,
		StationsFailed:    failed,
		SuccessRate:       rate,
		DurationMs:        int64(elapsed / time.Millisecond),
	}
	if err := record.Failures.Set([]byte("{}")); err != nil {
		return nil, fmt.Errorf("unable to set run failures JSONB: %w", err)
	}
	return record, nil
}

func newRunRecord(reportType wx.ReportType, result *metrics.IngestionResult) (*IngestionRunRecord, error) {
	failures := make(map[string]string, result.FailureCount())
	for stationID, err := range result.Failures() {
		failures[stationID] = err.Error()
	}

	failuresJSON, err := json.Marshal(failures)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal run failures: %w", err)
	}

	record := &IngestionRunRecord{
		ReportType:        string(reportType),
		StationsRequested: result.TotalStations(),
		StationsStored:    result.SuccessCount(),
		StationsFailed:    result.FailureCount(),
		SuccessRate:       result.SuccessRate(),
		DurationMs:        int64(result.Duration() / time.Millisecond),
	}
	if err := record.Failures.Set(failuresJSON); err != nil {
		return nil, fmt.Errorf("unable to set run failures JSONB: %w", err)
	}

	return record, nil
}
