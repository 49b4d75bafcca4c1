package journal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/skewt/avwxingest/internal/metrics"
	"github.com/skewt/avwxingest/internal/wx"
	"github.com/skewt/avwxingest/internal/wxerr"
)

func TestNewRunRecord(t *testing.T) {
	result := metrics.NewIngestionResult()

	for _, id := range []string{"KJFK", "KBOS"} {
		report, err := wx.NewNOAAReport(wx.ReportMETAR, id)
		if err != nil {
			t.Fatalf("NewNOAAReport(%s): %v", id, err)
		}
		result.AddSuccess(report)
	}
	result.AddFailure("KORD", wxerr.New(wxerr.KindNetwork, "connection refused"))
	result.Finish()

	record, err := newRunRecord(wx.ReportMETAR, result)
	if err != nil {
		t.Fatalf("newRunRecord: %v", err)
	}

	if record.ReportType != string(wx.ReportMETAR) {
		t.Errorf("ReportType = %q, want %q", record.ReportType, wx.ReportMETAR)
	}
	if record.StationsRequested != 3 {
		t.Errorf("StationsRequested = %d, want 3", record.StationsRequested)
	}
	if record.StationsStored != 2 {
		t.Errorf("StationsStored = %d, want 2", record.StationsStored)
	}
	if record.StationsFailed != 1 {
		t.Errorf("StationsFailed = %d, want 1", record.StationsFailed)
	}
	if got, want := record.SuccessRate, 2.0/3.0; got != want {
		t.Errorf("SuccessRate = %v, want %v", got, want)
	}
	if record.DurationMs < 0 {
		t.Errorf("DurationMs = %d, want >= 0", record.DurationMs)
	}

	var failures map[string]string
	if err := json.Unmarshal(record.Failures.Bytes, &failures); err != nil {
		t.Fatalf("unmarshaling failures JSONB: %v", err)
	}
	if len(failures) != 1 {
		t.Fatalf("failures = %v, want one entry", failures)
	}
	if failures["KORD"] == "" {
		t.Errorf("failures[KORD] missing: %v", failures)
	}
}

func TestNewBatchRunRecord(t *testing.T) {
	record, err := newBatchRunRecord(wx.ReportMETAR, 5, 3, 1500*time.Millisecond)
	if err != nil {
		t.Fatalf("newBatchRunRecord: %v", err)
	}

	if record.StationsRequested != 5 || record.StationsStored != 3 || record.StationsFailed != 2 {
		t.Errorf("counts = %d/%d/%d, want 5/3/2",
			record.StationsRequested, record.StationsStored, record.StationsFailed)
	}
	if got, want := record.SuccessRate, 3.0/5.0; got != want {
		t.Errorf("SuccessRate = %v, want %v", got, want)
	}
	if record.DurationMs != 1500 {
		t.Errorf("DurationMs = %d, want 1500", record.DurationMs)
	}

	var failures map[string]string
	if err := json.Unmarshal(record.Failures.Bytes, &failures); err != nil {
		t.Fatalf("unmarshaling failures JSONB: %v", err)
	}
	if len(failures) != 0 {
		t.Errorf("failures = %v, want empty map", failures)
	}
}

func TestNewBatchRunRecordZeroRequested(t *testing.T) {
	record, err := newBatchRunRecord(wx.ReportTAF, 0, 0, 0)
	if err != nil {
		t.Fatalf("newBatchRunRecord: %v", err)
	}
	if record.SuccessRate != 0 {
		t.Errorf("SuccessRate = %v, want 0 when nothing was requested", record.SuccessRate)
	}
}

func TestNewRunRecordEmptyRun(t *testing.T) {
	result := metrics.NewIngestionResult()
	result.Finish()

	record, err := newRunRecord(wx.ReportTAF, result)
	if err != nil {
		t.Fatalf("newRunRecord: %v", err)
	}

	if record.StationsRequested != 0 || record.StationsStored != 0 || record.StationsFailed != 0 {
		t.Errorf("empty run produced counts %d/%d/%d, want zeros",
			record.StationsRequested, record.StationsStored, record.StationsFailed)
	}
	if record.SuccessRate != 0 {
		t.Errorf("SuccessRate = %v, want 0", record.SuccessRate)
	}

	var failures map[string]string
	if err := json.Unmarshal(record.Failures.Bytes, &failures); err != nil {
		t.Fatalf("unmarshaling failures JSONB: %v", err)
	}
	if len(failures) != 0 {
		t.Errorf("failures = %v, want empty map", failures)
	}
}
