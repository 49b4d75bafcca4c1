package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
ingest:
  metar-stations:
    - KJFK
    - KLGA
  taf-stations:
    - KBOS
  interval-minutes: 10
  max-concurrent-fetches: 10
  request-timeout-seconds: 30
  api-endpoint: https://aviationweather.gov/api/data
  user-agent: avwxingest/1.0
storage:
  backend: s3
  s3:
    bucket: avwx-reports
    region: us-east-1
    access-key: AKIATEST
    secret-key: shhh
    use-path-style: true
journal:
  connection-string: postgres://wx:wx@localhost/wx
status:
  listen-addr: 127.0.0.1
  port: 8081
`

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

func TestYAMLProviderLoadConfig(t *testing.T) {
	provider := NewYAMLProvider(writeTempConfig(t, sampleYAML))
	defer provider.Close()

	cfg, err := provider.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if len(cfg.Ingest.METARStations) != 2 || cfg.Ingest.METARStations[0] != "KJFK" {
		t.Errorf("METAR stations = %v", cfg.Ingest.METARStations)
	}
	if len(cfg.Ingest.TAFStations) != 1 || cfg.Ingest.TAFStations[0] != "KBOS" {
		t.Errorf("TAF stations = %v", cfg.Ingest.TAFStations)
	}
	if cfg.Ingest.IntervalMinutes != 10 || cfg.Ingest.MaxConcurrentFetches != 10 {
		t.Errorf("ingest settings = %+v", cfg.Ingest)
	}
	if cfg.Ingest.APIEndpoint != "https://aviationweather.gov/api/data" {
		t.Errorf("api endpoint = %q", cfg.Ingest.APIEndpoint)
	}

	if cfg.Storage.Backend != "s3" {
		t.Errorf("storage backend = %q", cfg.Storage.Backend)
	}
	if cfg.Storage.S3 == nil || cfg.Storage.S3.Bucket != "avwx-reports" || !cfg.Storage.S3.UsePathStyle {
		t.Errorf("s3 settings = %+v", cfg.Storage.S3)
	}
	if cfg.Storage.GCS != nil {
		t.Error("gcs settings present without a gcs section")
	}

	if cfg.Journal.GetConnectionString() != "postgres://wx:wx@localhost/wx" {
		t.Errorf("journal connection string = %q", cfg.Journal.GetConnectionString())
	}
	if cfg.Status == nil || cfg.Status.Port != 8081 || cfg.Status.ListenAddr != "127.0.0.1" {
		t.Errorf("status settings = %+v", cfg.Status)
	}

	if !provider.IsReadOnly() {
		t.Error("YAML provider must be read-only")
	}
}

func TestYAMLProviderSectionGettersLoadLazily(t *testing.T) {
	provider := NewYAMLProvider(writeTempConfig(t, sampleYAML))
	defer provider.Close()

	ingest, err := provider.GetIngestConfig()
	if err != nil {
		t.Fatalf("GetIngestConfig: %v", err)
	}
	if len(ingest.METARStations) != 2 {
		t.Errorf("METAR stations = %v", ingest.METARStations)
	}

	storage, err := provider.GetStorageConfig()
	if err != nil {
		t.Fatalf("GetStorageConfig: %v", err)
	}
	if storage.Backend != "s3" {
		t.Errorf("backend = %q", storage.Backend)
	}
}

func TestYAMLProviderOptionalSectionsAbsent(t *testing.T) {
	minimal := `
ingest:
  metar-stations: [KJFK]
storage:
  backend: memory
`
	provider := NewYAMLProvider(writeTempConfig(t, minimal))
	defer provider.Close()

	cfg, err := provider.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Journal != nil {
		t.Errorf("journal = %+v, want nil", cfg.Journal)
	}
	if cfg.Status != nil {
		t.Errorf("status = %+v, want nil", cfg.Status)
	}
	if cfg.Journal.GetConnectionString() != "" {
		t.Error("nil journal must read as an empty connection string")
	}
}

func TestYAMLProviderMissingFile(t *testing.T) {
	provider := NewYAMLProvider(filepath.Join(t.TempDir(), "absent.yaml"))
	if _, err := provider.LoadConfig(); err == nil {
		t.Fatal("expected error for a missing file")
	}
}
