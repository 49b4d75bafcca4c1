// Command metar-ingest pulls current METARs for a set of stations and
// stores them in the configured object store. The default mode runs one
// parallel batch; -sequential walks the stations serially and reports
// every failure; -continuous re-runs batches on an interval for a
// bounded duration.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/skewt/avwxingest/internal/ingest"
	"github.com/skewt/avwxingest/internal/log"
	"github.com/skewt/avwxingest/internal/managers"
	"github.com/skewt/avwxingest/internal/noaa"
	"github.com/skewt/avwxingest/internal/speedlayer"
	"github.com/skewt/avwxingest/internal/uploader"
	"github.com/skewt/avwxingest/internal/wx"
	"github.com/skewt/avwxingest/internal/wxerr"
	"github.com/skewt/avwxingest/pkg/config"
)

const reportType = wx.ReportMETAR

var (
	okColor     = color.New(color.FgGreen)
	failColor   = color.New(color.FgRed)
	noDataColor = color.New(color.FgYellow)
)

func main() {
	os.Exit(run())
}

func run() int {
	cfgFile := flag.String("config", "config.yaml", "Path to configuration source (YAML file or SQLite database)")
	cfgBackend := flag.String("config-backend", "yaml", "Configuration backend type: 'yaml' or 'sqlite'")
	stationList := flag.String("stations", "", "Comma-separated station identifiers (overrides the configured list)")
	sequential := flag.Bool("sequential", false, "Ingest stations one at a time and report every failure")
	continuous := flag.Bool("continuous", false, "Re-run batches on an interval for a bounded duration")
	intervalSeconds := flag.Int("interval-seconds", 60, "Seconds between batches in continuous mode")
	durationMinutes := flag.Int("duration-minutes", 60, "Total minutes to keep running in continuous mode")
	noColor := flag.Bool("no-color", false, "Disable colorized output")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	flag.Parse()

	if *noColor {
		color.NoColor = true
	}

	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		return 1
	}
	defer log.Sync()
	logger := log.GetSugaredLogger()

	cfg, err := loadConfig(*cfgFile, *cfgBackend)
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		return 1
	}

	stations := splitStations(*stationList)
	if len(stations) == 0 {
		stations = cfg.Ingest.METARStations
	}
	if len(stations) == 0 {
		log.Error("no stations to ingest: pass -stations or configure metar-stations")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storageManager, err := managers.NewStorageManager(ctx, &cfg.Storage, logger)
	if err != nil {
		log.Errorf("Failed to initialize storage: %v", err)
		return 1
	}
	defer storageManager.Close()

	client := noaa.NewClient(noaa.ClientConfig{
		BaseURL:        cfg.Ingest.APIEndpoint,
		RequestTimeout: time.Duration(cfg.Ingest.RequestTimeoutSeconds) * time.Second,
		UserAgent:      cfg.Ingest.UserAgent,
	}, logger)
	up := uploader.New(storageManager.Store, logger)

	if *continuous {
		processor := speedlayer.New(client, up, reportType, cfg.Ingest.MaxConcurrentFetches, logger)
		defer processor.Shutdown()
		processor.RunContinuous(ctx, stations,
			time.Duration(*intervalSeconds)*time.Second,
			time.Duration(*durationMinutes)*time.Minute)
		fmt.Printf("continuous run ended, %d station failures\n", processor.FailureCount())
		return 0
	}

	orch := ingest.New(ingest.METARSource(client), up, cfg.Ingest.MaxConcurrentFetches, logger)
	defer orch.Shutdown()

	if *sequential {
		return runSequential(ctx, orch, stations)
	}
	return runBatch(ctx, orch, stations)
}

// runSequential prints one line per station and fails the process when
// any station failed.
func runSequential(ctx context.Context, orch *ingest.Orchestrator, stations []string) int {
	result := orch.IngestStationsSequential(ctx, stations)

	failures := result.Failures()
	for _, id := range stations {
		err, failed := failures[id]
		switch {
		case !failed:
			okColor.Printf("OK      %s\n", id)
		case wxerr.IsKind(err, wxerr.KindNoData):
			noDataColor.Printf("NO DATA %s\n", id)
		default:
			failColor.Printf("FAIL    %s: %v\n", id, err)
		}
	}

	fmt.Printf("%d/%d stations stored in %s (%.0f%% success)\n",
		result.SuccessCount(), result.TotalStations(),
		result.Duration().Round(time.Millisecond), result.SuccessRate()*100)
	if result.FailureCount() > 0 {
		return 1
	}
	return 0
}

// runBatch runs one parallel batch. Per-station failures are counted
// and logged, not fatal.
func runBatch(ctx context.Context, orch *ingest.Orchestrator, stations []string) int {
	start := time.Now()
	reports := orch.IngestStationsBatch(ctx, stations)
	elapsed := time.Since(start).Round(time.Millisecond)

	stored := make(map[string]bool, len(reports))
	for _, report := range reports {
		stored[report.Envelope().StationID] = true
	}
	for _, id := range stations {
		normalized, err := wx.NormalizeStationID(id)
		if err == nil && stored[normalized] {
			okColor.Printf("OK      %s\n", id)
		} else {
			failColor.Printf("FAIL    %s\n", id)
		}
	}

	snap := orch.MetricsSnapshot()
	fmt.Printf("%d/%d stations stored in %s (fetch failures: %d, no data: %d, upload failures: %d)\n",
		len(reports), len(stations), elapsed,
		snap.FetchFailures, snap.NoDataCount, snap.UploadFailures)
	return 0
}

func splitStations(raw string) []string {
	if raw == "" {
		return nil
	}
	var stations []string
	for _, id := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			stations = append(stations, trimmed)
		}
	}
	return stations
}

func loadConfig(cfgFile, cfgBackend string) (*config.ConfigData, error) {
	filename, _ := filepath.Abs(cfgFile)

	var provider config.ConfigProvider
	var err error

	switch cfgBackend {
	case "yaml":
		provider = config.NewYAMLProvider(filename)
	case "sqlite":
		provider, err = config.NewSQLiteProvider(filename)
		if err != nil {
			return nil, fmt.Errorf("error creating SQLite provider: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported configuration backend: %s. Use 'yaml' or 'sqlite'", cfgBackend)
	}
	defer provider.Close()

	return provider.LoadConfig()
}
