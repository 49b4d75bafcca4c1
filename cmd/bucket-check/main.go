// Command bucket-check probes the configured object-store bucket and
// exits 0 when it is reachable, 1 otherwise.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/skewt/avwxingest/internal/log"
	"github.com/skewt/avwxingest/internal/managers"
	"github.com/skewt/avwxingest/internal/uploader"
	"github.com/skewt/avwxingest/pkg/config"
)

func main() {
	cfgFile := flag.String("config", "config.yaml", "Path to configuration source (YAML file or SQLite database)")
	cfgBackend := flag.String("config-backend", "yaml", "Configuration backend type: 'yaml' or 'sqlite'")
	timeoutSeconds := flag.Int("timeout-seconds", 10, "Probe timeout in seconds")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	flag.Parse()

	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := loadConfig(*cfgFile, *cfgBackend)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(*timeoutSeconds)*time.Second)
	defer cancel()

	storageManager, err := managers.NewStorageManager(ctx, &cfg.Storage, log.GetSugaredLogger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing storage: %v\n", err)
		os.Exit(1)
	}
	defer storageManager.Close()

	up := uploader.New(storageManager.Store, log.GetSugaredLogger())
	if !up.HeadBucket(ctx) {
		fmt.Printf("✗ %s bucket is unreachable\n", storageManager.Backend())
		os.Exit(1)
	}
	fmt.Printf("✓ %s bucket is reachable\n", storageManager.Backend())
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
