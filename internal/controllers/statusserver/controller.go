// Package statusserver serves the operational status endpoints: health,
// ingestion metrics, version, and recent journaled runs. It reports on
// the pipeline; stored reports are not served here.
package statusserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/skewt/avwxingest/internal/ingest"
	"github.com/skewt/avwxingest/internal/journal"
	"github.com/skewt/avwxingest/internal/log"
	"github.com/skewt/avwxingest/internal/uploader"
	"github.com/skewt/avwxingest/internal/wx"
	"github.com/skewt/avwxingest/pkg/config"
)

// Deps carries the live subsystems the status endpoints report on. The
// journal is optional; without one the runs endpoint is not routed.
type Deps struct {
	Orchestrators map[wx.ReportType]*ingest.Orchestrator
	Uploader      *uploader.Uploader
	Journal       *journal.Journal
	Version       string
}

// Controller represents the status server controller
type Controller struct {
	ctx          context.Context
	wg           *sync.WaitGroup
	statusConfig config.StatusData
	Server       http.Server
	deps         Deps
	started      time.Time
	logger       *zap.SugaredLogger
	handlers     *Handlers
}

// NewController creates a new status server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, sc config.StatusData, deps Deps, logger *zap.SugaredLogger) (*Controller, error) {
	if len(deps.Orchestrators) == 0 {
		return nil, fmt.Errorf("status server has no orchestrators to report on")
	}
	if deps.Uploader == nil {
		return nil, fmt.Errorf("status server requires an uploader for the storage probe")
	}

	// If a ListenAddr was not provided, listen on all interfaces
	if sc.ListenAddr == "" {
		logger.Info("status.listen_addr not provided; defaulting to 0.0.0.0 (all interfaces)")
		sc.ListenAddr = "0.0.0.0"
	}
	if sc.Port == 0 {
		logger.Info("status.port not provided; defaulting to 8120")
		sc.Port = 8120
	}

	ctrl := &Controller{
		ctx:          ctx,
		wg:           wg,
		statusConfig: sc,
		deps:         deps,
		started:      time.Now(),
		logger:       logger,
	}

	ctrl.handlers = NewHandlers(ctrl)

	router := ctrl.setupRouter()
	ctrl.Server.Addr = fmt.Sprintf("%v:%v", sc.ListenAddr, sc.Port)
	ctrl.Server.Handler = router

	return ctrl, nil
}

// StartController starts the status server
func (c *Controller) StartController() error {
	log.Info("Starting status server controller...")
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
			log.Errorf("status server error: %v", err)
		}
	}()

	go func() {
		<-c.ctx.Done()
		log.Info("Shutting down the status server...")
		c.Server.Shutdown(context.Background())
	}()

	return nil
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", c.handlers.GetHealth)
	router.HandleFunc("/metrics", c.handlers.GetMetrics)
	router.HandleFunc("/version", c.handlers.GetVersion)

	// We only enable the /ingest/runs endpoint if a journal has been configured.
	if c.deps.Journal != nil {
		router.HandleFunc("/ingest/runs", c.handlers.GetRecentRuns)
	}

	return router
}
