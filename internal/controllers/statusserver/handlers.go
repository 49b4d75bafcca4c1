package statusserver

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/skewt/avwxingest/internal/log"
	"github.com/skewt/avwxingest/internal/metrics"
	"github.com/skewt/avwxingest/internal/wx"
	"github.com/skewt/avwxingest/pkg/responseformat"
)

const healthProbeTimeout = 5 * time.Second

// Handlers contains all HTTP handlers for the status server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

type healthResponse struct {
	Status           string          `json:"status"`
	UptimeSeconds    int64           `json:"uptime_seconds"`
	Orchestrators    map[string]bool `json:"orchestrators"`
	StorageReachable bool            `json:"storage_reachable"`
	Journal          string          `json:"journal,omitempty"`
}

// GetHealth reports whether the pipeline is live: every orchestrator
// still accepting work and the object store answering its probe. The
// journal state is reported but does not degrade health, since journal
// failures never disturb ingestion.
func (h *Handlers) GetHealth(w http.ResponseWriter, req *http.Request) {
	c := h.controller

	resp := healthResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(c.started).Seconds()),
		Orchestrators: make(map[string]bool, len(c.deps.Orchestrators)),
	}

	healthy := true
	for reportType, orch := range c.deps.Orchestrators {
		ok := orch.IsHealthy()
		resp.Orchestrators[string(reportType)] = ok
		healthy = healthy && ok
	}

	ctx, cancel := context.WithTimeout(req.Context(), healthProbeTimeout)
	defer cancel()
	resp.StorageReachable = c.deps.Uploader.HeadBucket(ctx)
	healthy = healthy && resp.StorageReachable

	if c.deps.Journal != nil {
		if err := c.deps.Journal.Health(ctx); err != nil {
			resp.Journal = "unreachable"
		} else {
			resp.Journal = "ok"
		}
	}

	status := http.StatusOK
	if !healthy {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}

	if err := h.formatter.WriteResponse(w, req, status, resp); err != nil {
		log.Errorf("error writing health response: %v", err)
	}
}

type orchestratorMetrics struct {
	Counters  metrics.Snapshot      `json:"counters"`
	Durations metrics.DurationStats `json:"durations"`
}

// GetMetrics returns per-report-type ingestion counters and duration
// statistics.
func (h *Handlers) GetMetrics(w http.ResponseWriter, req *http.Request) {
	c := h.controller

	resp := make(map[string]orchestratorMetrics, len(c.deps.Orchestrators))
	for reportType, orch := range c.deps.Orchestrators {
		resp[string(reportType)] = orchestratorMetrics{
			Counters:  orch.MetricsSnapshot(),
			Durations: orch.DurationStats(),
		}
	}

	if err := h.formatter.WriteResponse(w, req, http.StatusOK, resp); err != nil {
		log.Errorf("error writing metrics response: %v", err)
	}
}

// GetVersion returns the running version string.
func (h *Handlers) GetVersion(w http.ResponseWriter, req *http.Request) {
	resp := map[string]string{"version": h.controller.deps.Version}
	if err := h.formatter.WriteResponse(w, req, http.StatusOK, resp); err != nil {
		log.Errorf("error writing version response: %v", err)
	}
}

// runJSON is the wire shape of one journaled ingestion run.
type runJSON struct {
	ID                uint      `json:"id"`
	RecordedAt        time.Time `json:"recorded_at"`
	ReportType        string    `json:"report_type"`
	StationsRequested int       `json:"stations_requested"`
	StationsStored    int       `json:"stations_stored"`
	StationsFailed    int       `json:"stations_failed"`
	SuccessRate       float64   `json:"success_rate"`
	DurationMs        int64     `json:"duration_ms"`
}

// GetRecentRuns lists journaled ingestion runs, newest first. Optional
// query parameters: type filters by report type, limit caps the count
// (default 20).
func (h *Handlers) GetRecentRuns(w http.ResponseWriter, req *http.Request) {
	c := h.controller

	reportType := wx.ReportType(req.URL.Query().Get("type"))
	limit := 0
	if raw := req.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.formatter.WriteError(w, req, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	records, err := c.deps.Journal.RecentRuns(req.Context(), reportType, limit)
	if err != nil {
		log.Errorf("error querying recent runs: %v", err)
		h.formatter.WriteError(w, req, http.StatusInternalServerError, "journal query failed")
		return
	}

	runs := make([]runJSON, 0, len(records))
	for _, rec := range records {
		runs = append(runs, runJSON{
			ID:                rec.ID,
			RecordedAt:        rec.CreatedAt,
			ReportType:        rec.ReportType,
			StationsRequested: rec.StationsRequested,
			StationsStored:    rec.StationsStored,
			StationsFailed:    rec.StationsFailed,
			SuccessRate:       rec.SuccessRate,
			DurationMs:        rec.DurationMs,
		})
	}

	if err := h.formatter.WriteResponse(w, req, http.StatusOK, runs); err != nil {
		log.Errorf("error writing runs response: %v", err)
	}
}
