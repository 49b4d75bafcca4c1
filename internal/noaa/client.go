// Package noaa fetches METAR observations and TAF forecasts from the NOAA
// Aviation Weather Center data API and converts the returned records into
// typed reports.
package noaa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/skewt/avwxingest/internal/log"
	"github.com/skewt/avwxingest/internal/wx"
	"github.com/skewt/avwxingest/internal/wxerr"
)

const (
	// DefaultBaseURL is the production data API endpoint.
	DefaultBaseURL = "https://aviationweather.gov/api/data"

	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "avwxingest/1.0"
)

// ClientConfig carries the tunable parts of the upstream client. Zero
// values fall back to the defaults above.
type ClientConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	UserAgent      string
}

// Client talks to the data API. It is stateless apart from its HTTP
// session and safe for concurrent use.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// NewClient builds a client. A nil logger falls back to the package
// logger.
func NewClient(cfg ClientConfig, logger *zap.SugaredLogger) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	if logger == nil {
		logger = log.GetSugaredLogger()
	}
	return &Client{
		baseURL:    strings.TrimRight(base, "/"),
		userAgent:  ua,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// product maps a report type onto its data API path segment.
func product(reportType wx.ReportType) (string, error) {
	switch reportType {
	case wx.ReportMETAR, wx.ReportSPECI:
		return "metar", nil
	case wx.ReportTAF:
		return "taf", nil
	}
	return "", wxerr.Newf(wxerr.KindInvalidData, "unsupported report type %q", reportType)
}

// normalizeStations validates every identifier before any network call is
// made. One bad identifier fails the whole request.
func normalizeStations(stationIDs []string) ([]string, error) {
	if len(stationIDs) == 0 {
		return nil, wxerr.New(wxerr.KindInvalidStationCode, "no station identifiers given")
	}
	out := make([]string, len(stationIDs))
	for i, id := range stationIDs {
		norm, err := wx.NormalizeStationID(id)
		if err != nil {
			return nil, err
		}
		out[i] = norm
	}
	return out, nil
}

func validateBoundingBox(minLat, minLon, maxLat, maxLon float64) error {
	if _, err := wx.NewGeoLocation(minLat, minLon); err != nil {
		return err
	}
	if _, err := wx.NewGeoLocation(maxLat, maxLon); err != nil {
		return err
	}
	if minLat > maxLat || minLon > maxLon {
		return wxerr.Newf(wxerr.KindInvalidData,
			"bounding box corners out of order (%v,%v)-(%v,%v)", minLat, minLon, maxLat, maxLon)
	}
	return nil
}

// get fetches rawURL and decodes the JSON body into out, classifying
// failures into the typed kinds callers branch on.
func (c *Client) get(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return wxerr.Wrap(wxerr.KindNetwork, err, "building request")
	}
	req = req.WithContext(ctx)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debugf("fetching %s", rawURL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return wxerr.Newf(wxerr.KindNetwork, "unexpected status %d from data API", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransportError(err)
	}
	c.logger.Debugf("data API returned %d bytes", len(body))
	if err := json.Unmarshal(body, out); err != nil {
		return wxerr.Wrap(wxerr.KindNetwork, err, "decoding response body")
	}
	return nil
}

// classifyTransportError separates deadline/interruption failures from
// other transport failures, preserving the cause.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return wxerr.Wrap(wxerr.KindTimeout, err, "request interrupted")
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return wxerr.Wrap(wxerr.KindTimeout, err, "request timed out")
	}
	return wxerr.Wrap(wxerr.KindNetwork, err, "request failed")
}

func (c *Client) stationsURL(prod string, stationIDs []string) string {
	v := url.Values{}
	v.Set("ids", strings.Join(stationIDs, ","))
	v.Set("format", "json")
	return fmt.Sprintf("%s/%s?%s", c.baseURL, prod, v.Encode())
}

func (c *Client) bboxURL(prod string, minLat, minLon, maxLat, maxLon float64) string {
	v := url.Values{}
	v.Set("bbox", fmt.Sprintf("%v,%v,%v,%v", minLat, minLon, maxLat, maxLon))
	v.Set("format", "json")
	return fmt.Sprintf("%s/%s?%s", c.baseURL, prod, v.Encode())
}

// FetchMETARs returns the raw METAR records for the given stations. An
// empty body is an empty slice, not a failure.
func (c *Client) FetchMETARs(ctx context.Context, stationIDs ...string) ([]MetarRecord, error) {
	ids, err := normalizeStations(stationIDs)
	if err != nil {
		return nil, err
	}
	var records []MetarRecord
	if err := c.get(ctx, c.stationsURL("metar", ids), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FetchTAFs returns the raw TAF records for the given stations.
func (c *Client) FetchTAFs(ctx context.Context, stationIDs ...string) ([]TafRecord, error) {
	ids, err := normalizeStations(stationIDs)
	if err != nil {
		return nil, err
	}
	var records []TafRecord
	if err := c.get(ctx, c.stationsURL("taf", ids), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FetchMETARsByBoundingBox returns the raw METAR records inside the box.
// A box containing no stations is an empty slice, not a failure.
func (c *Client) FetchMETARsByBoundingBox(ctx context.Context, minLat, minLon, maxLat, maxLon float64) ([]MetarRecord, error) {
	if err := validateBoundingBox(minLat, minLon, maxLat, maxLon); err != nil {
		return nil, err
	}
	var records []MetarRecord
	if err := c.get(ctx, c.bboxURL("metar", minLat, minLon, maxLat, maxLon), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FetchTAFsByBoundingBox returns the raw TAF records inside the box.
func (c *Client) FetchTAFsByBoundingBox(ctx context.Context, minLat, minLon, maxLat, maxLon float64) ([]TafRecord, error) {
	if err := validateBoundingBox(minLat, minLon, maxLat, maxLon); err != nil {
		return nil, err
	}
	var records []TafRecord
	if err := c.get(ctx, c.bboxURL("taf", minLat, minLon, maxLat, maxLon), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FetchReports fetches and converts in one step. Records that fail
// conversion are skipped with a warning; a response where every record is
// malformed is an invalid-data failure.
func (c *Client) FetchReports(ctx context.Context, reportType wx.ReportType, stationIDs ...string) ([]wx.Report, error) {
	prod, err := product(reportType)
	if err != nil {
		return nil, err
	}
	switch prod {
	case "metar":
		records, err := c.FetchMETARs(ctx, stationIDs...)
		if err != nil {
			return nil, err
		}
		return c.convertMETARs(records)
	default:
		records, err := c.FetchTAFs(ctx, stationIDs...)
		if err != nil {
			return nil, err
		}
		return c.convertTAFs(records)
	}
}

// FetchByBoundingBox fetches and converts every report inside the box.
func (c *Client) FetchByBoundingBox(ctx context.Context, minLat, minLon, maxLat, maxLon float64, reportType wx.ReportType) ([]wx.Report, error) {
	prod, err := product(reportType)
	if err != nil {
		return nil, err
	}
	switch prod {
	case "metar":
		records, err := c.FetchMETARsByBoundingBox(ctx, minLat, minLon, maxLat, maxLon)
		if err != nil {
			return nil, err
		}
		return c.convertMETARs(records)
	default:
		records, err := c.FetchTAFsByBoundingBox(ctx, minLat, minLon, maxLat, maxLon)
		if err != nil {
			return nil, err
		}
		return c.convertTAFs(records)
	}
}

func (c *Client) convertMETARs(records []MetarRecord) ([]wx.Report, error) {
	reports := make([]wx.Report, 0, len(records))
	var lastErr error
	for _, rec := range records {
		report, err := rec.Convert()
		if err != nil {
			c.logger.Warnf("skipping malformed METAR record for %s: %v", rec.ICAOID, err)
			lastErr = err
			continue
		}
		reports = append(reports, report)
	}
	if len(reports) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return reports, nil
}

func (c *Client) convertTAFs(records []TafRecord) ([]wx.Report, error) {
	reports := make([]wx.Report, 0, len(records))
	var lastErr error
	for _, rec := range records {
		report, err := rec.Convert()
		if err != nil {
			c.logger.Warnf("skipping malformed TAF record for %s: %v", rec.ICAOID, err)
			lastErr = err
			continue
		}
		reports = append(reports, report)
	}
	if len(reports) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return reports, nil
}
