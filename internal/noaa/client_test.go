package noaa

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/skewt/avwxingest/internal/wx"
	"github.com/skewt/avwxingest/internal/wxerr"
)

const metarResponse = `[
  {
    "metar_id": 12345,
    "icaoId": "KJFK",
    "receiptTime": "2026-08-25 15:05:01",
    "obsTime": 1787916300,
    "reportTime": "2026-08-25 15:00:00",
    "temp": 22.8,
    "dewp": 17.2,
    "wdir": 240,
    "wspd": 11,
    "wgst": 18,
    "visib": "10+",
    "altim": 1016.3,
    "slp": 1016.9,
    "qcField": 6,
    "wxString": "-RA BR",
    "metarType": "METAR",
    "rawOb": "KJFK 251500Z 24011G18KT 10SM -RA BR FEW020 23/17 A3001 RMK AO2 SLP169",
    "lat": 40.639,
    "lon": -73.762,
    "elev": 3,
    "name": "New York/JF Kennedy Intl, NY, US",
    "clouds": [{"cover": "FEW", "base": 2000}]
  },
  {
    "metar_id": 12346,
    "icaoId": "KLGA",
    "obsTime": 1787916360,
    "wdir": "VRB",
    "wspd": 3,
    "visib": 6,
    "metarType": "METAR",
    "rawOb": "KLGA 251501Z VRB03KT 6SM HZ CLR 24/16 A3000",
    "clouds": []
  }
]`

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(ClientConfig{BaseURL: srv.URL, RequestTimeout: 5 * time.Second}, zap.NewNop().Sugar())
	return c, srv
}

func TestFetchMETARs(t *testing.T) {
	var gotPath, gotIDs, gotFormat, gotAccept, gotUA string
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotIDs = r.URL.Query().Get("ids")
		gotFormat = r.URL.Query().Get("format")
		gotAccept = r.Header.Get("Accept")
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(metarResponse))
	}))

	records, err := c.FetchMETARs(context.Background(), "kjfk", "KLGA")
	if err != nil {
		t.Fatalf("FetchMETARs: %v", err)
	}
	if gotPath != "/metar" {
		t.Errorf("path = %q, want /metar", gotPath)
	}
	if gotIDs != "KJFK,KLGA" {
		t.Errorf("ids = %q, want normalized KJFK,KLGA", gotIDs)
	}
	if gotFormat != "json" {
		t.Errorf("format = %q, want json", gotFormat)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q, want application/json", gotAccept)
	}
	if gotUA != defaultUserAgent {
		t.Errorf("User-Agent = %q, want %q", gotUA, defaultUserAgent)
	}

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].ICAOID != "KJFK" || records[1].ICAOID != "KLGA" {
		t.Errorf("stations = %s, %s", records[0].ICAOID, records[1].ICAOID)
	}
	if records[0].Visibility.Miles == nil || *records[0].Visibility.Miles != 10 || !records[0].Visibility.GreaterThan {
		t.Errorf("KJFK visib = %+v, want 10+ mi", records[0].Visibility)
	}
	if records[1].Wdir.Degrees != nil {
		t.Errorf("KLGA wdir = %d, want variable (absent)", *records[1].Wdir.Degrees)
	}
}

func TestFetchReportsConvertsRecords(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(metarResponse))
	}))

	reports, err := c.FetchReports(context.Background(), wx.ReportMETAR, "KJFK", "KLGA")
	if err != nil {
		t.Fatalf("FetchReports: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(reports))
	}
	env := reports[0].Envelope()
	if env.StationID != "KJFK" || env.Source != wx.SourceNOAA {
		t.Errorf("envelope = %s %v, want KJFK NOAA", env.StationID, env.Source)
	}
	if reports[0].DataType() != "METAR" {
		t.Errorf("DataType = %q, want METAR", reports[0].DataType())
	}
}

func TestFetchEmptyBodyIsNotFailure(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))

	records, err := c.FetchMETARs(context.Background(), "KZZZ")
	if err != nil {
		t.Fatalf("FetchMETARs: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want none", len(records))
	}

	reports, err := c.FetchReports(context.Background(), wx.ReportTAF, "KZZZ")
	if err != nil {
		t.Fatalf("FetchReports: %v", err)
	}
	if len(reports) != 0 {
		t.Errorf("got %d reports, want none", len(reports))
	}
}

func TestFetchRejectsInvalidStationBeforeRequest(t *testing.T) {
	var hits atomic.Int32
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`[]`))
	}))

	tests := []struct {
		name string
		ids  []string
	}{
		{"too short", []string{"KJFK", "KJ"}},
		{"digit", []string{"K1FK"}},
		{"embedded space", []string{"KJ K"}},
		{"none given", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.FetchMETARs(context.Background(), tc.ids...)
			if !wxerr.IsKind(err, wxerr.KindInvalidStationCode) {
				t.Fatalf("err = %v, want invalid station code", err)
			}
		})
	}
	if n := hits.Load(); n != 0 {
		t.Errorf("server hit %d times, want validation before any request", n)
	}
}

func TestFetchNon200IsNetworkError(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream sad", http.StatusServiceUnavailable)
	}))

	_, err := c.FetchMETARs(context.Background(), "KJFK")
	if !wxerr.IsKind(err, wxerr.KindNetwork) {
		t.Fatalf("err = %v, want network error", err)
	}
}

func TestFetchMalformedBodyIsNetworkError(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "an array"`))
	}))

	_, err := c.FetchTAFs(context.Background(), "KBOS")
	if !wxerr.IsKind(err, wxerr.KindNetwork) {
		t.Fatalf("err = %v, want network error", err)
	}
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(250 * time.Millisecond)
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)
	c := NewClient(ClientConfig{BaseURL: srv.URL, RequestTimeout: 20 * time.Millisecond}, zap.NewNop().Sugar())

	_, err := c.FetchMETARs(context.Background(), "KJFK")
	if !wxerr.IsKind(err, wxerr.KindTimeout) {
		t.Fatalf("err = %v, want timeout", err)
	}
}

func TestFetchContextCanceled(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.FetchMETARs(ctx, "KJFK")
	if !wxerr.IsKind(err, wxerr.KindTimeout) {
		t.Fatalf("err = %v, want timeout for interrupted call", err)
	}
}

func TestFetchByBoundingBox(t *testing.T) {
	var gotPath, gotBBox string
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBBox = r.URL.Query().Get("bbox")
		w.Write([]byte(metarResponse))
	}))

	reports, err := c.FetchByBoundingBox(context.Background(), 40, -75, 42, -72, wx.ReportMETAR)
	if err != nil {
		t.Fatalf("FetchByBoundingBox: %v", err)
	}
	if gotPath != "/metar" {
		t.Errorf("path = %q, want /metar", gotPath)
	}
	if gotBBox != "40,-75,42,-72" {
		t.Errorf("bbox = %q, want 40,-75,42,-72", gotBBox)
	}
	if len(reports) != 2 {
		t.Errorf("got %d reports, want 2", len(reports))
	}
}

func TestFetchByBoundingBoxValidation(t *testing.T) {
	var hits atomic.Int32
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`[]`))
	}))

	tests := []struct {
		name           string
		minLat, minLon float64
		maxLat, maxLon float64
	}{
		{"latitude out of range", 91, -75, 92, -72},
		{"longitude out of range", 40, -181, 42, -72},
		{"corners out of order", 42, -75, 40, -72},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.FetchMETARsByBoundingBox(context.Background(), tc.minLat, tc.minLon, tc.maxLat, tc.maxLon)
			if !wxerr.IsKind(err, wxerr.KindInvalidData) {
				t.Fatalf("err = %v, want invalid data", err)
			}
		})
	}
	if n := hits.Load(); n != 0 {
		t.Errorf("server hit %d times, want validation before any request", n)
	}
}

func TestFetchTAFsPath(t *testing.T) {
	var gotPath string
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`[]`))
	}))

	if _, err := c.FetchTAFs(context.Background(), "KBOS"); err != nil {
		t.Fatalf("FetchTAFs: %v", err)
	}
	if gotPath != "/taf" {
		t.Errorf("path = %q, want /taf", gotPath)
	}
}

func TestFetchReportsUnsupportedType(t *testing.T) {
	c := NewClient(ClientConfig{}, zap.NewNop().Sugar())
	if _, err := c.FetchReports(context.Background(), wx.ReportPIREP, "KJFK"); !wxerr.IsKind(err, wxerr.KindInvalidData) {
		t.Fatalf("err = %v, want invalid data for unsupported product", err)
	}
}

func TestFetchReportsSkipsMalformedRecords(t *testing.T) {
	// Second record carries a dewpoint above the temperature and fails
	// conversion; the first still comes back.
	body := `[
	  {"icaoId": "KJFK", "obsTime": 1787916300, "metarType": "METAR", "rawOb": "KJFK ..."},
	  {"icaoId": "KLGA", "obsTime": 1787916300, "metarType": "METAR", "rawOb": "KLGA ...", "temp": 5, "dewp": 9}
	]`
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))

	reports, err := c.FetchReports(context.Background(), wx.ReportMETAR, "KJFK", "KLGA")
	if err != nil {
		t.Fatalf("FetchReports: %v", err)
	}
	if len(reports) != 1 || reports[0].Envelope().StationID != "KJFK" {
		t.Fatalf("got %d reports, want lone KJFK", len(reports))
	}
}

func TestFetchReportsAllMalformedFails(t *testing.T) {
	body := `[{"icaoId": "KLGA", "obsTime": 1787916300, "metarType": "METAR", "temp": 5, "dewp": 9}]`
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))

	_, err := c.FetchReports(context.Background(), wx.ReportMETAR, "KLGA")
	if !wxerr.IsKind(err, wxerr.KindInvalidData) {
		t.Fatalf("err = %v, want invalid data when every record is malformed", err)
	}
}
