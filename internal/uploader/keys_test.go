package uploader

import (
	"testing"
	"time"

	"github.com/skewt/avwxingest/internal/wx"
)

func TestSpeedLayerKey(t *testing.T) {
	tests := []struct {
		name       string
		source     wx.Source
		reportType string
		stationID  string
		ingestion  time.Time
		want       string
	}{
		{
			"metar afternoon",
			wx.SourceNOAA, "METAR", "KJFK",
			time.Date(2026, 8, 25, 14, 7, 30, 0, time.UTC),
			"speed-layer/noaa/metar/2026/08/25/KJFK_20260825_1407.json",
		},
		{
			"taf end of year",
			wx.SourceNOAA, "TAF", "KBOS",
			time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC),
			"speed-layer/noaa/taf/2025/12/31/KBOS_20251231_2359.json",
		},
		{
			"midnight rolls the partition",
			wx.SourceNOAA, "METAR", "EGLL",
			time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			"speed-layer/noaa/metar/2026/01/01/EGLL_20260101_0000.json",
		},
		{
			"non-utc ingestion time converts",
			wx.SourceNOAA, "METAR", "KJFK",
			time.Date(2026, 8, 25, 10, 7, 30, 0, time.FixedZone("EDT", -4*3600)),
			"speed-layer/noaa/metar/2026/08/25/KJFK_20260825_1407.json",
		},
		{
			"other sources lowercase too",
			wx.SourceVisualCrossing, "SPECI", "PHNL",
			time.Date(2026, 6, 2, 9, 30, 0, 0, time.UTC),
			"speed-layer/visual_crossing/speci/2026/06/02/PHNL_20260602_0930.json",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SpeedLayerKey(tc.source, tc.reportType, tc.stationID, tc.ingestion)
			if got != tc.want {
				t.Errorf("got  %s\nwant %s", got, tc.want)
			}
		})
	}
}

func TestRawDataKey(t *testing.T) {
	now := time.Date(2026, 8, 25, 14, 7, 30, 0, time.UTC)
	got := RawDataKey(wx.SourceNOAA, "KJFK", now)
	want := "raw-data/noaa/KJFK_20260825_1407.txt"
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}

	est := time.Date(2026, 8, 25, 9, 7, 0, 0, time.FixedZone("EST", -5*3600))
	if got := RawDataKey(wx.SourceNOAA, "KJFK", est); got != want {
		t.Errorf("non-UTC clock: got %s, want %s", got, want)
	}
}
