package uploader

import (
	"fmt"
	"strings"
	"time"

	"github.com/skewt/avwxingest/internal/wx"
)

// Object key layouts. Downstream consumers depend on these byte-for-byte;
// change them only with a migration plan for existing buckets.

// SpeedLayerKey derives the partitioned key for a report document. The
// date partition and the timestamp both come from the ingestion time in
// UTC.
func SpeedLayerKey(source wx.Source, reportType, stationID string, ingestionTime time.Time) string {
	t := ingestionTime.UTC()
	return fmt.Sprintf("speed-layer/%s/%s/%s/%s_%s.json",
		strings.ToLower(source.String()),
		strings.ToLower(reportType),
		t.Format("2006/01/02"),
		stationID,
		t.Format("20060102_1504"))
}

// RawDataKey derives the key for a verbatim upstream payload, stamped
// with the given wall-clock instant in UTC.
func RawDataKey(source wx.Source, stationID string, now time.Time) string {
	t := now.UTC()
	return fmt.Sprintf("raw-data/%s/%s_%s.txt",
		strings.ToLower(source.String()),
		stationID,
		t.Format("20060102_1504"))
}
