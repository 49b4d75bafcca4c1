package ingest

import (
	"context"

	"github.com/skewt/avwxingest/internal/wx"
	"github.com/skewt/avwxingest/internal/wxerr"
)

// FetchFunc pulls the latest report for one station from a source. An
// empty upstream result must surface as a NoData error, not a nil
// report.
type FetchFunc func(ctx context.Context, stationID string) (wx.Report, error)

// ReportClient is the slice of the upstream client the source adapters
// need.
type ReportClient interface {
	FetchReports(ctx context.Context, reportType wx.ReportType, stationIDs ...string) ([]wx.Report, error)
}

// METARSource adapts a report client into the METAR fetch step.
func METARSource(client ReportClient) FetchFunc {
	return reportSource(client, wx.ReportMETAR)
}

// TAFSource adapts a report client into the TAF fetch step.
func TAFSource(client ReportClient) FetchFunc {
	return reportSource(client, wx.ReportTAF)
}

func reportSource(client ReportClient, reportType wx.ReportType) FetchFunc {
	return func(ctx context.Context, stationID string) (wx.Report, error) {
		reports, err := client.FetchReports(ctx, reportType, stationID)
		if err != nil {
			return nil, err
		}
		if len(reports) == 0 {
			return nil, wxerr.NoData(stationID)
		}
		return latestReport(reports), nil
	}
}

// latestReport picks the newest observation; ties keep the first.
func latestReport(reports []wx.Report) wx.Report {
	latest := reports[0]
	for _, r := range reports[1:] {
		if r.Envelope().ObservationTime.After(latest.Envelope().ObservationTime) {
			latest = r
		}
	}
	return latest
}
