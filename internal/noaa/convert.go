package noaa

import (
	"errors"
	"strings"
	"time"

	"github.com/skewt/avwxingest/internal/wx"
	"github.com/skewt/avwxingest/internal/wxerr"
)

// Upstream timestamps appear in two shapes depending on the field.
var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05"}

func parseUpstreamTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// reportModifier scans the coded text for a modifier token.
func reportModifier(rawText string) wx.ReportModifier {
	for _, tok := range strings.Fields(rawText) {
		switch tok {
		case "AUTO":
			return wx.ModifierAuto
		case "COR":
			return wx.ModifierCorrected
		case "AMD":
			return wx.ModifierAmended
		}
	}
	return ""
}

// remarksSection returns the text after the RMK marker, or "".
func remarksSection(rawText string) string {
	if _, after, ok := strings.Cut(rawText, " RMK "); ok {
		return after
	}
	if after, ok := strings.CutPrefix(rawText, "RMK "); ok {
		return after
	}
	return ""
}

func buildLocation(lat, lon, elevMeters *float64) (*wx.GeoLocation, error) {
	if lat == nil || lon == nil {
		return nil, nil
	}
	if elevMeters != nil {
		return wx.NewGeoLocationWithElevation(*lat, *lon, *elevMeters)
	}
	return wx.NewGeoLocation(*lat, *lon)
}

// conditionsFromGroups assembles the shared observation/forecast groups.
// Every record and forecast group carries the same field shapes, so METAR
// and TAF conversion both funnel through here.
func conditionsFromGroups(wdir WindDir, wspd, wgst *float64, vis Visib,
	wxString *string, clouds []CloudLayer, vertVis *int,
	temp, dewp *float64, altimHpa *float64) (*wx.WeatherConditions, error) {

	b := wx.NewConditionsBuilder()
	if wspd != nil {
		b.Wind(wdir.Degrees, *wspd, wgst, wx.Knots)
	}
	if vis.Miles != nil {
		b.VisibilityModified(*vis.Miles, wx.StatuteMiles, false, vis.GreaterThan)
	}
	if wxString != nil {
		for _, code := range strings.Fields(*wxString) {
			b.AddWeather(wx.WeatherPhenomenon(code))
		}
	}
	for _, layer := range clouds {
		cover := wx.SkyCoverage(strings.ToUpper(layer.Cover))
		if !cover.Valid() {
			continue // upstream uses a few station-specific codes we do not model
		}
		var height *int
		if layer.Base != nil {
			h := *layer.Base
			height = &h
		}
		b.AddSkyCondition(cover, height, wx.CloudType(strings.ToUpper(layer.Type)))
	}
	if vertVis != nil {
		b.AddSkyCondition(wx.VerticalVis, vertVis, "")
	}
	if temp != nil {
		if dewp != nil {
			b.TemperatureWithDewpoint(*temp, *dewp)
		} else {
			b.Temperature(*temp)
		}
	}
	if altimHpa != nil {
		b.PressureHectopascals(*altimHpa)
	}
	return b.Build()
}

// Convert turns a raw METAR record into a typed report. Field-level
// violations (a dewpoint above the temperature, out-of-range coordinates)
// surface as invalid-data errors carrying the station id.
func (r MetarRecord) Convert() (*wx.NOAAReport, error) {
	reportType := wx.ReportMETAR
	if strings.EqualFold(r.MetarType, string(wx.ReportSPECI)) {
		reportType = wx.ReportSPECI
	}
	report, err := wx.NewNOAAReport(reportType, r.ICAOID)
	if err != nil {
		return nil, err
	}

	switch {
	case r.ObsTime > 0:
		report.ObservationTime = time.Unix(r.ObsTime, 0).UTC()
	case r.ReportTime != "":
		if t, ok := parseUpstreamTime(r.ReportTime); ok {
			report.ObservationTime = t
		}
	}
	report.RawText = r.RawOb
	report.RawData = r.RawOb
	report.ReportModifier = reportModifier(r.RawOb)
	report.QCFlags = wx.QCFlagsFromBitmask(r.QCField)

	loc, err := buildLocation(r.Lat, r.Lon, r.Elev)
	if err != nil {
		return nil, wrapInvalid(err, r.ICAOID)
	}
	report.Location = loc

	cond, err := conditionsFromGroups(r.Wdir, r.Wspd, r.Wgst, r.Visibility,
		r.WxString, r.Clouds, r.VertVis, r.Temp, r.Dewp, r.Altim)
	if err != nil {
		return nil, wrapInvalid(err, r.ICAOID)
	}
	report.Conditions = cond

	if raw := remarksSection(r.RawOb); raw != "" || r.Slp != nil {
		remarks := &wx.Remarks{Raw: raw, SeaLevelPressureHpa: r.Slp}
		for _, tok := range strings.Fields(raw) {
			if tok == "AO1" || tok == "AO2" {
				remarks.AutoStationType = tok
				break
			}
		}
		report.Remarks = remarks
	}
	return report, nil
}

// Convert turns a raw TAF record into a typed report. The base forecast
// group maps to a bounds-less BASE period; its applicability is the TAF
// validity window.
func (r TafRecord) Convert() (*wx.TAFReport, error) {
	report, err := wx.NewTAFReport(r.ICAOID)
	if err != nil {
		return nil, err
	}
	report.RawText = r.RawTAF
	report.RawData = r.RawTAF
	report.ReportModifier = reportModifier(r.RawTAF)

	if t, ok := parseUpstreamTime(r.IssueTime); ok {
		report.IssueTime = t
		report.ObservationTime = t
	}
	if r.ValidTimeFrom > 0 && r.ValidTimeTo > 0 {
		vp, err := wx.NewValidityPeriod(time.Unix(r.ValidTimeFrom, 0), time.Unix(r.ValidTimeTo, 0))
		if err != nil {
			return nil, wrapInvalid(err, r.ICAOID)
		}
		report.Validity = vp
	}

	loc, err := buildLocation(r.Lat, r.Lon, r.Elev)
	if err != nil {
		return nil, wrapInvalid(err, r.ICAOID)
	}
	report.Location = loc

	for _, f := range r.Fcsts {
		period, err := f.toPeriod()
		if err != nil {
			return nil, wrapInvalid(err, r.ICAOID)
		}
		report.Periods = append(report.Periods, period)

		for _, tt := range f.Temps {
			if tt.SfcTemp == nil {
				continue
			}
			ext := &wx.TemperatureExtreme{Celsius: *tt.SfcTemp}
			if t, ok := parseUpstreamTime(tt.ValidTime); ok {
				ext.At = t
			}
			switch strings.ToUpper(tt.MaxOrMin) {
			case "MAX":
				report.MaxTemperature = ext
			case "MIN":
				report.MinTemperature = ext
			}
		}
	}
	return report, nil
}

func (f TafForecast) toPeriod() (wx.ForecastPeriod, error) {
	cond, err := conditionsFromGroups(f.Wdir, f.Wspd, f.Wgst, f.Visibility,
		f.WxString, f.Clouds, f.VertVis, nil, nil, f.Altim)
	if err != nil {
		return wx.ForecastPeriod{}, err
	}

	var (
		indicator  wx.ChangeIndicator
		changeTime *time.Time
		start, end *time.Time
	)
	from := time.Unix(f.TimeFrom, 0).UTC()
	to := time.Unix(f.TimeTo, 0).UTC()

	switch strings.ToUpper(f.FcstChange) {
	case "FM":
		indicator = wx.ChangeFM
		changeTime = &from
	case "TEMPO":
		indicator = wx.ChangeTempo
		start, end = &from, &to
	case "BECMG":
		indicator = wx.ChangeBecoming
		start = &from
		if f.TimeBec != nil && *f.TimeBec > f.TimeFrom {
			// The transition window ends at timeBec, not at the end of
			// the group's applicability.
			bec := time.Unix(*f.TimeBec, 0).UTC()
			end = &bec
		} else {
			end = &to
		}
	case "PROB":
		indicator = wx.ChangeProb
		start, end = &from, &to
	default:
		indicator = wx.ChangeBase
	}
	return wx.NewForecastPeriod(indicator, changeTime, start, end, f.Probability, cond)
}

// wrapInvalid tags a conversion failure with the station, preserving an
// existing typed error's kind.
func wrapInvalid(err error, stationID string) error {
	var werr *wxerr.Error
	if errors.As(err, &werr) {
		return werr.WithStation(stationID)
	}
	return wxerr.Wrap(wxerr.KindInvalidData, err, "invalid record").WithStation(stationID)
}
