package wx

import (
	"time"

	"github.com/skewt/avwxingest/internal/wxerr"
)

// ChangeIndicator marks how a TAF forecast period modifies the forecast.
type ChangeIndicator string

const (
	// ChangeBase is the initial forecast group of the TAF.
	ChangeBase ChangeIndicator = "BASE"
	// ChangeFM replaces the forecast entirely from a point in time.
	ChangeFM ChangeIndicator = "FM"
	// ChangeTempo is a temporary fluctuation within a window.
	ChangeTempo ChangeIndicator = "TEMPO"
	// ChangeBecoming is a gradual transition across a window.
	ChangeBecoming ChangeIndicator = "BECMG"
	// ChangeProb is a probabilistic group (PROB30/PROB40).
	ChangeProb ChangeIndicator = "PROB"
)

// Valid reports whether i is one of the known indicators.
func (i ChangeIndicator) Valid() bool {
	switch i {
	case ChangeBase, ChangeFM, ChangeTempo, ChangeBecoming, ChangeProb:
		return true
	}
	return false
}

// maxPeriodSpan bounds TEMPO/BECMG/PROB windows.
const maxPeriodSpan = 12 * time.Hour

// ForecastPeriod is one group of a TAF. Construction enforces the shape
// each change indicator requires; see NewForecastPeriod.
type ForecastPeriod struct {
	indicator   ChangeIndicator
	changeTime  *time.Time
	periodStart *time.Time
	periodEnd   *time.Time
	probability *int
	conditions  *WeatherConditions
}

// NewForecastPeriod validates and builds a forecast period.
//
// FM groups carry a change time and no period bounds. TEMPO, BECMG, and
// PROB groups carry period bounds (start before end, spanning at most 12
// hours) and no change time. PROB groups additionally carry a probability
// of 30 or 40; every other indicator forbids one. BASE groups may carry
// period bounds. Conditions are always required.
func NewForecastPeriod(indicator ChangeIndicator, changeTime, periodStart, periodEnd *time.Time,
	probability *int, conditions *WeatherConditions) (ForecastPeriod, error) {

	if !indicator.Valid() {
		return ForecastPeriod{}, wxerr.Newf(wxerr.KindInvalidData, "unknown change indicator %q", indicator)
	}
	if conditions == nil {
		return ForecastPeriod{}, wxerr.Newf(wxerr.KindInvalidData, "%s period without conditions", indicator)
	}

	switch indicator {
	case ChangeFM:
		if changeTime == nil {
			return ForecastPeriod{}, wxerr.New(wxerr.KindInvalidData, "FM period requires a change time")
		}
		if periodStart != nil || periodEnd != nil {
			return ForecastPeriod{}, wxerr.New(wxerr.KindInvalidData, "FM period must not carry period start/end")
		}
	case ChangeTempo, ChangeBecoming, ChangeProb:
		if changeTime != nil {
			return ForecastPeriod{}, wxerr.Newf(wxerr.KindInvalidData, "%s period must not carry a change time", indicator)
		}
		if periodStart == nil || periodEnd == nil {
			return ForecastPeriod{}, wxerr.Newf(wxerr.KindInvalidData, "%s period requires period start/end", indicator)
		}
	}

	if periodStart != nil && periodEnd != nil {
		if !periodStart.Before(*periodEnd) {
			return ForecastPeriod{}, wxerr.New(wxerr.KindInvalidData, "period start/end out of order")
		}
		if periodEnd.Sub(*periodStart) > maxPeriodSpan {
			return ForecastPeriod{}, wxerr.Newf(wxerr.KindInvalidData,
				"period start/end span %s exceeds %s", periodEnd.Sub(*periodStart), maxPeriodSpan)
		}
	}

	if indicator == ChangeProb {
		if probability == nil || (*probability != 30 && *probability != 40) {
			return ForecastPeriod{}, wxerr.New(wxerr.KindInvalidData, "PROB period requires probability 30 or 40")
		}
	} else if probability != nil {
		return ForecastPeriod{}, wxerr.Newf(wxerr.KindInvalidData, "%s period must not carry a probability", indicator)
	}

	p := ForecastPeriod{indicator: indicator, conditions: conditions}
	if changeTime != nil {
		t := changeTime.UTC()
		p.changeTime = &t
	}
	if periodStart != nil {
		t := periodStart.UTC()
		p.periodStart = &t
	}
	if periodEnd != nil {
		t := periodEnd.UTC()
		p.periodEnd = &t
	}
	if probability != nil {
		v := *probability
		p.probability = &v
	}
	return p, nil
}

func (p ForecastPeriod) Indicator() ChangeIndicator { return p.indicator }

// ChangeTime returns the FM transition instant when present.
func (p ForecastPeriod) ChangeTime() (time.Time, bool) {
	if p.changeTime == nil {
		return time.Time{}, false
	}
	return *p.changeTime, true
}

// Period returns the start/end window when both bounds are present.
func (p ForecastPeriod) Period() (start, end time.Time, ok bool) {
	if p.periodStart == nil || p.periodEnd == nil {
		return time.Time{}, time.Time{}, false
	}
	return *p.periodStart, *p.periodEnd, true
}

// Probability returns the PROB percentage when present.
func (p ForecastPeriod) Probability() (int, bool) {
	if p.probability == nil {
		return 0, false
	}
	return *p.probability, true
}

// Conditions returns the forecast state for this period; never nil on a
// constructed period.
func (p ForecastPeriod) Conditions() *WeatherConditions { return p.conditions }

// ValidityPeriod is the window a TAF covers.
type ValidityPeriod struct {
	start time.Time
	end   time.Time
}

// NewValidityPeriod validates that the window is properly ordered.
func NewValidityPeriod(start, end time.Time) (ValidityPeriod, error) {
	if !start.Before(end) {
		return ValidityPeriod{}, wxerr.New(wxerr.KindInvalidData, "validity period start/end out of order")
	}
	return ValidityPeriod{start: start.UTC(), end: end.UTC()}, nil
}

func (v ValidityPeriod) Start() time.Time { return v.start }
func (v ValidityPeriod) End() time.Time   { return v.end }

// Contains reports whether t falls inside the window, start inclusive.
func (v ValidityPeriod) Contains(t time.Time) bool {
	return !t.Before(v.start) && t.Before(v.end)
}

// TemperatureExtreme is a forecast 24-hour minimum or maximum.
type TemperatureExtreme struct {
	Celsius float64
	At      time.Time
}

// TAFReport is a decoded terminal aerodrome forecast: the NOAA report
// fields plus the issue time, validity window, and ordered forecast
// periods.
type TAFReport struct {
	NOAAReport

	IssueTime      time.Time
	Validity       ValidityPeriod
	Periods        []ForecastPeriod
	MinTemperature *TemperatureExtreme
	MaxTemperature *TemperatureExtreme
}

// NewTAFReport returns a TAF envelope for the given station.
func NewTAFReport(stationID string) (*TAFReport, error) {
	base, err := NewNOAAReport(ReportTAF, stationID)
	if err != nil {
		return nil, err
	}
	return &TAFReport{NOAAReport: *base}, nil
}

// DataType is the serialization discriminator for TAF documents.
func (t *TAFReport) DataType() string { return "TAF" }
