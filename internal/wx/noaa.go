package wx

import (
	"time"

	"github.com/skewt/avwxingest/internal/wxerr"
)

// ReportType identifies the coded report family.
type ReportType string

const (
	ReportMETAR ReportType = "METAR"
	ReportSPECI ReportType = "SPECI"
	ReportTAF   ReportType = "TAF"
	ReportPIREP ReportType = "PIREP"
)

func (t ReportType) String() string { return string(t) }

// ReportModifier marks how the report was produced or revised.
type ReportModifier string

const (
	ModifierAuto      ReportModifier = "AUTO"
	ModifierCorrected ReportModifier = "COR"
	ModifierAmended   ReportModifier = "AMD"
)

// QualityControlFlags carries the upstream quality-control bits attached
// to a report. The zero value means no flags were reported.
type QualityControlFlags struct {
	Corrected            bool
	Auto                 bool
	AutoStation          bool
	MaintenanceIndicator bool
	NoSignal             bool
}

// Upstream qcField bit assignments.
const (
	qcCorrected   = 1 << 0
	qcAuto        = 1 << 1
	qcAutoStation = 1 << 2
	qcMaintenance = 1 << 3
	qcNoSignal    = 1 << 4
)

// QCFlagsFromBitmask decodes the upstream qcField bitmask.
func QCFlagsFromBitmask(mask int) QualityControlFlags {
	return QualityControlFlags{
		Corrected:            mask&qcCorrected != 0,
		Auto:                 mask&qcAuto != 0,
		AutoStation:          mask&qcAutoStation != 0,
		MaintenanceIndicator: mask&qcMaintenance != 0,
		NoSignal:             mask&qcNoSignal != 0,
	}
}

// IsZero reports whether no flags are set.
func (q QualityControlFlags) IsZero() bool { return q == QualityControlFlags{} }

// RunwayVisualRange is one coded RVR group, e.g. "R04R/P6000FT".
type RunwayVisualRange struct {
	runway          string
	visualRangeFeet int
	modifier        string // "P" above the reportable maximum, "M" below minimum, "" exact
	trend           string // "U" improving, "D" worsening, "N" static, "" none
}

// NewRunwayVisualRange validates and builds an RVR entry.
func NewRunwayVisualRange(runway string, visualRangeFeet int, modifier, trend string) (RunwayVisualRange, error) {
	if runway == "" {
		return RunwayVisualRange{}, wxerr.New(wxerr.KindInvalidData, "runway visual range without runway designator")
	}
	if visualRangeFeet < 0 {
		return RunwayVisualRange{}, wxerr.Newf(wxerr.KindInvalidData, "negative runway visual range %d ft", visualRangeFeet)
	}
	switch modifier {
	case "", "P", "M":
	default:
		return RunwayVisualRange{}, wxerr.Newf(wxerr.KindInvalidData, "unknown RVR modifier %q", modifier)
	}
	switch trend {
	case "", "U", "D", "N":
	default:
		return RunwayVisualRange{}, wxerr.Newf(wxerr.KindInvalidData, "unknown RVR trend %q", trend)
	}
	return RunwayVisualRange{runway: runway, visualRangeFeet: visualRangeFeet, modifier: modifier, trend: trend}, nil
}

func (r RunwayVisualRange) Runway() string       { return r.runway }
func (r RunwayVisualRange) VisualRangeFeet() int { return r.visualRangeFeet }
func (r RunwayVisualRange) Modifier() string     { return r.modifier }
func (r RunwayVisualRange) Trend() string        { return r.trend }

// Remarks is the supplemental section of a coded report. Raw always holds
// the verbatim remarks text; decoded values are optional.
type Remarks struct {
	Raw                 string
	AutoStationType     string // "AO1" or "AO2"
	SeaLevelPressureHpa *float64
	PreciseTemperature  *float64 // T-group temperature, hundredths resolution
	PreciseDewpoint     *float64
}

// NOAAReport is a decoded aviation routine report from the NOAA source:
// the envelope plus the coded-report fields and the observed conditions.
type NOAAReport struct {
	WeatherData

	ReportType         ReportType
	ReportModifier     ReportModifier
	RawText            string
	QCFlags            QualityControlFlags
	Conditions         *WeatherConditions
	RunwayVisualRanges []RunwayVisualRange
	Remarks            *Remarks
}

// NewNOAAReport returns a report envelope for the given station with the
// NOAA source preset.
func NewNOAAReport(reportType ReportType, stationID string) (*NOAAReport, error) {
	env, err := NewStationData(SourceNOAA, stationID)
	if err != nil {
		return nil, err
	}
	return &NOAAReport{WeatherData: env, ReportType: reportType}, nil
}

// DataType is the serialization discriminator: the report type, or "NOAA"
// when the type is unset.
func (r *NOAAReport) DataType() string {
	if r.ReportType == "" {
		return "NOAA"
	}
	return string(r.ReportType)
}

// maxObservationAge bounds how old an observation may be and still describe
// current conditions.
const maxObservationAge = 2 * time.Hour

// IsCurrent reports whether the observation is strictly less than two
// hours old. Reports without an observation time are never current.
func (r *NOAAReport) IsCurrent() bool {
	if r.ObservationTime.IsZero() {
		return false
	}
	return time.Since(r.ObservationTime) < maxObservationAge
}
