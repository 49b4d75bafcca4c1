package wx

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/skewt/avwxingest/internal/wxerr"
)

// Report is any serializable weather document. The concrete types are
// *WeatherData (test payloads), *NOAAReport, and *TAFReport.
type Report interface {
	DataType() string
	Envelope() *WeatherData
}

// Wire DTOs. One flat document shape serves every dataType; fields that do
// not apply stay empty and are omitted. Unknown properties in stored
// documents are ignored on read.

type locationJSON struct {
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	ElevationMeters *float64 `json:"elevationMeters,omitempty"`
}

type windJSON struct {
	DirectionDegrees *int     `json:"directionDegrees,omitempty"`
	Speed            float64  `json:"speed"`
	Gust             *float64 `json:"gust,omitempty"`
	Unit             string   `json:"unit"`
}

type visibilityJSON struct {
	Distance    float64 `json:"distance"`
	Unit        string  `json:"unit,omitempty"`
	LessThan    bool    `json:"lessThan,omitempty"`
	GreaterThan bool    `json:"greaterThan,omitempty"`
	Special     string  `json:"specialCondition,omitempty"`
}

type skyConditionJSON struct {
	Coverage   string `json:"coverage"`
	HeightFeet *int   `json:"heightFeet,omitempty"`
	CloudType  string `json:"cloudType,omitempty"`
}

type temperatureJSON struct {
	Celsius         float64  `json:"celsius"`
	DewpointCelsius *float64 `json:"dewpointCelsius,omitempty"`
}

type pressureJSON struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

type conditionsJSON struct {
	Wind           *windJSON          `json:"wind,omitempty"`
	Visibility     *visibilityJSON    `json:"visibility,omitempty"`
	PresentWeather []string           `json:"presentWeather,omitempty"`
	SkyConditions  []skyConditionJSON `json:"skyConditions,omitempty"`
	Temperature    *temperatureJSON   `json:"temperature,omitempty"`
	Pressure       *pressureJSON      `json:"pressure,omitempty"`
}

type qcFlagsJSON struct {
	Corrected            bool `json:"corrected,omitempty"`
	Auto                 bool `json:"auto,omitempty"`
	AutoStation          bool `json:"autoStation,omitempty"`
	MaintenanceIndicator bool `json:"maintenanceIndicator,omitempty"`
	NoSignal             bool `json:"noSignal,omitempty"`
}

type rvrJSON struct {
	Runway          string `json:"runway"`
	VisualRangeFeet int    `json:"visualRangeFeet"`
	Modifier        string `json:"modifier,omitempty"`
	Trend           string `json:"trend,omitempty"`
}

type remarksJSON struct {
	Raw                 string   `json:"raw,omitempty"`
	AutoStationType     string   `json:"autoStationType,omitempty"`
	SeaLevelPressureHpa *float64 `json:"seaLevelPressureHpa,omitempty"`
	PreciseTemperature  *float64 `json:"preciseTemperature,omitempty"`
	PreciseDewpoint     *float64 `json:"preciseDewpoint,omitempty"`
}

type forecastPeriodJSON struct {
	ChangeIndicator string          `json:"changeIndicator"`
	ChangeTime      *time.Time      `json:"changeTime,omitempty"`
	PeriodStart     *time.Time      `json:"periodStart,omitempty"`
	PeriodEnd       *time.Time      `json:"periodEnd,omitempty"`
	Probability     *int            `json:"probability,omitempty"`
	Conditions      *conditionsJSON `json:"conditions"`
}

type validityJSON struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type extremeJSON struct {
	Celsius float64   `json:"celsius"`
	At      time.Time `json:"at"`
}

type reportJSON struct {
	DataType        string                 `json:"dataType"`
	ID              string                 `json:"id,omitempty"`
	IngestionTime   *time.Time             `json:"ingestionTime,omitempty"`
	Source          string                 `json:"source,omitempty"`
	ProcessingLayer string                 `json:"processingLayer,omitempty"`
	StationID       string                 `json:"stationId,omitempty"`
	ObservationTime *time.Time             `json:"observationTime,omitempty"`
	Location        *locationJSON          `json:"location,omitempty"`
	RawData         string                 `json:"rawData,omitempty"`
	QualityFlags    string                 `json:"qualityFlags,omitempty"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`

	ReportType         string          `json:"reportType,omitempty"`
	ReportModifier     string          `json:"reportModifier,omitempty"`
	RawText            string          `json:"rawText,omitempty"`
	QualityControl     *qcFlagsJSON    `json:"qualityControlFlags,omitempty"`
	Conditions         *conditionsJSON `json:"conditions,omitempty"`
	RunwayVisualRanges []rvrJSON       `json:"runwayVisualRanges,omitempty"`
	Remarks            *remarksJSON    `json:"remarks,omitempty"`

	IssueTime      *time.Time           `json:"issueTime,omitempty"`
	Validity       *validityJSON        `json:"validityPeriod,omitempty"`
	Periods        []forecastPeriodJSON `json:"forecastPeriods,omitempty"`
	MinTemperature *extremeJSON         `json:"minTemperature,omitempty"`
	MaxTemperature *extremeJSON         `json:"maxTemperature,omitempty"`
}

// MarshalReport serializes a report to its canonical JSON document. All
// instants are rendered in UTC.
func MarshalReport(r Report) ([]byte, error) {
	doc, err := toWire(r)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// UnmarshalReport decodes a canonical JSON document, dispatching on the
// dataType discriminator. Missing id/ingestionTime are regenerated; a
// malformed id is replaced rather than rejected.
func UnmarshalReport(data []byte) (Report, error) {
	var doc reportJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, wxerr.Wrap(wxerr.KindParse, err, "malformed report document")
	}

	switch doc.DataType {
	case "TAF":
		return tafFromWire(&doc)
	case "NOAA", "METAR", "SPECI", "PIREP":
		return noaaFromWire(&doc)
	case "TEST":
		env, err := envelopeFromWire(&doc)
		if err != nil {
			return nil, err
		}
		return env, nil
	default:
		return nil, wxerr.Newf(wxerr.KindParse, "unknown dataType %q", doc.DataType)
	}
}

func utcPtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}

func toWire(r Report) (*reportJSON, error) {
	switch v := r.(type) {
	case *TAFReport:
		doc := noaaToWire(&v.NOAAReport)
		doc.DataType = v.DataType()
		doc.IssueTime = utcPtr(v.IssueTime)
		if !v.Validity.start.IsZero() || !v.Validity.end.IsZero() {
			doc.Validity = &validityJSON{Start: v.Validity.start, End: v.Validity.end}
		}
		for _, p := range v.Periods {
			doc.Periods = append(doc.Periods, periodToWire(p))
		}
		if v.MinTemperature != nil {
			doc.MinTemperature = &extremeJSON{Celsius: v.MinTemperature.Celsius, At: v.MinTemperature.At.UTC()}
		}
		if v.MaxTemperature != nil {
			doc.MaxTemperature = &extremeJSON{Celsius: v.MaxTemperature.Celsius, At: v.MaxTemperature.At.UTC()}
		}
		return doc, nil
	case *NOAAReport:
		return noaaToWire(v), nil
	case *WeatherData:
		doc := envelopeToWire(v)
		doc.DataType = v.DataType()
		return doc, nil
	default:
		return nil, wxerr.Newf(wxerr.KindInvalidData, "unsupported report type %T", r)
	}
}

func envelopeToWire(w *WeatherData) *reportJSON {
	doc := &reportJSON{
		ID:              w.ID.String(),
		IngestionTime:   utcPtr(w.IngestionTime),
		Source:          string(w.Source),
		ProcessingLayer: string(w.Layer),
		StationID:       w.StationID,
		ObservationTime: utcPtr(w.ObservationTime),
		RawData:         w.RawData,
		QualityFlags:    w.QualityFlags,
		Metadata:        w.MetadataMap(),
	}
	if w.ID == uuid.Nil {
		doc.ID = ""
	}
	if w.Location != nil {
		loc := &locationJSON{Latitude: w.Location.latitude, Longitude: w.Location.longitude}
		if w.Location.elevationMeters != nil {
			m := *w.Location.elevationMeters
			loc.ElevationMeters = &m
		}
		doc.Location = loc
	}
	return doc
}

func noaaToWire(r *NOAAReport) *reportJSON {
	doc := envelopeToWire(&r.WeatherData)
	doc.DataType = r.DataType()
	doc.ReportType = string(r.ReportType)
	doc.ReportModifier = string(r.ReportModifier)
	doc.RawText = r.RawText
	if !r.QCFlags.IsZero() {
		doc.QualityControl = &qcFlagsJSON{
			Corrected:            r.QCFlags.Corrected,
			Auto:                 r.QCFlags.Auto,
			AutoStation:          r.QCFlags.AutoStation,
			MaintenanceIndicator: r.QCFlags.MaintenanceIndicator,
			NoSignal:             r.QCFlags.NoSignal,
		}
	}
	doc.Conditions = conditionsToWire(r.Conditions)
	for _, rvr := range r.RunwayVisualRanges {
		doc.RunwayVisualRanges = append(doc.RunwayVisualRanges, rvrJSON{
			Runway:          rvr.runway,
			VisualRangeFeet: rvr.visualRangeFeet,
			Modifier:        rvr.modifier,
			Trend:           rvr.trend,
		})
	}
	if r.Remarks != nil {
		doc.Remarks = &remarksJSON{
			Raw:                 r.Remarks.Raw,
			AutoStationType:     r.Remarks.AutoStationType,
			SeaLevelPressureHpa: r.Remarks.SeaLevelPressureHpa,
			PreciseTemperature:  r.Remarks.PreciseTemperature,
			PreciseDewpoint:     r.Remarks.PreciseDewpoint,
		}
	}
	return doc
}

func conditionsToWire(c *WeatherConditions) *conditionsJSON {
	if c == nil {
		return nil
	}
	out := &conditionsJSON{}
	if c.wind != nil {
		w := &windJSON{Speed: c.wind.speed, Unit: string(c.wind.unit)}
		if c.wind.directionDegrees != nil {
			d := *c.wind.directionDegrees
			w.DirectionDegrees = &d
		}
		if c.wind.gust != nil {
			g := *c.wind.gust
			w.Gust = &g
		}
		out.Wind = w
	}
	if c.visibility != nil {
		out.Visibility = &visibilityJSON{
			Distance:    c.visibility.distance,
			Unit:        string(c.visibility.unit),
			LessThan:    c.visibility.lessThan,
			GreaterThan: c.visibility.greaterThan,
			Special:     string(c.visibility.special),
		}
	}
	for _, p := range c.presentWeather {
		out.PresentWeather = append(out.PresentWeather, string(p))
	}
	for _, layer := range c.skyConditions {
		sc := skyConditionJSON{Coverage: string(layer.coverage), CloudType: string(layer.cloudType)}
		if layer.heightFeet != nil {
			h := *layer.heightFeet
			sc.HeightFeet = &h
		}
		out.SkyConditions = append(out.SkyConditions, sc)
	}
	if c.temperature != nil {
		t := &temperatureJSON{Celsius: c.temperature.celsius}
		if c.temperature.dewpointCelsius != nil {
			d := *c.temperature.dewpointCelsius
			t.DewpointCelsius = &d
		}
		out.Temperature = t
	}
	if c.pressure != nil {
		out.Pressure = &pressureJSON{Value: c.pressure.value, Unit: string(c.pressure.unit)}
	}
	return out
}

func periodToWire(p ForecastPeriod) forecastPeriodJSON {
	out := forecastPeriodJSON{
		ChangeIndicator: string(p.indicator),
		Conditions:      conditionsToWire(p.conditions),
	}
	if p.changeTime != nil {
		out.ChangeTime = utcPtr(*p.changeTime)
	}
	if p.periodStart != nil {
		out.PeriodStart = utcPtr(*p.periodStart)
	}
	if p.periodEnd != nil {
		out.PeriodEnd = utcPtr(*p.periodEnd)
	}
	if p.probability != nil {
		v := *p.probability
		out.Probability = &v
	}
	return out
}

func envelopeFromWire(doc *reportJSON) (*WeatherData, error) {
	w := NewWeatherData()
	if doc.ID != "" {
		if id, err := uuid.Parse(doc.ID); err == nil {
			w.ID = id
		}
	}
	if doc.IngestionTime != nil {
		w.IngestionTime = doc.IngestionTime.UTC()
	}
	if doc.Source != "" {
		w.Source = ParseSource(doc.Source)
	}
	if doc.ProcessingLayer != "" {
		if l := ProcessingLayer(doc.ProcessingLayer); l.Valid() {
			w.Layer = l
		}
	}
	w.StationID = doc.StationID
	if doc.ObservationTime != nil {
		w.ObservationTime = doc.ObservationTime.UTC()
	}
	if doc.Location != nil {
		var (
			loc *GeoLocation
			err error
		)
		if doc.Location.ElevationMeters != nil {
			loc, err = NewGeoLocationWithElevation(doc.Location.Latitude, doc.Location.Longitude, *doc.Location.ElevationMeters)
		} else {
			loc, err = NewGeoLocation(doc.Location.Latitude, doc.Location.Longitude)
		}
		if err != nil {
			return nil, wxerr.Wrap(wxerr.KindParse, err, "document location")
		}
		w.Location = loc
	}
	w.RawData = doc.RawData
	w.QualityFlags = doc.QualityFlags
	w.setMetadataMap(doc.Metadata)
	return &w, nil
}

func noaaFromWire(doc *reportJSON) (*NOAAReport, error) {
	env, err := envelopeFromWire(doc)
	if err != nil {
		return nil, err
	}
	r := &NOAAReport{
		WeatherData:    *env,
		ReportType:     ReportType(doc.ReportType),
		ReportModifier: ReportModifier(doc.ReportModifier),
		RawText:        doc.RawText,
	}
	if r.ReportType == "" && doc.DataType != "NOAA" {
		r.ReportType = ReportType(doc.DataType)
	}
	if doc.QualityControl != nil {
		r.QCFlags = QualityControlFlags{
			Corrected:            doc.QualityControl.Corrected,
			Auto:                 doc.QualityControl.Auto,
			AutoStation:          doc.QualityControl.AutoStation,
			MaintenanceIndicator: doc.QualityControl.MaintenanceIndicator,
			NoSignal:             doc.QualityControl.NoSignal,
		}
	}
	if doc.Conditions != nil {
		c, err := conditionsFromWire(doc.Conditions)
		if err != nil {
			return nil, err
		}
		r.Conditions = c
	}
	for _, rvr := range doc.RunwayVisualRanges {
		entry, err := NewRunwayVisualRange(rvr.Runway, rvr.VisualRangeFeet, rvr.Modifier, rvr.Trend)
		if err != nil {
			return nil, wxerr.Wrap(wxerr.KindParse, err, "document runway visual range")
		}
		r.RunwayVisualRanges = append(r.RunwayVisualRanges, entry)
	}
	if doc.Remarks != nil {
		r.Remarks = &Remarks{
			Raw:                 doc.Remarks.Raw,
			AutoStationType:     doc.Remarks.AutoStationType,
			SeaLevelPressureHpa: doc.Remarks.SeaLevelPressureHpa,
			PreciseTemperature:  doc.Remarks.PreciseTemperature,
			PreciseDewpoint:     doc.Remarks.PreciseDewpoint,
		}
	}
	return r, nil
}

func tafFromWire(doc *reportJSON) (*TAFReport, error) {
	base, err := noaaFromWire(doc)
	if err != nil {
		return nil, err
	}
	if base.ReportType == "" {
		base.ReportType = ReportTAF
	}
	t := &TAFReport{NOAAReport: *base}
	if doc.IssueTime != nil {
		t.IssueTime = doc.IssueTime.UTC()
	}
	if doc.Validity != nil {
		vp, err := NewValidityPeriod(doc.Validity.Start, doc.Validity.End)
		if err != nil {
			return nil, wxerr.Wrap(wxerr.KindParse, err, "document validity period")
		}
		t.Validity = vp
	}
	for _, p := range doc.Periods {
		period, err := periodFromWire(&p)
		if err != nil {
			return nil, err
		}
		t.Periods = append(t.Periods, period)
	}
	if doc.MinTemperature != nil {
		t.MinTemperature = &TemperatureExtreme{Celsius: doc.MinTemperature.Celsius, At: doc.MinTemperature.At.UTC()}
	}
	if doc.MaxTemperature != nil {
		t.MaxTemperature = &TemperatureExtreme{Celsius: doc.MaxTemperature.Celsius, At: doc.MaxTemperature.At.UTC()}
	}
	return t, nil
}

func conditionsFromWire(doc *conditionsJSON) (*WeatherConditions, error) {
	b := NewConditionsBuilder()
	if doc.Wind != nil {
		b.Wind(doc.Wind.DirectionDegrees, doc.Wind.Speed, doc.Wind.Gust, SpeedUnit(doc.Wind.Unit))
	}
	if doc.Visibility != nil {
		if doc.Visibility.Special != "" {
			// Reconstruct directly so the recorded distance survives the
			// round trip alongside the special condition.
			b.c.visibility = &Visibility{
				distance:    doc.Visibility.Distance,
				unit:        DistanceUnit(doc.Visibility.Unit),
				lessThan:    doc.Visibility.LessThan,
				greaterThan: doc.Visibility.GreaterThan,
				special:     SpecialVisibility(doc.Visibility.Special),
			}
		} else {
			b.VisibilityModified(doc.Visibility.Distance, DistanceUnit(doc.Visibility.Unit),
				doc.Visibility.LessThan, doc.Visibility.GreaterThan)
		}
	}
	for _, p := range doc.PresentWeather {
		b.AddWeather(WeatherPhenomenon(p))
	}
	for _, layer := range doc.SkyConditions {
		b.AddSkyCondition(SkyCoverage(layer.Coverage), layer.HeightFeet, CloudType(layer.CloudType))
	}
	if doc.Temperature != nil {
		if doc.Temperature.DewpointCelsius != nil {
			b.TemperatureWithDewpoint(doc.Temperature.Celsius, *doc.Temperature.DewpointCelsius)
		} else {
			b.Temperature(doc.Temperature.Celsius)
		}
	}
	if doc.Pressure != nil {
		switch PressureUnit(doc.Pressure.Unit) {
		case InchesHg:
			b.PressureInchesHg(doc.Pressure.Value)
		case Hectopascals:
			b.PressureHectopascals(doc.Pressure.Value)
		default:
			return nil, wxerr.Newf(wxerr.KindParse, "unknown pressure unit %q", doc.Pressure.Unit)
		}
	}
	c, err := b.Build()
	if err != nil {
		return nil, wxerr.Wrap(wxerr.KindParse, err, "document conditions")
	}
	return c, nil
}

func periodFromWire(doc *forecastPeriodJSON) (ForecastPeriod, error) {
	if doc.Conditions == nil {
		return ForecastPeriod{}, wxerr.New(wxerr.KindParse, "forecast period without conditions")
	}
	c, err := conditionsFromWire(doc.Conditions)
	if err != nil {
		return ForecastPeriod{}, err
	}
	period, err := NewForecastPeriod(ChangeIndicator(doc.ChangeIndicator),
		doc.ChangeTime, doc.PeriodStart, doc.PeriodEnd, doc.Probability, c)
	if err != nil {
		return ForecastPeriod{}, wxerr.Wrap(wxerr.KindParse, err, "document forecast period")
	}
	return period, nil
}
