package wx

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"k8s.io/utils/ptr"

	"github.com/skewt/avwxingest/internal/wxerr"
)

func sampleMETAR(t *testing.T) *NOAAReport {
	t.Helper()
	r, err := NewNOAAReport(ReportMETAR, "KJFK")
	if err != nil {
		t.Fatalf("NewNOAAReport: %v", err)
	}
	r.ObservationTime = time.Date(2026, 3, 10, 17, 51, 0, 0, time.UTC)
	r.RawText = "KJFK 101751Z 30012G22KT 10SM FEW055 SCT250 12/M03 A3012 RMK AO2 SLP198"
	r.RawData = r.RawText
	r.ReportModifier = ModifierAuto
	r.QCFlags = QCFlagsFromBitmask(6)

	loc, err := NewGeoLocationFromFeet(40.64, -73.78, 13)
	if err != nil {
		t.Fatalf("NewGeoLocationFromFeet: %v", err)
	}
	r.Location = loc

	cond, err := NewConditionsBuilder().
		Wind(ptr.To(300), 12, ptr.To(22.0), Knots).
		Visibility(10, StatuteMiles).
		AddSkyCondition(Few, ptr.To(5500), "").
		AddSkyCondition(Scattered, ptr.To(25000), "").
		TemperatureWithDewpoint(12, -3).
		PressureInchesHg(30.12).
		Build()
	if err != nil {
		t.Fatalf("Build conditions: %v", err)
	}
	r.Conditions = cond

	rvr, err := NewRunwayVisualRange("04R", 6000, "P", "N")
	if err != nil {
		t.Fatalf("NewRunwayVisualRange: %v", err)
	}
	r.RunwayVisualRanges = []RunwayVisualRange{rvr}
	r.Remarks = &Remarks{
		Raw:                 "AO2 SLP198",
		AutoStationType:     "AO2",
		SeaLevelPressureHpa: ptr.To(1019.8),
	}
	r.AddMetadata("fetch-duration-ms", 125)
	return r
}

func TestMETARRoundTrip(t *testing.T) {
	orig := sampleMETAR(t)
	data, err := MarshalReport(orig)
	if err != nil {
		t.Fatalf("MarshalReport: %v", err)
	}

	got, err := UnmarshalReport(data)
	if err != nil {
		t.Fatalf("UnmarshalReport: %v", err)
	}
	r, ok := got.(*NOAAReport)
	if !ok {
		t.Fatalf("decoded %T, want *NOAAReport", got)
	}

	if r.ID != orig.ID {
		t.Errorf("ID = %s, want %s", r.ID, orig.ID)
	}
	if !r.IngestionTime.Equal(orig.IngestionTime) {
		t.Errorf("IngestionTime = %v, want %v", r.IngestionTime, orig.IngestionTime)
	}
	if r.StationID != "KJFK" || r.Source != SourceNOAA || r.ReportType != ReportMETAR {
		t.Errorf("envelope fields: %q %v %v", r.StationID, r.Source, r.ReportType)
	}
	if r.ReportModifier != ModifierAuto {
		t.Errorf("ReportModifier = %q, want AUTO", r.ReportModifier)
	}
	if r.QCFlags != orig.QCFlags {
		t.Errorf("QCFlags = %+v, want %+v", r.QCFlags, orig.QCFlags)
	}
	if !r.ObservationTime.Equal(orig.ObservationTime) {
		t.Errorf("ObservationTime = %v, want %v", r.ObservationTime, orig.ObservationTime)
	}
	if r.RawText != orig.RawText {
		t.Errorf("RawText = %q", r.RawText)
	}
	if r.Location == nil {
		t.Fatal("Location lost")
	}
	if ft, ok := r.Location.ElevationFeet(); !ok || ft != 13 {
		t.Errorf("elevation = %v, %v, want 13 ft", ft, ok)
	}

	if r.Conditions == nil {
		t.Fatal("Conditions lost")
	}
	wind, ok := r.Conditions.Wind()
	if !ok {
		t.Fatal("wind lost")
	}
	if d, _ := wind.DirectionDegrees(); d != 300 || wind.Speed() != 12 {
		t.Errorf("wind = %d at %v", d, wind.Speed())
	}
	if g, ok := wind.Gust(); !ok || g != 22 {
		t.Errorf("gust = %v, %v", g, ok)
	}
	temp, ok := r.Conditions.Temperature()
	if !ok || temp.Celsius() != 12 {
		t.Fatalf("temperature = %+v, %v", temp, ok)
	}
	if d, ok := temp.DewpointCelsius(); !ok || d != -3 {
		t.Errorf("dewpoint = %v, %v", d, ok)
	}
	press, ok := r.Conditions.Pressure()
	if !ok || press.Unit() != InchesHg || press.Value() != 30.12 {
		t.Errorf("pressure = %v %v", press.Value(), press.Unit())
	}
	if layers := r.Conditions.SkyConditions(); len(layers) != 2 {
		t.Errorf("sky layers = %d, want 2", len(layers))
	}

	if len(r.RunwayVisualRanges) != 1 || r.RunwayVisualRanges[0].Runway() != "04R" {
		t.Errorf("RVR lost: %+v", r.RunwayVisualRanges)
	}
	if r.Remarks == nil || r.Remarks.AutoStationType != "AO2" {
		t.Errorf("remarks lost: %+v", r.Remarks)
	}
	if v, ok := r.Metadata("fetch-duration-ms"); !ok || v != float64(125) {
		t.Errorf("metadata = %v, %v (JSON numbers decode as float64)", v, ok)
	}
}

func TestTAFRoundTrip(t *testing.T) {
	taf, err := NewTAFReport("KJFK")
	if err != nil {
		t.Fatalf("NewTAFReport: %v", err)
	}
	taf.RawText = "KJFK 101740Z 1018/1124 30012KT P6SM FEW250"
	taf.IssueTime = time.Date(2026, 3, 10, 17, 40, 0, 0, time.UTC)
	validFrom := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	vp, err := NewValidityPeriod(validFrom, validFrom.Add(30*time.Hour))
	if err != nil {
		t.Fatalf("NewValidityPeriod: %v", err)
	}
	taf.Validity = vp

	baseCond, err := NewConditionsBuilder().
		Wind(ptr.To(300), 12, nil, Knots).
		VisibilityModified(6, StatuteMiles, false, true).
		AddSkyCondition(Few, ptr.To(25000), "").
		Build()
	if err != nil {
		t.Fatalf("base conditions: %v", err)
	}
	fmTime := time.Date(2026, 3, 11, 2, 0, 0, 0, time.UTC)
	fm, err := NewForecastPeriod(ChangeFM, &fmTime, nil, nil, nil, baseCond)
	if err != nil {
		t.Fatalf("FM period: %v", err)
	}
	tempoCond, err := NewConditionsBuilder().
		Visibility(2, StatuteMiles).
		AddWeather("-SHRA").
		AddSkyCondition(Broken, ptr.To(800), Cumulonimbus).
		Build()
	if err != nil {
		t.Fatalf("tempo conditions: %v", err)
	}
	start := time.Date(2026, 3, 11, 4, 0, 0, 0, time.UTC)
	end := start.Add(4 * time.Hour)
	prob, err := NewForecastPeriod(ChangeProb, nil, &start, &end, ptr.To(30), tempoCond)
	if err != nil {
		t.Fatalf("PROB period: %v", err)
	}
	taf.Periods = []ForecastPeriod{fm, prob}
	taf.MinTemperature = &TemperatureExtreme{Celsius: -2, At: time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)}

	data, err := MarshalReport(taf)
	if err != nil {
		t.Fatalf("MarshalReport: %v", err)
	}
	got, err := UnmarshalReport(data)
	if err != nil {
		t.Fatalf("UnmarshalReport: %v", err)
	}
	decoded, ok := got.(*TAFReport)
	if !ok {
		t.Fatalf("decoded %T, want *TAFReport", got)
	}

	if decoded.DataType() != "TAF" || decoded.ReportType != ReportTAF {
		t.Errorf("type fields: %q %q", decoded.DataType(), decoded.ReportType)
	}
	if !decoded.IssueTime.Equal(taf.IssueTime) {
		t.Errorf("IssueTime = %v", decoded.IssueTime)
	}
	if !decoded.Validity.Start().Equal(vp.Start()) || !decoded.Validity.End().Equal(vp.End()) {
		t.Errorf("validity = %v..%v", decoded.Validity.Start(), decoded.Validity.End())
	}
	if len(decoded.Periods) != 2 {
		t.Fatalf("periods = %d, want 2", len(decoded.Periods))
	}
	if decoded.Periods[0].Indicator() != ChangeFM {
		t.Errorf("period 0 indicator = %v", decoded.Periods[0].Indicator())
	}
	if ct, ok := decoded.Periods[0].ChangeTime(); !ok || !ct.Equal(fmTime) {
		t.Errorf("period 0 change time = %v, %v", ct, ok)
	}
	if p, ok := decoded.Periods[1].Probability(); !ok || p != 30 {
		t.Errorf("period 1 probability = %d, %v", p, ok)
	}
	gotStart, gotEnd, ok := decoded.Periods[1].Period()
	if !ok || !gotStart.Equal(start) || !gotEnd.Equal(end) {
		t.Errorf("period 1 window = %v..%v, %v", gotStart, gotEnd, ok)
	}
	if decoded.Periods[1].Conditions() == nil || !decoded.Periods[1].Conditions().IsLikelyIMC() {
		t.Error("period 1 conditions lost IMC character")
	}
	if decoded.MinTemperature == nil || decoded.MinTemperature.Celsius != -2 {
		t.Errorf("MinTemperature = %+v", decoded.MinTemperature)
	}
	if decoded.MaxTemperature != nil {
		t.Errorf("MaxTemperature = %+v, want nil", decoded.MaxTemperature)
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	w, err := NewStationData(SourceInternal, "KSEA")
	if err != nil {
		t.Fatalf("NewStationData: %v", err)
	}
	w.RawData = "synthetic payload"
	w.AddMetadata("scenario", "smoke")

	data, err := MarshalReport(&w)
	if err != nil {
		t.Fatalf("MarshalReport: %v", err)
	}
	if !strings.Contains(string(data), `"dataType":"TEST"`) {
		t.Errorf("document missing TEST discriminator: %s", data)
	}
	got, err := UnmarshalReport(data)
	if err != nil {
		t.Fatalf("UnmarshalReport: %v", err)
	}
	decoded, ok := got.(*WeatherData)
	if !ok {
		t.Fatalf("decoded %T, want *WeatherData", got)
	}
	if !decoded.Equal(&w) {
		t.Error("round-tripped envelope has a different ID")
	}
	if decoded.RawData != w.RawData || decoded.Source != SourceInternal {
		t.Errorf("payload fields: %q %v", decoded.RawData, decoded.Source)
	}
}

func TestUnmarshalRegeneratesMissingIdentity(t *testing.T) {
	before := time.Now().UTC()
	got, err := UnmarshalReport([]byte(`{"dataType":"METAR","stationId":"KBOS","rawText":"KBOS 101754Z ..."}`))
	if err != nil {
		t.Fatalf("UnmarshalReport: %v", err)
	}
	r := got.(*NOAAReport)
	if r.ID == uuid.Nil {
		t.Error("missing id not regenerated")
	}
	if r.IngestionTime.Before(before) || r.IngestionTime.Location() != time.UTC {
		t.Errorf("missing ingestionTime not regenerated: %v", r.IngestionTime)
	}
	if r.ReportType != ReportMETAR {
		t.Errorf("ReportType = %q, want METAR from discriminator", r.ReportType)
	}
}

func TestUnmarshalIgnoresUnknownProperties(t *testing.T) {
	doc := `{"dataType":"METAR","stationId":"KBOS","futureField":{"nested":true},"anotherOne":[1,2,3]}`
	if _, err := UnmarshalReport([]byte(doc)); err != nil {
		t.Fatalf("unknown properties rejected: %v", err)
	}
}

func TestUnmarshalUnknownDataType(t *testing.T) {
	_, err := UnmarshalReport([]byte(`{"dataType":"SIGMET"}`))
	if err == nil {
		t.Fatal("unknown dataType accepted")
	}
	if !wxerr.IsKind(err, wxerr.KindParse) {
		t.Errorf("error kind = %v, want parse_error", err)
	}
}

func TestUnmarshalMalformedJSON(t *testing.T) {
	_, err := UnmarshalReport([]byte(`{"dataType":`))
	if err == nil {
		t.Fatal("malformed document accepted")
	}
	if !wxerr.IsKind(err, wxerr.KindParse) {
		t.Errorf("error kind = %v, want parse_error", err)
	}
}

func TestUnmarshalRejectsInvalidNestedValues(t *testing.T) {
	// The stored document claims a dewpoint above the temperature; decoding
	// re-validates through the constructors.
	doc := `{"dataType":"METAR","stationId":"KBOS","conditions":{"temperature":{"celsius":5,"dewpointCelsius":9}}}`
	if _, err := UnmarshalReport([]byte(doc)); err == nil {
		t.Fatal("invalid dewpoint accepted on decode")
	}
}

func TestMarshalRendersInstantsInUTC(t *testing.T) {
	r, err := NewNOAAReport(ReportMETAR, "KLAX")
	if err != nil {
		t.Fatalf("NewNOAAReport: %v", err)
	}
	pacific := time.FixedZone("PST", -8*3600)
	r.ObservationTime = time.Date(2026, 3, 10, 9, 51, 0, 0, pacific)

	data, err := MarshalReport(r)
	if err != nil {
		t.Fatalf("MarshalReport: %v", err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	obs, _ := doc["observationTime"].(string)
	if !strings.HasSuffix(obs, "Z") {
		t.Errorf("observationTime %q not rendered in UTC", obs)
	}
	if obs != "2026-03-10T17:51:00Z" {
		t.Errorf("observationTime = %q, want 2026-03-10T17:51:00Z", obs)
	}
}

func TestSpecialVisibilitySurvivesRoundTrip(t *testing.T) {
	r, err := NewNOAAReport(ReportMETAR, "EGLL")
	if err != nil {
		t.Fatalf("NewNOAAReport: %v", err)
	}
	cond, err := NewConditionsBuilder().SpecialVisibility(VisibilityCAVOK).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	r.Conditions = cond

	data, err := MarshalReport(r)
	if err != nil {
		t.Fatalf("MarshalReport: %v", err)
	}
	got, err := UnmarshalReport(data)
	if err != nil {
		t.Fatalf("UnmarshalReport: %v", err)
	}
	vis, ok := got.(*NOAAReport).Conditions.Visibility()
	if !ok {
		t.Fatal("visibility lost")
	}
	special, ok := vis.Special()
	if !ok || special != VisibilityCAVOK {
		t.Errorf("Special() = %v, %v, want CAVOK", special, ok)
	}
	if vis.Distance() != 10 || vis.Unit() != Kilometers {
		t.Errorf("CAVOK distance = %v %v, want 10 KM", vis.Distance(), vis.Unit())
	}
}
