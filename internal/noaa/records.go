package noaa

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Raw record shapes returned by the aviationweather.gov data API. A few
// fields come back with mixed types (a number or a coded string); those
// decode through the helper types below.

// WindDir is the upstream wdir field: degrees as a number, or "VRB" for
// variable winds. Degrees stays nil for variable, null, or missing winds.
type WindDir struct {
	Degrees *int
}

func (d *WindDir) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" || b[0] == '"' {
		d.Degrees = nil
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	deg := int(math.Round(n)) % 360
	d.Degrees = &deg
	return nil
}

// Visib is the upstream visib field: statute miles as a number, or a
// string such as "10+" or "1/2".
type Visib struct {
	Miles       *float64
	GreaterThan bool
}

func (v *Visib) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] != '"' {
		var n float64
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		v.Miles = &n
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "+") {
		v.GreaterThan = true
		s = strings.TrimSuffix(s, "+")
	}
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 {
			return nil // unreadable coded value, treat as absent
		}
		f := n / d
		v.Miles = &f
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		v.Miles = &f
	}
	return nil
}

// CloudLayer is one entry of the clouds array.
type CloudLayer struct {
	Cover string `json:"cover"`
	Base  *int   `json:"base"`
	Type  string `json:"type"`
}

// MetarRecord is one element of a metar data API response.
type MetarRecord struct {
	MetarID     int64        `json:"metar_id"`
	ICAOID      string       `json:"icaoId"`
	ReceiptTime string       `json:"receiptTime"`
	ObsTime     int64        `json:"obsTime"` // epoch seconds
	ReportTime  string       `json:"reportTime"`
	Temp        *float64     `json:"temp"` // Celsius
	Dewp        *float64     `json:"dewp"` // Celsius
	Wdir        WindDir      `json:"wdir"`
	Wspd        *float64     `json:"wspd"` // knots
	Wgst        *float64     `json:"wgst"` // knots
	Visibility  Visib        `json:"visib"`
	Altim       *float64     `json:"altim"` // hectopascals
	Slp         *float64     `json:"slp"`   // hectopascals
	QCField     int          `json:"qcField"`
	WxString    *string      `json:"wxString"`
	VertVis     *int         `json:"vertVis"`   // feet
	MetarType   string       `json:"metarType"` // METAR or SPECI
	RawOb       string       `json:"rawOb"`
	Lat         *float64     `json:"lat"`
	Lon         *float64     `json:"lon"`
	Elev        *float64     `json:"elev"` // meters
	Name        string       `json:"name"`
	Clouds      []CloudLayer `json:"clouds"`
}

// TafTemp is one entry of a forecast temp array (surface extreme).
type TafTemp struct {
	ValidTime string   `json:"validTime"`
	SfcTemp   *float64 `json:"sfcTemp"`
	MaxOrMin  string   `json:"maxOrMin"` // MAX or MIN
}

// TafForecast is one forecast group of a TAF record.
type TafForecast struct {
	TimeFrom    int64        `json:"timeFrom"` // epoch seconds
	TimeTo      int64        `json:"timeTo"`
	TimeBec     *int64       `json:"timeBec"`    // end of a BECMG transition
	FcstChange  string       `json:"fcstChange"` // "", FM, TEMPO, BECMG, PROB
	Probability *int         `json:"probability"`
	Wdir        WindDir      `json:"wdir"`
	Wspd        *float64     `json:"wspd"`
	Wgst        *float64     `json:"wgst"`
	Visibility  Visib        `json:"visib"`
	Altim       *float64     `json:"altim"`
	VertVis     *int         `json:"vertVis"`
	WxString    *string      `json:"wxString"`
	NotDecoded  string       `json:"notDecoded"`
	Clouds      []CloudLayer `json:"clouds"`
	Temps       []TafTemp    `json:"temp"`
}

// TafRecord is one element of a taf data API response.
type TafRecord struct {
	TafID         int64         `json:"tafId"`
	ICAOID        string        `json:"icaoId"`
	BulletinTime  string        `json:"bulletinTime"`
	IssueTime     string        `json:"issueTime"`
	ValidTimeFrom int64         `json:"validTimeFrom"` // epoch seconds
	ValidTimeTo   int64         `json:"validTimeTo"`
	RawTAF        string        `json:"rawTAF"`
	Remarks       string        `json:"remarks"`
	Lat           *float64      `json:"lat"`
	Lon           *float64      `json:"lon"`
	Elev          *float64      `json:"elev"`
	Name          string        `json:"name"`
	Fcsts         []TafForecast `json:"fcsts"`
}
