package wx

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/skewt/avwxingest/internal/wxerr"
)

// PressureUnit is the unit a pressure was reported in.
type PressureUnit string

const (
	InchesHg     PressureUnit = "INCHES_HG"
	Hectopascals PressureUnit = "HECTOPASCALS"
)

// hpaPerInchHg converts between the two reporting units.
const hpaPerInchHg = 33.8639

// Plausible sea-level pressure ranges per unit; values outside are rejected
// as transcription errors.
const (
	minInchesHg = 25.0
	maxInchesHg = 35.0
	minHpa      = 850.0
	maxHpa      = 1100.0
)

// Pressure is an atmospheric pressure tagged with its reporting unit.
type Pressure struct {
	value float64
	unit  PressureUnit
}

// NewPressureInchesHg builds a pressure reported in inches of mercury.
func NewPressureInchesHg(v float64) (Pressure, error) {
	if v < minInchesHg || v > maxInchesHg || math.IsNaN(v) {
		return Pressure{}, wxerr.Newf(wxerr.KindInvalidData,
			"pressure %.2f inHg outside plausible range [%.1f, %.1f]", v, minInchesHg, maxInchesHg)
	}
	return Pressure{value: v, unit: InchesHg}, nil
}

// NewPressureHectopascals builds a pressure reported in hectopascals.
func NewPressureHectopascals(v float64) (Pressure, error) {
	if v < minHpa || v > maxHpa || math.IsNaN(v) {
		return Pressure{}, wxerr.Newf(wxerr.KindInvalidData,
			"pressure %.1f hPa outside plausible range [%.0f, %.0f]", v, minHpa, maxHpa)
	}
	return Pressure{value: v, unit: Hectopascals}, nil
}

// StandardPressure is the ISA sea-level standard, 1013.25 hPa.
func StandardPressure() Pressure {
	return Pressure{value: 1013.25, unit: Hectopascals}
}

func (p Pressure) Value() float64     { return p.value }
func (p Pressure) Unit() PressureUnit { return p.unit }

// IsZero reports whether p is the zero value rather than a constructed
// pressure.
func (p Pressure) IsZero() bool { return p.unit == "" }

// InchesHg returns the pressure converted to inches of mercury.
func (p Pressure) InchesHg() float64 {
	if p.unit == InchesHg {
		return p.value
	}
	return p.value / hpaPerInchHg
}

// Hectopascals returns the pressure converted to hectopascals.
func (p Pressure) Hectopascals() float64 {
	if p.unit == Hectopascals {
		return p.value
	}
	return p.value * hpaPerInchHg
}

// Equal compares two pressures, converting across units; agreement within
// 0.01 hPa counts as equal.
func (p Pressure) Equal(o Pressure) bool {
	if p.IsZero() || o.IsZero() {
		return p == o
	}
	return math.Abs(p.Hectopascals()-o.Hectopascals()) < 0.01
}

func (p Pressure) String() string {
	switch p.unit {
	case InchesHg:
		return fmt.Sprintf("%.2f inHg", p.value)
	case Hectopascals:
		return fmt.Sprintf("%.1f hPa", p.value)
	default:
		return "unset"
	}
}

// MetarAltimeter renders the pressure as a METAR altimeter group, e.g.
// "A2992" for 29.92 inHg.
func (p Pressure) MetarAltimeter() string {
	return fmt.Sprintf("A%04d", int(math.Round(p.InchesHg()*100)))
}

// PressureFromMetarAltimeter parses a METAR altimeter group ("A2992",
// hundredths of inches of mercury).
func PressureFromMetarAltimeter(group string) (Pressure, error) {
	digits, ok := strings.CutPrefix(group, "A")
	if !ok || len(digits) != 4 {
		return Pressure{}, wxerr.Newf(wxerr.KindInvalidData, "malformed altimeter group %q", group)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return Pressure{}, wxerr.Wrapf(wxerr.KindInvalidData, err, "malformed altimeter group %q", group)
	}
	return NewPressureInchesHg(float64(n) / 100)
}

// MetarQNH renders the pressure as a METAR QNH group, e.g. "Q1013" for
// 1013 hPa. Sub-hectopascal precision is lost.
func (p Pressure) MetarQNH() string {
	return fmt.Sprintf("Q%04d", int(math.Round(p.Hectopascals())))
}

// PressureFromMetarQNH parses a METAR QNH group ("Q1013", whole
// hectopascals).
func PressureFromMetarQNH(group string) (Pressure, error) {
	digits, ok := strings.CutPrefix(group, "Q")
	if !ok || len(digits) != 4 {
		return Pressure{}, wxerr.Newf(wxerr.KindInvalidData, "malformed QNH group %q", group)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return Pressure{}, wxerr.Wrapf(wxerr.KindInvalidData, err, "malformed QNH group %q", group)
	}
	return NewPressureHectopascals(float64(n))
}
