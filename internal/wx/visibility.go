package wx

import "github.com/skewt/avwxingest/internal/wxerr"

// DistanceUnit is the unit horizontal visibility was reported in.
type DistanceUnit string

const (
	StatuteMiles DistanceUnit = "SM"
	Kilometers   DistanceUnit = "KM"
	Meters       DistanceUnit = "M"
)

// Valid reports whether u is one of the known distance units.
func (u DistanceUnit) Valid() bool {
	switch u {
	case StatuteMiles, Kilometers, Meters:
		return true
	}
	return false
}

// SpecialVisibility marks coded visibility conditions that replace or
// qualify a plain distance.
type SpecialVisibility string

const (
	// VisibilityCAVOK: ceiling and visibility OK; no cloud below 5000 ft,
	// visibility 10 km or more, no significant weather.
	VisibilityCAVOK SpecialVisibility = "CAVOK"
	// VisibilityNDV: no directional variation reported (automated station).
	VisibilityNDV SpecialVisibility = "NDV"
)

// Visibility is a horizontal visibility group. lessThan/greaterThan mirror
// the coded "M"/"P" prefixes ("M1/4SM", "P6SM").
type Visibility struct {
	distance    float64
	unit        DistanceUnit
	lessThan    bool
	greaterThan bool
	special     SpecialVisibility
}

// NewVisibility builds a plain visibility distance.
func NewVisibility(distance float64, unit DistanceUnit) (Visibility, error) {
	return NewVisibilityModified(distance, unit, false, false)
}

// NewVisibilityModified builds a visibility carrying a less-than or
// greater-than qualifier.
func NewVisibilityModified(distance float64, unit DistanceUnit, lessThan, greaterThan bool) (Visibility, error) {
	if distance < 0 {
		return Visibility{}, wxerr.Newf(wxerr.KindInvalidData, "negative visibility %.2f", distance)
	}
	if !unit.Valid() {
		return Visibility{}, wxerr.Newf(wxerr.KindInvalidData, "unknown visibility unit %q", unit)
	}
	if lessThan && greaterThan {
		return Visibility{}, wxerr.New(wxerr.KindInvalidData, "visibility cannot be both less-than and greater-than")
	}
	return Visibility{distance: distance, unit: unit, lessThan: lessThan, greaterThan: greaterThan}, nil
}

// NewSpecialVisibility builds a visibility for a coded special condition.
// CAVOK implies 10 km or better.
func NewSpecialVisibility(cond SpecialVisibility) Visibility {
	v := Visibility{special: cond}
	if cond == VisibilityCAVOK {
		v.distance = 10
		v.unit = Kilometers
		v.greaterThan = true
	}
	return v
}

func (v Visibility) Distance() float64  { return v.distance }
func (v Visibility) Unit() DistanceUnit { return v.unit }
func (v Visibility) LessThan() bool     { return v.lessThan }
func (v Visibility) GreaterThan() bool  { return v.greaterThan }

// Special returns the coded condition when one applies.
func (v Visibility) Special() (SpecialVisibility, bool) {
	return v.special, v.special != ""
}

// InStatuteMiles converts the distance to statute miles.
func (v Visibility) InStatuteMiles() float64 {
	switch v.unit {
	case Kilometers:
		return v.distance / 1.609344
	case Meters:
		return v.distance / 1609.344
	default:
		return v.distance
	}
}
