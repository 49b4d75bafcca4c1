package wx

import "strings"

// WeatherPhenomenon is a coded present-weather group as reported, e.g.
// "-RA", "+TSRA", "FZFG", "VCSH". The leading character may be an
// intensity qualifier ("+", "-") or the group may start with the vicinity
// marker "VC".
type WeatherPhenomenon string

// Two-letter codes that denote falling precipitation.
var precipitationCodes = []string{"DZ", "RA", "SN", "SG", "IC", "PL", "GR", "GS", "UP"}

func (p WeatherPhenomenon) String() string { return string(p) }

// Intensity returns the coded qualifier: "+", "-", "VC", or "" for
// moderate.
func (p WeatherPhenomenon) Intensity() string {
	s := string(p)
	switch {
	case strings.HasPrefix(s, "+"):
		return "+"
	case strings.HasPrefix(s, "-"):
		return "-"
	case strings.HasPrefix(s, "VC"):
		return "VC"
	default:
		return ""
	}
}

// base strips the intensity qualifier, leaving descriptor+phenomenon codes.
func (p WeatherPhenomenon) base() string {
	s := string(p)
	s = strings.TrimPrefix(s, "+")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, "VC")
	return s
}

// IsPrecipitation reports whether the group contains a precipitation code.
func (p WeatherPhenomenon) IsPrecipitation() bool {
	b := p.base()
	for _, code := range precipitationCodes {
		if strings.Contains(b, code) {
			return true
		}
	}
	return false
}

// IsThunderstorm reports whether the group carries the TS descriptor.
func (p WeatherPhenomenon) IsThunderstorm() bool {
	return strings.Contains(p.base(), "TS")
}

// IsFreezing reports whether the group carries the FZ descriptor
// (freezing rain, freezing drizzle, freezing fog).
func (p WeatherPhenomenon) IsFreezing() bool {
	return strings.Contains(p.base(), "FZ")
}
