package wx

import "strings"

// Source identifies the upstream provider of a report.
type Source string

const (
	SourceNOAA           Source = "NOAA"
	SourceOpenWeatherMap Source = "OPENWEATHERMAP"
	SourceWeatherAPI     Source = "WEATHERAPI"
	SourceVisualCrossing Source = "VISUAL_CROSSING"
	SourceInternal       Source = "INTERNAL"
	SourceUnknown        Source = "UNKNOWN"
)

// Valid reports whether s is one of the known source values.
func (s Source) Valid() bool {
	switch s {
	case SourceNOAA, SourceOpenWeatherMap, SourceWeatherAPI, SourceVisualCrossing, SourceInternal, SourceUnknown:
		return true
	}
	return false
}

func (s Source) String() string { return string(s) }

// ParseSource maps a raw string to a Source, case-insensitively, returning
// SourceUnknown for anything unrecognized.
func ParseSource(raw string) Source {
	s := Source(strings.ToUpper(raw))
	if s.Valid() {
		return s
	}
	return SourceUnknown
}
