package wx

import "github.com/skewt/avwxingest/internal/wxerr"

// Temperature is an air temperature with optional dewpoint, both Celsius.
// The dewpoint can never exceed the temperature.
type Temperature struct {
	celsius         float64
	dewpointCelsius *float64
}

// NewTemperature builds a temperature without a dewpoint.
func NewTemperature(celsius float64) Temperature {
	return Temperature{celsius: celsius}
}

// NewTemperatureWithDewpoint builds a temperature with a dewpoint; equal
// values are allowed (saturated air).
func NewTemperatureWithDewpoint(celsius, dewpointCelsius float64) (Temperature, error) {
	if dewpointCelsius > celsius {
		return Temperature{}, wxerr.Newf(wxerr.KindInvalidData,
			"dewpoint %.1fC exceeds temperature %.1fC", dewpointCelsius, celsius)
	}
	d := dewpointCelsius
	return Temperature{celsius: celsius, dewpointCelsius: &d}, nil
}

func (t Temperature) Celsius() float64 { return t.celsius }

// DewpointCelsius returns the dewpoint when one was reported.
func (t Temperature) DewpointCelsius() (float64, bool) {
	if t.dewpointCelsius == nil {
		return 0, false
	}
	return *t.dewpointCelsius, true
}

// Fahrenheit converts the air temperature.
func (t Temperature) Fahrenheit() float64 {
	return t.celsius*9/5 + 32
}

// DewpointDepression is the temperature/dewpoint spread, a proxy for how
// close the air is to saturation.
func (t Temperature) DewpointDepression() (float64, bool) {
	if t.dewpointCelsius == nil {
		return 0, false
	}
	return t.celsius - *t.dewpointCelsius, true
}

// IsFreezing reports whether the air temperature is at or below 0C.
func (t Temperature) IsFreezing() bool { return t.celsius <= 0 }
