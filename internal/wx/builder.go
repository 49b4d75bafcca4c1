package wx

import "github.com/skewt/avwxingest/internal/wxerr"

// ConditionsBuilder assembles a WeatherConditions value. It is not safe
// for concurrent use; build on one goroutine and share the built value.
// The first validation failure sticks and is returned by Build.
type ConditionsBuilder struct {
	c   WeatherConditions
	err error
}

// NewConditionsBuilder returns an empty builder. Building immediately
// yields a valid conditions value with no groups set.
func NewConditionsBuilder() *ConditionsBuilder {
	return &ConditionsBuilder{}
}

func (b *ConditionsBuilder) setErr(err error) *ConditionsBuilder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// Wind sets the wind group.
func (b *ConditionsBuilder) Wind(directionDegrees *int, speed float64, gust *float64, unit SpeedUnit) *ConditionsBuilder {
	w, err := NewWind(directionDegrees, speed, gust, unit)
	if err != nil {
		return b.setErr(err)
	}
	b.c.wind = &w
	return b
}

// Visibility sets a plain visibility distance.
func (b *ConditionsBuilder) Visibility(distance float64, unit DistanceUnit) *ConditionsBuilder {
	return b.VisibilityModified(distance, unit, false, false)
}

// VisibilityModified sets a visibility with less-than/greater-than
// qualifiers.
func (b *ConditionsBuilder) VisibilityModified(distance float64, unit DistanceUnit, lessThan, greaterThan bool) *ConditionsBuilder {
	v, err := NewVisibilityModified(distance, unit, lessThan, greaterThan)
	if err != nil {
		return b.setErr(err)
	}
	b.c.visibility = &v
	return b
}

// SpecialVisibility sets a coded visibility condition such as CAVOK.
func (b *ConditionsBuilder) SpecialVisibility(cond SpecialVisibility) *ConditionsBuilder {
	v := NewSpecialVisibility(cond)
	b.c.visibility = &v
	return b
}

// AddWeather appends one coded present-weather group, preserving order.
func (b *ConditionsBuilder) AddWeather(code WeatherPhenomenon) *ConditionsBuilder {
	if code == "" {
		return b.setErr(wxerr.New(wxerr.KindInvalidData, "empty present-weather code"))
	}
	b.c.presentWeather = append(b.c.presentWeather, code)
	return b
}

// AddSkyCondition appends one cloud layer, preserving order.
func (b *ConditionsBuilder) AddSkyCondition(coverage SkyCoverage, heightFeet *int, cloudType CloudType) *ConditionsBuilder {
	layer, err := NewSkyCondition(coverage, heightFeet, cloudType)
	if err != nil {
		return b.setErr(err)
	}
	b.c.skyConditions = append(b.c.skyConditions, layer)
	return b
}

// Temperature sets the temperature group without a dewpoint.
func (b *ConditionsBuilder) Temperature(celsius float64) *ConditionsBuilder {
	t := NewTemperature(celsius)
	b.c.temperature = &t
	return b
}

// TemperatureWithDewpoint sets the temperature group with a dewpoint.
func (b *ConditionsBuilder) TemperatureWithDewpoint(celsius, dewpointCelsius float64) *ConditionsBuilder {
	t, err := NewTemperatureWithDewpoint(celsius, dewpointCelsius)
	if err != nil {
		return b.setErr(err)
	}
	b.c.temperature = &t
	return b
}

// PressureInchesHg sets the pressure group from an inches-of-mercury
// value.
func (b *ConditionsBuilder) PressureInchesHg(v float64) *ConditionsBuilder {
	p, err := NewPressureInchesHg(v)
	if err != nil {
		return b.setErr(err)
	}
	b.c.pressure = &p
	return b
}

// PressureHectopascals sets the pressure group from a hectopascal value.
func (b *ConditionsBuilder) PressureHectopascals(v float64) *ConditionsBuilder {
	p, err := NewPressureHectopascals(v)
	if err != nil {
		return b.setErr(err)
	}
	b.c.pressure = &p
	return b
}

// Pressure sets a pressure group built elsewhere.
func (b *ConditionsBuilder) Pressure(p Pressure) *ConditionsBuilder {
	if p.IsZero() {
		return b.setErr(wxerr.New(wxerr.KindInvalidData, "unset pressure"))
	}
	b.c.pressure = &p
	return b
}

// Build returns the assembled conditions, or the first validation error
// encountered. The returned value owns copies of the accumulated slices.
func (b *ConditionsBuilder) Build() (*WeatherConditions, error) {
	if b.err != nil {
		return nil, b.err
	}
	out := WeatherConditions{
		wind:        b.c.wind,
		visibility:  b.c.visibility,
		temperature: b.c.temperature,
		pressure:    b.c.pressure,
	}
	if len(b.c.presentWeather) > 0 {
		out.presentWeather = make([]WeatherPhenomenon, len(b.c.presentWeather))
		copy(out.presentWeather, b.c.presentWeather)
	}
	if len(b.c.skyConditions) > 0 {
		out.skyConditions = make([]SkyCondition, len(b.c.skyConditions))
		copy(out.skyConditions, b.c.skyConditions)
	}
	return &out, nil
}
