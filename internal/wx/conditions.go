package wx

// WeatherConditions is the universal observed/forecast state block shared
// by METAR reports and TAF forecast periods. Values are deeply immutable
// once built; construct them with ConditionsBuilder.
type WeatherConditions struct {
	wind           *Wind
	visibility     *Visibility
	presentWeather []WeatherPhenomenon
	skyConditions  []SkyCondition
	temperature    *Temperature
	pressure       *Pressure
}

// Wind returns a copy of the wind group when one is present.
func (c *WeatherConditions) Wind() (Wind, bool) {
	if c.wind == nil {
		return Wind{}, false
	}
	return *c.wind, true
}

// Visibility returns a copy of the visibility group when one is present.
func (c *WeatherConditions) Visibility() (Visibility, bool) {
	if c.visibility == nil {
		return Visibility{}, false
	}
	return *c.visibility, true
}

// PresentWeather returns a copy of the ordered phenomena list; never nil.
func (c *WeatherConditions) PresentWeather() []WeatherPhenomenon {
	out := make([]WeatherPhenomenon, len(c.presentWeather))
	copy(out, c.presentWeather)
	return out
}

// SkyConditions returns a copy of the ordered cloud layers; never nil.
func (c *WeatherConditions) SkyConditions() []SkyCondition {
	out := make([]SkyCondition, len(c.skyConditions))
	copy(out, c.skyConditions)
	return out
}

// Temperature returns a copy of the temperature group when one is present.
func (c *WeatherConditions) Temperature() (Temperature, bool) {
	if c.temperature == nil {
		return Temperature{}, false
	}
	return *c.temperature, true
}

// Pressure returns a copy of the pressure group when one is present.
func (c *WeatherConditions) Pressure() (Pressure, bool) {
	if c.pressure == nil {
		return Pressure{}, false
	}
	return *c.pressure, true
}

// HasCeiling reports whether any layer is broken, overcast, or obscured.
func (c *WeatherConditions) HasCeiling() bool {
	for _, layer := range c.skyConditions {
		if layer.coverage.IsCeiling() {
			return true
		}
	}
	return false
}

// CeilingFeet returns the lowest reported height among ceiling layers.
// Layers without a height are skipped.
func (c *WeatherConditions) CeilingFeet() (int, bool) {
	lowest := 0
	found := false
	for _, layer := range c.skyConditions {
		if !layer.coverage.IsCeiling() || layer.heightFeet == nil {
			continue
		}
		if !found || *layer.heightFeet < lowest {
			lowest = *layer.heightFeet
			found = true
		}
	}
	return lowest, found
}

// HasPrecipitation reports whether any present-weather group carries a
// precipitation code.
func (c *WeatherConditions) HasPrecipitation() bool {
	for _, p := range c.presentWeather {
		if p.IsPrecipitation() {
			return true
		}
	}
	return false
}

// HasThunderstorms reports whether any present-weather group carries the
// TS descriptor.
func (c *WeatherConditions) HasThunderstorms() bool {
	for _, p := range c.presentWeather {
		if p.IsThunderstorm() {
			return true
		}
	}
	return false
}

// HasFreezingConditions reports whether freezing phenomena are present or
// the air temperature is at or below 0C.
func (c *WeatherConditions) HasFreezingConditions() bool {
	for _, p := range c.presentWeather {
		if p.IsFreezing() {
			return true
		}
	}
	return c.temperature != nil && c.temperature.IsFreezing()
}

// IsLikelyIMC reports whether instrument meteorological conditions apply:
// visibility below 3 statute miles or 5 kilometers, or a ceiling below
// 1000 ft.
func (c *WeatherConditions) IsLikelyIMC() bool {
	if v := c.visibility; v != nil {
		switch v.unit {
		case StatuteMiles:
			if v.distance < 3 {
				return true
			}
		case Kilometers:
			if v.distance < 5 {
				return true
			}
		case Meters:
			if v.distance < 5000 {
				return true
			}
		}
	}
	if h, ok := c.CeilingFeet(); ok && h < 1000 {
		return true
	}
	return false
}

// IsLikelyVMC is the complement of IsLikelyIMC.
func (c *WeatherConditions) IsLikelyVMC() bool { return !c.IsLikelyIMC() }

// IsClearAndCalm reports calm or absent wind, no present weather, and no
// cloud layer covering any part of the sky.
func (c *WeatherConditions) IsClearAndCalm() bool {
	if c.wind != nil && !c.wind.IsCalm() {
		return false
	}
	if len(c.presentWeather) > 0 {
		return false
	}
	for _, layer := range c.skyConditions {
		if layer.coverage.Oktas() > 0 {
			return false
		}
	}
	return true
}

// HasAnyConditions reports whether any group was set at all.
func (c *WeatherConditions) HasAnyConditions() bool {
	return c.wind != nil || c.visibility != nil || c.temperature != nil ||
		c.pressure != nil || len(c.presentWeather) > 0 || len(c.skyConditions) > 0
}
