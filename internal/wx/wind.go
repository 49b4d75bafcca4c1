package wx

import "github.com/skewt/avwxingest/internal/wxerr"

// SpeedUnit is the unit wind speeds were reported in.
type SpeedUnit string

const (
	Knots             SpeedUnit = "KT"
	MetersPerSecond   SpeedUnit = "MPS"
	KilometersPerHour SpeedUnit = "KMH"
	MilesPerHour      SpeedUnit = "MPH"
)

// Valid reports whether u is one of the known speed units.
func (u SpeedUnit) Valid() bool {
	switch u {
	case Knots, MetersPerSecond, KilometersPerHour, MilesPerHour:
		return true
	}
	return false
}

// Wind is a surface wind group. A nil direction means calm or variable
// winds; the two are distinguished by speed.
type Wind struct {
	directionDegrees *int
	speed            float64
	gust             *float64
	unit             SpeedUnit
}

// NewWind validates and builds a wind group. Direction, when present, is
// degrees true in [0, 359].
func NewWind(directionDegrees *int, speed float64, gust *float64, unit SpeedUnit) (Wind, error) {
	if directionDegrees != nil && (*directionDegrees < 0 || *directionDegrees > 359) {
		return Wind{}, wxerr.Newf(wxerr.KindInvalidData, "wind direction %d out of range [0, 359]", *directionDegrees)
	}
	if speed < 0 {
		return Wind{}, wxerr.Newf(wxerr.KindInvalidData, "negative wind speed %.1f", speed)
	}
	if gust != nil && *gust < 0 {
		return Wind{}, wxerr.Newf(wxerr.KindInvalidData, "negative wind gust %.1f", *gust)
	}
	if !unit.Valid() {
		return Wind{}, wxerr.Newf(wxerr.KindInvalidData, "unknown wind speed unit %q", unit)
	}
	w := Wind{speed: speed, unit: unit}
	if directionDegrees != nil {
		d := *directionDegrees
		w.directionDegrees = &d
	}
	if gust != nil {
		g := *gust
		w.gust = &g
	}
	return w, nil
}

// DirectionDegrees returns the wind direction when one was reported.
func (w Wind) DirectionDegrees() (int, bool) {
	if w.directionDegrees == nil {
		return 0, false
	}
	return *w.directionDegrees, true
}

func (w Wind) Speed() float64  { return w.speed }
func (w Wind) Unit() SpeedUnit { return w.unit }

// Gust returns the gust speed when one was reported.
func (w Wind) Gust() (float64, bool) {
	if w.gust == nil {
		return 0, false
	}
	return *w.gust, true
}

// IsCalm reports whether the wind is calm (zero speed).
func (w Wind) IsCalm() bool { return w.speed == 0 }

// IsVariable reports whether the wind is blowing without a steady
// direction.
func (w Wind) IsVariable() bool { return w.directionDegrees == nil && w.speed > 0 }
