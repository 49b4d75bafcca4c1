package wx

import (
	"math"

	"github.com/skewt/avwxingest/internal/wxerr"
)

// metersPerFoot is the exact international definition.
const metersPerFoot = 0.3048

// GeoLocation is a WGS-84 coordinate with optional elevation. Values are
// validated at construction and immutable afterwards.
type GeoLocation struct {
	latitude        float64
	longitude       float64
	elevationMeters *float64
}

func validateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 || math.IsNaN(lat) {
		return wxerr.Newf(wxerr.KindInvalidData, "latitude %v out of range [-90, 90]", lat)
	}
	if lon < -180 || lon > 180 || math.IsNaN(lon) {
		return wxerr.Newf(wxerr.KindInvalidData, "longitude %v out of range [-180, 180]", lon)
	}
	return nil
}

// NewGeoLocation builds a location without elevation. The exact bounds
// +/-90 and +/-180 are accepted.
func NewGeoLocation(lat, lon float64) (*GeoLocation, error) {
	if err := validateCoordinates(lat, lon); err != nil {
		return nil, err
	}
	return &GeoLocation{latitude: lat, longitude: lon}, nil
}

// NewGeoLocationWithElevation builds a location with elevation in meters.
func NewGeoLocationWithElevation(lat, lon, elevationMeters float64) (*GeoLocation, error) {
	g, err := NewGeoLocation(lat, lon)
	if err != nil {
		return nil, err
	}
	m := elevationMeters
	g.elevationMeters = &m
	return g, nil
}

// NewGeoLocationFromFeet builds a location with elevation given in feet,
// stored internally in meters.
func NewGeoLocationFromFeet(lat, lon, elevationFeet float64) (*GeoLocation, error) {
	return NewGeoLocationWithElevation(lat, lon, elevationFeet*metersPerFoot)
}

func (g *GeoLocation) Latitude() float64  { return g.latitude }
func (g *GeoLocation) Longitude() float64 { return g.longitude }

// ElevationMeters returns the elevation when one was recorded.
func (g *GeoLocation) ElevationMeters() (float64, bool) {
	if g.elevationMeters == nil {
		return 0, false
	}
	return *g.elevationMeters, true
}

// ElevationFeet returns the elevation converted to feet, rounded to the
// nearest foot.
func (g *GeoLocation) ElevationFeet() (int, bool) {
	if g.elevationMeters == nil {
		return 0, false
	}
	return int(math.Round(*g.elevationMeters / metersPerFoot)), true
}
