// Package solar computes the Sun's apparent position for a time and
// place. The ingestion pipeline uses it to tag reports from located
// stations with a daylight flag.
package solar

import (
	"math"
	"time"
)

func degToRad(deg float64) float64 { return deg * (math.Pi / 180.0) }
func radToDeg(rad float64) float64 { return rad * (180.0 / math.Pi) }

// fixAngle normalizes an angle to [0, 360) degrees.
func fixAngle(angle float64) float64 {
	return math.Mod(math.Mod(angle, 360)+360, 360)
}

// julianDay converts a UTC time to Julian Day.
func julianDay(t time.Time) float64 {
	// 2440587.5 is the Julian Day of the Unix epoch.
	return 2440587.5 + float64(t.Unix())/86400.0
}

// equationOfTime returns the difference between apparent and mean solar
// time, in minutes, for the given instant.
func equationOfTime(t time.Time) float64 {
	jd := julianDay(t)
	T := (jd - 2451545.0) / 36525.0 // Julian centuries since J2000.0

	L0 := fixAngle(280.46646 + T*(36000.76983+T*0.0003032))            // mean longitude of the Sun
	M := fixAngle(357.52911 + T*(35999.05029-T*0.0001537))             // mean anomaly
	e := 0.016708634 - T*(0.000042037+T*0.0000001267)                  // orbital eccentricity
	eps0 := 23 + (26+(21.448-T*(46.815+T*(0.00059-T*0.001813)))/60)/60 // mean obliquity

	y := math.Tan(degToRad(eps0) / 2)
	y *= y
	eqTimeMin := radToDeg(y*math.Sin(degToRad(2*L0))-
		2*e*math.Sin(degToRad(M))+
		4*e*y*math.Sin(degToRad(M))*math.Cos(degToRad(2*L0))-
		0.5*y*y*math.Sin(degToRad(4*L0))-
		1.25*e*e*math.Sin(degToRad(2*M))) * 4

	return eqTimeMin
}

// declinationDegrees approximates the solar declination for a day of the
// year, peaking at the solstices.
func declinationDegrees(dayOfYear int) float64 {
	return 23.45 * math.Sin(degToRad(360.0/365.0*float64(dayOfYear-81)))
}

// ElevationDegrees returns the Sun's elevation above the horizon for the
// given UTC instant and coordinates. Negative values mean the Sun is
// below the horizon.
func ElevationDegrees(t time.Time, latitude, longitude float64) float64 {
	t = t.UTC()

	delta := declinationDegrees(t.YearDay())

	// True solar time folds in the longitude offset (4 min per degree)
	// and the equation of time; the hour angle is zero at solar noon.
	utcMin := float64(t.Hour()*60+t.Minute()) + float64(t.Second())/60.0
	tst := utcMin + 4*longitude + equationOfTime(t)
	hourAngle := (tst / 4) - 180

	latRad := degToRad(latitude)
	deltaRad := degToRad(delta)
	cosZenith := math.Sin(latRad)*math.Sin(deltaRad) +
		math.Cos(latRad)*math.Cos(deltaRad)*math.Cos(degToRad(hourAngle))
	zenith := radToDeg(math.Acos(cosZenith))
	return 90 - zenith
}

// IsDaylight reports whether the Sun is above the horizon at the given
// instant and coordinates. Polar day and polar night fall out of the
// elevation sign.
func IsDaylight(t time.Time, latitude, longitude float64) bool {
	return ElevationDegrees(t, latitude, longitude) > 0
}
