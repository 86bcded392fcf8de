// pkg/geo/math.go - Metric <-> geographic conversions on a spherical Earth
package geo

import (
	"math"

	"github.com/golang/geo/s1"
)

const (
	// EarthRadius is the spherical Earth radius in meters used by the local planar frame.
	EarthRadius = 6378137.0

	// MetersPerDegree is the approximate length of one degree of latitude.
	MetersPerDegree = 111320.0
)

// MetersToLatDelta converts a north/south distance in meters into degrees of latitude.
func MetersToLatDelta(meters float64) float64 {
	return meters / MetersPerDegree
}

// MetersToLonDelta converts an east/west distance in meters into degrees of
// longitude at the given reference latitude.
//
// At a pole the cosine is effectively zero, so the result is degenerate:
// a huge magnitude (cos(90°) is not exactly 0 in float64) or ±Inf. No error
// is returned.
func MetersToLonDelta(meters, referenceLat float64) float64 {
	return meters / (MetersPerDegree * math.Cos(radians(referenceLat)))
}

// ToLocalXY projects lon/lat into a planar frame in meters centered on the origin.
// The equirectangular approximation is only valid near the origin.
func ToLocalXY(lon, lat, originLon, originLat float64) (x, y float64) {
	x = radians(lon-originLon) * EarthRadius * math.Cos(radians(originLat))
	y = radians(lat-originLat) * EarthRadius
	return x, y
}

// FromLocalXY is the inverse of ToLocalXY for the same origin.
func FromLocalXY(x, y, originLon, originLat float64) (lon, lat float64) {
	lon = originLon + degrees(x/(EarthRadius*math.Cos(radians(originLat))))
	lat = originLat + degrees(y/EarthRadius)
	return lon, lat
}

func radians(deg float64) float64 {
	return (s1.Angle(deg) * s1.Degree).Radians()
}

func degrees(rad float64) float64 {
	return s1.Angle(rad).Degrees()
}
