// pkg/geo/rotate.go - Rotation of a document about a geographic origin
package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// Rotate rotates every coordinate counter-clockwise by rotationDeg about the
// origin, working in the local planar frame of that origin. The input is not
// modified.
func Rotate(doc *Document, rotationDeg, originLat, originLon float64) *Document {
	if rotationDeg == 0 {
		return doc.Clone()
	}
	return doc.mapGeometries(func(g orb.Geometry) orb.Geometry {
		return RotateGeometry(g, rotationDeg, originLat, originLon)
	})
}

// RotateGeometry applies the rotation to a single geometry.
func RotateGeometry(geom orb.Geometry, rotationDeg, originLat, originLon float64) orb.Geometry {
	if rotationDeg == 0 {
		return cloneGeometry(geom)
	}

	sin, cos := math.Sincos(radians(rotationDeg))
	return transformGeometry(geom, func(p orb.Point) orb.Point {
		x, y := ToLocalXY(p[0], p[1], originLon, originLat)
		xr := x*cos - y*sin
		yr := x*sin + y*cos
		lon, lat := FromLocalXY(xr, yr, originLon, originLat)
		return orb.Point{lon, lat}
	})
}
