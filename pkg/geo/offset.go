// pkg/geo/offset.go - Metric north/south and east/west offset of a document
package geo

import "github.com/paulmach/orb"

// Offset shifts every coordinate of the document by offsetLatMeters north and
// offsetLonMeters east. The latitude delta is constant; the longitude delta is
// computed from each point's own latitude. The input is not modified.
func Offset(doc *Document, offsetLatMeters, offsetLonMeters float64) *Document {
	if offsetLatMeters == 0 && offsetLonMeters == 0 {
		return doc.Clone()
	}
	return doc.mapGeometries(func(g orb.Geometry) orb.Geometry {
		return OffsetGeometry(g, offsetLatMeters, offsetLonMeters)
	})
}

// OffsetGeometry applies the offset to a single geometry.
func OffsetGeometry(geom orb.Geometry, offsetLatMeters, offsetLonMeters float64) orb.Geometry {
	if offsetLatMeters == 0 && offsetLonMeters == 0 {
		return cloneGeometry(geom)
	}

	latDelta := MetersToLatDelta(offsetLatMeters)
	return transformGeometry(geom, func(p orb.Point) orb.Point {
		return orb.Point{p[0] + MetersToLonDelta(offsetLonMeters, p[1]), p[1] + latDelta}
	})
}
