// pkg/geo/geometry.go - Shared geometry transformation utilities
package geo

import "github.com/paulmach/orb"

// transformGeometry applies a point transformation to every coordinate of the
// supported geometry kinds, preserving nesting and element counts.
// MultiPoint, Collection, Bound and bare Rings are returned as unchanged copies.
func transformGeometry(geom orb.Geometry, transform func(orb.Point) orb.Point) orb.Geometry {
	switch g := geom.(type) {
	case orb.Point:
		return transform(g)
	case orb.LineString:
		return orb.LineString(transformPoints(g, transform))
	case orb.Polygon:
		return transformPolygon(g, transform)
	case orb.MultiLineString:
		if g == nil {
			return g
		}
		result := make(orb.MultiLineString, len(g))
		for i, line := range g {
			result[i] = orb.LineString(transformPoints(line, transform))
		}
		return result
	case orb.MultiPolygon:
		if g == nil {
			return g
		}
		result := make(orb.MultiPolygon, len(g))
		for i, polygon := range g {
			result[i] = transformPolygon(polygon, transform)
		}
		return result
	default:
		return cloneGeometry(geom)
	}
}

func transformPolygon(polygon orb.Polygon, transform func(orb.Point) orb.Point) orb.Polygon {
	if polygon == nil {
		return nil
	}
	result := make(orb.Polygon, len(polygon))
	for i, ring := range polygon {
		result[i] = orb.Ring(transformPoints(ring, transform))
	}
	return result
}

func transformPoints(points []orb.Point, transform func(orb.Point) orb.Point) []orb.Point {
	if points == nil {
		return nil
	}
	result := make([]orb.Point, len(points))
	for i, point := range points {
		result[i] = transform(point)
	}
	return result
}

// cloneGeometry deep-copies a geometry; nil stays nil.
func cloneGeometry(geom orb.Geometry) orb.Geometry {
	if geom == nil {
		return nil
	}
	return orb.Clone(geom)
}
