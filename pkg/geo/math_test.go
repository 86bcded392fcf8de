// pkg/geo/math_test.go - Unit tests for metric conversions
package geo

import (
	"math"
	"testing"
)

func TestMetersToLatDelta(t *testing.T) {
	if got := MetersToLatDelta(111320); got != 1 {
		t.Errorf("Expected 1 degree for 111320 m, got %v", got)
	}
	if got := MetersToLatDelta(111.32); !near(got, 0.001, 1e-12) {
		t.Errorf("Expected 0.001 degree for 111.32 m, got %v", got)
	}
}

func TestMetersToLonDelta(t *testing.T) {
	tests := []struct {
		name   string
		meters float64
		refLat float64
		want   float64
	}{
		{"equator", 111320, 0, 1},
		{"sixty degrees", 111320, 60, 2},
		{"negative latitude is symmetric", 111320, -60, 2},
		{"west offset", -111320, 0, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MetersToLonDelta(tt.meters, tt.refLat)
			if !near(got, tt.want, 1e-9) {
				t.Errorf("MetersToLonDelta(%v, %v) = %v, want %v", tt.meters, tt.refLat, got, tt.want)
			}
		})
	}
}

func TestMetersToLonDelta_Pole(t *testing.T) {
	got := MetersToLonDelta(1, 90)
	if !math.IsInf(got, 0) && math.Abs(got) < 1e10 {
		t.Errorf("Expected a degenerate value at the pole, got %v", got)
	}
}

func TestLocalXYRoundTrip(t *testing.T) {
	originLon, originLat := 8.6821, 50.1109
	points := [][2]float64{
		{8.6821, 50.1109},
		{8.7, 50.12},
		{8.5, 50.0},
		{-0.1, 51.5},
	}

	for _, p := range points {
		x, y := ToLocalXY(p[0], p[1], originLon, originLat)
		lon, lat := FromLocalXY(x, y, originLon, originLat)
		if !near(lon, p[0], 1e-9) || !near(lat, p[1], 1e-9) {
			t.Errorf("Round trip of %v gave (%v, %v)", p, lon, lat)
		}
	}
}

func TestToLocalXY_Origin(t *testing.T) {
	x, y := ToLocalXY(13.4, 52.5, 13.4, 52.5)
	if x != 0 || y != 0 {
		t.Errorf("Expected origin to map to (0,0), got (%v, %v)", x, y)
	}

	// one degree of latitude is R*pi/180 meters
	_, y = ToLocalXY(0, 1, 0, 0)
	if !near(y, EarthRadius*math.Pi/180, 1e-6) {
		t.Errorf("Expected %v meters per degree, got %v", EarthRadius*math.Pi/180, y)
	}
}

func near(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
