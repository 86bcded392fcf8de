// pkg/geo/document_test.go - Unit tests for document decoding
package geo

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
)

func TestDecode_FeatureCollection(t *testing.T) {
	data := []byte(`{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "geometry": {"type": "Point", "coordinates": [10, 50]}, "properties": {"Name": "A"}},
			{"type": "Feature", "geometry": {"type": "Circle", "coordinates": [10, 50], "radius": 5}, "properties": {"Name": "B"}},
			{"type": "Feature", "geometry": null}
		]
	}`)

	doc, err := Decode(data)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if doc.Kind != KindFeatureCollection {
		t.Errorf("Expected kind %s, got %s", KindFeatureCollection, doc.Kind)
	}
	if doc.FeatureCount() != 3 {
		t.Fatalf("Expected 3 features, got %d", doc.FeatureCount())
	}

	if len(doc.Malformed) != 1 {
		t.Fatalf("Expected 1 malformed geometry, got %d", len(doc.Malformed))
	}
	if doc.Malformed[0].Index != 1 || doc.Malformed[0].Type != "Circle" {
		t.Errorf("Unexpected malformed entry: %v", doc.Malformed[0])
	}

	features := doc.Features()
	if features[1].Geometry != nil {
		t.Errorf("Expected malformed feature to have nil geometry, got %v", features[1].Geometry)
	}
	if features[1].Properties["Name"] != "B" {
		t.Errorf("Expected malformed feature to keep properties, got %v", features[1].Properties)
	}
	if features[2].Properties == nil {
		t.Error("Expected missing properties to decode as an empty map")
	}
}

func TestDecode_FeatureAndGeometry(t *testing.T) {
	doc, err := Decode([]byte(`{"type":"Feature","geometry":{"type":"Point","coordinates":[10,50]},"properties":{}}`))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if doc.Kind != KindFeature || !orb.Equal(doc.Feature.Geometry, orb.Point{10, 50}) {
		t.Errorf("Unexpected feature document: %+v", doc)
	}

	doc, err = Decode([]byte(`{"type":"LineString","coordinates":[[0,0],[1,1]]}`))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if doc.Kind != KindGeometry {
		t.Errorf("Expected geometry document, got %s", doc.Kind)
	}
	features := doc.Features()
	if len(features) != 1 || features[0].Properties == nil {
		t.Errorf("Expected bare geometry to present as one feature, got %v", features)
	}
}

func TestDecode_UnknownBareGeometry(t *testing.T) {
	doc, err := Decode([]byte(`{"type":"Ellipse","coordinates":[0,0]}`))
	if err != nil {
		t.Fatalf("Expected unknown geometry to pass through, got %v", err)
	}
	if len(doc.Malformed) != 1 {
		t.Fatalf("Expected 1 malformed entry, got %d", len(doc.Malformed))
	}

	var malformed *MalformedGeometryError
	if !errors.As(doc.Malformed[0], &malformed) || malformed.Type != "Ellipse" {
		t.Errorf("Unexpected malformed entry: %v", doc.Malformed[0])
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{{`},
		{"missing type", `{"features": []}`},
		{"bad feature", `{"type":"FeatureCollection","features":[42]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.data)); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}
