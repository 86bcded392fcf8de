// pkg/geo/document.go - GeoJSON document model and tolerant decoding
package geo

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Kind identifies the top-level shape of a GeoJSON document.
type Kind string

// Document kinds
const (
	KindFeatureCollection Kind = "FeatureCollection"
	KindFeature           Kind = "Feature"
	KindGeometry          Kind = "Geometry"
)

// Document is an immutable GeoJSON input: a feature collection, a single
// feature or a bare geometry. Transforms always return a new Document.
type Document struct {
	Kind       Kind
	Collection *geojson.FeatureCollection
	Feature    *geojson.Feature
	Geometry   orb.Geometry

	// Malformed lists features whose geometry kind was not recognised while
	// decoding. Those features are kept with a nil geometry.
	Malformed []*MalformedGeometryError
}

// NewCollectionDocument wraps a feature collection.
func NewCollectionDocument(fc *geojson.FeatureCollection) *Document {
	return &Document{Kind: KindFeatureCollection, Collection: fc}
}

// NewFeatureDocument wraps a single feature.
func NewFeatureDocument(f *geojson.Feature) *Document {
	return &Document{Kind: KindFeature, Feature: f}
}

// NewGeometryDocument wraps a bare geometry.
func NewGeometryDocument(g orb.Geometry) *Document {
	return &Document{Kind: KindGeometry, Geometry: g}
}

// Decode parses GeoJSON text. Features with unknown geometry kinds do not fail
// the document; they are recorded on Document.Malformed.
func Decode(data []byte) (*Document, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("failed to parse GeoJSON: %w", err)
	}

	switch head.Type {
	case "":
		return nil, fmt.Errorf("GeoJSON object has no type member")
	case "FeatureCollection":
		return decodeCollection(data)
	case "Feature":
		feature, malformed, err := decodeFeature(0, data)
		if err != nil {
			return nil, err
		}
		doc := NewFeatureDocument(feature)
		if malformed != nil {
			doc.Malformed = append(doc.Malformed, malformed)
		}
		return doc, nil
	default:
		geometry, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			doc := NewGeometryDocument(nil)
			doc.Malformed = append(doc.Malformed, &MalformedGeometryError{Index: 0, Type: head.Type, Err: err})
			return doc, nil
		}
		return NewGeometryDocument(geometry.Geometry()), nil
	}
}

func decodeCollection(data []byte) (*Document, error) {
	var raw struct {
		BBox     geojson.BBox      `json:"bbox,omitempty"`
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse feature collection: %w", err)
	}

	fc := geojson.NewFeatureCollection()
	fc.BBox = raw.BBox
	doc := NewCollectionDocument(fc)

	for i, rawFeature := range raw.Features {
		feature, malformed, err := decodeFeature(i, rawFeature)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		if malformed != nil {
			doc.Malformed = append(doc.Malformed, malformed)
		}
		fc.Append(feature)
	}

	return doc, nil
}

// decodeFeature falls back to a geometry-less feature when orb rejects the geometry.
func decodeFeature(index int, data []byte) (*geojson.Feature, *MalformedGeometryError, error) {
	feature, err := geojson.UnmarshalFeature(data)
	if err == nil {
		if feature.Properties == nil {
			feature.Properties = geojson.Properties{}
		}
		return feature, nil, nil
	}

	var shell struct {
		ID         interface{}        `json:"id,omitempty"`
		Properties geojson.Properties `json:"properties"`
		Geometry   *struct {
			Type string `json:"type"`
		} `json:"geometry"`
	}
	if jsonErr := json.Unmarshal(data, &shell); jsonErr != nil {
		return nil, nil, fmt.Errorf("failed to parse feature: %w", jsonErr)
	}
	if shell.Geometry == nil {
		// orb rejected something other than the geometry
		return nil, nil, fmt.Errorf("failed to parse feature: %w", err)
	}

	fallback := &geojson.Feature{
		ID:         shell.ID,
		Type:       "Feature",
		Properties: shell.Properties,
	}
	if fallback.Properties == nil {
		fallback.Properties = geojson.Properties{}
	}

	return fallback, &MalformedGeometryError{Index: index, Type: shell.Geometry.Type, Err: err}, nil
}

// Features returns the document's features in order. A bare geometry is
// presented as a single feature with empty properties.
func (d *Document) Features() []*geojson.Feature {
	if d == nil {
		return nil
	}
	switch d.Kind {
	case KindFeatureCollection:
		if d.Collection == nil {
			return nil
		}
		return d.Collection.Features
	case KindFeature:
		if d.Feature == nil {
			return nil
		}
		return []*geojson.Feature{d.Feature}
	case KindGeometry:
		feature := &geojson.Feature{Type: "Feature", Geometry: d.Geometry, Properties: geojson.Properties{}}
		return []*geojson.Feature{feature}
	default:
		return nil
	}
}

// FeatureCount returns the number of features Features would return.
func (d *Document) FeatureCount() int {
	return len(d.Features())
}

// Clone returns a deep copy of every geometry; property maps are shared.
func (d *Document) Clone() *Document {
	return d.mapGeometries(cloneGeometry)
}

// mapGeometries builds a new document whose features carry mapped geometries.
func (d *Document) mapGeometries(fn func(orb.Geometry) orb.Geometry) *Document {
	if d == nil {
		return nil
	}

	out := &Document{Kind: d.Kind, Malformed: d.Malformed}
	switch d.Kind {
	case KindFeatureCollection:
		if d.Collection == nil {
			return out
		}
		fc := &geojson.FeatureCollection{
			Type:         d.Collection.Type,
			BBox:         d.Collection.BBox,
			Features:     make([]*geojson.Feature, len(d.Collection.Features)),
			ExtraMembers: d.Collection.ExtraMembers,
		}
		for i, f := range d.Collection.Features {
			fc.Features[i] = mapFeature(f, fn)
		}
		out.Collection = fc
	case KindFeature:
		out.Feature = mapFeature(d.Feature, fn)
	case KindGeometry:
		out.Geometry = fn(d.Geometry)
	}
	return out
}

func mapFeature(f *geojson.Feature, fn func(orb.Geometry) orb.Geometry) *geojson.Feature {
	if f == nil {
		return nil
	}
	copied := *f
	copied.Geometry = fn(f.Geometry)
	return &copied
}

// MarshalJSON encodes the document back into GeoJSON.
func (d *Document) MarshalJSON() ([]byte, error) {
	switch d.Kind {
	case KindFeatureCollection:
		return json.Marshal(d.Collection)
	case KindFeature:
		return json.Marshal(d.Feature)
	case KindGeometry:
		if d.Geometry == nil {
			return []byte("null"), nil
		}
		return json.Marshal(geojson.NewGeometry(d.Geometry))
	default:
		return nil, fmt.Errorf("unknown document kind %q", d.Kind)
	}
}
