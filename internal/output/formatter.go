// internal/output/formatter.go - Output formatting implementation
package output

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/paulmach/orb/geojson"
	"gopkg.in/yaml.v3"
)

// GeoJSONFormatter flattens a snapshot into a FeatureCollection whose
// features carry their bucket, style and marker as properties
type GeoJSONFormatter struct {
	pretty       bool
	includeStats bool
}

// NewGeoJSONFormatter creates a new GeoJSON formatter
func NewGeoJSONFormatter(pretty, includeStats bool) *GeoJSONFormatter {
	return &GeoJSONFormatter{
		pretty:       pretty,
		includeStats: includeStats,
	}
}

// Format formats a single snapshot as GeoJSON
func (f *GeoJSONFormatter) Format(snapshot *Snapshot) ([]byte, error) {
	collection := f.collection(snapshot, false)

	if f.includeStats {
		collection.ExtraMembers = geojson.Properties{"_metadata": metadataFor(snapshot)}
	}

	return marshalJSON(collection, f.pretty)
}

// FormatBatch merges snapshots into a single FeatureCollection
func (f *GeoJSONFormatter) FormatBatch(snapshots []*Snapshot) ([]byte, error) {
	merged := geojson.NewFeatureCollection()
	var totalFeatures int

	for _, s := range snapshots {
		collection := f.collection(s, f.includeStats)
		merged.Features = append(merged.Features, collection.Features...)
		totalFeatures += len(collection.Features)
	}

	if f.includeStats {
		merged.ExtraMembers = geojson.Properties{"_metadata": map[string]interface{}{
			"total_snapshots": len(snapshots),
			"total_features":  totalFeatures,
			"generated_at":    time.Now().UTC(),
		}}
	}

	return marshalJSON(merged, f.pretty)
}

// collection builds the feature collection of one snapshot
func (f *GeoJSONFormatter) collection(s *Snapshot, tagSource bool) *geojson.FeatureCollection {
	collection := geojson.NewFeatureCollection()

	add := func(feature *geojson.Feature, props geojson.Properties) {
		if tagSource {
			props["_source"] = s.Source
			if s.Name != "" {
				props["_source"] = s.Name
			}
		}
		out := geojson.NewFeature(nil)
		if feature != nil {
			out.ID = feature.ID
			out.Geometry = feature.Geometry
			for key, value := range feature.Properties {
				if _, exists := props[key]; !exists {
					props[key] = value
				}
			}
		}
		out.Properties = props
		collection.Append(out)
	}

	for _, layer := range s.Layers {
		for _, entry := range layer.Entries {
			props := geojson.Properties{"_bucket": string(layer.Bucket)}
			if entry.Style != nil {
				props["_style"] = entry.Style
			}
			if entry.Marker != nil {
				props["_marker"] = entry.Marker
			}
			add(entry.Feature, props)
		}
	}

	for _, icon := range s.Icons {
		marker := icon.Marker
		marker.Rotation = icon.Rotation
		marker.RotationOrigin = icon.RotationOrigin
		add(icon.Feature, geojson.Properties{"_bucket": "icon_marker", "_marker": marker})
	}

	for _, label := range s.Labels {
		feature := geojson.NewFeature(label.Anchor)
		add(feature, geojson.Properties{
			"_bucket":    "label",
			"text":       label.Text,
			"class_name": label.ClassName,
			"font_size":  label.FontSize,
			"scale":      label.Scale,
			"visible":    label.Visible,
		})
	}

	return collection
}

// Extension returns the file extension for GeoJSON
func (f *GeoJSONFormatter) Extension() string {
	return ".geojson"
}

// snapshotDocument is the JSON and YAML shape of a snapshot
type snapshotDocument struct {
	*Snapshot
	Metadata *Metadata `json:"metadata,omitempty"`
}

// JSONFormatter formats snapshots as structured JSON objects
type JSONFormatter struct {
	pretty       bool
	includeStats bool
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(pretty, includeStats bool) *JSONFormatter {
	return &JSONFormatter{
		pretty:       pretty,
		includeStats: includeStats,
	}
}

// Format formats a single snapshot as a JSON object
func (f *JSONFormatter) Format(snapshot *Snapshot) ([]byte, error) {
	return marshalJSON(documentFor(snapshot, f.includeStats), f.pretty)
}

// FormatBatch formats multiple snapshots as a JSON object with a summary
func (f *JSONFormatter) FormatBatch(snapshots []*Snapshot) ([]byte, error) {
	return marshalJSON(batchFor(snapshots, f.includeStats), f.pretty)
}

// Extension returns the file extension for JSON
func (f *JSONFormatter) Extension() string {
	return ".json"
}

// YAMLFormatter formats snapshots as YAML. Geometries keep their GeoJSON shape.
type YAMLFormatter struct {
	includeStats bool
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(includeStats bool) *YAMLFormatter {
	return &YAMLFormatter{includeStats: includeStats}
}

// Format formats a single snapshot as YAML
func (f *YAMLFormatter) Format(snapshot *Snapshot) ([]byte, error) {
	return marshalYAML(documentFor(snapshot, f.includeStats))
}

// FormatBatch formats multiple snapshots as one YAML document
func (f *YAMLFormatter) FormatBatch(snapshots []*Snapshot) ([]byte, error) {
	return marshalYAML(batchFor(snapshots, f.includeStats))
}

// Extension returns the file extension for YAML
func (f *YAMLFormatter) Extension() string {
	return ".yaml"
}

func documentFor(snapshot *Snapshot, includeStats bool) snapshotDocument {
	doc := snapshotDocument{Snapshot: snapshot}
	if includeStats {
		doc.Metadata = metadataFor(snapshot)
	}
	return doc
}

func batchFor(snapshots []*Snapshot, includeStats bool) map[string]interface{} {
	docs := make([]snapshotDocument, 0, len(snapshots))
	for _, s := range snapshots {
		docs = append(docs, documentFor(s, includeStats))
	}

	result := map[string]interface{}{"snapshots": docs}
	if includeStats {
		var features int
		for _, s := range snapshots {
			features += s.FeatureCount()
		}
		result["summary"] = map[string]interface{}{
			"total_snapshots": len(snapshots),
			"total_features":  features,
			"generated_at":    time.Now().UTC(),
		}
	}
	return result
}

func metadataFor(snapshot *Snapshot) *Metadata {
	metadata := &Metadata{Source: snapshot.Source, GeneratedAt: time.Now().UTC()}
	if snapshot.Stats != nil {
		metadata.Stats = *snapshot.Stats
	}
	return metadata
}

func marshalJSON(v interface{}, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// marshalYAML goes through JSON first so geometries use their GeoJSON encoding
func marshalYAML(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	var generic interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return yaml.Marshal(generic)
}

// NewFormatter creates a formatter based on the specified configuration
func NewFormatter(config *FormatterConfig) (Formatter, error) {
	switch config.Format {
	case FormatGeoJSON:
		return NewGeoJSONFormatter(config.Pretty, config.IncludeStats), nil
	case FormatJSON:
		return NewJSONFormatter(config.Pretty, config.IncludeStats), nil
	case FormatYAML:
		return NewYAMLFormatter(config.IncludeStats), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", config.Format)
	}
}

// FormatSingle is a convenience function to format a single snapshot
func FormatSingle(snapshot *Snapshot, format Format, pretty bool) ([]byte, error) {
	formatter, err := NewFormatter(&FormatterConfig{
		Format: format,
		Pretty: pretty,
	})
	if err != nil {
		return nil, err
	}

	return formatter.Format(snapshot)
}
