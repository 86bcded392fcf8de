// internal/output/types.go - Output handling types
package output

import (
	"fmt"
	"io"
	"time"

	"github.com/valpere/geojson_overlay/pkg/overlay"
)

// Format represents different output formats supported by the application
type Format string

const (
	FormatGeoJSON Format = "geojson"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
)

// Writer defines the interface for writing rendered snapshots to various destinations
type Writer interface {
	Write(snapshot *Snapshot) error
	WriteBatch(snapshots []*Snapshot) error
	BytesWritten() int64
	Close() error
}

// Formatter defines the interface for formatting snapshots into different output formats
type Formatter interface {
	Format(snapshot *Snapshot) ([]byte, error)
	FormatBatch(snapshots []*Snapshot) ([]byte, error)
	Extension() string
}

// Destination represents an output destination (file, stdout, etc.)
type Destination interface {
	io.WriteCloser
	Name() string
	Size() int64
}

// Metadata describes a render pass and is included when requested
type Metadata struct {
	Source      string        `json:"source" yaml:"source"`
	Stats       overlay.Stats `json:"stats" yaml:"stats"`
	GeneratedAt time.Time     `json:"generated_at" yaml:"generated_at"`
}

// WriterConfig contains configuration for creating writers
type WriterConfig struct {
	Format      Format
	Pretty      bool
	Compression bool
	Metadata    bool
}

// FormatterConfig contains configuration for creating formatters
type FormatterConfig struct {
	Format       Format
	Pretty       bool
	IncludeStats bool
}

// ParseFormat converts a configuration value into a Format
func ParseFormat(value string) (Format, error) {
	format := Format(value)
	if !format.IsValid() {
		return "", fmt.Errorf("invalid output format: %s", value)
	}
	return format, nil
}

// String returns a string representation of the format
func (f Format) String() string {
	return string(f)
}

// IsValid checks if the format is supported
func (f Format) IsValid() bool {
	switch f {
	case FormatGeoJSON, FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}
