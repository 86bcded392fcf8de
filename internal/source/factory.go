// internal/source/factory.go - Data source factory
package source

import (
	"fmt"

	"github.com/valpere/geojson_overlay/internal"
	"github.com/valpere/geojson_overlay/internal/config"
)

// Factory creates data sources based on configuration
type Factory struct {
	config *config.Config
}

// NewFactory creates a new source factory
func NewFactory(cfg *config.Config) *Factory {
	return &Factory{config: cfg}
}

// CreateSource picks a source with url, then file, then inline data precedence
func (f *Factory) CreateSource() (DataSource, error) {
	return f.CreateSourceForType(f.config.DetermineSourceType())
}

// CreateSourceForType creates a source for a specific type
func (f *Factory) CreateSourceForType(sourceType internal.SourceType) (DataSource, error) {
	switch sourceType {
	case internal.SourceTypeHTTP:
		if f.config.Overlay.URL == "" {
			return nil, loadError("http", fmt.Errorf("overlay.url is required for HTTP source"))
		}
		return NewHTTPSource(f.config), nil
	case internal.SourceTypeFile:
		if f.config.Overlay.File == "" {
			return nil, loadError("file", fmt.Errorf("overlay.file is required for file source"))
		}
		return NewFileSource(f.config.Overlay.File), nil
	case internal.SourceTypeInline:
		if f.config.Overlay.Data == "" {
			return nil, loadError(inlineOrigin, ErrNoData)
		}
		return NewInlineSource([]byte(f.config.Overlay.Data)), nil
	case internal.SourceTypeAuto:
		return nil, loadError("configuration", ErrNoData)
	default:
		return nil, internal.NewError(internal.ErrorCodeConfig, fmt.Sprintf("unsupported source type: %s", sourceType), nil)
	}
}
