// internal/config/config.go - Configuration management
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/valpere/geojson_overlay/internal"
	"github.com/valpere/geojson_overlay/pkg/overlay"
)

// Config represents the complete application configuration
type Config struct {
	Overlay OverlayConfig `mapstructure:"overlay"`
	Source  SourceConfig  `mapstructure:"source"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Output  OutputConfig  `mapstructure:"output"`
	Batch   BatchConfig   `mapstructure:"batch"`
	Network NetworkConfig `mapstructure:"network"`
	Listen  ListenConfig  `mapstructure:"listen"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// OverlayConfig describes where the GeoJSON comes from and how it is
// transformed and styled
type OverlayConfig struct {
	URL  string `mapstructure:"url"`
	File string `mapstructure:"file"`
	// Data is an inline GeoJSON document as text
	Data string `mapstructure:"data"`

	OffsetLat         float64 `mapstructure:"offset_lat"`
	OffsetLon         float64 `mapstructure:"offset_lon"`
	RotationDeg       float64 `mapstructure:"rotation_deg"`
	RotationOriginLat float64 `mapstructure:"rotation_origin_lat"`
	RotationOriginLon float64 `mapstructure:"rotation_origin_lon"`

	Style overlay.Style `mapstructure:",squash"`
}

// SourceConfig determines the data source type
type SourceConfig struct {
	Type string `mapstructure:"type"`
}

// FetchConfig contains HTTP fetch configuration for remote GeoJSON
type FetchConfig struct {
	APIKey     string            `mapstructure:"api_key"`
	Headers    map[string]string `mapstructure:"headers"`
	Timeout    time.Duration     `mapstructure:"timeout"`
	MaxRetries int               `mapstructure:"max_retries"`
	RetryDelay time.Duration     `mapstructure:"retry_delay"`
}

// OutputConfig contains output formatting configuration
type OutputConfig struct {
	Format      string `mapstructure:"format"`
	Directory   string `mapstructure:"directory"`
	Compression bool   `mapstructure:"compression"`
	Pretty      bool   `mapstructure:"pretty"`
	Metadata    bool   `mapstructure:"metadata"`
}

// BatchConfig contains batch processing configuration
type BatchConfig struct {
	Concurrency int           `mapstructure:"concurrency"`
	Timeout     time.Duration `mapstructure:"timeout"`
	FailOnError bool          `mapstructure:"fail_on_error"`
}

// NetworkConfig contains network-related configuration
type NetworkConfig struct {
	ProxyURL         string        `mapstructure:"proxy_url"`
	UserAgent        string        `mapstructure:"user_agent"`
	MaxIdleConns     int           `mapstructure:"max_idle_conns"`
	IdleConnTimeout  time.Duration `mapstructure:"idle_conn_timeout"`
	DisableKeepAlive bool          `mapstructure:"disable_keep_alive"`
}

// ListenConfig contains the HTTP API listen address
type ListenConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	Output  string `mapstructure:"output"`
	Verbose bool   `mapstructure:"verbose"`
}

// Load loads configuration from the global viper instance
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom loads configuration from the given viper instance
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, internal.NewError(internal.ErrorCodeConfig, "failed to unmarshal configuration", err)
	}

	if err := Validate(&config); err != nil {
		return nil, internal.NewError(internal.ErrorCodeConfig, "configuration validation failed", err)
	}

	return &config, nil
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Overlay defaults
	v.SetDefault("overlay.offset_lat", 0.0)
	v.SetDefault("overlay.offset_lon", 0.0)
	v.SetDefault("overlay.rotation_deg", 0.0)
	v.SetDefault("overlay.rotation_origin_lat", 0.0)
	v.SetDefault("overlay.rotation_origin_lon", 0.0)

	// Source defaults
	v.SetDefault("source.type", string(internal.SourceTypeAuto))

	// Fetch defaults
	v.SetDefault("fetch.timeout", 30*time.Second)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.retry_delay", time.Second)

	// Output defaults
	v.SetDefault("output.format", "geojson")
	v.SetDefault("output.pretty", true)
	v.SetDefault("output.compression", false)
	v.SetDefault("output.metadata", false)
	v.SetDefault("output.directory", "./output")

	// Batch defaults
	v.SetDefault("batch.concurrency", 10)
	v.SetDefault("batch.timeout", 5*time.Minute)
	v.SetDefault("batch.fail_on_error", false)

	// Network defaults
	v.SetDefault("network.user_agent", "GeoJSONOverlay/1.0")
	v.SetDefault("network.max_idle_conns", 100)
	v.SetDefault("network.idle_conn_timeout", 90*time.Second)
	v.SetDefault("network.disable_keep_alive", false)

	// Listen defaults
	v.SetDefault("listen.host", "127.0.0.1")
	v.SetDefault("listen.port", 8080)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stderr")
	v.SetDefault("logging.verbose", false)
}

// Options converts the overlay section into pipeline options
func (c *Config) Options() overlay.Options {
	return overlay.Options{
		OffsetLat:         c.Overlay.OffsetLat,
		OffsetLon:         c.Overlay.OffsetLon,
		RotationDeg:       c.Overlay.RotationDeg,
		RotationOriginLat: c.Overlay.RotationOriginLat,
		RotationOriginLon: c.Overlay.RotationOriginLon,
		Style:             c.Overlay.Style,
	}
}

// DetermineSourceType resolves "auto" using the url, file, data precedence
func (c *Config) DetermineSourceType() internal.SourceType {
	sourceType := internal.SourceType(strings.ToLower(c.Source.Type))
	switch sourceType {
	case internal.SourceTypeHTTP, internal.SourceTypeFile, internal.SourceTypeInline:
		return sourceType
	}

	switch {
	case c.Overlay.URL != "":
		return internal.SourceTypeHTTP
	case c.Overlay.File != "":
		return internal.SourceTypeFile
	case c.Overlay.Data != "":
		return internal.SourceTypeInline
	default:
		return internal.SourceTypeAuto
	}
}

// ListenAddress returns host:port for the HTTP API
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Listen.Host, c.Listen.Port)
}
