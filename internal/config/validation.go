// internal/config/validation.go - Configuration validation
package config

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/valpere/geojson_overlay/internal"
)

// Validate validates the configuration structure and values
func Validate(config *Config) error {
	if err := validateOverlay(&config.Overlay); err != nil {
		return fmt.Errorf("overlay configuration invalid: %w", err)
	}

	if err := validateSource(config); err != nil {
		return fmt.Errorf("source configuration invalid: %w", err)
	}

	if err := validateFetch(&config.Fetch); err != nil {
		return fmt.Errorf("fetch configuration invalid: %w", err)
	}

	if err := validateOutput(&config.Output); err != nil {
		return fmt.Errorf("output configuration invalid: %w", err)
	}

	if err := validateBatch(&config.Batch); err != nil {
		return fmt.Errorf("batch configuration invalid: %w", err)
	}

	if err := validateNetwork(&config.Network); err != nil {
		return fmt.Errorf("network configuration invalid: %w", err)
	}

	if err := validateListen(&config.Listen); err != nil {
		return fmt.Errorf("listen configuration invalid: %w", err)
	}

	if err := validateLogging(&config.Logging); err != nil {
		return fmt.Errorf("logging configuration invalid: %w", err)
	}

	return nil
}

// validateOverlay validates the overlay source and transform parameters
func validateOverlay(config *OverlayConfig) error {
	if config.URL != "" {
		if err := validateHTTPURL(config.URL); err != nil {
			return fmt.Errorf("invalid url: %w", err)
		}
	}

	numbers := map[string]float64{
		"offset_lat":          config.OffsetLat,
		"offset_lon":          config.OffsetLon,
		"rotation_deg":        config.RotationDeg,
		"rotation_origin_lat": config.RotationOriginLat,
		"rotation_origin_lon": config.RotationOriginLon,
	}
	for name, value := range numbers {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return fmt.Errorf("%s must be a finite number", name)
		}
	}

	if config.RotationOriginLat < -90 || config.RotationOriginLat > 90 {
		return fmt.Errorf("rotation_origin_lat must be between -90 and 90")
	}

	return nil
}

// validateSource checks that an explicit source type has something to load
func validateSource(config *Config) error {
	validTypes := []string{
		string(internal.SourceTypeAuto),
		string(internal.SourceTypeHTTP),
		string(internal.SourceTypeFile),
		string(internal.SourceTypeInline),
	}
	if !contains(validTypes, config.Source.Type) {
		return fmt.Errorf("invalid type: %s, must be one of %v", config.Source.Type, validTypes)
	}

	switch internal.SourceType(strings.ToLower(config.Source.Type)) {
	case internal.SourceTypeHTTP:
		if config.Overlay.URL == "" {
			return fmt.Errorf("overlay.url is required for http sources")
		}
	case internal.SourceTypeFile:
		if config.Overlay.File == "" {
			return fmt.Errorf("overlay.file is required for file sources")
		}
	case internal.SourceTypeInline:
		if config.Overlay.Data == "" {
			return fmt.Errorf("overlay.data is required for inline sources")
		}
	}

	return nil
}

// validateFetch validates HTTP fetch parameters
func validateFetch(config *FetchConfig) error {
	if config.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}

	if config.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	if config.RetryDelay < 0 {
		return fmt.Errorf("retry_delay must be non-negative")
	}

	return nil
}

// validateOutput validates output configuration parameters
func validateOutput(config *OutputConfig) error {
	validFormats := []string{"geojson", "json", "yaml"}
	if !contains(validFormats, config.Format) {
		return fmt.Errorf("invalid format: %s, must be one of %v", config.Format, validFormats)
	}

	return nil
}

// validateBatch validates batch processing configuration parameters
func validateBatch(config *BatchConfig) error {
	if config.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive")
	}

	if config.Concurrency > 1000 {
		return fmt.Errorf("concurrency must not exceed 1000")
	}

	if config.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	return nil
}

// validateNetwork validates network configuration parameters
func validateNetwork(config *NetworkConfig) error {
	if config.ProxyURL != "" {
		if err := validateHTTPURL(config.ProxyURL); err != nil {
			return fmt.Errorf("invalid proxy_url: %w", err)
		}
	}

	if config.MaxIdleConns < 0 {
		return fmt.Errorf("max_idle_conns must be non-negative")
	}

	if config.UserAgent == "" {
		return fmt.Errorf("user_agent cannot be empty")
	}

	if config.IdleConnTimeout < 0 {
		return fmt.Errorf("idle_conn_timeout must be non-negative")
	}

	return nil
}

// validateListen validates the HTTP API address
func validateListen(config *ListenConfig) error {
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535")
	}
	return nil
}

// validateLogging validates logging configuration parameters
func validateLogging(config *LoggingConfig) error {
	validLevels := []string{"trace", "debug", "info", "warn", "error", "fatal", "panic"}
	if !contains(validLevels, config.Level) {
		return fmt.Errorf("invalid log level: %s, must be one of %v", config.Level, validLevels)
	}

	validFormats := []string{"text", "json"}
	if !contains(validFormats, config.Format) {
		return fmt.Errorf("invalid log format: %s, must be one of %v", config.Format, validFormats)
	}

	validOutputs := []string{"stdout", "stderr"}
	if !contains(validOutputs, config.Output) {
		return fmt.Errorf("invalid log output: %s, must be one of %v", config.Output, validOutputs)
	}

	return nil
}

// validateHTTPURL requires an absolute http or https URL
func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}

// contains checks if a string slice contains a specific string (case-insensitive)
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if strings.EqualFold(s, item) {
			return true
		}
	}
	return false
}
