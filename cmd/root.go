// cmd/root.go - Root command implementation
package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/valpere/geojson_overlay/internal/config"
	"github.com/valpere/geojson_overlay/internal/logging"
)

// version is reported by --version and the HTTP health check
const version = "1.0.0"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "geojson-overlay",
	Short: "Render GeoJSON map overlays",
	Long: `GeoJSON Overlay loads a GeoJSON document, shifts it by a metric offset,
rotates it about an origin and sorts its features into render buckets with
resolved styles, icon markers and text labels.

Data Sources:
- Remote GeoJSON via HTTP/HTTPS
- Local files (optionally gzip compressed)
- Inline documents in the configuration file

Features:
- Metric offsets and counter-clockwise rotation in a local tangent plane
- Main, path, icon and label buckets with feature-over-default styles
- Zoom-dependent label scaling
- Concurrent batch rendering of many files
- OpenAPI-documented HTTP API

Examples:
  # Render a local file to stdout
  geojson-overlay render --file site.geojson

  # Shift 12.5 m north, rotate 30 degrees and write YAML
  geojson-overlay render --url "https://example.com/site.geojson" --offset-lat 12.5 \
    --rotation-deg 30 --rotation-origin-lat 50.45 --rotation-origin-lon 30.52 --format yaml -o site.yaml

  # Render many files into a directory
  geojson-overlay batch data/*.geojson --output-dir ./rendered

  # Serve the HTTP API
  geojson-overlay serve --port 8080

  # Use configuration file
  geojson-overlay render --config overlay.yaml`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()

	// Global flags
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.geojson-overlay.yaml)")

	// Source configuration flags
	flags.String("source-type", "auto", "data source type (auto, http, file, inline)")
	flags.String("url", "", "URL of the GeoJSON document (HTTP source)")
	flags.String("file", "", "path of a local GeoJSON document")
	flags.String("api-key", "", "API key for authentication (HTTP source)")
	flags.Duration("timeout", 30*time.Second, "request timeout (HTTP source)")
	flags.Int("retries", 3, "number of retry attempts (HTTP source)")

	// Transform flags
	flags.Float64("offset-lat", 0, "northward offset in metres")
	flags.Float64("offset-lon", 0, "eastward offset in metres")
	flags.Float64("rotation-deg", 0, "counter-clockwise rotation in degrees")
	flags.Float64("rotation-origin-lat", 0, "latitude of the rotation origin")
	flags.Float64("rotation-origin-lon", 0, "longitude of the rotation origin")

	// Output flags
	flags.StringP("format", "f", "geojson", "output format (geojson, json, yaml)")
	flags.Bool("pretty", true, "pretty print JSON output")
	flags.Bool("compression", false, "gzip output files")

	// Logging flags
	flags.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")
	flags.Bool("verbose", false, "verbose output")

	bindFlags(flags, map[string]string{
		"source.type":                 "source-type",
		"overlay.url":                 "url",
		"overlay.file":                "file",
		"fetch.api_key":               "api-key",
		"fetch.timeout":               "timeout",
		"fetch.max_retries":           "retries",
		"overlay.offset_lat":          "offset-lat",
		"overlay.offset_lon":          "offset-lon",
		"overlay.rotation_deg":        "rotation-deg",
		"overlay.rotation_origin_lat": "rotation-origin-lat",
		"overlay.rotation_origin_lon": "rotation-origin-lon",
		"output.format":               "format",
		"output.pretty":               "pretty",
		"output.compression":          "compression",
		"logging.level":               "log-level",
		"logging.format":              "log-format",
		"logging.verbose":             "verbose",
	})
}

// bindFlags binds each configuration key to the named flag
func bindFlags(flags *pflag.FlagSet, bindings map[string]string) {
	for key, name := range bindings {
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", name, err))
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".geojson-overlay" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".geojson-overlay")
	}

	// Environment variables
	viper.SetEnvPrefix("GEOJSON_OVERLAY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("logging.verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else if cfgFile != "" {
		cobra.CheckErr(fmt.Errorf("failed to read config file: %w", err))
	}
}

// loadConfig loads and validates configuration, then configures logging
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := logging.Setup(cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}
	return cfg, nil
}
