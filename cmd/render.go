// cmd/render.go - Single overlay rendering command
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/geojson_overlay/internal/config"
	"github.com/valpere/geojson_overlay/internal/output"
	"github.com/valpere/geojson_overlay/internal/render"
	"github.com/valpere/geojson_overlay/internal/source"
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a single GeoJSON overlay",
	Long: `Render a single GeoJSON overlay from the configured source.

The document is loaded from --url, --file or the inline overlay.data
configuration (in that order), offset and rotated, then sorted into render
buckets. The resulting snapshot of everything drawn is written to --output
or stdout.

Examples:
  # Render a remote document to stdout
  geojson-overlay render --url "https://example.com/site.geojson"

  # Render a local file with labels scaled for zoom 16
  geojson-overlay render --file site.geojson --zoom 16 -o site.rendered.geojson

  # Write compressed YAML with render statistics
  geojson-overlay render --file site.geojson --format yaml --compression --metadata -o site.yaml`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("output", "o", "", "output file path (default: stdout)")
	renderCmd.Flags().Float64("zoom", 0, "map zoom level used to scale labels")
	renderCmd.Flags().Bool("metadata", false, "include render statistics in output")

	viper.BindPFlag("output.metadata", renderCmd.Flags().Lookup("metadata"))
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	outputPath, _ := cmd.Flags().GetString("output")
	zoom, _ := cmd.Flags().GetFloat64("zoom")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := source.NewFactory(cfg).CreateSource()
	if err != nil {
		return fmt.Errorf("failed to create data source: %w", err)
	}

	var options []render.Option
	if cmd.Flags().Changed("zoom") {
		options = append(options, render.WithZoom(zoom))
	}

	collector := output.NewCollector(src.Origin())
	o := render.New(src, collector, cfg.Options(), options...)
	if err := o.Render(ctx); err != nil {
		return fmt.Errorf("failed to render overlay: %w", err)
	}

	snapshot := collector.Snapshot()
	result := o.Result()
	snapshot.Stats = &result.Stats

	written, err := writeSnapshot(cfg, snapshot, outputPath)
	if err != nil {
		return err
	}

	if err := o.Destroy(); err != nil {
		return fmt.Errorf("failed to destroy overlay: %w", err)
	}

	log.Info().
		Str("source", src.Origin()).
		Int("features", result.Stats.Features).
		Int("drawn", snapshot.FeatureCount()).
		Int("warnings", len(result.Warnings)).
		Str("written", humanize.Bytes(uint64(written))).
		Msg("Overlay rendered")

	return nil
}

// writeSnapshot writes the snapshot to path, or stdout when path is empty or "-"
func writeSnapshot(cfg *config.Config, snapshot *output.Snapshot, path string) (int64, error) {
	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return 0, err
	}

	writer, err := output.NewWriter(&output.WriterConfig{
		Format:      format,
		Pretty:      cfg.Output.Pretty,
		Compression: cfg.Output.Compression,
		Metadata:    cfg.Output.Metadata,
	}, path, false)
	if err != nil {
		return 0, fmt.Errorf("failed to create writer: %w", err)
	}

	if err := writer.Write(snapshot); err != nil {
		writer.Close()
		return 0, fmt.Errorf("failed to write output: %w", err)
	}
	if err := writer.Close(); err != nil {
		return 0, fmt.Errorf("failed to close output: %w", err)
	}
	return writer.BytesWritten(), nil
}
