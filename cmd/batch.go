// cmd/batch.go - Batch rendering command
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/valpere/geojson_overlay/internal/batch"
	"github.com/valpere/geojson_overlay/internal/output"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <files or directories...>",
	Short: "Render many GeoJSON files concurrently",
	Long: `Render many GeoJSON files concurrently, writing one snapshot per input
into --output-dir. Directories are scanned (non-recursively) for .geojson and
.json files, optionally gzip compressed.

Every input uses the same offset, rotation and style defaults. A document
that fails to load is reported and skipped unless --fail-on-error is set.

Examples:
  # Render every file in a directory
  geojson-overlay batch ./parcels --output-dir ./rendered

  # Render with 4 workers, stopping on the first failure
  geojson-overlay batch a.geojson b.geojson.gz --concurrency 4 --fail-on-error

  # Shift all inputs and write compressed JSON snapshots
  geojson-overlay batch ./parcels --offset-lat 3 --format json --compression

  # Merge every rendered input into one FeatureCollection
  geojson-overlay batch ./parcels --merge site.geojson`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().String("output-dir", "./output", "output directory for rendered snapshots")
	batchCmd.Flags().Int("concurrency", 10, "number of documents rendered at once")
	batchCmd.Flags().Bool("fail-on-error", false, "stop processing on first error")
	batchCmd.Flags().Float64("zoom", 0, "map zoom level used to scale labels")
	batchCmd.Flags().Bool("metadata", false, "include render statistics in output")
	batchCmd.Flags().Bool("progress", true, "show progress bar")
	batchCmd.Flags().String("merge", "", "write all snapshots into this single file instead of --output-dir")

	bindFlags(batchCmd.Flags(), map[string]string{
		"output.directory":    "output-dir",
		"batch.concurrency":   "concurrency",
		"batch.fail_on_error": "fail-on-error",
	})
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	zoom, _ := cmd.Flags().GetFloat64("zoom")
	metadata, _ := cmd.Flags().GetBool("metadata")
	showProgress, _ := cmd.Flags().GetBool("progress")
	merge, _ := cmd.Flags().GetString("merge")

	files, err := collectInputs(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no GeoJSON files to process")
	}

	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	writer, destination, err := newBatchWriter(&output.WriterConfig{
		Format:      format,
		Pretty:      cfg.Output.Pretty,
		Compression: cfg.Output.Compression,
		Metadata:    metadata || cfg.Output.Metadata,
	}, cfg.Output.Directory, merge)
	if err != nil {
		return fmt.Errorf("failed to create writer: %w", err)
	}

	reporters := batch.MultiReporter{batch.NewLogReporter()}
	if showProgress {
		reporters = append(reporters, batch.NewBarReporter(os.Stderr))
	}

	jobConfig := &batch.JobConfig{
		Concurrency: cfg.Batch.Concurrency,
		Timeout:     cfg.Batch.Timeout,
		FailOnError: cfg.Batch.FailOnError,
		Options:     cfg.Options(),
	}
	if cmd.Flags().Changed("zoom") {
		jobConfig.Zoom = &zoom
	}

	job := batch.NewJob(generateJobID(), files, jobConfig)
	processor := batch.NewBatchProcessor(writer, reporters)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := processor.Process(ctx, job); err != nil {
		writer.Close()
		return fmt.Errorf("batch processing failed: %w", err)
	}
	if err := writer.Close(); err != nil {
		return err
	}

	stats := job.Stats()
	elapsed := stats.EndTime.Sub(stats.StartTime)
	fmt.Fprintf(os.Stderr, "\nBatch rendering completed\n")
	fmt.Fprintf(os.Stderr, "Processed: %s documents\n", humanize.Comma(stats.ProcessedDocuments))
	fmt.Fprintf(os.Stderr, "Success: %s, Failed: %s\n",
		humanize.Comma(job.Progress.SuccessDocuments), humanize.Comma(stats.FailedDocuments))
	fmt.Fprintf(os.Stderr, "Features: %s\n", humanize.Comma(stats.TotalFeatures))
	fmt.Fprintf(os.Stderr, "Written: %s to %s\n", humanize.Bytes(uint64(writer.BytesWritten())), destination)
	fmt.Fprintf(os.Stderr, "Duration: %v\n", elapsed.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "Throughput: %.2f documents/second\n", stats.Throughput)

	return nil
}

// newBatchWriter writes one file per snapshot, or a single merged file when
// merge names one.
func newBatchWriter(config *output.WriterConfig, dir, merge string) (output.Writer, string, error) {
	if merge == "" {
		writer, err := output.NewMultiFileWriter(config, dir)
		return writer, dir, err
	}
	file, err := output.NewFileWriter(config, merge)
	if err != nil {
		return nil, "", err
	}
	return output.NewMergeWriter(file), file.Name(), nil
}

// inputExtensions are the file types picked up when scanning a directory
var inputExtensions = []string{".geojson", ".json"}

// collectInputs expands directories into the GeoJSON files they contain
func collectInputs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", arg, err)
		}
		for _, entry := range entries {
			if entry.Type().IsRegular() && isGeoJSONFile(entry.Name()) {
				files = append(files, filepath.Join(arg, entry.Name()))
			}
		}
	}
	return files, nil
}

func isGeoJSONFile(name string) bool {
	name = strings.TrimSuffix(strings.ToLower(name), ".gz")
	for _, ext := range inputExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// generateJobID creates a unique job ID
func generateJobID() string {
	return fmt.Sprintf("batch-%d", time.Now().Unix())
}
