// internal/batch/processor.go - Batch rendering implementation
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/destel/rill"
	"github.com/rs/zerolog/log"

	"github.com/valpere/geojson_overlay/internal/output"
	"github.com/valpere/geojson_overlay/internal/render"
	"github.com/valpere/geojson_overlay/internal/source"
)

// SourceFunc opens the data source of one input file
type SourceFunc func(path string) source.DataSource

// BatchProcessor renders many GeoJSON files concurrently and writes one
// snapshot per input
type BatchProcessor struct {
	sources  SourceFunc
	writer   output.Writer
	reporter ProgressReporter
	mutex    sync.RWMutex
}

// NewBatchProcessor creates a new batch processor. Inputs are read as local
// files; reporter may be nil.
func NewBatchProcessor(writer output.Writer, reporter ProgressReporter) *BatchProcessor {
	return &BatchProcessor{
		sources:  func(path string) source.DataSource { return source.NewFileSource(path) },
		writer:   writer,
		reporter: reporter,
	}
}

// WithSources replaces the function used to open each input
func (bp *BatchProcessor) WithSources(fn SourceFunc) *BatchProcessor {
	bp.sources = fn
	return bp
}

// Process renders every file of the job. Documents are rendered with up to
// Config.Concurrency workers and written one at a time in completion order.
// A failed document is counted and skipped unless Config.FailOnError is set.
func (bp *BatchProcessor) Process(ctx context.Context, job *Job) error {
	bp.mutex.Lock()
	if job.IsRunning() || job.IsComplete() {
		bp.mutex.Unlock()
		return fmt.Errorf("job %s is already %s", job.ID, job.Status)
	}
	job.Status = JobStatusRunning
	now := time.Now()
	job.StartedAt = &now
	job.Progress.StartTime = now
	job.Progress.TotalDocuments = int64(len(job.Files))
	bp.mutex.Unlock()

	if bp.reporter != nil {
		bp.reporter.ReportProgress(job)
	}

	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	concurrency := job.Config.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	items := rill.FromSlice(generateWorkItems(job.Files), nil)
	results := rill.Map(items, concurrency, func(item *WorkItem) (*WorkResult, error) {
		return bp.renderItem(ctx, job.Config, item), nil
	})

	err := rill.ForEach(results, 1, func(result *WorkResult) error {
		if result.Error == nil {
			result.Error = bp.writeResult(result)
		}

		bp.updateJobProgress(job, result)
		if bp.reporter != nil {
			bp.reporter.ReportItemComplete(job, result)
		}

		if result.Error != nil {
			log.Error().Err(result.Error).Str("file", result.Item.Path).Msg("Failed to render document")
			if job.Config.FailOnError {
				return fmt.Errorf("%s: %w", result.Item.Path, result.Error)
			}
		}
		return nil
	})
	if err == nil {
		err = parent.Err()
	}

	if err != nil {
		cancel()
		status := JobStatusFailed
		if parent.Err() != nil {
			status = JobStatusCanceled
		}
		bp.completeJob(job, status, err)
		return err
	}

	bp.completeJob(job, JobStatusCompleted, nil)
	return nil
}

// renderItem loads, renders and snapshots a single document
func (bp *BatchProcessor) renderItem(ctx context.Context, config *JobConfig, item *WorkItem) *WorkResult {
	start := time.Now()
	result := &WorkResult{Item: item}

	if err := ctx.Err(); err != nil {
		result.Error = err
		return result
	}

	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	collector := output.NewCollector(item.Path)
	var options []render.Option
	if config.Zoom != nil {
		options = append(options, render.WithZoom(*config.Zoom))
	}

	o := render.New(bp.sources(item.Path), collector, config.Options, options...)
	defer o.Destroy()

	if err := o.Render(ctx); err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		return result
	}

	snapshot := collector.Snapshot()
	snapshot.Name = filepath.Base(item.Path)
	stats := o.Result().Stats
	snapshot.Stats = &stats

	result.Snapshot = snapshot
	result.Duration = time.Since(start)
	return result
}

// writeResult writes a rendered snapshot and records where it went
func (bp *BatchProcessor) writeResult(result *WorkResult) error {
	if err := bp.writer.Write(result.Snapshot); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if paths, ok := bp.writer.(interface{ Path(*output.Snapshot) string }); ok {
		result.Output = paths.Path(result.Snapshot)
	}
	return nil
}

// generateWorkItems creates one work item per input file
func generateWorkItems(files []string) []*WorkItem {
	items := make([]*WorkItem, 0, len(files))
	for i, path := range files {
		items = append(items, &WorkItem{Path: path, ItemID: i})
	}
	return items
}

// updateJobProgress updates job progress with a finished item
func (bp *BatchProcessor) updateJobProgress(job *Job, result *WorkResult) {
	bp.mutex.Lock()
	defer bp.mutex.Unlock()

	job.Progress.ProcessedDocuments++
	if result.Error != nil {
		job.Progress.FailedDocuments++
	} else {
		job.Progress.SuccessDocuments++
		if result.Snapshot.Stats != nil {
			job.Progress.TotalFeatures += int64(result.Snapshot.Stats.Features)
		}
	}
	job.Progress.BytesWritten = bp.writer.BytesWritten()
	job.Progress.UpdateThroughput()
}

// completeJob records the final status and notifies the reporter
func (bp *BatchProcessor) completeJob(job *Job, status JobStatus, err error) {
	bp.mutex.Lock()
	job.Status = status
	job.Error = err
	now := time.Now()
	job.CompletedAt = &now
	bp.mutex.Unlock()

	if bp.reporter == nil {
		return
	}
	if err != nil {
		bp.reporter.ReportJobFailed(job, err)
		return
	}
	bp.reporter.ReportJobComplete(job)
}
