// internal/batch/progress.go - Progress reporters for batch jobs
package batch

import (
	"io"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	pb "gopkg.in/cheggaaa/pb.v1"
)

// BarReporter draws a terminal progress bar over the documents of a job
type BarReporter struct {
	out io.Writer
	bar *pb.ProgressBar
}

// NewBarReporter creates a progress bar reporter writing to out
func NewBarReporter(out io.Writer) *BarReporter {
	return &BarReporter{out: out}
}

// ReportProgress starts the bar once the total is known
func (r *BarReporter) ReportProgress(job *Job) error {
	if r.bar != nil {
		return nil
	}
	r.bar = pb.New(int(job.Progress.TotalDocuments)).SetWidth(79)
	r.bar.Output = r.out
	r.bar.ShowSpeed = true
	r.bar.Prefix("rendering ")
	r.bar.Start()
	return nil
}

// ReportItemComplete advances the bar by one document
func (r *BarReporter) ReportItemComplete(job *Job, result *WorkResult) error {
	if r.bar != nil {
		r.bar.Increment()
	}
	return nil
}

// ReportJobComplete finishes the bar
func (r *BarReporter) ReportJobComplete(job *Job) error {
	r.finish()
	return nil
}

// ReportJobFailed finishes the bar; the error is reported by the caller
func (r *BarReporter) ReportJobFailed(job *Job, err error) error {
	r.finish()
	return nil
}

func (r *BarReporter) finish() {
	if r.bar == nil {
		return
	}
	r.bar.Finish()
	r.bar = nil
}

// LogReporter logs every finished document through zerolog
type LogReporter struct{}

// NewLogReporter creates a log-based reporter
func NewLogReporter() *LogReporter {
	return &LogReporter{}
}

// ReportProgress logs the start of the job
func (r *LogReporter) ReportProgress(job *Job) error {
	log.Info().
		Str("job", job.ID).
		Int64("documents", job.Progress.TotalDocuments).
		Int("concurrency", job.Config.Concurrency).
		Msg("Batch started")
	return nil
}

// ReportItemComplete logs one rendered document
func (r *LogReporter) ReportItemComplete(job *Job, result *WorkResult) error {
	if result.Error != nil {
		return nil
	}
	event := log.Debug().
		Str("file", result.Item.Path).
		Dur("duration", result.Duration).
		Str("progress", humanize.FormatFloat("#.#", job.Progress.CalculateProgress())+"%")
	if result.Output != "" {
		event = event.Str("output", result.Output)
	}
	event.Msg("Document rendered")
	return nil
}

// ReportJobComplete logs the job summary
func (r *LogReporter) ReportJobComplete(job *Job) error {
	log.Info().
		Str("job", job.ID).
		Str("documents", humanize.Comma(job.Progress.SuccessDocuments)).
		Str("failed", humanize.Comma(job.Progress.FailedDocuments)).
		Str("features", humanize.Comma(job.Progress.TotalFeatures)).
		Str("written", humanize.Bytes(uint64(job.Progress.BytesWritten))).
		Msg("Batch completed")
	return nil
}

// ReportJobFailed logs the job failure
func (r *LogReporter) ReportJobFailed(job *Job, err error) error {
	log.Error().
		Err(err).
		Str("job", job.ID).
		Stringer("status", job.Status).
		Int64("processed", job.Progress.ProcessedDocuments).
		Msg("Batch stopped")
	return nil
}

// MultiReporter fans progress out to several reporters
type MultiReporter []ProgressReporter

// ReportProgress implements ProgressReporter
func (m MultiReporter) ReportProgress(job *Job) error {
	for _, r := range m {
		if err := r.ReportProgress(job); err != nil {
			return err
		}
	}
	return nil
}

// ReportItemComplete implements ProgressReporter
func (m MultiReporter) ReportItemComplete(job *Job, result *WorkResult) error {
	for _, r := range m {
		if err := r.ReportItemComplete(job, result); err != nil {
			return err
		}
	}
	return nil
}

// ReportJobComplete implements ProgressReporter
func (m MultiReporter) ReportJobComplete(job *Job) error {
	for _, r := range m {
		if err := r.ReportJobComplete(job); err != nil {
			return err
		}
	}
	return nil
}

// ReportJobFailed implements ProgressReporter
func (m MultiReporter) ReportJobFailed(job *Job, err error) error {
	for _, r := range m {
		if rerr := r.ReportJobFailed(job, err); rerr != nil {
			return rerr
		}
	}
	return nil
}
