// internal/batch/types.go - Batch processing types
package batch

import (
	"context"
	"time"

	"github.com/valpere/geojson_overlay/internal"
	"github.com/valpere/geojson_overlay/internal/output"
	"github.com/valpere/geojson_overlay/pkg/overlay"
)

// Job represents a batch rendering job over a list of GeoJSON files
type Job struct {
	ID          string       `json:"id"`
	Files       []string     `json:"files"`
	Config      *JobConfig   `json:"config"`
	Status      JobStatus    `json:"status"`
	Progress    *JobProgress `json:"progress"`
	CreatedAt   time.Time    `json:"created_at"`
	StartedAt   *time.Time   `json:"started_at,omitempty"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	Error       error        `json:"-"`
}

// JobConfig contains configuration for a batch rendering job
type JobConfig struct {
	Concurrency int             `json:"concurrency"`
	Timeout     time.Duration   `json:"timeout"`
	FailOnError bool            `json:"fail_on_error"`
	Options     overlay.Options `json:"options"`

	// Zoom is applied to labels before each snapshot is taken when set
	Zoom *float64 `json:"zoom,omitempty"`
}

// JobStatus represents the current status of a batch job
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCanceled  JobStatus = "canceled"
)

// JobProgress tracks the progress of a batch rendering job
type JobProgress struct {
	TotalDocuments     int64     `json:"total_documents"`
	ProcessedDocuments int64     `json:"processed_documents"`
	FailedDocuments    int64     `json:"failed_documents"`
	SuccessDocuments   int64     `json:"success_documents"`
	TotalFeatures      int64     `json:"total_features"`
	StartTime          time.Time `json:"start_time"`
	Throughput         float64   `json:"throughput"`
	BytesWritten       int64     `json:"bytes_written"`
}

// WorkItem is a single input file of a batch job
type WorkItem struct {
	Path   string `json:"path"`
	ItemID int    `json:"item_id"`
}

// WorkResult represents the result of rendering a work item
type WorkResult struct {
	Item     *WorkItem        `json:"item"`
	Snapshot *output.Snapshot `json:"-"`
	Output   string           `json:"output,omitempty"`
	Error    error            `json:"-"`
	Duration time.Duration    `json:"duration"`
}

// Processor defines the interface for executing batch rendering jobs
type Processor interface {
	Process(ctx context.Context, job *Job) error
}

// ProgressReporter defines the interface for reporting job progress
type ProgressReporter interface {
	ReportProgress(job *Job) error
	ReportItemComplete(job *Job, result *WorkResult) error
	ReportJobComplete(job *Job) error
	ReportJobFailed(job *Job, err error) error
}

// NewJob creates a new batch rendering job
func NewJob(id string, files []string, config *JobConfig) *Job {
	return &Job{
		ID:        id,
		Files:     files,
		Config:    config,
		Status:    JobStatusPending,
		Progress:  NewJobProgress(),
		CreatedAt: time.Now(),
	}
}

// NewJobConfig creates a new job configuration with default values
func NewJobConfig() *JobConfig {
	return &JobConfig{
		Concurrency: 10,
		Timeout:     5 * time.Minute,
		FailOnError: false,
	}
}

// NewJobProgress creates a new job progress tracker
func NewJobProgress() *JobProgress {
	return &JobProgress{StartTime: time.Now()}
}

// IsComplete returns true if the job has finished (successfully or with error)
func (j *Job) IsComplete() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed || j.Status == JobStatusCanceled
}

// IsRunning returns true if the job is currently being processed
func (j *Job) IsRunning() bool {
	return j.Status == JobStatusRunning
}

// Stats summarises the job as processing statistics
func (j *Job) Stats() internal.ProcessingStats {
	stats := internal.ProcessingStats{
		TotalDocuments:     j.Progress.TotalDocuments,
		ProcessedDocuments: j.Progress.ProcessedDocuments,
		FailedDocuments:    j.Progress.FailedDocuments,
		TotalFeatures:      j.Progress.TotalFeatures,
		BytesWritten:       j.Progress.BytesWritten,
		StartTime:          j.Progress.StartTime,
		Throughput:         j.Progress.Throughput,
	}
	if j.CompletedAt != nil {
		stats.EndTime = *j.CompletedAt
	}
	return stats
}

// CalculateProgress calculates the completion percentage
func (p *JobProgress) CalculateProgress() float64 {
	if p.TotalDocuments == 0 {
		return 0
	}
	return float64(p.ProcessedDocuments) / float64(p.TotalDocuments) * 100
}

// UpdateThroughput updates the processing throughput based on elapsed time
func (p *JobProgress) UpdateThroughput() {
	elapsed := time.Since(p.StartTime)
	if elapsed.Seconds() > 0 && p.ProcessedDocuments > 0 {
		p.Throughput = float64(p.ProcessedDocuments) / elapsed.Seconds()
	}
}

// String returns a string representation of the job status
func (s JobStatus) String() string {
	return string(s)
}

// IsValid checks if the job status is valid
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusRunning, JobStatusCompleted, JobStatusFailed, JobStatusCanceled:
		return true
	default:
		return false
	}
}
