// internal/output/writer.go - Output writing implementation
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
)

// FileWriter writes output to a single file with optional compression
type FileWriter struct {
	formatter   Formatter
	destination Destination
}

// NewFileWriter creates a new file-based writer
func NewFileWriter(config *WriterConfig, destination string) (*FileWriter, error) {
	formatter, err := NewFormatter(&FormatterConfig{
		Format:       config.Format,
		Pretty:       config.Pretty,
		IncludeStats: config.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create formatter: %w", err)
	}

	dest, err := newFileDestination(destination, config.Compression)
	if err != nil {
		return nil, fmt.Errorf("failed to create file destination: %w", err)
	}

	return &FileWriter{
		formatter:   formatter,
		destination: dest,
	}, nil
}

// Write writes a single snapshot to the output destination
func (w *FileWriter) Write(snapshot *Snapshot) error {
	data, err := w.formatter.Format(snapshot)
	if err != nil {
		return fmt.Errorf("formatting failed: %w", err)
	}

	if _, err := w.destination.Write(data); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}

	return nil
}

// WriteBatch writes multiple snapshots as a batch operation
func (w *FileWriter) WriteBatch(snapshots []*Snapshot) error {
	data, err := w.formatter.FormatBatch(snapshots)
	if err != nil {
		return fmt.Errorf("batch formatting failed: %w", err)
	}

	if _, err := w.destination.Write(data); err != nil {
		return fmt.Errorf("batch write failed: %w", err)
	}

	return nil
}

// BytesWritten returns the number of uncompressed bytes written
func (w *FileWriter) BytesWritten() int64 {
	return w.destination.Size()
}

// Name returns the path actually written, including any .gz suffix
func (w *FileWriter) Name() string {
	return w.destination.Name()
}

// Close closes the writer and underlying destination
func (w *FileWriter) Close() error {
	return w.destination.Close()
}

// StreamWriter writes output to an io.Writer such as standard output
type StreamWriter struct {
	formatter Formatter
	out       io.Writer
	size      int64
}

// NewStdoutWriter creates a new stdout-based writer
func NewStdoutWriter(format Format, pretty bool) (*StreamWriter, error) {
	return NewStreamWriter(os.Stdout, format, pretty)
}

// NewStreamWriter creates a writer over an arbitrary stream
func NewStreamWriter(out io.Writer, format Format, pretty bool) (*StreamWriter, error) {
	formatter, err := NewFormatter(&FormatterConfig{
		Format: format,
		Pretty: pretty,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create formatter: %w", err)
	}

	return &StreamWriter{formatter: formatter, out: out}, nil
}

// Write writes a single snapshot followed by a newline
func (w *StreamWriter) Write(snapshot *Snapshot) error {
	data, err := w.formatter.Format(snapshot)
	if err != nil {
		return fmt.Errorf("formatting failed: %w", err)
	}
	return w.writeLine(data)
}

// WriteBatch writes multiple snapshots followed by a newline
func (w *StreamWriter) WriteBatch(snapshots []*Snapshot) error {
	data, err := w.formatter.FormatBatch(snapshots)
	if err != nil {
		return fmt.Errorf("batch formatting failed: %w", err)
	}
	return w.writeLine(data)
}

func (w *StreamWriter) writeLine(data []byte) error {
	if !strings.HasSuffix(string(data), "\n") {
		data = append(data, '\n')
	}
	n, err := w.out.Write(data)
	w.size += int64(n)
	if err != nil {
		return fmt.Errorf("write to stream failed: %w", err)
	}
	return nil
}

// BytesWritten returns the number of bytes written
func (w *StreamWriter) BytesWritten() int64 {
	return w.size
}

// Close is a no-op for stream writers
func (w *StreamWriter) Close() error {
	return nil
}

// MergeWriter collects snapshots and hands them to the wrapped writer as one
// batch when closed. It is safe for concurrent use.
type MergeWriter struct {
	writer Writer

	mu        sync.Mutex
	snapshots []*Snapshot
}

// NewMergeWriter creates a writer that merges everything written into one batch
func NewMergeWriter(writer Writer) *MergeWriter {
	return &MergeWriter{writer: writer}
}

// Write queues a snapshot for the merged output
func (w *MergeWriter) Write(snapshot *Snapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.snapshots = append(w.snapshots, snapshot)
	return nil
}

// WriteBatch queues several snapshots for the merged output
func (w *MergeWriter) WriteBatch(snapshots []*Snapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.snapshots = append(w.snapshots, snapshots...)
	return nil
}

// BytesWritten returns the bytes written by the wrapped writer
func (w *MergeWriter) BytesWritten() int64 {
	return w.writer.BytesWritten()
}

// Close writes the merged batch and closes the wrapped writer
func (w *MergeWriter) Close() error {
	w.mu.Lock()
	snapshots := w.snapshots
	w.snapshots = nil
	w.mu.Unlock()

	if len(snapshots) > 0 {
		if err := w.writer.WriteBatch(snapshots); err != nil {
			w.writer.Close()
			return fmt.Errorf("failed to write merged output: %w", err)
		}
	}
	return w.writer.Close()
}

// MultiFileWriter writes each snapshot to a separate file named after it.
// It is safe for concurrent use.
type MultiFileWriter struct {
	formatter Formatter
	baseDir   string
	config    *WriterConfig

	mu   sync.Mutex
	size int64
}

// NewMultiFileWriter creates a writer that outputs each snapshot to a separate file
func NewMultiFileWriter(config *WriterConfig, baseDir string) (*MultiFileWriter, error) {
	formatter, err := NewFormatter(&FormatterConfig{
		Format:       config.Format,
		Pretty:       config.Pretty,
		IncludeStats: config.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create formatter: %w", err)
	}

	// Ensure base directory exists
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &MultiFileWriter{
		formatter: formatter,
		baseDir:   baseDir,
		config:    config,
	}, nil
}

// Write writes a single snapshot to its own file
func (w *MultiFileWriter) Write(snapshot *Snapshot) error {
	path := w.Path(snapshot)

	dest, err := newFileDestination(path, w.config.Compression)
	if err != nil {
		return fmt.Errorf("failed to create file destination: %w", err)
	}

	data, err := w.formatter.Format(snapshot)
	if err != nil {
		dest.Close()
		return fmt.Errorf("formatting failed: %w", err)
	}

	if _, err := dest.Write(data); err != nil {
		dest.Close()
		return fmt.Errorf("write failed: %w", err)
	}
	if err := dest.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	w.mu.Lock()
	w.size += dest.Size()
	w.mu.Unlock()
	return nil
}

// WriteBatch writes each snapshot in the batch to separate files
func (w *MultiFileWriter) WriteBatch(snapshots []*Snapshot) error {
	for _, snapshot := range snapshots {
		if err := w.Write(snapshot); err != nil {
			return fmt.Errorf("failed to write snapshot %s: %w", snapshot.Name, err)
		}
	}
	return nil
}

// BytesWritten returns the number of uncompressed bytes written
func (w *MultiFileWriter) BytesWritten() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}

// Close is a no-op for multi-file writer
func (w *MultiFileWriter) Close() error {
	return nil
}

// Path returns the file a snapshot is written to
func (w *MultiFileWriter) Path(snapshot *Snapshot) string {
	return filepath.Join(w.baseDir, w.generateFilename(snapshot))
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// generateFilename derives a file name from the snapshot name or source
func (w *MultiFileWriter) generateFilename(snapshot *Snapshot) string {
	name := snapshot.Name
	if name == "" {
		name = filepath.Base(snapshot.Source)
	}
	name = strings.TrimSuffix(name, ".gz")
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = unsafeFilename.ReplaceAllString(name, "_")
	if name == "" || name == "." || name == "_" {
		name = "overlay"
	}

	ext := w.formatter.Extension()
	if w.config.Compression {
		ext += ".gz"
	}
	return name + ext
}

// fileDestination implements the Destination interface for file output
type fileDestination struct {
	file   *os.File
	writer io.WriteCloser
	name   string
	size   int64
}

// newFileDestination creates a new file destination with optional compression
func newFileDestination(path string, compression bool) (*fileDestination, error) {
	if compression && !strings.HasSuffix(path, ".gz") {
		path += ".gz"
	}

	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	dest := &fileDestination{file: file, writer: file, name: path}
	if compression {
		return wrapGzip(dest)
	}
	return dest, nil
}

// wrapGzip compresses everything written to the destination
func wrapGzip(dest *fileDestination) (*fileDestination, error) {
	gzipWriter, err := gzip.NewWriterLevel(dest.file, gzip.DefaultCompression)
	if err != nil {
		dest.file.Close()
		return nil, fmt.Errorf("failed to create gzip writer: %w", err)
	}
	dest.writer = gzipWriter
	return dest, nil
}

// Write implements io.Writer
func (d *fileDestination) Write(p []byte) (n int, err error) {
	n, err = d.writer.Write(p)
	d.size += int64(n)
	return n, err
}

// Close implements io.Closer
func (d *fileDestination) Close() error {
	if d.writer != io.WriteCloser(d.file) {
		if err := d.writer.Close(); err != nil {
			d.file.Close()
			return err
		}
	}
	return d.file.Close()
}

// Name returns the destination file path
func (d *fileDestination) Name() string {
	return d.name
}

// Size returns the number of bytes written
func (d *fileDestination) Size() int64 {
	return d.size
}

// NewWriter creates the appropriate writer based on configuration
func NewWriter(config *WriterConfig, destination string, multiFile bool) (Writer, error) {
	if destination == "" || destination == "-" {
		return NewStdoutWriter(config.Format, config.Pretty)
	}

	if multiFile {
		return NewMultiFileWriter(config, destination)
	}

	return NewFileWriter(config, destination)
}
