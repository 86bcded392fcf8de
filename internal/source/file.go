// internal/source/file.go - Local GeoJSON file loading
package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/valpere/geojson_overlay/internal"
	"github.com/valpere/geojson_overlay/pkg/geo"
)

// FileSource loads a GeoJSON document from the local file system.
// Files ending in .gz are decompressed.
type FileSource struct {
	path string
}

// NewFileSource creates a file source
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Origin returns the file path
func (s *FileSource) Origin() string {
	return s.path
}

// Load reads and decodes the file
func (s *FileSource) Load(ctx context.Context) (*geo.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, loadError(s.path, err)
	}
	resp, err := s.Fetch()
	if err != nil {
		return nil, loadError(s.path, err)
	}
	return decodeResponse(resp)
}

// Fetch reads the raw file content
func (s *FileSource) Fetch() (*Response, error) {
	start := time.Now()

	fileInfo, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, internal.NewError(internal.ErrorCodeNotFound, fmt.Sprintf("file not found: %s", s.path), err)
		}
		return nil, internal.NewError(internal.ErrorCodeFileSystem, fmt.Sprintf("cannot access file: %s", s.path), err)
	}

	if !fileInfo.Mode().IsRegular() {
		return nil, internal.NewError(internal.ErrorCodeValidation, fmt.Sprintf("path is not a regular file: %s", s.path), nil)
	}

	file, err := os.Open(s.path)
	if err != nil {
		return nil, internal.NewError(internal.ErrorCodeFileSystem, fmt.Sprintf("failed to open file: %s", s.path), err)
	}
	defer file.Close()

	var reader io.Reader = file
	compressed := isCompressedFile(s.path)
	if compressed {
		gzipReader, err := gzip.NewReader(file)
		if err != nil {
			return nil, internal.NewError(internal.ErrorCodeFileSystem, fmt.Sprintf("failed to create gzip reader for: %s", s.path), err)
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, internal.NewError(internal.ErrorCodeFileSystem, fmt.Sprintf("failed to read file: %s", s.path), err)
	}

	return &Response{
		Origin:     s.path,
		Data:       data,
		Size:       len(data),
		Compressed: compressed,
		FetchTime:  time.Since(start),
	}, nil
}

// isCompressedFile determines if a file is compressed based on its extension
func isCompressedFile(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}
