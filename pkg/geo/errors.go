package geo

import "fmt"

// MalformedGeometryError reports a feature whose geometry kind could not be
// decoded. It is informational: the feature is passed through without geometry.
type MalformedGeometryError struct {
	Index int
	Type  string
	Err   error
}

func (e *MalformedGeometryError) Error() string {
	return fmt.Sprintf("feature %d: unsupported geometry type %q", e.Index, e.Type)
}

func (e *MalformedGeometryError) Unwrap() error {
	return e.Err
}
