package corpus

import "fmt"

// DataLoadError reports that a dataset file could not be obtained or read.
type DataLoadError struct {
	Path string
	Err  error
}

func (e *DataLoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("load %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("load dataset: %v", e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// SchemaError reports an incompatible column layout: a header row with
// unexpected names, or a first data row with the wrong column count. Load
// returns it wrapped in a DataLoadError so callers can match either.
type SchemaError struct {
	Path     string
	Line     int
	Expected int
	Got      int
	// Column is set when a header name did not match.
	Column string
}

func (e *SchemaError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("schema mismatch at line %d: unexpected column %q", e.Line, e.Column)
	}
	return fmt.Sprintf("schema mismatch at line %d: expected %d columns, got %d", e.Line, e.Expected, e.Got)
}
