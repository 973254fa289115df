package rental

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn is the cause when a required column is absent.
	ErrMissingColumn = errors.New("missing column")
	// ErrInvalidValue is the cause when a cell cannot be parsed or is out of range.
	ErrInvalidValue = errors.New("invalid value")
	// ErrEmptyTable is the cause when the file has a header but no data rows.
	ErrEmptyTable = errors.New("no data rows")
)

// LoadError reports why a dataset could not be loaded. Column and Row are
// set when the failure is tied to a specific cell; Row is 1-based and counts
// data rows only.
type LoadError struct {
	Path   string
	Column string
	Row    int
	Err    error
}

func (e *LoadError) Error() string {
	switch {
	case e.Column != "" && e.Row > 0:
		return fmt.Sprintf("load %s: column %q row %d: %v", e.Path, e.Column, e.Row, e.Err)
	case e.Column != "":
		return fmt.Sprintf("load %s: column %q: %v", e.Path, e.Column, e.Err)
	default:
		return fmt.Sprintf("load %s: %v", e.Path, e.Err)
	}
}

func (e *LoadError) Unwrap() error { return e.Err }
