package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrNoHeaders indicates a CSV file without a header row.
	ErrNoHeaders = errors.New("csv file has no header row")

	// ErrLoadFailed wraps any decode failure with the file path.
	ErrLoadFailed = errors.New("failed to load source")
)

// UnsupportedFormatError reports a file extension no loader handles.
type UnsupportedFormatError struct {
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %q", e.Extension)
}
