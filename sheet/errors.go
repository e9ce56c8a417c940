package sheet

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmptySheet is returned when the first worksheet has no data rows.
	ErrEmptySheet = errors.New("worksheet is empty or has only a header row")

	// ErrUnsupportedFormat is returned for file extensions no reader handles.
	ErrUnsupportedFormat = errors.New("unsupported workbook format")

	// ErrMalformedWorkbook wraps decoder failures on corrupt or mislabelled files.
	ErrMalformedWorkbook = errors.New("malformed workbook")

	// ErrColumnNotFound is returned when a column reference matches neither a
	// header nor a column letter within the header width.
	ErrColumnNotFound = errors.New("column not found")

	// ErrNoDateColumn is returned when no header contains the date keyword.
	ErrNoDateColumn = errors.New("no date column found")

	// ErrMissingColumnRef is returned when a required column reference is blank.
	ErrMissingColumnRef = errors.New("column reference is required")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ColumnNotFoundError names the reference that could not be resolved.
type ColumnNotFoundError struct {
	Ref string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column not found: no header or column letter matches %q", e.Ref)
}

func (e *ColumnNotFoundError) Unwrap() error {
	return ErrColumnNotFound
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to the uploaded file or the
// column references supplied with it.
func IsClientError(err error) bool {
	return errors.Is(err, ErrEmptySheet) ||
		errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrColumnNotFound) ||
		errors.Is(err, ErrNoDateColumn) ||
		errors.Is(err, ErrMissingColumnRef) ||
		errors.Is(err, ErrMalformedWorkbook)
}
