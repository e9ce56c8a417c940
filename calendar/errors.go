package calendar

import "errors"

// ErrUnparseableDate is returned when typed input is not a recognized date.
// Batch processing never sees it: ParseCell reports failure with ok=false
// and the row gets a placeholder instead.
var ErrUnparseableDate = errors.New("unparseable date")

// IsUnparseable reports whether err came from a date that could not be read.
func IsUnparseable(err error) bool {
	return errors.Is(err, ErrUnparseableDate)
}
