package sheet

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DateColumnKeyword marks the seniority date column when none is named
// explicitly ("date" in Arabic).
const DateColumnKeyword = "تاريخ"

var columnLetters = regexp.MustCompile(`^[A-Za-z]{1,3}$`)

// ResolveColumn maps a user column reference to a zero-based index.
// Header names match case-insensitively and win over letters, so a header
// literally called "B" is found by name.
func ResolveColumn(header []string, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1, ErrMissingColumnRef
	}

	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), ref) {
			return i, nil
		}
	}

	if columnLetters.MatchString(ref) {
		n, err := excelize.ColumnNameToNumber(strings.ToUpper(ref))
		if err == nil && n-1 < len(header) {
			return n - 1, nil
		}
	}

	return -1, &ColumnNotFoundError{Ref: ref}
}

// FindDateColumn returns the first column whose header contains the date
// keyword.
func FindDateColumn(header []string) (int, error) {
	for i, h := range header {
		if strings.Contains(h, DateColumnKeyword) {
			return i, nil
		}
	}
	return -1, ErrNoDateColumn
}

// ColumnLetter renders a zero-based index as a spreadsheet letter (0 -> A).
func ColumnLetter(index int) string {
	name, err := excelize.ColumnNumberToName(index + 1)
	if err != nil {
		return ""
	}
	return name
}

// OutputName derives the download name from the uploaded file name:
// "staff.xls" + "_معالج" -> "staff_معالج.xlsx".
func OutputName(original, suffix string) string {
	base := filepath.Base(original)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "." || base == string(filepath.Separator) {
		base = ""
	}
	return base + suffix + ".xlsx"
}
