/*
Package sheet reads and writes the workbooks HR uploads.

PURPOSE:
  Decodes the first worksheet of an uploaded workbook into a Table of raw
  cells (header row + data rows) and encodes result tables back into a
  downloadable .xlsx. Batch processing only depends on the Reader and
  Writer interfaces; the excelize/xls engines live behind them.

FORMATS:
  .xlsx .xlsm .xltx   excelize (raw values, typed cells)
  .xls                extrame/xls (BIFF8, legacy Excel)

CELL TYPING:
  Numeric cells stay numbers so date serials survive. Text cells stay text
  even when they look numeric. ISO date cells become native times.

COLUMN REFERENCES:
  Users name columns either by header text ("تاريخ التوظيف") or by letter
  ("B"). See columns.go.

SEE ALSO:
  - excel.go: excelize/xls implementations
  - columns.go: Column resolution
  - batch/: Consumers of Table
*/
package sheet

import (
	"io"

	"github.com/warp/seniority-engine/calendar"
)

// =============================================================================
// TABLE
// =============================================================================

// Table is one worksheet: a trimmed header row and the data rows under it.
// Data rows may be shorter than the header when trailing cells are empty.
type Table struct {
	SheetName string
	Header    []string
	Rows      [][]calendar.Cell
}

// Cell returns the cell at (row, col), or an empty cell when out of range.
func (t *Table) Cell(row, col int) calendar.Cell {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return calendar.EmptyCell()
	}
	return t.Rows[row][col]
}

// Width is the number of columns spanned by the header and the widest row.
func (t *Table) Width() int {
	width := len(t.Header)
	for _, r := range t.Rows {
		width = max(width, len(r))
	}
	return width
}

// PaddedRow returns a copy of row i padded with empty cells to width.
// A row already wider than width is copied whole.
func (t *Table) PaddedRow(i, width int) []calendar.Cell {
	width = max(width, len(t.Rows[i]))
	row := make([]calendar.Cell, width)
	copy(row, t.Rows[i])
	for j := len(t.Rows[i]); j < width; j++ {
		row[j] = calendar.EmptyCell()
	}
	return row
}

// =============================================================================
// PORTS
// =============================================================================

// Reader decodes a workbook. name is the original file name and selects the
// format by extension.
type Reader interface {
	Read(name string, r io.Reader) (*Table, error)
}

// Writer encodes a table as a workbook.
type Writer interface {
	Write(w io.Writer, t *Table) error
}
