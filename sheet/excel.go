package sheet

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/warp/seniority-engine/calendar"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// READER
// =============================================================================

// ExcelReader reads the first worksheet of .xlsx and .xls workbooks.
type ExcelReader struct {
	// MaxRows caps the number of data rows read; 0 means no cap.
	MaxRows int
}

// NewExcelReader creates a reader with the given row cap.
func NewExcelReader(maxRows int) *ExcelReader {
	return &ExcelReader{MaxRows: maxRows}
}

// Read decodes the workbook and returns its first worksheet.
func (er *ExcelReader) Read(name string, r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	var t *Table
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		t, err = er.readXLSX(data)
	case ".xls":
		t, err = er.readXLS(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
	if err != nil {
		return nil, err
	}

	if len(t.Rows) == 0 {
		return nil, ErrEmptySheet
	}
	return t, nil
}

func (er *ExcelReader) readXLSX(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedWorkbook, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}
	sheetName := sheets[0]

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedWorkbook, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}

	t := &Table{SheetName: sheetName, Header: trimHeader(rows[0])}
	for i, raw := range rows[1:] {
		if er.MaxRows > 0 && i >= er.MaxRows {
			break
		}
		row := make([]calendar.Cell, len(raw))
		for j, value := range raw {
			axis, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, err
			}
			cellType, err := f.GetCellType(sheetName, axis)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformedWorkbook, err)
			}
			row[j] = classifyXLSX(cellType, value)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// classifyXLSX turns a raw xlsx value into a typed cell. Numbers carry no
// type attribute, so an untyped value that parses as a float is a number.
func classifyXLSX(cellType excelize.CellType, value string) calendar.Cell {
	if value == "" {
		return calendar.EmptyCell()
	}

	switch cellType {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return calendar.NumberCell(v)
		}
	case excelize.CellTypeDate:
		if t, ok := parseTimestamp(value); ok {
			return calendar.TimeCell(t)
		}
	}
	return calendar.TextCell(value)
}

func (er *ExcelReader) readXLS(data []byte) (*Table, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedWorkbook, err)
	}
	if wb.NumSheets() == 0 {
		return nil, ErrEmptySheet
	}

	ws := wb.GetSheet(0)
	if ws == nil || ws.MaxRow == 0 {
		return nil, ErrEmptySheet
	}

	var header []string
	t := &Table{SheetName: ws.Name}
	for i := 0; i <= int(ws.MaxRow); i++ {
		r := ws.Row(i)
		var values []string
		if r != nil {
			for j := 0; j <= r.LastCol(); j++ {
				values = append(values, r.Col(j))
			}
		}
		values = trimTrailingEmpty(values)

		if i == 0 {
			header = trimHeader(values)
			continue
		}
		if er.MaxRows > 0 && len(t.Rows) >= er.MaxRows {
			break
		}

		row := make([]calendar.Cell, len(values))
		for j, v := range values {
			row[j] = classifyXLS(v)
		}
		t.Rows = append(t.Rows, row)
	}
	t.Header = header

	for len(t.Rows) > 0 && len(t.Rows[len(t.Rows)-1]) == 0 {
		t.Rows = t.Rows[:len(t.Rows)-1]
	}
	return t, nil
}

// classifyXLS types a value from the legacy decoder, which renders
// date-formatted numbers as text (RFC 3339 or 2006.01.02).
func classifyXLS(value string) calendar.Cell {
	if strings.TrimSpace(value) == "" {
		return calendar.EmptyCell()
	}
	if v, err := strconv.ParseFloat(value, 64); err == nil {
		return calendar.NumberCell(v)
	}
	if t, ok := parseTimestamp(value); ok {
		return calendar.TimeCell(t)
	}
	if t, err := time.Parse("2006.01.02", value); err == nil {
		return calendar.TimeCell(t)
	}
	return calendar.TextCell(value)
}

func parseTimestamp(value string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func trimHeader(raw []string) []string {
	header := make([]string, len(raw))
	for i, h := range raw {
		header[i] = strings.TrimSpace(h)
	}
	return header
}

func trimTrailingEmpty(values []string) []string {
	for len(values) > 0 && strings.TrimSpace(values[len(values)-1]) == "" {
		values = values[:len(values)-1]
	}
	return values
}

// =============================================================================
// WRITER
// =============================================================================

// ExcelWriter writes tables as single-sheet .xlsx workbooks.
type ExcelWriter struct{}

// NewExcelWriter creates a writer.
func NewExcelWriter() *ExcelWriter {
	return &ExcelWriter{}
}

// Write encodes t: header in row 1, data from row 2.
func (ew *ExcelWriter) Write(w io.Writer, t *Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheetName := t.SheetName
	if sheetName == "" {
		sheetName = "Sheet1"
	}
	if sheetName != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheetName); err != nil {
			return fmt.Errorf("name sheet: %w", err)
		}
	}

	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range t.Rows {
		values := make([]any, len(row))
		for j, c := range row {
			values[j] = c.Value()
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, axis, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("encode workbook: %w", err)
	}
	return nil
}
