package batch

import (
	"context"
	"fmt"
	"strings"

	"github.com/warp/seniority-engine/calendar"
	"github.com/warp/seniority-engine/sheet"
)

// ExperienceRequest describes one experience batch.
type ExperienceRequest struct {
	FileName string
	// StartColumn is required; a header name or letter.
	StartColumn string
	// EndColumn is optional. Without it every row ends today.
	EndColumn string
}

// Experience appends years, months and days of service for every row.
// An empty end cell means the employee is still in service and ends today;
// a non-empty end cell that does not parse makes the row invalid.
func (p *Processor) Experience(ctx context.Context, in *sheet.Table, req ExperienceRequest) (*Result, error) {
	run := p.newRun(KindExperience, req.FileName)

	res, err := p.experience(ctx, in, req, &run)
	p.finish(ctx, &run, err)
	if err != nil {
		return nil, err
	}
	res.Run = run
	return res, nil
}

func (p *Processor) experience(ctx context.Context, in *sheet.Table, req ExperienceRequest, run *Run) (*Result, error) {
	if in == nil || len(in.Rows) == 0 {
		return nil, sheet.ErrEmptySheet
	}

	if strings.TrimSpace(req.StartColumn) == "" {
		return nil, fmt.Errorf("start column: %w", sheet.ErrMissingColumnRef)
	}
	startCol, err := sheet.ResolveColumn(in.Header, req.StartColumn)
	if err != nil {
		return nil, fmt.Errorf("start column: %w", err)
	}

	endCol := -1
	if strings.TrimSpace(req.EndColumn) != "" {
		if endCol, err = sheet.ResolveColumn(in.Header, req.EndColumn); err != nil {
			return nil, fmt.Errorf("end column: %w", err)
		}
	}

	// One "today" for the whole batch so rows agree across midnight.
	today := calendar.Today(p.Clock)

	width := in.Width()
	out := &sheet.Table{
		SheetName: ExperienceSheetName,
		Header:    outputHeader(in, width, YearsLabel, MonthsLabel, DaysLabel),
		Rows:      make([][]calendar.Cell, len(in.Rows)),
	}

	invalid, err := p.eachRow(ctx, len(in.Rows), func(i int) bool {
		start, ok := calendar.ParseCell(in.Cell(i, startCol))
		if !ok {
			out.Rows[i] = outputRow(in, i, width, placeholders(3))
			return false
		}

		end := today
		if endCol >= 0 {
			if c := in.Cell(i, endCol); !c.IsEmpty() {
				if end, ok = calendar.ParseCell(c); !ok {
					out.Rows[i] = outputRow(in, i, width, placeholders(3))
					return false
				}
			}
		}

		exp := calendar.Experience(start, end)
		out.Rows[i] = outputRow(in, i, width, []calendar.Cell{
			calendar.NumberCell(float64(exp.Years)),
			calendar.NumberCell(float64(exp.Months)),
			calendar.NumberCell(float64(exp.Days)),
		})
		return true
	})
	if err != nil {
		return nil, err
	}

	run.Rows = len(in.Rows)
	run.InvalidRows = invalid
	run.OutputName = sheet.OutputName(req.FileName, ExperienceSuffix)

	columns := []string{sheet.ColumnLetter(startCol)}
	if endCol >= 0 {
		columns = append(columns, sheet.ColumnLetter(endCol))
	}
	return &Result{Table: out, Columns: columns}, nil
}
