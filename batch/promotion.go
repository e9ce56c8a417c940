package batch

import (
	"context"
	"fmt"

	"github.com/warp/seniority-engine/calendar"
	"github.com/warp/seniority-engine/sheet"
)

// PromotionRequest describes one promotion batch.
type PromotionRequest struct {
	FileName string
	// DateColumn overrides the header heuristic; a header name or letter.
	DateColumn string
}

// Promotion appends one column per tier holding the date the tier is reached,
// formatted DD/MM/YYYY.
func (p *Processor) Promotion(ctx context.Context, in *sheet.Table, req PromotionRequest) (*Result, error) {
	run := p.newRun(KindPromotion, req.FileName)

	res, err := p.promotion(ctx, in, req, &run)
	p.finish(ctx, &run, err)
	if err != nil {
		return nil, err
	}
	res.Run = run
	return res, nil
}

func (p *Processor) promotion(ctx context.Context, in *sheet.Table, req PromotionRequest, run *Run) (*Result, error) {
	if in == nil || len(in.Rows) == 0 {
		return nil, sheet.ErrEmptySheet
	}

	col, err := promotionColumn(in.Header, req.DateColumn)
	if err != nil {
		return nil, err
	}

	labels := p.Schedule.Labels()
	width := in.Width()
	out := &sheet.Table{
		SheetName: PromotionSheetName,
		Header:    outputHeader(in, width, labels...),
		Rows:      make([][]calendar.Cell, len(in.Rows)),
	}

	invalid, err := p.eachRow(ctx, len(in.Rows), func(i int) bool {
		seniority, ok := calendar.ParseCell(in.Cell(i, col))
		if !ok {
			out.Rows[i] = outputRow(in, i, width, placeholders(len(labels)))
			return false
		}

		tiers := p.Schedule.Eligibility(seniority)
		cells := make([]calendar.Cell, len(tiers))
		for j, td := range tiers {
			cells[j] = calendar.TextCell(td.Date.Format())
		}
		out.Rows[i] = outputRow(in, i, width, cells)
		return true
	})
	if err != nil {
		return nil, err
	}

	run.Rows = len(in.Rows)
	run.InvalidRows = invalid
	run.OutputName = sheet.OutputName(req.FileName, PromotionSuffix)
	return &Result{Table: out, Columns: []string{sheet.ColumnLetter(col)}}, nil
}

func promotionColumn(header []string, ref string) (int, error) {
	if ref == "" {
		return sheet.FindDateColumn(header)
	}
	col, err := sheet.ResolveColumn(header, ref)
	if err != nil {
		return 0, fmt.Errorf("date column: %w", err)
	}
	return col, nil
}
