package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/warp/seniority-engine/batch"
	"github.com/warp/seniority-engine/sheet"
	"github.com/warp/seniority-engine/store/memory"
)

type batchSummary struct {
	RunID       string   `json:"run_id"`
	Input       string   `json:"input"`
	Output      string   `json:"output"`
	Columns     []string `json:"columns"`
	Rows        int      `json:"rows"`
	InvalidRows int      `json:"invalid_rows"`
}

func (c *cli) promotionCmd() *cobra.Command {
	var dateColumn, outPath string

	cmd := &cobra.Command{
		Use:   "promotion <workbook>",
		Short: "Append promotion tier dates to every row of a workbook",
		Long: `Reads the first sheet of an .xlsx or .xls workbook, finds the seniority
date column (the first header containing "تاريخ" unless --date-column is
given) and writes a new workbook with one column per promotion tier.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBatch(cmd.Context(), args[0], outPath, batch.PromotionSuffix,
				func(ctx context.Context, p *batch.Processor, t *sheet.Table, name string) (*batch.Result, error) {
					return p.Promotion(ctx, t, batch.PromotionRequest{FileName: name, DateColumn: dateColumn})
				})
		},
	}
	cmd.Flags().StringVar(&dateColumn, "date-column", "", "seniority date column (header name or letter)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output path (default: next to the input)")
	return cmd
}

func (c *cli) experienceCmd() *cobra.Command {
	var startColumn, endColumn, outPath string

	cmd := &cobra.Command{
		Use:   "experience <workbook>",
		Short: "Append years, months and days of service to every row of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBatch(cmd.Context(), args[0], outPath, batch.ExperienceSuffix,
				func(ctx context.Context, p *batch.Processor, t *sheet.Table, name string) (*batch.Result, error) {
					return p.Experience(ctx, t, batch.ExperienceRequest{
						FileName:    name,
						StartColumn: startColumn,
						EndColumn:   endColumn,
					})
				})
		},
	}
	cmd.Flags().StringVar(&startColumn, "start", "", "start date column (header name or letter)")
	cmd.Flags().StringVar(&endColumn, "end", "", "end date column; blank cells and a missing column mean today")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output path (default: next to the input)")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

type processFunc func(ctx context.Context, p *batch.Processor, t *sheet.Table, name string) (*batch.Result, error)

func (c *cli) runBatch(ctx context.Context, inPath, outPath, suffix string, process processFunc) error {
	if ctx == nil {
		ctx = context.Background()
	}

	f, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer f.Close()

	name := filepath.Base(inPath)
	table, err := sheet.NewExcelReader(0).Read(name, f)
	if err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}

	proc := batch.NewProcessor(c.schedule, c.clock, c.cfg.Batch.Workers, memory.NewMemory())
	res, err := process(ctx, proc, table, name)
	if err != nil {
		return err
	}

	if outPath == "" {
		outPath = filepath.Join(filepath.Dir(inPath), sheet.OutputName(name, suffix))
	}

	var buf bytes.Buffer
	if err := sheet.NewExcelWriter().Write(&buf, res.Table); err != nil {
		return err
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return err
	}

	summary := batchSummary{
		RunID:       res.Run.ID,
		Input:       inPath,
		Output:      outPath,
		Columns:     res.Columns,
		Rows:        res.Run.Rows,
		InvalidRows: res.Run.InvalidRows,
	}
	if c.jsonOutput {
		return c.printJSON(summary)
	}

	ok := color.New(color.FgGreen)
	warn := color.New(color.FgRed, color.Bold)

	fmt.Fprintf(c.out, "%s %d rows (dates from column %s) -> %s\n",
		ok.Sprint("processed"), summary.Rows, strings.Join(summary.Columns, ", "), summary.Output)
	if summary.InvalidRows > 0 {
		fmt.Fprintf(c.out, "%s %d rows had unreadable dates (marked %q)\n",
			warn.Sprint("warning:"), summary.InvalidRows, batch.InvalidDatePlaceholder)
	}
	return nil
}
