package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/warp/seniority-engine/calendar"
)

type tierRow struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Months  int    `json:"months"`
	Date    string `json:"date"`
	Reached bool   `json:"reached"`
}

func (c *cli) tiersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tiers <seniority-date>",
		Short: "Show the date each promotion tier is reached",
		Example: `  hrcalc tiers 15/03/2021
  hrcalc tiers 2020-08-31 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seniority, err := calendar.ParseDate(args[0])
			if err != nil {
				return err
			}
			today := calendar.Today(c.clock)

			var rows []tierRow
			for _, td := range c.schedule.Eligibility(seniority) {
				rows = append(rows, tierRow{
					ID:      string(td.Tier.ID),
					Label:   td.Tier.Label,
					Months:  td.Tier.Months,
					Date:    td.Date.Format(),
					Reached: td.Reached(today),
				})
			}

			if c.jsonOutput {
				return c.printJSON(rows)
			}

			reached := color.New(color.FgGreen)
			upcoming := color.New(color.FgYellow)

			tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "TIER\tMONTHS\tDATE\tSTATUS\n")
			for _, r := range rows {
				status := upcoming.Sprint("upcoming")
				if r.Reached {
					status = reached.Sprint("reached")
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", r.Label, r.Months, r.Date, status)
			}
			return tw.Flush()
		},
	}
}

type tenureOutput struct {
	Start           string `json:"start_date"`
	End             string `json:"end_date"`
	Years           int    `json:"years"`
	Months          int    `json:"months"`
	Days            int    `json:"days"`
	FractionalYears string `json:"fractional_years"`
}

func (c *cli) tenureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tenure <start-date> [end-date]",
		Short: "Length of service between two dates (end defaults to today)",
		Example: `  hrcalc tenure 01/02/2019 2021-03-01
  hrcalc tenure 2015-01-31`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := calendar.ParseDate(args[0])
			if err != nil {
				return err
			}
			end := calendar.Today(c.clock)
			if len(args) == 2 {
				if end, err = calendar.ParseDate(args[1]); err != nil {
					return err
				}
			}

			exp := calendar.Experience(start, end)
			out := tenureOutput{
				Start:           start.String(),
				End:             end.String(),
				Years:           exp.Years,
				Months:          exp.Months,
				Days:            exp.Days,
				FractionalYears: exp.DecimalYears().StringFixed(2),
			}

			if c.jsonOutput {
				return c.printJSON(out)
			}

			bold := color.New(color.Bold)
			fmt.Fprintf(c.out, "%s -> %s: %s (%s years)\n",
				start.Format(), end.Format(), bold.Sprint(exp.String()), out.FractionalYears)
			return nil
		},
	}
}

func (c *cli) scheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Print the active tier schedule as a schedule file",
		Long: `Prints the tier schedule in use (built-in or schedule_file) in the JSON
form schedule_file accepts, as a starting point for a custom schedule.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.printJSON(c.schedule.ToJSON())
		},
	}
}

func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
