package main

import (
	"io"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/warp/seniority-engine/calendar"
	"github.com/warp/seniority-engine/config"
	"github.com/warp/seniority-engine/promotion"
)

// cli carries state shared by all subcommands.
type cli struct {
	clock  calendar.Clock
	out    io.Writer
	errOut io.Writer

	// Global flag values.
	configFile string
	jsonOutput bool
	noColor    bool
	verbose    bool

	// Set by PersistentPreRunE.
	cfg      *config.Config
	schedule promotion.Schedule
}

func newRootCmd(clock calendar.Clock, out, errOut io.Writer) *cobra.Command {
	c := &cli{clock: clock, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "hrcalc",
		Short:         "Promotion eligibility and length-of-service calculator",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "output as JSON")
	root.PersistentFlags().BoolVar(&c.noColor, "no-color", false, "disable colored output")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log batch progress")

	root.AddCommand(c.tiersCmd())
	root.AddCommand(c.tenureCmd())
	root.AddCommand(c.scheduleCmd())
	root.AddCommand(c.promotionCmd())
	root.AddCommand(c.experienceCmd())
	root.AddCommand(c.serveCmd())

	return root
}

func (c *cli) setup() error {
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return err
	}
	c.cfg = cfg

	schedule, err := promotion.LoadSchedule(cfg.ScheduleFile)
	if err != nil {
		return err
	}
	c.schedule = schedule

	if c.noColor {
		color.NoColor = true
	}

	level := zerolog.WarnLevel
	if c.verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: c.errOut, NoColor: color.NoColor}).
		Level(level).With().Timestamp().Logger()
	return nil
}
