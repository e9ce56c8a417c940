// Command hrcalc computes promotion dates and length of service from the
// command line, for single dates or whole workbooks.
package main

import (
	"os"

	"github.com/warp/seniority-engine/calendar"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
)

func main() {
	cmd := newRootCmd(calendar.SystemClock{}, os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		os.Exit(exitUserError)
	}
	os.Exit(exitSuccess)
}
