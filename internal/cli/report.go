package cli

import (
	"flag"
	"fmt"
	"io"

	"m3run/internal/report"
)

func runReport(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		if code, ok := parseFlags(cmd, fs, args, true, stdout, stderr); !ok {
			return code
		}
		if fs.NArg() == 0 {
			fmt.Fprintln(stderr, "invalid arguments: at least one summary path is required")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		summaries, err := report.LoadSummaries(fs.Args())
		if err != nil {
			fmt.Fprintf(stderr, "Report failed: %v\n", err)
			return ExitError
		}
		if err := report.Render(stdout, report.Aggregate(summaries)); err != nil {
			fmt.Fprintf(stderr, "Report failed: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}
