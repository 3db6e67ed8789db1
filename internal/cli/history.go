package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"m3run/internal/history"
	"m3run/internal/runner"
)

// stringList collects a repeatable string flag.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("empty value")
	}
	*s = append(*s, value)
	return nil
}

func runHistory(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		dbPath := fs.String("db", "", "DuckDB database path")
		var ingest stringList
		fs.Var(&ingest, "ingest", "Summary JSON to ingest (repeatable)")
		if code, ok := parseFlags(cmd, fs, args, false, stdout, stderr); !ok {
			return code
		}
		if strings.TrimSpace(*dbPath) == "" {
			fmt.Fprintln(stderr, "invalid arguments: --db is required")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		ctx := context.Background()
		store, err := history.Open(ctx, *dbPath)
		if err != nil {
			fmt.Fprintf(stderr, "History failed: %v\n", err)
			return ExitError
		}
		defer store.Close()

		for _, path := range ingest {
			summary, err := runner.ReadSummary(path)
			if err != nil {
				fmt.Fprintf(stderr, "History failed: %v\n", err)
				return ExitError
			}
			status, err := store.IngestSummary(ctx, summary)
			if err != nil {
				fmt.Fprintf(stderr, "History failed: %s: %v\n", path, err)
				return ExitError
			}
			fmt.Fprintf(stdout, "%s: run %s %s\n", path, summary.RunID, status)
		}

		stats, err := store.ModelStats(ctx)
		if err != nil {
			fmt.Fprintf(stderr, "History failed: %v\n", err)
			return ExitError
		}
		runs, err := store.Runs(ctx)
		if err != nil {
			fmt.Fprintf(stderr, "History failed: %v\n", err)
			return ExitError
		}
		if len(stats) == 0 {
			fmt.Fprintln(stdout, "No experiments recorded.")
			return ExitOK
		}
		fmt.Fprintln(stdout, renderModelStats(stats))
		fmt.Fprintf(stdout, "Runs: %d\n", len(runs))
		return ExitOK
	}
}

func renderModelStats(stats []history.ModelStat) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("MODEL", "DATASET", "DOMAINS", "RUNS", "SUCCESS", "RATE", "MEAN(s)", "LAST")
	for _, stat := range stats {
		last := "-"
		if !stat.LastFinished.IsZero() {
			last = stat.LastFinished.UTC().Format("2006-01-02 15:04")
		}
		t.Row(
			stat.Model,
			string(stat.Dataset),
			strconv.Itoa(stat.DomainNum),
			strconv.Itoa(stat.Runs),
			strconv.Itoa(stat.Successes),
			fmt.Sprintf("%.2f%%", stat.SuccessRate()*100),
			strconv.FormatFloat(stat.MeanDurationSec, 'f', 1, 64),
			last,
		)
	}
	return t.String()
}
