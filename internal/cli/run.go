package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"m3run/internal/config"
	"m3run/internal/history"
	"m3run/internal/metrics"
	"m3run/internal/runner"
	"m3run/internal/trainer"
	"m3run/internal/ui/live"
	"m3run/internal/vcs"
)

var runAndWrite = runner.RunAndWrite

var readRevision = vcs.ReadRevision

var newMetricsExporter = func(ctx context.Context) (metrics.Exporter, error) {
	return metrics.New(ctx, metrics.LoadConfig())
}

func runRun(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		sel := registerSelectionFlags(fs)
		gpu := fs.String("gpu", "0", "GPU index passed to the trainer")
		epochs := fs.Int("epoch", 50, "Training epochs")
		timeout := fs.Duration("timeout", 0, "Per-experiment timeout (default: trainer.timeout_seconds; an explicit 0 disables it)")
		output := fs.String("output", "", "Summary JSON path (default: output.summary_path)")
		dryRun := fs.Bool("dry-run", false, "Print the planned commands without running them")
		uiMode := fs.String("ui", "auto", "Console UI mode: auto|live|plain")
		verbose := fs.Bool("verbose", false, "Enable verbose logging")
		logPath := fs.String("log", "", "Write verbose logs to a file")
		noColor := fs.Bool("no-color", false, "Disable ANSI colors")
		dbPath := fs.String("db", "", "Ingest the summary into this DuckDB history database")
		if code, ok := parseFlags(cmd, fs, args, false, stdout, stderr); !ok {
			return code
		}
		selected, err := sel.parse()
		if err != nil {
			fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
			return ExitUsage
		}
		if *epochs <= 0 {
			fmt.Fprintf(stderr, "invalid arguments: --epoch must be > 0\n")
			return ExitUsage
		}
		if *timeout < 0 {
			fmt.Fprintf(stderr, "invalid arguments: --timeout must be >= 0\n")
			return ExitUsage
		}
		decision, err := resolveUIMode(*uiMode, *verbose, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
			return ExitUsage
		}

		loaded, err := loadRunConfig(*sel.configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config:\n%v\n", err)
			return ExitError
		}
		plan, err := buildPlan(loaded, selected, *sel.strictModels)
		if err != nil {
			fmt.Fprintf(stderr, "Plan failed: %v\n", err)
			return ExitError
		}
		if *dryRun {
			printPlan(stdout, loaded, plan, *gpu, *epochs)
			return ExitOK
		}
		if decision.warning != "" {
			fmt.Fprintln(stderr, decision.warning)
		}

		cfg := loaded.Config
		trainerTimeout := *timeout
		if !flagSet(fs, "timeout") && cfg.Trainer.TimeoutSeconds > 0 {
			trainerTimeout = time.Duration(cfg.Trainer.TimeoutSeconds) * time.Second
		}
		summaryPath := strings.TrimSpace(*output)
		if summaryPath == "" {
			summaryPath = config.ResolvePath(loaded.BaseDir, cfg.Output.SummaryPath)
		}
		logsDir := config.ResolvePath(loaded.BaseDir, cfg.Output.LogsDir)
		if decision.useLive && logsDir == "" {
			logsDir = config.ResolvePath(loaded.BaseDir, config.DefaultLogsDir)
		}

		var verboseLogWriter io.Writer
		if strings.TrimSpace(*logPath) != "" {
			logFile, err := os.Create(*logPath)
			if err != nil {
				fmt.Fprintf(stderr, "Failed to open log file: %v\n", err)
				return ExitError
			}
			defer logFile.Close()
			verboseLogWriter = logFile
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		exporter, err := newMetricsExporter(ctx)
		if err != nil {
			fmt.Fprintf(stderr, "Warning: metrics disabled: %v\n", err)
			exporter = metrics.NewNoOpExporter()
		}
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := exporter.Close(shutdownCtx); err != nil {
				fmt.Fprintf(stderr, "Warning: flush metrics: %v\n", err)
			}
		}()

		trainerDir := config.ResolvePath(loaded.BaseDir, cfg.Trainer.WorkDir)
		var revision *vcs.Revision
		if rev, err := readRevision(ctx, trainerDir); err == nil {
			revision = &rev
			fmt.Fprintf(stdout, "Trainer revision: %s\n", rev.Short())
		} else if !errors.Is(err, vcs.ErrNotRepository) && !errors.Is(err, exec.ErrNotFound) {
			fmt.Fprintf(stderr, "Warning: read trainer revision: %v\n", err)
		}

		params := runner.RunParams{
			Mode:    selected.mode,
			Plan:    plan,
			GPU:     *gpu,
			Epochs:  *epochs,
			Command: cfg.Trainer.Command,
			Trainer: trainer.ExecTrainer{
				Command: cfg.Trainer.Command,
				Dir:     trainerDir,
				Env:     cfg.Trainer.Env,
				Timeout: trainerTimeout,
			},
			SummaryPath:      summaryPath,
			LogsDir:          logsDir,
			FlushEachRun:     config.FlushEachRun(cfg),
			Warnings:         stderr,
			Verbose:          *verbose,
			VerboseWriter:    stdout,
			VerboseLogWriter: verboseLogWriter,
			NoColor:          *noColor,
			Revision:         revision,
		}

		var controller *live.Controller
		if decision.useLive {
			controller = live.Start(stdout, live.Options{NoColor: *noColor, Interrupt: cancel})
			params.Observer = runner.Observers{controller, exporter}
		} else {
			params.Observer = runner.Observers{runner.NewConsoleObserver(stdout), exporter}
			params.TrainerStdout = stdout
			params.TrainerStderr = stderr
		}

		summary, paths, runErr := runAndWrite(ctx, params)
		if controller != nil {
			controller.Close()
			controller.Wait()
			if summary.RunID != "" {
				runner.PrintSummary(stdout, summary)
			}
		}
		if runErr != nil && !errors.Is(runErr, runner.ErrInterrupted) {
			fmt.Fprintf(stderr, "Run failed: %v\n", runErr)
			return ExitError
		}

		fmt.Fprintf(stdout, "Summary saved to: %s\n", paths.SummaryPath)
		if logs := paths.LogsDir(); logs != "" {
			fmt.Fprintf(stdout, "Trainer logs: %s\n", logs)
		}
		if strings.TrimSpace(*dbPath) != "" {
			if err := ingestSummary(ctx, *dbPath, summary, stdout); err != nil {
				fmt.Fprintf(stderr, "History ingest failed: %v\n", err)
				return ExitError
			}
		}
		if runErr != nil {
			fmt.Fprintf(stderr, "Run interrupted: %v\n", runErr)
			return ExitError
		}
		return ExitOK
	}
}

// ingestSummary records a finished run in the history database.
func ingestSummary(ctx context.Context, dbPath string, summary runner.Summary, stdout io.Writer) error {
	// The run context may already be cancelled by an interrupt.
	ctx = context.WithoutCancel(ctx)
	store, err := history.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	status, err := store.IngestSummary(ctx, summary)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "History: run %s %s in %s\n", summary.RunID, status, dbPath)
	return nil
}
