package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

type Command struct {
	Name    string
	Summary string
	Usage   []string
	Run     func(args []string, stdout, stderr io.Writer) int
}

func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stdout)
		return ExitUsage
	}
	if isHelpArg(args[0]) {
		printUsage(stdout)
		return ExitOK
	}

	cmd := findCommand(args[0])
	if cmd == nil {
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return ExitUsage
	}

	return cmd.Run(args[1:], stdout, stderr)
}

func findCommand(name string) *Command {
	for _, cmd := range commands {
		if cmd.Name == name {
			return cmd
		}
	}
	return nil
}

func isHelpArg(arg string) bool {
	switch arg {
	case "-h", "--help", "help":
		return true
	default:
		return false
	}
}

func wantsHelp(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "-h", "--help":
			return true
		}
	}
	return false
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  m3run <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", cmd.Name, cmd.Summary)
	}
	fmt.Fprintln(w, "\nUse \"m3run <command> --help\" for more information.")
}

func printCommandUsage(cmd *Command, w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	for _, line := range cmd.Usage {
		fmt.Fprintf(w, "  %s\n", line)
	}
	if cmd.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", cmd.Summary)
	}
}

// parseFlags parses args and reports the exit code to use when parsing
// stops the command. Positional arguments are rejected unless allowArgs.
func parseFlags(cmd *Command, flags *flag.FlagSet, args []string, allowArgs bool, stdout, stderr io.Writer) (int, bool) {
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printCommandUsage(cmd, stdout)
			return ExitOK, false
		}
		fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
		printCommandUsage(cmd, stderr)
		return ExitUsage, false
	}
	if !allowArgs && flags.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(flags.Args(), " "))
		printCommandUsage(cmd, stderr)
		return ExitUsage, false
	}
	return ExitOK, true
}

// flagSet reports whether name was given on the command line.
func flagSet(flags *flag.FlagSet, name string) bool {
	set := false
	flags.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func command(name, summary string, usage []string, runner func(cmd *Command) func(args []string, stdout, stderr io.Writer) int) *Command {
	cmd := &Command{
		Name:    name,
		Summary: summary,
		Usage:   usage,
	}
	cmd.Run = runner(cmd)
	return cmd
}

var commands = []*Command{
	command("init", "Scaffold .m3run/config.yml with the paper grid", []string{
		"m3run init [--config <path>] [--workdir <dir>]",
	}, runInit),
	command("validate", "Validate .m3run/config.yml", []string{
		"m3run validate [--config <path>]",
	}, runValidate),
	command("plan", "List the experiments a run would execute", []string{
		"m3run plan [--config <path>] [--mode single|all|m3fend] [--dataset ch|en] [--domain-num N] [--model name] [--lr F]",
	}, runPlan),
	command("run", "Run trainer experiments in sequence", []string{
		"m3run run [--mode single|all|m3fend] [--dataset ch|en] [--domain-num N] [--model name]",
		"          [--gpu idx] [--epoch N] [--lr F] [--timeout dur] [--output path] [--strict-models]",
		"          [--dry-run] [--ui auto|live|plain] [--verbose] [--log path] [--no-color] [--db path]",
	}, runRun),
	command("report", "Aggregate experiment summaries per model", []string{
		"m3run report <summary.json>...",
	}, runReport),
	command("history", "Ingest summaries into DuckDB and show model statistics", []string{
		"m3run history --db <path> [--ingest <summary.json>]...",
	}, runHistory),
}
