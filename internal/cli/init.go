package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"m3run/internal/config"
)

// runInit builds the handler for the init command.
func runInit(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Config path to create (default: .m3run/config.yml in the current directory)")
		workDir := flags.String("workdir", ".", "Trainer working directory, relative to the config's project root")
		if code, ok := parseFlags(cmd, flags, args, false, stdout, stderr); !ok {
			return code
		}

		target := strings.TrimSpace(*configPath)
		if target == "" {
			wd, err := os.Getwd()
			if err != nil {
				fmt.Fprintf(stderr, "Init failed: %v\n", err)
				return ExitError
			}
			target = config.ConfigPath(wd)
		}
		abs, err := filepath.Abs(target)
		if err != nil {
			fmt.Fprintf(stderr, "Init failed: %v\n", err)
			return ExitError
		}
		if err := config.Scaffold(abs, *workDir); err != nil {
			fmt.Fprintf(stderr, "Init failed: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "Created %s\n", abs)
		return ExitOK
	}
}
