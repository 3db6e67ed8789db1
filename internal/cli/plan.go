package cli

import (
	"flag"
	"fmt"
	"io"

	"m3run/internal/runner"
	"m3run/internal/trainer"
)

// runPlan builds the handler for the plan command.
func runPlan(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		sel := registerSelectionFlags(flags)
		gpu := flags.String("gpu", "0", "GPU index passed to the trainer")
		epochs := flags.Int("epoch", 50, "Training epochs")
		if code, ok := parseFlags(cmd, flags, args, false, stdout, stderr); !ok {
			return code
		}
		selected, err := sel.parse()
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
		printPlan(stdout, loaded, plan, *gpu, *epochs)
		return ExitOK
	}
}

// printPlan lists each planned experiment with its trainer command.
func printPlan(w io.Writer, loaded loadedConfig, plan []runner.PlannedExperiment, gpu string, epochs int) {
	fmt.Fprintf(w, "Config: %s\n", loaded.describeSource())
	fmt.Fprintf(w, "Experiments: %d\n", len(plan))
	for i, planned := range plan {
		inv := trainer.Invocation{Spec: planned.Spec, GPU: gpu, Epochs: epochs, LearningRate: planned.LearningRate}
		fmt.Fprintf(w, "%3d. %s | lr=%s\n", i+1, planned.Spec, trainer.FormatLearningRate(planned.LearningRate))
		fmt.Fprintf(w, "     command: %s\n", trainer.CommandLine(loaded.Config.Trainer.Command, inv))
	}
}
