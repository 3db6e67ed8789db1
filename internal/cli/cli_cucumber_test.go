//go:build cucumber && unix

package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"m3run/internal/metrics"
	"m3run/internal/runner"
)

// TestDriverScenarios runs the experiment driver feature scenarios.
func TestDriverScenarios(t *testing.T) {
	runFeatureSuite(t, "experiment-driver", InitializeDriverScenario)
}

// TestUIModeScenarios runs the console UI selection scenarios.
func TestUIModeScenarios(t *testing.T) {
	runFeatureSuite(t, "output-live-ui", InitializeUIModeScenario)
}

func runFeatureSuite(t *testing.T, name string, init func(*godog.ScenarioContext)) {
	suite := godog.TestSuite{
		Name:                name,
		ScenarioInitializer: init,
		Options: &godog.Options{
			Format:    "pretty",
			Paths:     []string{filepath.Join("..", "..", "spec", "features", name)},
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeDriverScenario wires steps for batch scenarios.
func InitializeDriverScenario(ctx *godog.ScenarioContext) {
	state := &driverScenarioState{}
	origExporter := newMetricsExporter
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		newMetricsExporter = func(context.Context) (metrics.Exporter, error) {
			return metrics.NewNoOpExporter(), nil
		}
		return ctx, state.reset()
	})
	ctx.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		newMetricsExporter = origExporter
		return ctx, os.RemoveAll(state.dir)
	})

	ctx.Step(`^a grid with "([^"]*)" on ch/3 and "([^"]*)" on en/3$`, state.givenGrid)
	ctx.Step(`^a stub trainer that exits with code (\d+)$`, state.givenStubTrainer)
	ctx.Step(`^I run "([^"]+)"$`, state.whenIRun)
	ctx.Step(`^the exit code is (\d+)$`, state.thenExitCode)
	ctx.Step(`^the summary reports (\d+) total, (\d+) success, (\d+) failed$`, state.thenSummaryCounts)
	ctx.Step(`^the results are "([^"]+)"$`, state.thenResultOrder)
	ctx.Step(`^the trainer received "([^"]+)"$`, state.thenTrainerArgs)
}

type driverScenarioState struct {
	dir      string
	chModels string
	enModels string
	script   string
	exitCode int
	stdout   bytes.Buffer
	stderr   bytes.Buffer
}

func (s *driverScenarioState) reset() error {
	dir, err := os.MkdirTemp("", "m3run-feature-")
	if err != nil {
		return err
	}
	*s = driverScenarioState{dir: dir}
	return nil
}

func (s *driverScenarioState) givenGrid(chModels, enModels string) error {
	s.chModels = chModels
	s.enModels = enModels
	return nil
}

func (s *driverScenarioState) givenStubTrainer(code int) error {
	s.script = filepath.Join(s.dir, "trainer.sh")
	body := fmt.Sprintf("#!/bin/sh\necho \"$@\" >> args.log\nexit %d\n", code)
	return os.WriteFile(s.script, []byte(body), 0o755)
}

func (s *driverScenarioState) whenIRun(command string) error {
	configPath := filepath.Join(s.dir, ".m3run", "config.yml")
	body := fmt.Sprintf(`version: 1
trainer:
  command: [%q]
output:
  summary_path: "experiment_summary.json"
grid:
  - dataset: ch
    domain_num: 3
    models: [%s]
  - dataset: en
    domain_num: 3
    models: [%s]
`, s.script, s.chModels, s.enModels)
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		return err
	}
	args := append(strings.Fields(command), "--config", configPath, "--ui", "plain")
	s.exitCode = Run(args, &s.stdout, &s.stderr)
	return nil
}

func (s *driverScenarioState) thenExitCode(code int) error {
	if s.exitCode != code {
		return fmt.Errorf("expected exit %d, got %d (stderr %q)", code, s.exitCode, s.stderr.String())
	}
	return nil
}

func (s *driverScenarioState) summary() (runner.Summary, error) {
	return runner.ReadSummary(filepath.Join(s.dir, "experiment_summary.json"))
}

func (s *driverScenarioState) thenSummaryCounts(total, success, failed int) error {
	summary, err := s.summary()
	if err != nil {
		return err
	}
	if summary.Total != total || summary.Success != success || summary.Failed != failed {
		return fmt.Errorf("expected %d/%d/%d, got %d/%d/%d", total, success, failed, summary.Total, summary.Success, summary.Failed)
	}
	return nil
}

func (s *driverScenarioState) thenResultOrder(ids string) error {
	summary, err := s.summary()
	if err != nil {
		return err
	}
	got := make([]string, 0, len(summary.Results))
	for _, result := range summary.Results {
		got = append(got, result.Spec().ID())
	}
	if strings.Join(got, ",") != ids {
		return fmt.Errorf("expected results %s, got %s", ids, strings.Join(got, ","))
	}
	return nil
}

func (s *driverScenarioState) thenTrainerArgs(want string) error {
	data, err := os.ReadFile(filepath.Join(s.dir, "args.log"))
	if err != nil {
		return err
	}
	if got := strings.TrimSpace(string(data)); got != want {
		return fmt.Errorf("expected trainer args %q, got %q", want, got)
	}
	return nil
}

// InitializeUIModeScenario wires steps for UI selection scenarios.
func InitializeUIModeScenario(ctx *godog.ScenarioContext) {
	state := &uiModeScenarioState{}
	orig := isTerminal
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		*state = uiModeScenarioState{}
		isTerminal = func(io.Writer) bool { return state.isTTY }
		return ctx, nil
	})
	ctx.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		isTerminal = orig
		return ctx, nil
	})

	ctx.Step(`^a TTY stdout$`, func() error { state.isTTY = true; return nil })
	ctx.Step(`^stdout is not a TTY$`, func() error { state.isTTY = false; return nil })
	ctx.Step(`^I select the "([^"]+)" UI$`, func(mode string) error { return state.selectUI(mode, false) })
	ctx.Step(`^I select the "([^"]+)" UI with verbose logging$`, func(mode string) error { return state.selectUI(mode, true) })
	ctx.Step(`^a live UI is shown$`, state.thenLive)
	ctx.Step(`^the output uses plain summary text$`, state.thenPlain)
	ctx.Step(`^a fallback warning is printed$`, state.thenWarning)
}

type uiModeScenarioState struct {
	isTTY    bool
	decision uiModeDecision
}

func (s *uiModeScenarioState) selectUI(mode string, verbose bool) error {
	decision, err := resolveUIMode(mode, verbose, io.Discard)
	if err != nil {
		return err
	}
	s.decision = decision
	return nil
}

func (s *uiModeScenarioState) thenLive() error {
	if !s.decision.useLive {
		return fmt.Errorf("expected live UI")
	}
	return nil
}

func (s *uiModeScenarioState) thenPlain() error {
	if s.decision.useLive {
		return fmt.Errorf("expected plain output")
	}
	return nil
}

func (s *uiModeScenarioState) thenWarning() error {
	if s.decision.warning == "" {
		return fmt.Errorf("expected fallback warning")
	}
	return nil
}
