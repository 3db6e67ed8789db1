//go:build unix

package runner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"m3run/internal/experiment"
	"m3run/internal/testutil"
	"m3run/internal/trainer"
)

// TestRunAndWriteWithStubTrainer runs a real child process end to end.
func TestRunAndWriteWithStubTrainer(t *testing.T) {
	workDir := t.TempDir()
	script := testutil.WriteStubTrainer(t, workDir, 0)
	summaryPath := filepath.Join(t.TempDir(), "experiment_summary.json")
	params := baseParams(t, trainer.ExecTrainer{Command: []string{script}, Dir: workDir},
		planFor(t, experiment.Spec{Dataset: experiment.DatasetEnglish, DomainNum: 3, Model: "m3fend"}))
	params.Mode = experiment.ModeSingle
	params.Command = []string{script}
	params.SummaryPath = summaryPath

	summary, paths, err := RunAndWrite(testutil.Context(t, 0), params)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	assertCounts(t, summary, 1, 1, 0)
	written, err := ReadSummary(paths.SummaryPath)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if written.Total != 1 || written.Success != 1 || written.Failed != 0 {
		t.Fatalf("unexpected written summary: %+v", written)
	}
	args, err := os.ReadFile(filepath.Join(workDir, "args.log"))
	if err != nil {
		t.Fatalf("read args: %v", err)
	}
	if strings.TrimSpace(string(args)) != "--gpu 0 --lr 0.0001 --model_name m3fend --dataset en --domain_num 3 --epoch 50" {
		t.Fatalf("unexpected trainer args: %q", args)
	}
}

// TestRunWithFailingStubTrainer verifies non-zero exits are failures.
func TestRunWithFailingStubTrainer(t *testing.T) {
	workDir := t.TempDir()
	script := testutil.WriteStubTrainer(t, workDir, 1)
	params := baseParams(t, trainer.ExecTrainer{Command: []string{script}, Dir: workDir}, planFor(t, chineseSpecs()...))

	summary, err := Run(testutil.Context(t, 0), params)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	assertCounts(t, summary, 3, 0, 3)
	args, err := os.ReadFile(filepath.Join(workDir, "args.log"))
	if err != nil {
		t.Fatalf("read args: %v", err)
	}
	if lines := strings.Count(string(args), "\n"); lines != 3 {
		t.Fatalf("expected 3 trainer invocations, got %d", lines)
	}
}
