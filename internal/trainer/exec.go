package trainer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"time"
)

// DefaultKillGrace is how long a cancelled trainer gets to exit after SIGTERM.
const DefaultKillGrace = 10 * time.Second

// ExecTrainer runs the trainer as a child process.
type ExecTrainer struct {
	// Command is the argv prefix, e.g. ["python", "main.py"].
	Command []string
	Dir     string
	Env     map[string]string
	// Timeout bounds each run. Zero waits forever.
	Timeout   time.Duration
	KillGrace time.Duration
}

// Train executes the trainer and waits for it to exit.
func (t ExecTrainer) Train(ctx context.Context, inv Invocation, streams Streams) (Outcome, error) {
	if len(t.Command) == 0 || t.Command[0] == "" {
		return Outcome{ExitCode: -1}, fmt.Errorf("trainer command is empty")
	}
	runCtx := ctx
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	args := append(append([]string(nil), t.Command[1:]...), Args(inv)...)
	cmd := exec.CommandContext(runCtx, t.Command[0], args...)
	cmd.Dir = t.Dir
	cmd.Env = mergeEnv(os.Environ(), t.Env)
	cmd.Stdout = streams.Stdout
	cmd.Stderr = streams.Stderr
	grace := t.KillGrace
	if grace <= 0 {
		grace = DefaultKillGrace
	}
	configureProcessGroup(cmd, grace)

	started := time.Now()
	err := cmd.Run()
	outcome := Outcome{Duration: time.Since(started)}
	if err == nil {
		return outcome, nil
	}
	if ctx.Err() != nil {
		outcome.ExitCode = -1
		return outcome, fmt.Errorf("trainer interrupted: %w", ctx.Err())
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		outcome.ExitCode = -1
		outcome.TimedOut = true
		return outcome, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		outcome.ExitCode = exitErr.ExitCode()
		return outcome, nil
	}
	// A grandchild kept the output pipes open past the grace period; the
	// trainer itself has exited and its status stands.
	if errors.Is(err, exec.ErrWaitDelay) && cmd.ProcessState != nil {
		outcome.ExitCode = cmd.ProcessState.ExitCode()
		return outcome, nil
	}
	outcome.ExitCode = -1
	return outcome, fmt.Errorf("run trainer: %w", err)
}

// mergeEnv appends overrides to base in a deterministic order.
func mergeEnv(base []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return base
	}
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	env := append([]string(nil), base...)
	for _, key := range keys {
		env = append(env, key+"="+overrides[key])
	}
	return env
}
