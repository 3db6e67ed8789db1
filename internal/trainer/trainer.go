package trainer

import (
	"context"
	"io"
	"time"

	"m3run/internal/experiment"
)

// Invocation carries the hyperparameters passed to one trainer run.
type Invocation struct {
	Spec         experiment.Spec
	GPU          string
	Epochs       int
	LearningRate float64
}

// Streams receives the child's output.
type Streams struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Outcome describes how a trainer process finished.
type Outcome struct {
	ExitCode int
	Duration time.Duration
	TimedOut bool
}

// Success reports whether the trainer exited cleanly.
func (o Outcome) Success() bool {
	return o.ExitCode == 0 && !o.TimedOut
}

// Trainer launches one training run and blocks until it exits.
//
// A non-zero exit is reported through Outcome. The error is reserved for runs
// that could not complete at all: a process that failed to start, or a context
// cancelled by the caller.
type Trainer interface {
	Train(ctx context.Context, inv Invocation, streams Streams) (Outcome, error)
}
