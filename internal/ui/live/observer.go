package live

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"m3run/internal/experiment"
	"m3run/internal/runner"
)

// Controller runs the live UI and implements runner.RunObserver.
type Controller struct {
	events    chan Event
	program   *tea.Program
	done      chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
}

// Start launches a live UI controller that writes to stdout.
func Start(stdout io.Writer, opts Options) *Controller {
	if stdout == nil {
		stdout = os.Stdout
	}
	events := make(chan Event, 256)
	model := NewModel(events, opts)
	program := tea.NewProgram(model, tea.WithOutput(stdout), tea.WithAltScreen())
	controller := &Controller{
		events:  events,
		program: program,
		done:    make(chan struct{}),
	}
	go func() {
		_, _ = program.Run()
		close(controller.done)
	}()
	return controller
}

// Close signals the UI to stop.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.events)
	})
}

// Wait blocks until the UI has exited.
func (c *Controller) Wait() {
	if c == nil {
		return
	}
	<-c.done
}

// OnRunStart forwards run start events to the UI.
func (c *Controller) OnRunStart(runID string, mode experiment.Mode, plan []runner.PlannedExperiment) {
	c.send(Event{Kind: EventRunStart, RunID: runID, Mode: mode, Plan: plan})
}

// OnExperimentStart forwards trainer launches to the UI.
func (c *Controller) OnExperimentStart(start runner.ExperimentStart) {
	c.send(Event{Kind: EventExperimentStart, Start: start})
}

// OnExperimentEnd forwards results to the UI.
func (c *Controller) OnExperimentEnd(index int, result runner.RunResult) {
	c.send(Event{Kind: EventExperimentEnd, Index: index, Result: result})
}

// OnExperimentAborted forwards cancelled experiments to the UI.
func (c *Controller) OnExperimentAborted(index int, planned runner.PlannedExperiment) {
	c.send(Event{Kind: EventExperimentAborted, Index: index, Start: runner.ExperimentStart{Index: index, Experiment: planned}})
}

// OnRunEnd forwards run completion events to the UI and closes it.
func (c *Controller) OnRunEnd(summary runner.Summary) {
	c.send(Event{Kind: EventRunEnd, Summary: summary})
	c.Close()
}

// send enqueues an event without blocking the caller.
func (c *Controller) send(event Event) {
	if c == nil || c.closed.Load() {
		return
	}
	select {
	case c.events <- event:
	default:
	}
}
