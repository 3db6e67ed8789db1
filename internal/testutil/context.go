package testutil

import (
	"context"
	"testing"
	"time"
)

// DefaultTimeout is the standard timeout for unit tests.
const DefaultTimeout = 5 * time.Second

// deadliner is implemented by *testing.T; testing.TB does not expose Deadline.
type deadliner interface {
	Deadline() (time.Time, bool)
}

// Context returns a context with timeout tied to the test lifecycle.
// The timeout is clamped to end a second before the test binary deadline.
func Context(t testing.TB, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), clampTimeout(t, timeout))
	t.Cleanup(cancel)
	return ctx
}

func clampTimeout(t testing.TB, timeout time.Duration) time.Duration {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	dt, ok := t.(deadliner)
	if !ok {
		return timeout
	}
	deadline, ok := dt.Deadline()
	if !ok {
		return timeout
	}
	if remaining := time.Until(deadline) - time.Second; remaining > 0 && remaining < timeout {
		timeout = remaining
	}
	return timeout
}
