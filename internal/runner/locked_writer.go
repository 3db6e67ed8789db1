package runner

import (
	"io"
	"sync"
)

// lockedWriter serializes writes to an underlying writer.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// Write writes to the underlying writer with a mutex guard.
func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// trainerStreams builds the child's stdout and stderr writers. os/exec copies
// each pipe on its own goroutine, so any writer shared by both is locked.
func trainerStreams(stdout, stderr, logFile io.Writer) (io.Writer, io.Writer) {
	if stdout != nil && stdout == stderr {
		shared := &lockedWriter{w: stdout}
		stdout, stderr = shared, shared
	}
	if logFile == nil {
		return stdout, stderr
	}
	shared := &lockedWriter{w: logFile}
	return teeWriter(stdout, shared), teeWriter(stderr, shared)
}

// teeWriter duplicates writes to primary and log, tolerating a nil primary.
func teeWriter(primary io.Writer, log io.Writer) io.Writer {
	if primary == nil {
		return log
	}
	return io.MultiWriter(primary, log)
}
