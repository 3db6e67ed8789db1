package runner

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"time"
)

const runIDSuffixBytes = 6

const runIDLayout = "20060102T150405Z"

// NewRunID returns a sortable run identifier for the current time.
func NewRunID() (string, error) {
	return NewRunIDWithRand(time.Now().UTC(), rand.Reader)
}

// NewRunIDWithRand builds a run ID with a suffix read from r.
func NewRunIDWithRand(now time.Time, r io.Reader) (string, error) {
	if r == nil {
		return "", fmt.Errorf("random reader is nil")
	}
	buf := make([]byte, runIDSuffixBytes)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return FormatRunID(now, hex.EncodeToString(buf)), nil
}

// FormatRunID joins the UTC timestamp and suffix.
func FormatRunID(now time.Time, suffix string) string {
	return now.UTC().Format(runIDLayout) + "-" + suffix
}

// RunIDTime extracts the timestamp encoded in a run ID.
func RunIDTime(runID string) (time.Time, error) {
	if len(runID) < len(runIDLayout) {
		return time.Time{}, fmt.Errorf("run ID %q is too short", runID)
	}
	parsed, err := time.Parse(runIDLayout, runID[:len(runIDLayout)])
	if err != nil {
		return time.Time{}, fmt.Errorf("parse run ID %q: %w", runID, err)
	}
	return parsed, nil
}
