package runner

import "time"

// summarize aggregates results into the summary counts.
func summarize(summary Summary, results []RunResult) Summary {
	summary.Results = results
	summary.Total = len(results)
	summary.Success = 0
	summary.Failed = 0
	for _, result := range results {
		if result.Success {
			summary.Success++
		} else {
			summary.Failed++
		}
	}
	return summary
}

// monotonicClock wraps a clock so readings never step backwards.
type monotonicClock struct {
	now  func() time.Time
	last time.Time
}

// Now returns the wrapped reading, clamped to the previous one.
func (c *monotonicClock) Now() time.Time {
	current := c.now()
	if current.Before(c.last) {
		return c.last
	}
	c.last = current
	return current
}
