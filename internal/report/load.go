package report

import (
	"fmt"

	"m3run/internal/runner"
)

// LoadSummaries reads summary documents in order.
func LoadSummaries(paths []string) ([]runner.Summary, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("at least one summary path is required")
	}
	summaries := make([]runner.Summary, 0, len(paths))
	for _, path := range paths {
		summary, err := runner.ReadSummary(path)
		if err != nil {
			return nil, err
		}
		if err := CheckCounts(summary); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// CheckCounts verifies the summary totals agree with its results.
func CheckCounts(summary runner.Summary) error {
	success := 0
	for _, result := range summary.Results {
		if result.Success {
			success++
		}
	}
	failed := len(summary.Results) - success
	if summary.Total != len(summary.Results) || summary.Success != success || summary.Failed != failed {
		return fmt.Errorf("inconsistent counts: total=%d success=%d failed=%d but %d results (%d successful)",
			summary.Total, summary.Success, summary.Failed, len(summary.Results), success)
	}
	return nil
}
