package report

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"m3run/internal/experiment"
	"m3run/internal/runner"
)

// Row aggregates every result of one experiment tuple.
type Row struct {
	Model          string
	Dataset        experiment.Dataset
	DomainNum      int
	Runs           int
	Successes      int
	TimedOut       int
	MeanDuration   float64
	StdDevDuration float64
}

// SuccessRate returns successes over runs.
func (r Row) SuccessRate() float64 {
	if r.Runs == 0 {
		return 0
	}
	return float64(r.Successes) / float64(r.Runs)
}

// Report is the aggregate over several summaries.
type Report struct {
	Summaries   int
	Total       int
	Success     int
	Failed      int
	Interrupted int
	Rows        []Row
}

type rowKey struct {
	model     string
	dataset   experiment.Dataset
	domainNum int
}

// Aggregate folds summaries into per-experiment rows sorted by model,
// dataset and domain count.
func Aggregate(summaries []runner.Summary) Report {
	report := Report{Summaries: len(summaries)}
	durations := map[rowKey][]float64{}
	rows := map[rowKey]*Row{}
	for _, summary := range summaries {
		report.Total += summary.Total
		report.Success += summary.Success
		report.Failed += summary.Failed
		if summary.Interrupted {
			report.Interrupted++
		}
		for _, result := range summary.Results {
			key := rowKey{model: result.Model, dataset: result.Dataset, domainNum: result.DomainNum}
			row, ok := rows[key]
			if !ok {
				row = &Row{Model: result.Model, Dataset: result.Dataset, DomainNum: result.DomainNum}
				rows[key] = row
			}
			row.Runs++
			if result.Success {
				row.Successes++
			}
			if result.TimedOut {
				row.TimedOut++
			}
			durations[key] = append(durations[key], result.DurationSeconds)
		}
	}

	report.Rows = make([]Row, 0, len(rows))
	for key, row := range rows {
		values := durations[key]
		if len(values) > 1 {
			row.MeanDuration, row.StdDevDuration = stat.MeanStdDev(values, nil)
		} else if len(values) == 1 {
			row.MeanDuration = values[0]
		}
		report.Rows = append(report.Rows, *row)
	}
	sort.Slice(report.Rows, func(i, j int) bool {
		a, b := report.Rows[i], report.Rows[j]
		if a.Model != b.Model {
			return a.Model < b.Model
		}
		if a.Dataset != b.Dataset {
			return a.Dataset < b.Dataset
		}
		return a.DomainNum < b.DomainNum
	})
	return report
}
