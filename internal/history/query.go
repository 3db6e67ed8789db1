package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"m3run/internal/experiment"
)

// ModelStat aggregates every stored run of one experiment tuple.
type ModelStat struct {
	Model           string
	Dataset         experiment.Dataset
	DomainNum       int
	Runs            int
	Successes       int
	MeanDurationSec float64
	LastFinished    time.Time
}

// SuccessRate returns successes over runs.
func (m ModelStat) SuccessRate() float64 {
	if m.Runs == 0 {
		return 0
	}
	return float64(m.Successes) / float64(m.Runs)
}

// RunRecord is one stored batch.
type RunRecord struct {
	RunID       string
	Mode        experiment.Mode
	Planned     int
	Total       int
	Success     int
	Failed      int
	Interrupted bool
	StartTime   time.Time
	// TrainerCommit is empty when the run recorded no revision.
	TrainerCommit string
}

// ModelStats returns per (model, dataset, domain_num) statistics.
func (s *Store) ModelStats(ctx context.Context) ([]ModelStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT model, dataset, domain_num,
		       COUNT(*) AS runs,
		       CAST(SUM(CASE WHEN success THEN 1 ELSE 0 END) AS BIGINT) AS successes,
		       COALESCE(AVG(duration_seconds), 0) AS mean_duration,
		       MAX(finished_at) AS last_finished
		FROM experiments
		GROUP BY model, dataset, domain_num
		ORDER BY model, dataset, domain_num`)
	if err != nil {
		return nil, fmt.Errorf("query model stats: %w", err)
	}
	defer rows.Close()

	var stats []ModelStat
	for rows.Next() {
		var (
			stat         ModelStat
			dataset      string
			lastFinished sql.NullTime
		)
		if err := rows.Scan(&stat.Model, &dataset, &stat.DomainNum, &stat.Runs, &stat.Successes, &stat.MeanDurationSec, &lastFinished); err != nil {
			return nil, fmt.Errorf("scan model stats: %w", err)
		}
		stat.Dataset = experiment.Dataset(dataset)
		if lastFinished.Valid {
			stat.LastFinished = lastFinished.Time
		}
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}

// Runs lists stored batches, newest first.
func (s *Store) Runs(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, mode, planned, total, success, failed, interrupted, start_time, trainer_commit
		FROM runs
		ORDER BY start_time DESC NULLS LAST, run_id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var (
			record    RunRecord
			mode      string
			startTime sql.NullTime
			commit    sql.NullString
		)
		if err := rows.Scan(&record.RunID, &mode, &record.Planned, &record.Total, &record.Success, &record.Failed, &record.Interrupted, &startTime, &commit); err != nil {
			return nil, fmt.Errorf("scan runs: %w", err)
		}
		record.Mode = experiment.Mode(mode)
		if startTime.Valid {
			record.StartTime = startTime.Time
		}
		record.TrainerCommit = commit.String
		runs = append(runs, record)
	}
	return runs, rows.Err()
}
