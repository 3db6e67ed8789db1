package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"m3run/internal/runner"
)

// IngestStatus reports what IngestSummary did with a summary.
type IngestStatus string

const (
	// IngestInserted marks a run seen for the first time.
	IngestInserted IngestStatus = "inserted"
	// IngestReplaced marks a run whose stored copy was older, e.g. a partial flush.
	IngestReplaced IngestStatus = "replaced"
	// IngestUnchanged marks an identical run already stored.
	IngestUnchanged IngestStatus = "unchanged"
)

// IngestSummary stores a summary keyed by its run ID. Ingesting the same
// document twice is a no-op; a changed document replaces the stored rows.
func (s *Store) IngestSummary(ctx context.Context, summary runner.Summary) (IngestStatus, error) {
	if s == nil || s.db == nil {
		return "", errors.New("history: store is closed")
	}
	if strings.TrimSpace(summary.RunID) == "" {
		return "", errors.New("history: summary has no run_id")
	}
	fingerprint, err := FingerprintSummary(summary)
	if err != nil {
		return "", err
	}

	existing, err := s.lookupFingerprint(ctx, summary.RunID)
	if err != nil {
		return "", err
	}
	if existing == fingerprint {
		return IngestUnchanged, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin ingest: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var (
		commit sql.NullString
		dirty  sql.NullBool
	)
	if rev := summary.TrainerRevision; rev != nil {
		commit = nullString(rev.Commit)
		dirty = sql.NullBool{Bool: rev.Dirty, Valid: true}
	}

	status := IngestInserted
	if existing != "" {
		status = IngestReplaced
		if _, err := tx.ExecContext(ctx, `DELETE FROM experiments WHERE run_id = ?`, summary.RunID); err != nil {
			return "", fmt.Errorf("delete experiments: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE run_id = ?`, summary.RunID); err != nil {
			return "", fmt.Errorf("delete run: %w", err)
		}
	}

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO runs (run_id, mode, gpu, epochs, planned, total, success, failed, interrupted, start_time, end_time, trainer_commit, trainer_dirty, fingerprint, ingested_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.RunID,
		string(summary.Mode),
		summary.GPU,
		summary.Epochs,
		summary.Planned,
		summary.Total,
		summary.Success,
		summary.Failed,
		summary.Interrupted,
		nullTime(startTime(summary)),
		nullTime(summary.EndTime),
		commit,
		dirty,
		fingerprint,
		time.Now().UTC(),
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for position, result := range summary.Results {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO experiments (experiment_id, run_id, position, dataset, domain_num, model, success, lr, exit_code, duration_seconds, timed_out, error, finished_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(),
			summary.RunID,
			position,
			string(result.Dataset),
			result.DomainNum,
			result.Model,
			result.Success,
			result.LearningRate,
			result.ExitCode,
			result.DurationSeconds,
			result.TimedOut,
			nullString(result.Error),
			nullTime(result.Timestamp),
		); err != nil {
			return "", fmt.Errorf("insert experiment %d: %w", position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit ingest: %w", err)
	}
	return status, nil
}

func (s *Store) lookupFingerprint(ctx context.Context, runID string) (string, error) {
	var fingerprint string
	err := s.db.QueryRowContext(ctx, `SELECT fingerprint FROM runs WHERE run_id = ?`, runID).Scan(&fingerprint)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup run: %w", err)
	}
	return fingerprint, nil
}

// startTime falls back to the timestamp encoded in the run ID.
func startTime(summary runner.Summary) time.Time {
	if !summary.StartTime.IsZero() {
		return summary.StartTime
	}
	parsed, err := runner.RunIDTime(summary.RunID)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func nullTime(value time.Time) sql.NullTime {
	return sql.NullTime{Time: value.UTC(), Valid: !value.IsZero()}
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
