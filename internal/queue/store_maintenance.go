package queue

import (
	"context"
	"fmt"
	"time"
)

// Retry moves a failed job back to pending, clears its error, and bumps the
// retry counter. Only failed jobs can be retried.
func (s *Store) Retry(ctx context.Context, id int64) (*Job, error) {
	ctx = ensureContext(ctx)

	job, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("retry job %d: no such job", id)
	}
	if job.Status != StatusFailed {
		return nil, fmt.Errorf("retry job %d: status is %s, only failed jobs retry", id, job.Status)
	}

	job.Status = StatusPending
	job.ErrorMessage = ""
	job.Progress = 0
	job.RetryCount++
	job.StartedAt = nil
	job.FinishedAt = nil
	if err := s.Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Pause holds a pending storage job. Delivery jobs do not pause.
func (s *Store) Pause(ctx context.Context, id int64) (*Job, error) {
	return s.togglePause(ctx, id, StatusPending, StatusPaused, "pause")
}

// Resume returns a paused storage job to pending.
func (s *Store) Resume(ctx context.Context, id int64) (*Job, error) {
	return s.togglePause(ctx, id, StatusPaused, StatusPending, "resume")
}

func (s *Store) togglePause(ctx context.Context, id int64, from, to Status, op string) (*Job, error) {
	ctx = ensureContext(ctx)

	job, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("%s job %d: no such job", op, id)
	}
	if job.Kind != KindStorage {
		return nil, fmt.Errorf("%s job %d: only storage jobs %s", op, id, op)
	}
	if job.Status != from {
		return nil, fmt.Errorf("%s job %d: status is %s, want %s", op, id, job.Status, from)
	}

	job.Status = to
	if err := s.Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Remove deletes a job regardless of its state. The bool reports whether a
// row existed.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(ctx, "DELETE FROM jobs WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("remove job %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove job %d: %w", id, err)
	}
	return affected > 0, nil
}

// ClearCompleted prunes complete jobs of one kind and reports how many were
// removed.
func (s *Store) ClearCompleted(ctx context.Context, kind Kind) (int64, error) {
	res, err := s.execWithRetry(ctx,
		"DELETE FROM jobs WHERE kind = ? AND status = ?",
		string(kind), string(StatusComplete))
	if err != nil {
		return 0, fmt.Errorf("clear completed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear completed: %w", err)
	}
	return affected, nil
}

// Stats returns a count of one kind's jobs grouped by status.
func (s *Store) Stats(ctx context.Context, kind Kind) (map[Status]int, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT status, COUNT(1) FROM jobs WHERE kind = ? GROUP BY status", string(kind))
	if err != nil {
		return nil, fmt.Errorf("queue stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Health aggregates one kind's state for diagnostic output.
func (s *Store) Health(ctx context.Context, kind Kind) (HealthSummary, error) {
	stats, err := s.Stats(ctx, kind)
	if err != nil {
		return HealthSummary{}, err
	}
	health := HealthSummary{}
	for status, count := range stats {
		health.Total += count
		switch status {
		case StatusPending:
			health.Pending += count
		case StatusPaused:
			health.Paused += count
		case StatusFailed:
			health.Failed += count
		case StatusComplete:
			health.Complete += count
		default:
			if IsTransferStatus(status) {
				health.InTransfer += count
			}
		}
	}
	return health, nil
}

// ResetStranded returns jobs left mid-transfer by an interrupted pump run to
// pending so the next run picks them up cleanly.
func (s *Store) ResetStranded(ctx context.Context, kind Kind) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(ctx, `
UPDATE jobs
SET status = ?, progress = 0, updated_at = ?
WHERE kind = ? AND status IN (?, ?, ?)`,
		string(StatusPending), now, string(kind),
		string(StatusConnecting), string(StatusUploading), string(StatusVerifying))
	if err != nil {
		return 0, fmt.Errorf("reset stranded jobs: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reset stranded jobs: %w", err)
	}
	return affected, nil
}
