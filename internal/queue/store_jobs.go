package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const jobColumns = "id, kind, station_id, source_path, remote_path, sidecar_name, sidecar_body, asset_json, status, progress, error_message, retry_count, created_at, updated_at, started_at, finished_at"

func scanJob(scanner interface{ Scan(dest ...any) error }) (*Job, error) {
	var (
		id          int64
		kind        string
		stationID   string
		sourcePath  sql.NullString
		remotePath  string
		sidecarName sql.NullString
		sidecarBody sql.NullString
		assetJSON   sql.NullString
		statusStr   string
		progress    sql.NullFloat64
		errMessage  sql.NullString
		retryCount  sql.NullInt64
		createdRaw  sql.NullString
		updatedRaw  sql.NullString
		startedRaw  sql.NullString
		finishedRaw sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&kind,
		&stationID,
		&sourcePath,
		&remotePath,
		&sidecarName,
		&sidecarBody,
		&assetJSON,
		&statusStr,
		&progress,
		&errMessage,
		&retryCount,
		&createdRaw,
		&updatedRaw,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}

	job := &Job{
		ID:           id,
		Kind:         Kind(kind),
		StationID:    stationID,
		SourcePath:   sourcePath.String,
		RemotePath:   remotePath,
		SidecarName:  sidecarName.String,
		SidecarBody:  sidecarBody.String,
		AssetJSON:    assetJSON.String,
		Status:       Status(statusStr),
		Progress:     progress.Float64,
		ErrorMessage: errMessage.String,
		RetryCount:   int(retryCount.Int64),
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		job.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		job.UpdatedAt = updated
	}
	if startedRaw.Valid {
		if started, err := parseTimeString(startedRaw.String); err == nil {
			job.StartedAt = &started
		}
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			job.FinishedAt = &finished
		}
	}
	return job, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}

// Enqueue persists a new job in pending state and fills its id and
// timestamps. The job's kind, station, paths, and payload must be set.
func (s *Store) Enqueue(ctx context.Context, job *Job) error {
	ctx = ensureContext(ctx)
	if job == nil {
		return errors.New("enqueue: nil job")
	}
	if _, ok := ParseKind(string(job.Kind)); !ok {
		return fmt.Errorf("enqueue: unknown kind %q", job.Kind)
	}

	now := time.Now().UTC()
	job.Status = StatusPending
	job.Progress = 0
	job.ErrorMessage = ""
	job.CreatedAt = now
	job.UpdatedAt = now

	res, err := s.execWithRetry(ctx, `
INSERT INTO jobs (kind, station_id, source_path, remote_path, sidecar_name, sidecar_body, asset_json, status, progress, error_message, retry_count, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(job.Kind),
		job.StationID,
		nullableString(job.SourcePath),
		job.RemotePath,
		nullableString(job.SidecarName),
		nullableString(job.SidecarBody),
		job.AssetJSON,
		string(job.Status),
		job.Progress,
		nullableString(job.ErrorMessage),
		job.RetryCount,
		now.Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("enqueue job: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("enqueue job id: %w", err)
	}
	job.ID = id
	return nil
}

// GetByID fetches one job. A missing id returns (nil, nil).
func (s *Store) GetByID(ctx context.Context, id int64) (*Job, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM jobs WHERE id = ?", jobColumns), id)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get job %d: %w", id, err)
	}
	return job, nil
}

// Update writes the job's mutable fields back to the database and refreshes
// UpdatedAt.
func (s *Store) Update(ctx context.Context, job *Job) error {
	ctx = ensureContext(ctx)
	if job == nil || job.ID == 0 {
		return errors.New("update: job has no id")
	}

	job.UpdatedAt = time.Now().UTC()
	res, err := s.execWithRetry(ctx, `
UPDATE jobs
SET status = ?, progress = ?, error_message = ?, retry_count = ?, updated_at = ?, started_at = ?, finished_at = ?
WHERE id = ?`,
		string(job.Status),
		job.Progress,
		nullableString(job.ErrorMessage),
		job.RetryCount,
		job.UpdatedAt.Format(time.RFC3339Nano),
		nullableTime(job.StartedAt),
		nullableTime(job.FinishedAt),
		job.ID,
	)
	if err != nil {
		return fmt.Errorf("update job %d: %w", job.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update job %d: %w", job.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("update job %d: no such job", job.ID)
	}
	return nil
}

// List returns jobs of one kind in insertion order, optionally filtered to a
// status set.
func (s *Store) List(ctx context.Context, kind Kind, statuses ...Status) ([]*Job, error) {
	ctx = ensureContext(ctx)

	query := fmt.Sprintf("SELECT %s FROM jobs WHERE kind = ?", jobColumns)
	args := []any{string(kind)}
	if len(statuses) > 0 {
		query += fmt.Sprintf(" AND status IN (%s)", makePlaceholders(len(statuses)))
		for _, status := range statuses {
			args = append(args, string(status))
		}
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}
