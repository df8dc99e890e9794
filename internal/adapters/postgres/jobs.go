package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"ipwatch/internal/domain"
)

const jobColumns = `id, target_url, target_domain, asset_id, status, created_by, created_at, started_at, completed_at, error_message`

func scanJob(row pgx.Row) (domain.Job, error) {
	var j domain.Job
	var status string
	err := row.Scan(&j.ID, &j.TargetURL, &j.TargetDomain, &j.AssetID, &status, &j.CreatedBy,
		&j.CreatedAt, &j.StartedAt, &j.CompletedAt, &j.ErrorMessage)
	if errors.Is(err, pgx.ErrNoRows) {
		return j, domain.ErrNotFound
	}
	j.Status = domain.JobStatus(status)
	return j, err
}

func (db *DB) Create(ctx context.Context, job domain.Job) (domain.Job, error) {
	return scanJob(db.Pool.QueryRow(ctx, `
		INSERT INTO monitoring_jobs (target_url, target_domain, asset_id, status, created_by)
		VALUES ($1, $2, $3, 'pending', $4)
		RETURNING `+jobColumns,
		job.TargetURL, job.TargetDomain, job.AssetID, job.CreatedBy))
}

func (db *DB) Get(ctx context.Context, id string) (domain.Job, error) {
	return scanJob(db.Pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM monitoring_jobs WHERE id = $1`, id))
}

// TryStart is the only way into running: the status predicate makes it a
// compare-and-swap, so concurrent callers cannot both succeed.
func (db *DB) TryStart(ctx context.Context, id string) (domain.Job, bool, error) {
	job, err := scanJob(db.Pool.QueryRow(ctx, `
		UPDATE monitoring_jobs SET status = 'running', started_at = now()
		WHERE id = $1 AND status = 'pending'
		RETURNING `+jobColumns, id))
	if err == nil {
		return job, true, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return job, false, err
	}
	job, err = db.Get(ctx, id)
	return job, false, err
}

func (db *DB) MarkCompleted(ctx context.Context, id string) (domain.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	job, err := scanJob(db.Pool.QueryRow(ctx, `
		UPDATE monitoring_jobs SET status = 'completed', completed_at = now()
		WHERE id = $1 AND status = 'running'
		RETURNING `+jobColumns, id))
	if errors.Is(err, domain.ErrNotFound) {
		return db.conflict(ctx, id)
	}
	return job, err
}

func (db *DB) MarkFailed(ctx context.Context, id string, reason string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	tag, err := db.Pool.Exec(ctx, `
		UPDATE monitoring_jobs SET status = 'failed', completed_at = now(), error_message = $2
		WHERE id = $1 AND status = 'running'
	`, id, reason)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		_, err = db.conflict(ctx, id)
		return err
	}
	return nil
}

func (db *DB) conflict(ctx context.Context, id string) (domain.Job, error) {
	job, err := db.Get(ctx, id)
	if err != nil {
		return job, err
	}
	return job, &domain.ConflictError{JobID: id, Status: job.Status}
}

func (db *DB) NextPending(ctx context.Context, limit int) ([]string, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id FROM monitoring_jobs
		WHERE status = 'pending'
		ORDER BY created_at
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (db *DB) Stats(ctx context.Context) (domain.JobStats, error) {
	st := domain.JobStats{JobsByStatus: map[domain.JobStatus]int{
		domain.JobPending: 0, domain.JobRunning: 0, domain.JobCompleted: 0, domain.JobFailed: 0,
	}}
	rows, err := db.Pool.Query(ctx, `SELECT status, count(*) FROM monitoring_jobs GROUP BY status`)
	if err != nil {
		return st, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return st, err
		}
		st.JobsByStatus[domain.JobStatus(status)] = n
		st.TotalJobs += n
	}
	if err := rows.Err(); err != nil {
		return st, err
	}
	err = db.Pool.QueryRow(ctx, `
		SELECT COALESCE(avg(risk_score), 0)::float8, count(*) FILTER (WHERE risk_score >= 70)
		FROM monitoring_logs
	`).Scan(&st.AverageRiskScore, &st.HighRiskCount)
	return st, err
}
