package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caspiansol/adspark/internal/domain"
)

// JobRepositoryPG implements domain.JobRepository.
type JobRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewJobRepository creates a new video job repository backed by PostgreSQL.
func NewJobRepository(pool *pgxpool.Pool) *JobRepositoryPG {
	return &JobRepositoryPG{pool: pool}
}

// Create inserts a new video job record.
func (r *JobRepositoryPG) Create(ctx context.Context, job *domain.VideoJob) error {
	query := `
INSERT INTO video_jobs (id, user_id, vendor_job_id, title, status, video_url, thumbnail_url, duration, error_message, payload_json)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`
	_, err := r.pool.Exec(ctx, query,
		job.ID,
		job.UserID,
		job.VendorJobID,
		job.Title,
		job.Status,
		job.VideoURL,
		job.ThumbnailURL,
		job.Duration,
		job.ErrorMessage,
		job.PayloadJSON,
	)
	return err
}

// UpdateStatus updates the lifecycle fields of the job with the given vendor
// job id. Missing result/error values leave the stored columns untouched.
func (r *JobRepositoryPG) UpdateStatus(ctx context.Context, vendorJobID string, status domain.JobStatus, errMsg *string, result *domain.RenderResult) error {
	var videoURL, thumbnailURL *string
	var duration *float64
	if result != nil {
		videoURL = &result.VideoURL
		thumbnailURL = &result.ThumbnailURL
		duration = &result.Duration
	}
	query := `
UPDATE video_jobs
SET status = $2,
    updated_at = NOW(),
    error_message = COALESCE($3, error_message),
    video_url = COALESCE($4, video_url),
    thumbnail_url = COALESCE($5, thumbnail_url),
    duration = COALESCE($6, duration)
WHERE vendor_job_id = $1;
`
	_, err := r.pool.Exec(ctx, query, vendorJobID, status, errMsg, videoURL, thumbnailURL, duration)
	return err
}

const jobColumns = `id, user_id, vendor_job_id, title, status, video_url, thumbnail_url, duration, error_message, payload_json, created_at, updated_at`

// GetByID fetches a job by row id, scoped to its owner.
func (r *JobRepositoryPG) GetByID(ctx context.Context, id, userID string) (*domain.VideoJob, error) {
	query := `
SELECT ` + jobColumns + `
FROM video_jobs
WHERE id = $1 AND user_id = $2;
`
	return r.scanJob(r.pool.QueryRow(ctx, query, id, userID))
}

// GetByVendorID fetches a job by the vendor-issued job id, scoped to its owner.
func (r *JobRepositoryPG) GetByVendorID(ctx context.Context, vendorJobID, userID string) (*domain.VideoJob, error) {
	query := `
SELECT ` + jobColumns + `
FROM video_jobs
WHERE vendor_job_id = $1 AND user_id = $2;
`
	return r.scanJob(r.pool.QueryRow(ctx, query, vendorJobID, userID))
}

// ListByUser returns the user's library, newest first.
func (r *JobRepositoryPG) ListByUser(ctx context.Context, userID string) ([]domain.VideoJob, error) {
	query := `
SELECT ` + jobColumns + `
FROM video_jobs
WHERE user_id = $1
ORDER BY created_at DESC;
`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectJobs(rows)
}

// ListPending returns all non-terminal jobs created after the cutoff.
func (r *JobRepositoryPG) ListPending(ctx context.Context, since time.Time) ([]domain.VideoJob, error) {
	query := `
SELECT ` + jobColumns + `
FROM video_jobs
WHERE status IN ($1, $2) AND created_at >= $3
ORDER BY created_at ASC;
`
	rows, err := r.pool.Query(ctx, query, domain.JobStatusQueued, domain.JobStatusProcessing, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectJobs(rows)
}

// CountByStatus returns the user's job counts per lifecycle status.
func (r *JobRepositoryPG) CountByStatus(ctx context.Context, userID string) (map[domain.JobStatus]int, error) {
	query := `
SELECT status, COUNT(*)
FROM video_jobs
WHERE user_id = $1
GROUP BY status;
`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.JobStatus]int)
	for rows.Next() {
		var status domain.JobStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *JobRepositoryPG) scanJob(row pgx.Row) (*domain.VideoJob, error) {
	var job domain.VideoJob
	if err := row.Scan(
		&job.ID,
		&job.UserID,
		&job.VendorJobID,
		&job.Title,
		&job.Status,
		&job.VideoURL,
		&job.ThumbnailURL,
		&job.Duration,
		&job.ErrorMessage,
		&job.PayloadJSON,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryPG) collectJobs(rows pgx.Rows) ([]domain.VideoJob, error) {
	var jobs []domain.VideoJob
	for rows.Next() {
		var job domain.VideoJob
		if err := rows.Scan(
			&job.ID,
			&job.UserID,
			&job.VendorJobID,
			&job.Title,
			&job.Status,
			&job.VideoURL,
			&job.ThumbnailURL,
			&job.Duration,
			&job.ErrorMessage,
			&job.PayloadJSON,
			&job.CreatedAt,
			&job.UpdatedAt,
		); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

var _ domain.JobRepository = (*JobRepositoryPG)(nil)
