package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/matrix-industries/credential-api/internal/models"
)

// IssuanceJobRepository persists bulk issuance job metadata.
type IssuanceJobRepository struct {
	db *sqlx.DB
}

// NewIssuanceJobRepository constructs the repository.
func NewIssuanceJobRepository(db *sqlx.DB) *IssuanceJobRepository {
	return &IssuanceJobRepository{db: db}
}

// Create inserts a queued job.
func (r *IssuanceJobRepository) Create(ctx context.Context, job *models.IssuanceJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	job.Status = models.IssuanceStatusQueued
	job.CreatedAt = time.Now().UTC()
	if job.RowErrors == nil {
		job.RowErrors = models.RowErrorList{}
	}
	const query = `INSERT INTO issuance_jobs (id, status, total, processed, succeeded, failed, row_errors, created_by, created_at)
VALUES (:id, :status, :total, :processed, :succeeded, :failed, :row_errors, :created_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("insert issuance job: %w", err)
	}
	return nil
}

// GetByID fetches a job. Returns sql.ErrNoRows when unknown.
func (r *IssuanceJobRepository) GetByID(ctx context.Context, id string) (*models.IssuanceJob, error) {
	const query = `SELECT id, status, total, processed, succeeded, failed, row_errors, created_by, created_at, finished_at
FROM issuance_jobs WHERE id = $1`
	var job models.IssuanceJob
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		return nil, err
	}
	return &job, nil
}

// UpdateProgress persists per-row progress as the worker advances.
func (r *IssuanceJobRepository) UpdateProgress(ctx context.Context, job *models.IssuanceJob) error {
	const query = `UPDATE issuance_jobs
SET status = :status, processed = :processed, succeeded = :succeeded, failed = :failed,
    row_errors = :row_errors, finished_at = :finished_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("update issuance job: %w", err)
	}
	return nil
}
