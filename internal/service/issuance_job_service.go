package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/matrix-industries/credential-api/internal/dto"
	"github.com/matrix-industries/credential-api/internal/models"
	appErrors "github.com/matrix-industries/credential-api/pkg/errors"
	"github.com/matrix-industries/credential-api/pkg/jobs"
)

type issuanceJobStore interface {
	Create(ctx context.Context, job *models.IssuanceJob) error
	GetByID(ctx context.Context, id string) (*models.IssuanceJob, error)
	UpdateProgress(ctx context.Context, job *models.IssuanceJob) error
}

type issuanceDispatcher interface {
	Enqueue(job jobs.Job) error
}

type documentIssuer interface {
	Create(ctx context.Context, req dto.CreateDocumentRequest) (*dto.DocumentResponse, error)
}

// IssuanceJobService accepts bulk issuance runs and tracks their progress.
// Each row goes through the same path as a single creation; a failed row is
// recorded and never rolls back the rows issued before it.
type IssuanceJobService struct {
	repo     issuanceJobStore
	queue    issuanceDispatcher
	validate *validator.Validate
	logger   *zap.Logger
}

// NewIssuanceJobService constructs the bulk issuance service.
func NewIssuanceJobService(repo issuanceJobStore, queue issuanceDispatcher, validate *validator.Validate, logger *zap.Logger) *IssuanceJobService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IssuanceJobService{repo: repo, queue: queue, validate: validate, logger: logger}
}

// Submit persists the job record and enqueues the run.
func (s *IssuanceJobService) Submit(ctx context.Context, req dto.BulkIssueRequest) (*dto.BulkJobResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "rows must contain at least one entry")
	}

	job := &models.IssuanceJob{
		Status:    models.IssuanceStatusQueued,
		Total:     len(req.Rows),
		RowErrors: models.RowErrorList{},
		CreatedBy: models.DefaultIssuer,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "persist issuance job")
	}

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "bulk_issuance", Payload: req.Rows}); err != nil {
		s.logger.Error("enqueue issuance job", zap.String("job_id", job.ID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "enqueue issuance job")
	}

	return &dto.BulkJobResponse{ID: job.ID, Status: job.Status, Total: job.Total}, nil
}

// Status returns current progress for a job.
func (s *IssuanceJobService) Status(ctx context.Context, id string) (*dto.BulkStatusResponse, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "issuance job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load issuance job")
	}
	return &dto.BulkStatusResponse{
		ID:        job.ID,
		Status:    job.Status,
		Total:     job.Total,
		Processed: job.Processed,
		Succeeded: job.Succeeded,
		Failed:    job.Failed,
		RowErrors: job.RowErrors,
	}, nil
}

// IssuanceWorker bridges queue jobs to the document service.
type IssuanceWorker struct {
	repo      issuanceJobStore
	documents documentIssuer
	logger    *zap.Logger
}

// NewIssuanceWorker constructs a worker.
func NewIssuanceWorker(repo issuanceJobStore, documents documentIssuer, logger *zap.Logger) *IssuanceWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IssuanceWorker{repo: repo, documents: documents, logger: logger}
}

// Handle processes one bulk run, row by row. The queue never retries a run:
// partial progress is already persisted and re-running would double-issue
// the rows that succeeded.
func (w *IssuanceWorker) Handle(ctx context.Context, job jobs.Job) error {
	record, err := w.repo.GetByID(ctx, job.ID)
	if err != nil {
		w.logger.Error("load issuance job", zap.String("job_id", job.ID), zap.Error(err))
		return nil
	}
	rows, ok := job.Payload.([]dto.CreateDocumentRequest)
	if !ok {
		w.logger.Error("unexpected issuance payload", zap.String("job_id", job.ID))
		return nil
	}

	record.Status = models.IssuanceStatusProcessing
	w.persist(ctx, record)

	for i, row := range rows {
		if _, err := w.documents.Create(ctx, row); err != nil {
			record.Failed++
			record.RowErrors = append(record.RowErrors, models.RowError{Row: i + 1, Message: appErrors.FromError(err).Message})
		} else {
			record.Succeeded++
		}
		record.Processed++
		w.persist(ctx, record)
	}

	now := time.Now().UTC()
	record.Status = models.IssuanceStatusFinished
	record.FinishedAt = &now
	w.persist(ctx, record)

	w.logger.Info("issuance job finished",
		zap.String("job_id", record.ID),
		zap.Int("succeeded", record.Succeeded),
		zap.Int("failed", record.Failed))
	return nil
}

func (w *IssuanceWorker) persist(ctx context.Context, job *models.IssuanceJob) {
	if err := w.repo.UpdateProgress(ctx, job); err != nil {
		w.logger.Warn("persist issuance progress", zap.String("job_id", job.ID), zap.Error(err))
	}
}
