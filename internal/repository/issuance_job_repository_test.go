package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matrix-industries/credential-api/internal/models"
)

func newJobMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestIssuanceJobRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newJobMock(t)
	defer cleanup()
	repo := NewIssuanceJobRepository(db)

	mock.ExpectExec("INSERT INTO issuance_jobs").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	job := &models.IssuanceJob{Total: 3, CreatedBy: models.DefaultIssuer}
	err := repo.Create(context.Background(), job)
	require.NoError(t, err)
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, models.IssuanceStatusQueued, job.Status)
	assert.NotNil(t, job.RowErrors)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIssuanceJobRepositoryGetByID(t *testing.T) {
	db, mock, cleanup := newJobMock(t)
	defer cleanup()
	repo := NewIssuanceJobRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "status", "total", "processed", "succeeded", "failed", "row_errors", "created_by", "created_at", "finished_at"}).
		AddRow("job-1", "PROCESSING", 3, 2, 1, 1, []byte(`[{"row":2,"message":"offer letters require details.start_date formatted YYYY-MM-DD"}]`), "admin", now, nil)
	mock.ExpectQuery("SELECT .* FROM issuance_jobs WHERE id").
		WithArgs("job-1").
		WillReturnRows(rows)

	job, err := repo.GetByID(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, models.IssuanceStatusProcessing, job.Status)
	require.Len(t, job.RowErrors, 1)
	assert.Equal(t, 2, job.RowErrors[0].Row)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIssuanceJobRepositoryUpdateProgress(t *testing.T) {
	db, mock, cleanup := newJobMock(t)
	defer cleanup()
	repo := NewIssuanceJobRepository(db)

	mock.ExpectExec("UPDATE issuance_jobs").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	now := time.Now().UTC()
	err := repo.UpdateProgress(context.Background(), &models.IssuanceJob{
		ID:         "job-1",
		Status:     models.IssuanceStatusFinished,
		Total:      3,
		Processed:  3,
		Succeeded:  2,
		Failed:     1,
		RowErrors:  models.RowErrorList{{Row: 2, Message: "bad row"}},
		FinishedAt: &now,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
