package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matrix-industries/credential-api/internal/models"
)

func newDocumentMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func docRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "kind", "subject_name", "subject_email", "domain", "issue_date", "status", "details", "pdf_url", "qr_url", "created_by", "created_at", "updated_at"})
}

func TestDocumentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newDocumentMock(t)
	defer cleanup()
	repo := NewDocumentRepository(db)

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := &models.DocumentRecord{
		Kind:         models.KindCertificate,
		SubjectName:  "Asha Verma",
		SubjectEmail: "asha@example.com",
		Domain:       "Web Development",
		IssueDate:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Details:      models.DocumentDetails{Duration: "3 months"},
		CreatedBy:    models.DefaultIssuer,
	}
	err := repo.Create(context.Background(), rec)
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, models.StatusValid, rec.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryCreateKeepsProvidedID(t *testing.T) {
	db, mock, cleanup := newDocumentMock(t)
	defer cleanup()
	repo := NewDocumentRepository(db)

	mock.ExpectExec("INSERT INTO documents").
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := &models.DocumentRecord{ID: "5f0f0f0f-aaaa-bbbb-cccc-111122223333", Kind: models.KindCertificate}
	err := repo.Create(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, "5f0f0f0f-aaaa-bbbb-cccc-111122223333", rec.ID)
}

func TestDocumentRepositoryGetByID(t *testing.T) {
	db, mock, cleanup := newDocumentMock(t)
	defer cleanup()
	repo := NewDocumentRepository(db)

	now := time.Now().UTC()
	rows := docRows().AddRow("doc-1", "certificate", "Asha Verma", "asha@example.com", "Web Development", now, "valid", []byte(`{"duration":"3 months"}`), nil, nil, "admin", now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, kind, subject_name, subject_email, domain, issue_date, status, details, pdf_url, qr_url, created_by, created_at, updated_at FROM documents WHERE id = $1`)).
		WithArgs("doc-1").
		WillReturnRows(rows)

	rec, err := repo.GetByID(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, models.KindCertificate, rec.Kind)
	assert.Equal(t, "3 months", rec.Details.Duration)
	assert.Nil(t, rec.PDFURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryGetByIDNotFound(t *testing.T) {
	db, mock, cleanup := newDocumentMock(t)
	defer cleanup()
	repo := NewDocumentRepository(db)

	mock.ExpectQuery("SELECT .* FROM documents WHERE id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestDocumentRepositoryAttachArtifacts(t *testing.T) {
	db, mock, cleanup := newDocumentMock(t)
	defer cleanup()
	repo := NewDocumentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE documents SET pdf_url = $2, qr_url = $3, updated_at = $4 WHERE id = $1`)).
		WithArgs("doc-1", "http://localhost/artifacts/pdfs/doc-1.pdf", "http://localhost/artifacts/qr-codes/doc-1.png", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.AttachArtifacts(context.Background(), "doc-1", "http://localhost/artifacts/pdfs/doc-1.pdf", "http://localhost/artifacts/qr-codes/doc-1.png")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryRevoke(t *testing.T) {
	db, mock, cleanup := newDocumentMock(t)
	defer cleanup()
	repo := NewDocumentRepository(db)

	mock.ExpectExec("UPDATE documents SET status").
		WithArgs("doc-1", models.StatusRevoked, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Revoke(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryRevokeUnknownID(t *testing.T) {
	db, mock, cleanup := newDocumentMock(t)
	defer cleanup()
	repo := NewDocumentRepository(db)

	mock.ExpectExec("UPDATE documents SET status").
		WithArgs("missing", models.StatusRevoked, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Revoke(context.Background(), "missing")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestDocumentRepositoryList(t *testing.T) {
	db, mock, cleanup := newDocumentMock(t)
	defer cleanup()
	repo := NewDocumentRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM documents`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	rows := docRows().
		AddRow("doc-2", "lor", "Ravi Kumar", "ravi@example.com", "Data Science", now, "valid", []byte(`{"performance":"Excellent"}`), nil, nil, "admin", now, now).
		AddRow("doc-1", "certificate", "Asha Verma", "asha@example.com", "Web Development", now, "revoked", []byte(`{}`), nil, nil, "admin", now, now)
	mock.ExpectQuery("SELECT .* FROM documents ORDER BY created_at DESC").
		WithArgs(20, 0).
		WillReturnRows(rows)

	recs, total, err := repo.List(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
	assert.Equal(t, 2, total)
	assert.Equal(t, models.PerformanceExcellent, recs[0].Details.Performance)
	assert.NoError(t, mock.ExpectationsWereMet())
}
