package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/matrix-industries/credential-api/internal/models"
)

// DocumentRepository persists document records. It is the single source of
// truth consulted by verification, so every mutation is durable before the
// call returns.
type DocumentRepository struct {
	db *sqlx.DB
}

// NewDocumentRepository constructs the repository.
func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

const documentColumns = `id, kind, subject_name, subject_email, domain, issue_date, status, details, pdf_url, qr_url, created_by, created_at, updated_at`

// Create inserts a new record with a fresh id and status=valid.
func (r *DocumentRepository) Create(ctx context.Context, rec *models.DocumentRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	rec.Status = models.StatusValid
	rec.CreatedAt = now
	rec.UpdatedAt = now
	const query = `INSERT INTO documents (id, kind, subject_name, subject_email, domain, issue_date, status, details, created_by, created_at, updated_at)
VALUES (:id, :kind, :subject_name, :subject_email, :domain, :issue_date, :status, :details, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// GetByID fetches a single record. Returns sql.ErrNoRows when unknown.
func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*models.DocumentRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM documents WHERE id = $1`, documentColumns)
	var rec models.DocumentRecord
	if err := r.db.GetContext(ctx, &rec, query, id); err != nil {
		return nil, err
	}
	return &rec, nil
}

// AttachArtifacts records the rendered artifact URLs. Re-attaching
// overwrites prior refs, which is what makes re-rendering safe.
func (r *DocumentRepository) AttachArtifacts(ctx context.Context, id, pdfURL, qrURL string) error {
	const query = `UPDATE documents SET pdf_url = $2, qr_url = $3, updated_at = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, pdfURL, qrURL, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("attach artifacts: %w", err)
	}
	return requireRow(res)
}

// Revoke marks the record revoked. Revoking an already revoked record is a
// no-op; there is no path back to valid.
func (r *DocumentRepository) Revoke(ctx context.Context, id string) error {
	const query = `UPDATE documents SET status = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, models.StatusRevoked, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("revoke document: %w", err)
	}
	return requireRow(res)
}

// List returns a page of records, newest first, with the total count.
func (r *DocumentRepository) List(ctx context.Context, page, limit int) ([]models.DocumentRecord, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM documents`); err != nil {
		return nil, 0, fmt.Errorf("count documents: %w", err)
	}
	query := fmt.Sprintf(`SELECT %s FROM documents ORDER BY created_at DESC LIMIT $1 OFFSET $2`, documentColumns)
	var recs []models.DocumentRecord
	if err := r.db.SelectContext(ctx, &recs, query, limit, (page-1)*limit); err != nil {
		return nil, 0, fmt.Errorf("list documents: %w", err)
	}
	return recs, total, nil
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
