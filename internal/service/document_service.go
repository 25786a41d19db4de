package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/matrix-industries/credential-api/internal/dto"
	"github.com/matrix-industries/credential-api/internal/models"
	"github.com/matrix-industries/credential-api/internal/render"
	appErrors "github.com/matrix-industries/credential-api/pkg/errors"
	"github.com/matrix-industries/credential-api/pkg/qr"
)

type documentStore interface {
	Create(ctx context.Context, rec *models.DocumentRecord) error
	GetByID(ctx context.Context, id string) (*models.DocumentRecord, error)
	AttachArtifacts(ctx context.Context, id, pdfURL, qrURL string) error
	Revoke(ctx context.Context, id string) error
	List(ctx context.Context, page, limit int) ([]models.DocumentRecord, int, error)
}

type baseURLResolver interface {
	VerificationBaseURL(ctx context.Context) (dto.VerificationBaseURLResponse, error)
}

type artifactWriter interface {
	Put(ctx context.Context, path, contentType string, data []byte) (string, error)
}

type rendererSelector interface {
	ForKind(kind models.DocumentKind) (render.Renderer, error)
}

type verdictCacheInvalidator interface {
	Delete(ctx context.Context, key string) error
}

// DocumentService owns the issuance lifecycle: create the record, render
// the artifacts, revoke. The record is authoritative; artifacts are a
// regenerable projection of it.
type DocumentService struct {
	repo     documentStore
	settings baseURLResolver
	store    artifactWriter
	engine   rendererSelector
	cache    verdictCacheInvalidator
	metrics  *MetricsService
	validate *validator.Validate
	logger   *zap.Logger
	cfg      DocumentServiceConfig
}

// DocumentServiceConfig carries render-time parameters.
type DocumentServiceConfig struct {
	QRPixelSize int
	Logo        []byte
}

// NewDocumentService constructs the document service.
func NewDocumentService(repo documentStore, settings baseURLResolver, store artifactWriter, engine rendererSelector, cache verdictCacheInvalidator, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg DocumentServiceConfig) *DocumentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.QRPixelSize <= 0 {
		cfg.QRPixelSize = 500
	}
	return &DocumentService{
		repo:     repo,
		settings: settings,
		store:    store,
		engine:   engine,
		cache:    cache,
		metrics:  metrics,
		validate: validate,
		logger:   logger,
		cfg:      cfg,
	}
}

// Create validates the request, persists the record, and renders the PDF
// and QR artifacts. A render failure does not fail creation: the record is
// already authoritative and Rerender can regenerate the artifacts later.
func (s *DocumentService) Create(ctx context.Context, req dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	rec, err := s.buildRecord(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "persist document")
	}
	s.metrics.RecordIssued(string(rec.Kind))

	if err := s.renderArtifacts(ctx, rec); err != nil {
		s.logger.Warn("artifact generation failed, record kept without artifacts",
			zap.String("document_id", rec.ID),
			zap.String("kind", string(rec.Kind)),
			zap.Error(err))
	}

	resp := dto.FromDocumentRecord(rec)
	return &resp, nil
}

// Get returns one record by id.
func (s *DocumentService) Get(ctx context.Context, id string) (*dto.DocumentResponse, error) {
	rec, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.FromDocumentRecord(rec)
	return &resp, nil
}

// List returns a page of records, newest first.
func (s *DocumentService) List(ctx context.Context, page, pageSize int) ([]dto.DocumentResponse, models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	recs, total, err := s.repo.List(ctx, page, pageSize)
	if err != nil {
		return nil, models.Pagination{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list documents")
	}
	out := make([]dto.DocumentResponse, 0, len(recs))
	for i := range recs {
		out = append(out, dto.FromDocumentRecord(&recs[i]))
	}
	return out, models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Revoke flips the record to revoked and drops any cached verdict so the
// change is visible to verifiers promptly. Revoking twice is a no-op.
func (s *DocumentService) Revoke(ctx context.Context, id string) (*dto.DocumentResponse, error) {
	if err := s.repo.Revoke(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "document not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "revoke document")
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, verdictCacheKey(id)); err != nil {
			s.logger.Warn("evict verdict cache", zap.String("document_id", id), zap.Error(err))
		}
	}
	s.metrics.RecordRevocation()
	return s.Get(ctx, id)
}

// Rerender regenerates the artifacts for an existing record. Unlike Create,
// a render failure here is reported: the caller asked for exactly that.
func (s *DocumentService) Rerender(ctx context.Context, id string) (*dto.DocumentResponse, error) {
	rec, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.renderArtifacts(ctx, rec); err != nil {
		return nil, err
	}
	resp := dto.FromDocumentRecord(rec)
	return &resp, nil
}

func (s *DocumentService) fetch(ctx context.Context, id string) (*models.DocumentRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "document not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load document")
	}
	return rec, nil
}

func (s *DocumentService) buildRecord(req dto.CreateDocumentRequest) (*models.DocumentRecord, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, validationMessage(err))
	}
	if !req.Kind.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown document kind %q", req.Kind))
	}
	issueDate, err := time.Parse(models.DateLayout, req.IssueDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "issue_date must be formatted YYYY-MM-DD")
	}
	details, err := buildDetails(req.Kind, req.Details)
	if err != nil {
		return nil, err
	}
	return &models.DocumentRecord{
		Kind:         req.Kind,
		SubjectName:  req.SubjectName,
		SubjectEmail: req.SubjectEmail,
		Domain:       req.Domain,
		IssueDate:    issueDate,
		Status:       models.StatusValid,
		Details:      details,
		CreatedBy:    models.DefaultIssuer,
	}, nil
}

// buildDetails enforces the kind-dependent field rules.
func buildDetails(kind models.DocumentKind, p dto.DocumentDetailsPayload) (models.DocumentDetails, error) {
	details := models.DocumentDetails{
		Duration:    p.Duration,
		Performance: models.PerformanceTier(p.Performance),
		Position:    p.Position,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Stipend:     p.Stipend,
	}
	switch kind {
	case models.KindOfferLetter:
		start, err := time.Parse(models.DateLayout, p.StartDate)
		if err != nil {
			return details, appErrors.Clone(appErrors.ErrValidation, "offer letters require details.start_date formatted YYYY-MM-DD")
		}
		if p.EndDate != "" {
			end, err := time.Parse(models.DateLayout, p.EndDate)
			if err != nil {
				return details, appErrors.Clone(appErrors.ErrValidation, "details.end_date must be formatted YYYY-MM-DD")
			}
			if end.Before(start) {
				return details, appErrors.Clone(appErrors.ErrValidation, "details.end_date must not precede details.start_date")
			}
		}
	case models.KindRecommendation:
		if p.Performance != "" &&
			models.PerformanceTier(p.Performance) != models.PerformanceExcellent &&
			models.PerformanceTier(p.Performance) != models.PerformanceGood {
			return details, appErrors.Clone(appErrors.ErrValidation, "details.performance must be Excellent or Good")
		}
	}
	return details, nil
}

// renderArtifacts runs the full pipeline: QR encode, render, store, attach.
// On success the record's artifact refs are updated in place.
func (s *DocumentService) renderArtifacts(ctx context.Context, rec *models.DocumentRecord) error {
	started := time.Now()
	err := s.doRender(ctx, rec)
	s.metrics.ObserveRender(string(rec.Kind), time.Since(started), err)
	return err
}

func (s *DocumentService) doRender(ctx context.Context, rec *models.DocumentRecord) error {
	base, err := s.settings.VerificationBaseURL(ctx)
	if err != nil {
		return err
	}
	qrPNG, err := qr.Encode(qr.VerificationURL(base.Value, rec.ID), s.cfg.QRPixelSize)
	if err != nil {
		return err
	}
	stamp, err := render.Stamp()
	if err != nil {
		return err
	}
	renderer, err := s.engine.ForKind(rec.Kind)
	if err != nil {
		return err
	}
	pdfBytes, err := renderer.Render(rec, render.Assets{Logo: s.cfg.Logo, Stamp: stamp, QR: qrPNG})
	if err != nil {
		return err
	}
	pdfURL, err := s.store.Put(ctx, "pdfs/"+rec.ID+".pdf", "application/pdf", pdfBytes)
	if err != nil {
		return err
	}
	qrURL, err := s.store.Put(ctx, "qr-codes/"+rec.ID+".png", "image/png", qrPNG)
	if err != nil {
		return err
	}
	if err := s.repo.AttachArtifacts(ctx, rec.ID, pdfURL, qrURL); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "attach artifacts")
	}
	rec.PDFURL = &pdfURL
	rec.QRURL = &qrURL
	return nil
}

// validationMessage flattens validator output into a single client-facing line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("field %s failed on the %s rule", fe.Field(), fe.Tag())
	}
	return "invalid request payload"
}
