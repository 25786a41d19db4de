package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matrix-industries/credential-api/internal/dto"
	"github.com/matrix-industries/credential-api/internal/models"
	appErrors "github.com/matrix-industries/credential-api/pkg/errors"
)

type documentFinder interface {
	GetByID(ctx context.Context, id string) (*models.DocumentRecord, error)
}

type verdictCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// verdictCacheKey namespaces cached verdicts by document id.
func verdictCacheKey(id string) string {
	return "verify:" + id
}

// VerificationService answers the public authenticity lookup. An unknown,
// malformed, or revoked code is a verdict, never an error: the endpoint
// must not leak whether a code was close to a real one.
type VerificationService struct {
	repo     documentFinder
	cache    verdictCache
	metrics  *MetricsService
	logger   *zap.Logger
	cacheTTL time.Duration
}

// NewVerificationService constructs the verification service.
func NewVerificationService(repo documentFinder, cache verdictCache, metrics *MetricsService, logger *zap.Logger, cacheTTL time.Duration) *VerificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	return &VerificationService{
		repo:     repo,
		cache:    cache,
		metrics:  metrics,
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

// Resolve looks up the verification code and returns the public verdict.
func (s *VerificationService) Resolve(ctx context.Context, code string) (dto.VerificationVerdict, error) {
	if _, err := uuid.Parse(code); err != nil {
		verdict := dto.VerificationVerdict{Found: false}
		s.metrics.RecordVerification("not_found")
		return verdict, nil
	}

	key := verdictCacheKey(code)
	if s.cache != nil {
		var cached dto.VerificationVerdict
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			s.metrics.RecordCacheLookup(true)
			s.metrics.RecordVerification(string(cached.Status))
			return cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("verdict cache lookup", zap.String("document_id", code), zap.Error(err))
		}
		s.metrics.RecordCacheLookup(false)
	}

	rec, err := s.repo.GetByID(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.RecordVerification("not_found")
			return dto.VerificationVerdict{Found: false}, nil
		}
		return dto.VerificationVerdict{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "resolve verification code")
	}

	verdict := dto.VerificationVerdict{
		Found:       true,
		Status:      rec.Status,
		Kind:        rec.Kind,
		KindLabel:   rec.Kind.Label(),
		SubjectName: rec.SubjectName,
		Domain:      rec.Domain,
		IssueDate:   rec.IssueDate.Format(models.DateLayout),
	}

	// Only found verdicts are cached: a freshly issued code must verify on
	// the first scan, and negatives are cheap to look up anyway.
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, verdict, s.cacheTTL); err != nil {
			s.logger.Warn("verdict cache store", zap.String("document_id", code), zap.Error(err))
		}
	}

	s.metrics.RecordVerification(string(rec.Status))
	return verdict, nil
}
