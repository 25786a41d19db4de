package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/matrix-industries/credential-api/internal/dto"
	"github.com/matrix-industries/credential-api/internal/models"
	appErrors "github.com/matrix-industries/credential-api/pkg/errors"
)

type settingStore interface {
	Get(ctx context.Context, key string) (*models.Setting, error)
	Upsert(ctx context.Context, s *models.Setting) error
}

// SettingsService manages the persisted verification base URL. Changing it
// affects QR codes rendered afterwards only; already issued PDFs keep the
// URL they were rendered with.
type SettingsService struct {
	repo       settingStore
	defaultURL string
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewSettingsService constructs the settings service.
func NewSettingsService(repo settingStore, defaultURL string, validate *validator.Validate, logger *zap.Logger) *SettingsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{
		repo:       repo,
		defaultURL: strings.TrimRight(defaultURL, "/"),
		validate:   validate,
		logger:     logger,
	}
}

// VerificationBaseURL resolves the effective base URL: the persisted
// override when present, the configured default otherwise.
func (s *SettingsService) VerificationBaseURL(ctx context.Context) (dto.VerificationBaseURLResponse, error) {
	setting, err := s.repo.Get(ctx, models.SettingVerificationBaseURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dto.VerificationBaseURLResponse{Value: s.defaultURL, IsDefault: true}, nil
		}
		return dto.VerificationBaseURLResponse{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load verification base URL")
	}
	value := strings.TrimRight(setting.Value, "/")
	if value == "" {
		return dto.VerificationBaseURLResponse{Value: s.defaultURL, IsDefault: true}, nil
	}
	return dto.VerificationBaseURLResponse{Value: value, IsDefault: false}, nil
}

// UpdateVerificationBaseURL persists a new base URL override.
func (s *SettingsService) UpdateVerificationBaseURL(ctx context.Context, req dto.UpdateVerificationBaseURLRequest) (dto.VerificationBaseURLResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.VerificationBaseURLResponse{}, appErrors.Clone(appErrors.ErrValidation, "value must be a valid URL")
	}
	value := strings.TrimRight(req.Value, "/")
	updatedBy := models.DefaultIssuer
	setting := &models.Setting{
		Key:       models.SettingVerificationBaseURL,
		Value:     value,
		UpdatedBy: &updatedBy,
	}
	if err := s.repo.Upsert(ctx, setting); err != nil {
		return dto.VerificationBaseURLResponse{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "save verification base URL")
	}
	s.logger.Info("verification base URL updated", zap.String("value", value))
	return dto.VerificationBaseURLResponse{Value: value, IsDefault: false}, nil
}
