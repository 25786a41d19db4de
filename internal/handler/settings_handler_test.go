package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/matrix-industries/credential-api/internal/dto"
	"github.com/matrix-industries/credential-api/internal/models"
	"github.com/matrix-industries/credential-api/internal/service"
)

type settingRepoMock struct {
	settings map[string]models.Setting
}

func (m *settingRepoMock) Get(ctx context.Context, key string) (*models.Setting, error) {
	if s, ok := m.settings[key]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *settingRepoMock) Upsert(ctx context.Context, s *models.Setting) error {
	if m.settings == nil {
		m.settings = make(map[string]models.Setting)
	}
	m.settings[s.Key] = *s
	return nil
}

func newSettingsHandler(repo *settingRepoMock) *SettingsHandler {
	svc := service.NewSettingsService(repo, "https://matrixindustries.in/verify", validator.New(), zap.NewNop())
	return NewSettingsHandler(svc)
}

func TestSettingsHandlerGetDefault(t *testing.T) {
	h := newSettingsHandler(&settingRepoMock{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/settings/verification-base-url", nil)
	c.Request = req
	h.GetVerificationBaseURL(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data dto.VerificationBaseURLResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.IsDefault)
	assert.Equal(t, "https://matrixindustries.in/verify", envelope.Data.Value)
}

func TestSettingsHandlerUpdate(t *testing.T) {
	repo := &settingRepoMock{}
	h := newSettingsHandler(repo)

	c, w := newJSONContext(t, http.MethodPut, "/settings/verification-base-url", dto.UpdateVerificationBaseURLRequest{Value: "https://verify.example.com"})
	h.UpdateVerificationBaseURL(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://verify.example.com", repo.settings[models.SettingVerificationBaseURL].Value)
}

func TestSettingsHandlerUpdateRejectsBadPayload(t *testing.T) {
	h := newSettingsHandler(&settingRepoMock{})

	c, w := newJSONContext(t, http.MethodPut, "/settings/verification-base-url", []byte(`{`))
	h.UpdateVerificationBaseURL(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
