package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/matrix-industries/credential-api/internal/dto"
	"github.com/matrix-industries/credential-api/internal/models"
	"github.com/matrix-industries/credential-api/internal/service"
)

type recordFinderMock struct {
	docs map[string]models.DocumentRecord
}

func (m *recordFinderMock) GetByID(ctx context.Context, id string) (*models.DocumentRecord, error) {
	if rec, ok := m.docs[id]; ok {
		return &rec, nil
	}
	return nil, sql.ErrNoRows
}

func newVerifyContext(t *testing.T, code string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodGet, "/verify?code="+code, nil)
	require.NoError(t, err)
	c.Request = req
	return c, w
}

func decodeVerdict(t *testing.T, w *httptest.ResponseRecorder) dto.VerificationVerdict {
	t.Helper()
	var envelope struct {
		Data dto.VerificationVerdict `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestVerificationHandlerFound(t *testing.T) {
	id := uuid.NewString()
	finder := &recordFinderMock{docs: map[string]models.DocumentRecord{id: {
		ID:          id,
		Kind:        models.KindCertificate,
		SubjectName: "Asha Verma",
		Domain:      "Web Development",
		IssueDate:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:      models.StatusValid,
	}}}
	h := NewVerificationHandler(service.NewVerificationService(finder, nil, nil, zap.NewNop(), time.Second))

	c, w := newVerifyContext(t, id)
	h.Verify(c)

	require.Equal(t, http.StatusOK, w.Code)
	verdict := decodeVerdict(t, w)
	assert.True(t, verdict.Found)
	assert.Equal(t, models.StatusValid, verdict.Status)
	assert.Equal(t, "Asha Verma", verdict.SubjectName)
}

func TestVerificationHandlerUnknownCodeIsStill200(t *testing.T) {
	h := NewVerificationHandler(service.NewVerificationService(&recordFinderMock{}, nil, nil, zap.NewNop(), time.Second))

	c, w := newVerifyContext(t, uuid.NewString())
	h.Verify(c)

	require.Equal(t, http.StatusOK, w.Code)
	verdict := decodeVerdict(t, w)
	assert.False(t, verdict.Found)
	assert.Empty(t, verdict.SubjectName)
}

func TestVerificationHandlerMalformedCode(t *testing.T) {
	h := NewVerificationHandler(service.NewVerificationService(&recordFinderMock{}, nil, nil, zap.NewNop(), time.Second))

	c, w := newVerifyContext(t, "../../etc/passwd")
	h.Verify(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decodeVerdict(t, w).Found)
}

func TestVerificationHandlerNoStoreCaching(t *testing.T) {
	h := NewVerificationHandler(service.NewVerificationService(&recordFinderMock{}, nil, nil, zap.NewNop(), time.Second))

	c, w := newVerifyContext(t, uuid.NewString())
	h.Verify(c)

	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}
