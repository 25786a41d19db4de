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
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/matrix-industries/credential-api/internal/dto"
	"github.com/matrix-industries/credential-api/internal/models"
	"github.com/matrix-industries/credential-api/internal/service"
	"github.com/matrix-industries/credential-api/pkg/jobs"
)

type issuanceRepoMock struct {
	jobs map[string]models.IssuanceJob
}

func (m *issuanceRepoMock) Create(ctx context.Context, job *models.IssuanceJob) error {
	if m.jobs == nil {
		m.jobs = make(map[string]models.IssuanceJob)
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	job.Status = models.IssuanceStatusQueued
	m.jobs[job.ID] = *job
	return nil
}

func (m *issuanceRepoMock) GetByID(ctx context.Context, id string) (*models.IssuanceJob, error) {
	if job, ok := m.jobs[id]; ok {
		return &job, nil
	}
	return nil, sql.ErrNoRows
}

func (m *issuanceRepoMock) UpdateProgress(ctx context.Context, job *models.IssuanceJob) error {
	m.jobs[job.ID] = *job
	return nil
}

type dispatcherMock struct {
	jobs []jobs.Job
}

func (d *dispatcherMock) Enqueue(job jobs.Job) error {
	d.jobs = append(d.jobs, job)
	return nil
}

func newBulkHandler(repo *issuanceRepoMock, dispatcher *dispatcherMock) *BulkHandler {
	svc := service.NewIssuanceJobService(repo, dispatcher, validator.New(), zap.NewNop())
	return NewBulkHandler(svc)
}

func TestBulkHandlerSubmit(t *testing.T) {
	repo := &issuanceRepoMock{}
	dispatcher := &dispatcherMock{}
	h := newBulkHandler(repo, dispatcher)

	c, w := newJSONContext(t, http.MethodPost, "/documents/bulk", dto.BulkIssueRequest{Rows: []dto.CreateDocumentRequest{{
		Kind:         models.KindCertificate,
		SubjectName:  "Asha Verma",
		SubjectEmail: "asha@example.com",
		Domain:       "Web Development",
		IssueDate:    "2024-03-01",
	}}})
	h.Submit(c)

	require.Equal(t, http.StatusAccepted, w.Code)
	var envelope struct {
		Data dto.BulkJobResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, models.IssuanceStatusQueued, envelope.Data.Status)
	assert.Equal(t, 1, envelope.Data.Total)
	assert.Len(t, dispatcher.jobs, 1)
}

func TestBulkHandlerSubmitEmptyRows(t *testing.T) {
	h := newBulkHandler(&issuanceRepoMock{}, &dispatcherMock{})

	c, w := newJSONContext(t, http.MethodPost, "/documents/bulk", dto.BulkIssueRequest{})
	h.Submit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBulkHandlerStatusNotFound(t *testing.T) {
	h := newBulkHandler(&issuanceRepoMock{}, &dispatcherMock{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/documents/bulk/missing", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	h.Status(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
