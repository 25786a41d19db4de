package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matrix-industries/credential-api/internal/dto"
	"github.com/matrix-industries/credential-api/internal/service"
	appErrors "github.com/matrix-industries/credential-api/pkg/errors"
	"github.com/matrix-industries/credential-api/pkg/response"
)

// BulkHandler exposes bulk issuance endpoints.
type BulkHandler struct {
	issuance *service.IssuanceJobService
}

// NewBulkHandler constructs BulkHandler.
func NewBulkHandler(issuance *service.IssuanceJobService) *BulkHandler {
	return &BulkHandler{issuance: issuance}
}

// Submit godoc
// @Summary Submit a bulk issuance run
// @Tags Documents
// @Accept json
// @Produce json
// @Param payload body dto.BulkIssueRequest true "Rows to issue"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /documents/bulk [post]
func (h *BulkHandler) Submit(c *gin.Context) {
	var req dto.BulkIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid JSON payload"))
		return
	}
	job, err := h.issuance.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// Status godoc
// @Summary Get bulk issuance progress
// @Tags Documents
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /documents/bulk/{id} [get]
func (h *BulkHandler) Status(c *gin.Context) {
	job, err := h.issuance.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}
