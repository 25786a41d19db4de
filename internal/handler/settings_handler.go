package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matrix-industries/credential-api/internal/dto"
	"github.com/matrix-industries/credential-api/internal/service"
	appErrors "github.com/matrix-industries/credential-api/pkg/errors"
	"github.com/matrix-industries/credential-api/pkg/response"
)

// SettingsHandler exposes the verification base URL setting.
type SettingsHandler struct {
	settings *service.SettingsService
}

// NewSettingsHandler constructs SettingsHandler.
func NewSettingsHandler(settings *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetVerificationBaseURL godoc
// @Summary Get the verification base URL
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /settings/verification-base-url [get]
func (h *SettingsHandler) GetVerificationBaseURL(c *gin.Context) {
	value, err := h.settings.VerificationBaseURL(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, value, nil)
}

// UpdateVerificationBaseURL godoc
// @Summary Update the verification base URL
// @Description Affects QR codes rendered after the change; existing PDFs keep the URL they were issued with.
// @Tags Settings
// @Accept json
// @Produce json
// @Param payload body dto.UpdateVerificationBaseURLRequest true "New base URL"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /settings/verification-base-url [put]
func (h *SettingsHandler) UpdateVerificationBaseURL(c *gin.Context) {
	var req dto.UpdateVerificationBaseURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid JSON payload"))
		return
	}
	value, err := h.settings.UpdateVerificationBaseURL(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, value, nil)
}
