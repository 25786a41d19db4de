package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/matrix-industries/credential-api/internal/service"
	"github.com/matrix-industries/credential-api/pkg/response"
)

// VerificationHandler exposes the public authenticity lookup. No auth, no
// admin surface: this is what the QR code on a printed document points at.
type VerificationHandler struct {
	verifications *service.VerificationService
}

// NewVerificationHandler constructs VerificationHandler.
func NewVerificationHandler(verifications *service.VerificationService) *VerificationHandler {
	return &VerificationHandler{verifications: verifications}
}

// Verify godoc
// @Summary Verify a document code
// @Description Resolves the code embedded in a document's QR against the live record. Unknown codes return found=false with HTTP 200, never an error.
// @Tags Verification
// @Produce json
// @Param code query string true "Verification code"
// @Success 200 {object} response.Envelope
// @Router /verify [get]
func (h *VerificationHandler) Verify(c *gin.Context) {
	code := strings.TrimSpace(c.Query("code"))
	verdict, err := h.verifications.Resolve(c.Request.Context(), code)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, verdict, nil)
}
