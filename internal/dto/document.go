package dto

import "github.com/matrix-industries/credential-api/internal/models"

// DocumentDetailsPayload carries the kind-dependent creation fields.
// Requiredness depends on the requested kind and is validated in the service.
type DocumentDetailsPayload struct {
	Duration    string `json:"duration,omitempty"`
	Performance string `json:"performance,omitempty"`
	Position    string `json:"position,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Stipend     string `json:"stipend,omitempty"`
}

// CreateDocumentRequest captures POST /documents payload.
type CreateDocumentRequest struct {
	Kind         models.DocumentKind    `json:"kind" validate:"required"`
	SubjectName  string                 `json:"subject_name" validate:"required"`
	SubjectEmail string                 `json:"subject_email" validate:"required,email"`
	Domain       string                 `json:"domain" validate:"required"`
	IssueDate    string                 `json:"issue_date" validate:"required"`
	Details      DocumentDetailsPayload `json:"details"`
}

// DocumentResponse is the full record projection returned to the admin API.
type DocumentResponse struct {
	ID           string                 `json:"id"`
	Kind         models.DocumentKind    `json:"kind"`
	SubjectName  string                 `json:"subject_name"`
	SubjectEmail string                 `json:"subject_email"`
	Domain       string                 `json:"domain"`
	IssueDate    string                 `json:"issue_date"`
	Status       models.DocumentStatus  `json:"status"`
	Details      models.DocumentDetails `json:"details"`
	PDFURL       *string                `json:"pdf_url,omitempty"`
	QRURL        *string                `json:"qr_url,omitempty"`
	CreatedAt    string                 `json:"created_at"`
}

// FromDocumentRecord maps the persisted record onto the response shape.
func FromDocumentRecord(rec *models.DocumentRecord) DocumentResponse {
	return DocumentResponse{
		ID:           rec.ID,
		Kind:         rec.Kind,
		SubjectName:  rec.SubjectName,
		SubjectEmail: rec.SubjectEmail,
		Domain:       rec.Domain,
		IssueDate:    rec.IssueDate.Format(models.DateLayout),
		Status:       rec.Status,
		Details:      rec.Details,
		PDFURL:       rec.PDFURL,
		QRURL:        rec.QRURL,
		CreatedAt:    rec.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
