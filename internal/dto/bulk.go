package dto

import "github.com/matrix-industries/credential-api/internal/models"

// BulkIssueRequest captures POST /documents/bulk payload: already-parsed rows
// shaped like single creation requests. Parsing tabular input (CSV and the
// like) is the caller's job.
type BulkIssueRequest struct {
	Rows []CreateDocumentRequest `json:"rows" validate:"required,min=1,dive"`
}

// BulkJobResponse is returned after enqueueing a bulk issuance run.
type BulkJobResponse struct {
	ID     string                `json:"id"`
	Status models.IssuanceStatus `json:"status"`
	Total  int                   `json:"total"`
}

// BulkStatusResponse exposes bulk job progress.
type BulkStatusResponse struct {
	ID        string                `json:"id"`
	Status    models.IssuanceStatus `json:"status"`
	Total     int                   `json:"total"`
	Processed int                   `json:"processed"`
	Succeeded int                   `json:"succeeded"`
	Failed    int                   `json:"failed"`
	RowErrors []models.RowError     `json:"row_errors,omitempty"`
}
