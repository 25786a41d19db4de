package dto

import "github.com/matrix-industries/credential-api/internal/models"

// VerificationVerdict is the public projection of a record's authenticity
// status. When Found is false no other field is populated; an unknown or
// malformed code is a verdict, not an error.
type VerificationVerdict struct {
	Found       bool                  `json:"found"`
	Status      models.DocumentStatus `json:"status,omitempty"`
	Kind        models.DocumentKind   `json:"kind,omitempty"`
	KindLabel   string                `json:"kind_label,omitempty"`
	SubjectName string                `json:"subject_name,omitempty"`
	Domain      string                `json:"domain,omitempty"`
	IssueDate   string                `json:"issue_date,omitempty"`
}
