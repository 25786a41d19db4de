package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DocumentKind enumerates the issued document types.
type DocumentKind string

const (
	KindCertificate    DocumentKind = "certificate"
	KindOfferLetter    DocumentKind = "offer_letter"
	KindRecommendation DocumentKind = "lor"
)

// Valid reports whether the kind is one of the issued document types.
func (k DocumentKind) Valid() bool {
	switch k {
	case KindCertificate, KindOfferLetter, KindRecommendation:
		return true
	}
	return false
}

// Label returns the human-readable document type name.
func (k DocumentKind) Label() string {
	switch k {
	case KindCertificate:
		return "Internship Certificate"
	case KindOfferLetter:
		return "Offer Letter"
	case KindRecommendation:
		return "Letter of Recommendation"
	}
	return string(k)
}

// DocumentStatus captures the one-way valid -> revoked lifecycle.
type DocumentStatus string

const (
	StatusValid   DocumentStatus = "valid"
	StatusRevoked DocumentStatus = "revoked"
)

// PerformanceTier selects the recommendation letter phrasing.
type PerformanceTier string

const (
	PerformanceExcellent PerformanceTier = "Excellent"
	PerformanceGood      PerformanceTier = "Good"
)

// DateLayout is the calendar-date wire format used throughout.
const DateLayout = "2006-01-02"

// DefaultIssuer is recorded as created_by on every record. The source system
// never carried a real actor identity here; kept as a constant rather than
// inventing an attribution mechanism.
const DefaultIssuer = "admin"

// OfferDefaultTerm is added to the start date when no end date is given.
const OfferDefaultTerm = 28 * 24 * time.Hour

// DocumentDetails holds the kind-dependent fields, persisted as JSONB.
// Which fields are required is enforced per kind at creation time; the typed
// per-kind accessors below are what the renderers consume.
type DocumentDetails struct {
	Duration    string          `json:"duration,omitempty"`
	Performance PerformanceTier `json:"performance,omitempty"`
	Position    string          `json:"position,omitempty"`
	StartDate   string          `json:"start_date,omitempty"`
	EndDate     string          `json:"end_date,omitempty"`
	Stipend     string          `json:"stipend,omitempty"`
}

// Value marshals details to JSON for persistence.
func (d DocumentDetails) Value() (driver.Value, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal document details: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the details struct.
func (d *DocumentDetails) Scan(value interface{}) error {
	if value == nil {
		*d = DocumentDetails{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported document details type %T", value)
	}
	if len(data) == 0 {
		*d = DocumentDetails{}
		return nil
	}
	return json.Unmarshal(data, d)
}

// DocumentRecord is the canonical record behind every issued document.
// The id doubles as the verification token embedded in the PDF and QR, so it
// is always a freshly generated uuid. Records are never deleted; after
// creation only the status and the artifact refs may change.
type DocumentRecord struct {
	ID           string          `db:"id" json:"id"`
	Kind         DocumentKind    `db:"kind" json:"kind"`
	SubjectName  string          `db:"subject_name" json:"subject_name"`
	SubjectEmail string          `db:"subject_email" json:"subject_email"`
	Domain       string          `db:"domain" json:"domain"`
	IssueDate    time.Time       `db:"issue_date" json:"issue_date"`
	Status       DocumentStatus  `db:"status" json:"status"`
	Details      DocumentDetails `db:"details" json:"details"`
	PDFURL       *string         `db:"pdf_url" json:"pdf_url,omitempty"`
	QRURL        *string         `db:"qr_url" json:"qr_url,omitempty"`
	CreatedBy    string          `db:"created_by" json:"created_by"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// CertificateFields is the typed view for certificate rendering.
type CertificateFields struct {
	Duration string
}

// OfferLetterFields is the typed view for offer letter rendering, with the
// end date already defaulted.
type OfferLetterFields struct {
	Position  string
	StartDate time.Time
	EndDate   time.Time
	Stipend   string
}

// RecommendationFields is the typed view for recommendation rendering, with
// the performance tier already defaulted.
type RecommendationFields struct {
	Duration    string
	Performance PerformanceTier
}

// Certificate projects the certificate field-set.
func (r *DocumentRecord) Certificate() CertificateFields {
	return CertificateFields{Duration: r.Details.Duration}
}

// Offer projects the offer letter field-set, defaulting the end date to
// start + 28 days when absent. Unparseable dates are reported so the render
// stage can refuse rather than emit a broken document.
func (r *DocumentRecord) Offer() (OfferLetterFields, error) {
	start, err := time.Parse(DateLayout, r.Details.StartDate)
	if err != nil {
		return OfferLetterFields{}, fmt.Errorf("parse offer start date %q: %w", r.Details.StartDate, err)
	}
	end := start.Add(OfferDefaultTerm)
	if r.Details.EndDate != "" {
		end, err = time.Parse(DateLayout, r.Details.EndDate)
		if err != nil {
			return OfferLetterFields{}, fmt.Errorf("parse offer end date %q: %w", r.Details.EndDate, err)
		}
	}
	position := r.Details.Position
	if position == "" {
		position = "Intern"
	}
	return OfferLetterFields{
		Position:  position,
		StartDate: start,
		EndDate:   end,
		Stipend:   r.Details.Stipend,
	}, nil
}

// Recommendation projects the recommendation field-set, defaulting the
// performance tier to Good.
func (r *DocumentRecord) Recommendation() RecommendationFields {
	perf := r.Details.Performance
	if perf != PerformanceExcellent {
		perf = PerformanceGood
	}
	return RecommendationFields{Duration: r.Details.Duration, Performance: perf}
}
