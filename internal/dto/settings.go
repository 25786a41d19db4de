package dto

// VerificationBaseURLResponse exposes the configured verification base URL.
type VerificationBaseURLResponse struct {
	Value     string `json:"value"`
	IsDefault bool   `json:"is_default"`
}

// UpdateVerificationBaseURLRequest describes PUT payload for the base URL.
type UpdateVerificationBaseURLRequest struct {
	Value string `json:"value" validate:"required,url"`
}
