package models

import "time"

// SettingVerificationBaseURL keys the base URL baked into QR codes at render
// time. It is the only setting this service persists.
const SettingVerificationBaseURL = "verification_base_url"

// Setting represents a persisted key-value settings entry.
type Setting struct {
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	UpdatedBy *string   `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
