package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// IssuanceStatus captures bulk job lifecycle states.
type IssuanceStatus string

const (
	IssuanceStatusQueued     IssuanceStatus = "QUEUED"
	IssuanceStatusProcessing IssuanceStatus = "PROCESSING"
	IssuanceStatusFinished   IssuanceStatus = "FINISHED"
)

// RowError records a failed bulk issuance row. Failed rows never roll back
// previously issued ones.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// RowErrorList is persisted as JSONB on the job row.
type RowErrorList []RowError

// Value marshals the error list for persistence.
func (l RowErrorList) Value() (driver.Value, error) {
	if l == nil {
		l = RowErrorList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal row errors: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the list.
func (l *RowErrorList) Scan(value interface{}) error {
	if value == nil {
		*l = RowErrorList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported row error type %T", value)
	}
	if len(data) == 0 {
		*l = RowErrorList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// IssuanceJob tracks a bulk issuance run and its per-row progress.
type IssuanceJob struct {
	ID         string         `db:"id" json:"id"`
	Status     IssuanceStatus `db:"status" json:"status"`
	Total      int            `db:"total" json:"total"`
	Processed  int            `db:"processed" json:"processed"`
	Succeeded  int            `db:"succeeded" json:"succeeded"`
	Failed     int            `db:"failed" json:"failed"`
	RowErrors  RowErrorList   `db:"row_errors" json:"row_errors"`
	CreatedBy  string         `db:"created_by" json:"created_by"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	FinishedAt *time.Time     `db:"finished_at" json:"finished_at,omitempty"`
}
