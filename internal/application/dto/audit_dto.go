package dto

import (
	"encoding/json"
	"time"
)

// AuditLogResponse is one audit trail entry.
type AuditLogResponse struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id,omitempty"`
	Action     string          `json:"action"`
	Module     string          `json:"module"`
	RecordType string          `json:"record_type"`
	RecordID   string          `json:"record_id"`
	OldValues  json.RawMessage `json:"old_values,omitempty"`
	NewValues  json.RawMessage `json:"new_values,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}
