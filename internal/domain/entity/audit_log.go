package entity

import (
	"encoding/json"
	"time"
)

// AuditLog is a best-effort trace of a business action. Writing it never
// fails the business transaction it describes.
type AuditLog struct {
	ID         string
	CompanyID  string
	UserID     string
	Action     string // CREATE | CANCEL | UPDATE ...
	Module     string // billing | stock | ledger ...
	RecordType string
	RecordID   string
	OldValues  json.RawMessage
	NewValues  json.RawMessage
	CreatedAt  time.Time
}
