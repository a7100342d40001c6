package model

import "time"

// Field is a column definition in the record store's field catalog.
type Field struct {
	CreatedAt   time.Time `json:"created_at"`
	Name        string    `json:"name"`
	Label       string    `json:"label"`
	DataType    string    `json:"data_type"`
	Description string    `json:"description,omitempty"`
	CreatedBy   string    `json:"created_by"`
	ID          int64     `json:"id"`
}

// StoredRecord is a record persisted by the record store.
type StoredRecord struct {
	Data map[string]any `json:"data"`
	ID   int64          `json:"id"`
}

// AuditOperation names a mutation recorded in the audit log.
type AuditOperation string

// Audit operations.
const (
	AuditCreate AuditOperation = "create"
	AuditUpdate AuditOperation = "update"
	AuditDelete AuditOperation = "delete"
)

// AuditEntry is one row of the record store's audit log.
type AuditEntry struct {
	Timestamp time.Time
	Before    map[string]any
	After     map[string]any
	Operation AuditOperation
	User      string
	RunID     string
	ID        int64
	RecordID  int64
}
