package workflow

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// WorkflowEntry records one stage transition on a request. Entries are
// append-only: the history is never reordered or mutated, forming the
// audit trail mandated for every request type.
type WorkflowEntry struct {
	Stage     string    `json:"stage"`
	Status    string    `json:"status"`
	Actor     string    `json:"actor"`
	Role      Role      `json:"role"`
	Notes     string    `json:"notes,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// WorkflowHistory is an ordered list of WorkflowEntry stored as JSONB
type WorkflowHistory []WorkflowEntry

// Append returns the history with a new entry added. Existing entries are
// never modified.
func (h WorkflowHistory) Append(stage, status string, actor Actor, notes string) WorkflowHistory {
	return append(h, WorkflowEntry{
		Stage:     stage,
		Status:    status,
		Actor:     actor.Name,
		Role:      actor.Role,
		Notes:     notes,
		Timestamp: time.Now(),
	})
}

// Value implements driver.Valuer for JSONB storage
func (h WorkflowHistory) Value() (driver.Value, error) {
	if h == nil {
		return "[]", nil
	}
	return json.Marshal(h)
}

// Scan implements sql.Scanner for JSONB storage
func (h *WorkflowHistory) Scan(value interface{}) error {
	if value == nil {
		*h = WorkflowHistory{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan WorkflowHistory: unsupported type")
	}

	if len(bytes) == 0 {
		*h = WorkflowHistory{}
		return nil
	}
	return json.Unmarshal(bytes, h)
}

// Approval is an immutable per-role approval stamp. A request stores at
// most one per role; once set it is never overwritten.
type Approval struct {
	ApprovedBy string    `json:"approved_by"`
	ApprovedAt time.Time `json:"approved_at"`
	Notes      string    `json:"notes,omitempty"`
}

// Value implements driver.Valuer for JSONB storage
func (a Approval) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan implements sql.Scanner for JSONB storage
func (a *Approval) Scan(value interface{}) error {
	if value == nil {
		*a = Approval{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Approval: unsupported type")
	}

	if len(bytes) == 0 {
		*a = Approval{}
		return nil
	}
	return json.Unmarshal(bytes, a)
}

// IsSet returns true if the approval has been stamped
func (a Approval) IsSet() bool {
	return a.ApprovedBy != ""
}
