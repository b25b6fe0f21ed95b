package callbacks

import (
	"time"

	"github.com/google/uuid"
)

// Status is the dispatch lifecycle stage of a scheduled callback.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Terminal reports whether the status will never change again. Failed
// callbacks stay failed; a new request is the only retry path.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Callback is a request for AIVA to phone a visitor back at a chosen time.
type Callback struct {
	ID             uuid.UUID  `json:"id"`
	Phone          string     `json:"phone"`
	ScheduledFor   time.Time  `json:"scheduled_for"`
	SessionID      string     `json:"session_id,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	LeadID         string     `json:"lead_id,omitempty"`
	Status         Status     `json:"status"`
	ProviderCallID string     `json:"provider_call_id,omitempty"`
	LastError      string     `json:"last_error,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	ProcessedAt    *time.Time `json:"processed_at,omitempty"`
}
