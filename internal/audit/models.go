package audit

import (
	"context"
	"time"

	"census/pkg/domain"
)

// Action names a recorded change.
type Action string

const (
	ActionImportCreated  Action = "import_created"
	ActionCitizenPatched Action = "citizen_patched"
)

// Event is emitted from domain logic after a change commits. It is
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Action    Action             `json:"action"`
	Timestamp time.Time          `json:"timestamp"`
	RequestID string             `json:"request_id,omitempty"`
	ImportID  domain.ImportID    `json:"import_id"`
	CitizenID *domain.CitizenID  `json:"citizen_id,omitempty"`
	Citizens  int                `json:"citizens,omitempty"`
	Added     []domain.CitizenID `json:"relatives_added,omitempty"`
	Removed   []domain.CitizenID `json:"relatives_removed,omitempty"`
}

// Store persists or forwards events.
type Store interface {
	Append(ctx context.Context, event Event) error
}
