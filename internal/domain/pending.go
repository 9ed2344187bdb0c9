package domain

import "time"

// PendingAction is a destructive action staged for explicit user
// confirmation. The ledger entry is the single source of truth; it is
// consumed at most once and expires after a short TTL.
type PendingAction struct {
	ActionID            string            `json:"action_id"`
	ActionType          ToolName          `json:"action_type"`
	Parameters          map[string]string `json:"parameters"`
	ConfirmationMessage string            `json:"confirmation_message"`
	CreatedAt           time.Time         `json:"created_at"`
	ExpiresAt           time.Time         `json:"expires_at"`
}
