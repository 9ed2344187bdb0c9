package domain

import "time"

// ChatRequest is one inbound user message delivered by the transport.
type ChatRequest struct {
	Message  string `json:"message"`
	Store    string `json:"store"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name,omitempty"`

	// SelectedOrder carries frontend order-selection context, if any.
	SelectedOrder *OrderRef `json:"selected_order,omitempty"`

	// ConfirmActionID confirms a previously staged destructive action.
	ConfirmActionID string `json:"confirm_action_id,omitempty"`
}

// MessageResponse is the terminal response of one turn.
type MessageResponse struct {
	Content  string    `json:"content"`
	Store    string    `json:"store"`
	Products []Product `json:"products,omitempty"`
	Orders   []Order   `json:"orders,omitempty"`
	Tracking *Tracking `json:"tracking_data,omitempty"`

	PendingAction *PendingAction `json:"pending_action,omitempty"`

	RequiresHuman       bool    `json:"requires_human"`
	ConfidenceScore     float64 `json:"confidence_score"`
	IsContextRelevant   bool    `json:"is_context_relevant"`
	WarningMessage      string  `json:"warning_message,omitempty"`
	AssessmentReasoning string  `json:"assessment_reasoning,omitempty"`
	SessionLocked       bool    `json:"session_locked,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}
