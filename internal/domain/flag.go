package domain

import "time"

// Assessment scores a finished turn for confidence, relevance, and
// whether a human should take over.
type Assessment struct {
	ConfidenceScore   float64    `json:"confidence_score"`
	IsContextRelevant bool       `json:"is_context_relevant"`
	RequiresHuman     bool       `json:"requires_human"`
	FlaggingReason    FlagReason `json:"flagging_reason"`
	Reasoning         string     `json:"reasoning,omitempty"`
	WarningMessage    string     `json:"warning_message,omitempty"`
}

// NeutralAssessment is the fixed default used when the assessor call
// fails; assessment failure must never block delivering the reply.
func NeutralAssessment() *Assessment {
	return &Assessment{
		ConfidenceScore:   0.7,
		IsContextRelevant: true,
		RequiresHuman:     false,
		FlaggingReason:    FlagReasonNone,
		Reasoning:         "assessment unavailable, using default values",
	}
}

// SessionFlag is one recorded policy/confidence violation for a session.
type SessionFlag struct {
	FlagID     string     `json:"flag_id"`
	SessionID  string     `json:"session_id"`
	UserID     string     `json:"user_id"`
	Store      string     `json:"store"`
	UserQuery  string     `json:"user_query"`
	Response   string     `json:"response"`
	Reason     FlagReason `json:"reason"`
	Confidence float64    `json:"confidence"`
	Reasoning  string     `json:"reasoning,omitempty"`
	FlaggedAt  time.Time  `json:"flagged_at"`

	Reviewed    bool       `json:"reviewed"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy  string     `json:"reviewed_by,omitempty"`
	ReviewNotes string     `json:"review_notes,omitempty"`
}
