package domain

import "time"

// TurnTrace records the full lifecycle of one turn for observability.
// It is created at turn start, appended to throughout, and persisted at
// turn end.
type TurnTrace struct {
	SessionID  string `json:"session_id"`
	TurnNumber int    `json:"turn_number"`
	UserInput  string `json:"user_input"`

	StartedAt        time.Time  `json:"started_at"`
	PlanCompletedAt  *time.Time `json:"plan_completed_at,omitempty"`
	ToolsCompletedAt *time.Time `json:"tools_completed_at,omitempty"`
	ReplyCompletedAt *time.Time `json:"reply_completed_at,omitempty"`
	TotalDurationMs  int64      `json:"total_duration_ms"`

	State TurnState `json:"state"`

	PlanRaw        string       `json:"plan_raw,omitempty"`
	Plan           *IntentPlan  `json:"plan,omitempty"`
	PlanError      string       `json:"plan_error,omitempty"`
	ToolResults    []ToolResult `json:"tool_results,omitempty"`
	ToolErrors     []string     `json:"tool_errors,omitempty"`
	ComposerOutput string       `json:"composer_output,omitempty"`
	Assessment     *Assessment  `json:"assessment,omitempty"`
	FinalContent   string       `json:"final_content,omitempty"`

	Errors []string `json:"errors,omitempty"`
}

// SetState advances the turn state machine.
func (t *TurnTrace) SetState(s TurnState) { t.State = s }

// AddError appends an error message to the trace.
func (t *TurnTrace) AddError(msg string) { t.Errors = append(t.Errors, msg) }
