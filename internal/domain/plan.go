package domain

import "fmt"

// ToolParameters is the parameter bag the planner may fill for a tool
// call. Each tool only accepts a subset; the dispatcher filters the rest
// out before execution.
type ToolParameters struct {
	Query     string `json:"query,omitempty"`
	Store     string `json:"store,omitempty"`
	ProductID string `json:"product_id,omitempty"`
	OrderID   string `json:"order_id,omitempty"`
	Action    string `json:"action,omitempty"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
	UserID    string `json:"user_id,omitempty"`
}

// Map returns the non-empty parameters as a string map.
func (p ToolParameters) Map() map[string]string {
	m := make(map[string]string)
	set := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	set("query", p.Query)
	set("store", p.Store)
	set("product_id", p.ProductID)
	set("order_id", p.OrderID)
	set("action", p.Action)
	set("size", p.Size)
	set("color", p.Color)
	set("user_id", p.UserID)
	return m
}

// ToolCall is one planned tool invocation inside an IntentPlan.
type ToolCall struct {
	ToolName   ToolName       `json:"tool_name"`
	Parameters ToolParameters `json:"parameters"`
	Reasoning  string         `json:"reasoning,omitempty"`
}

// ContextUnderstanding carries the planner's reading of the conversation.
type ContextUnderstanding struct {
	ReferencedProduct *string `json:"referenced_product"`
	ReferencedOrder   *string `json:"referenced_order"`
	LanguageDetected  string  `json:"language_detected"`
	ConversationFlow  string  `json:"conversation_flow,omitempty"`
}

// SelfAssessment is the planner's own quality estimate for the plan.
type SelfAssessment struct {
	Confidence        float64    `json:"confidence"`
	FlaggingReason    FlagReason `json:"flagging_reason"`
	OrdersFound       int        `json:"orders_found"`
	ProductsFound     int        `json:"products_found"`
	ContextUsed       bool       `json:"context_used"`
	SuggestedFallback string     `json:"suggested_fallback,omitempty"`
}

// IntentPlan is the pass-1 output: intent, planned tool calls, and
// self-assessment. It is immutable once produced.
type IntentPlan struct {
	Intent               IntentType           `json:"intent"`
	ToolCalls            []ToolCall           `json:"tool_calls"`
	ContextUnderstanding ContextUnderstanding `json:"context_understanding"`
	RequiresConfirmation bool                 `json:"requires_confirmation"`
	Assessment           SelfAssessment       `json:"assessment"`
}

// requiredParams lists the parameters each tool needs before dispatch.
var requiredParams = map[ToolName][]string{
	ToolProductSearch:      {"query", "store"},
	ToolFAQSearch:          {"query", "store"},
	ToolVariantCheck:       {"product_id"},
	ToolProcessOrder:       {"order_id", "action", "store"},
	ToolListOrders:         {"store"},
	ToolFetchOrderLocation: {"order_id", "store"},
}

// Validate rejects plans that do not conform to the closed enums or the
// per-tool required parameters. Plans that request a destructive order
// action without the accompanying policy lookup are invalid.
func (p *IntentPlan) Validate() error {
	if !ValidIntent(p.Intent) {
		return fmt.Errorf("unknown intent %q", p.Intent)
	}
	if p.Assessment.Confidence < 0 || p.Assessment.Confidence > 1 {
		return fmt.Errorf("confidence %v out of range", p.Assessment.Confidence)
	}

	hasProcessOrder := false
	hasFAQSearch := false
	for _, tc := range p.ToolCalls {
		if !ValidToolName(tc.ToolName) {
			return fmt.Errorf("unknown tool %q", tc.ToolName)
		}
		params := tc.Parameters.Map()
		for _, req := range requiredParams[tc.ToolName] {
			if params[req] == "" {
				return fmt.Errorf("tool %s missing required parameter %q", tc.ToolName, req)
			}
		}
		switch tc.ToolName {
		case ToolProcessOrder:
			hasProcessOrder = true
		case ToolFAQSearch:
			hasFAQSearch = true
		}
	}

	if hasProcessOrder && !hasFAQSearch {
		return fmt.Errorf("process_order planned without faq_search policy lookup")
	}
	return nil
}

// ProcessOrderCall returns the planned process_order call, if any.
func (p *IntentPlan) ProcessOrderCall() *ToolCall {
	for i := range p.ToolCalls {
		if p.ToolCalls[i].ToolName == ToolProcessOrder {
			return &p.ToolCalls[i]
		}
	}
	return nil
}

// HasTool reports whether the plan includes a call to the named tool.
func (p *IntentPlan) HasTool(name ToolName) bool {
	for _, tc := range p.ToolCalls {
		if tc.ToolName == name {
			return true
		}
	}
	return false
}
