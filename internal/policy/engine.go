// Package policy evaluates order-action rules with OPA.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Input is the fact set for one order-action decision. DaysKnown is
// false when the order's creation time could not be parsed; the rules
// then fall back to status-only checks.
type Input struct {
	Action      string `json:"action"`
	Status      string `json:"status"`
	DaysKnown   bool   `json:"days_known"`
	DaysElapsed int    `json:"days_elapsed"`
	WindowDays  int    `json:"window_days"`
}

// Verdict is the engine's decision. The engine is authoritative for
// whether an action proceeds; downstream text generation only explains
// the outcome.
type Verdict struct {
	Allowed bool
	Reason  string
}

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.order_policy.decision"),
		rego.Module("order_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate checks the order policy for one action. Anything the rules
// do not explicitly allow is denied.
func (e *Engine) Evaluate(ctx context.Context, in Input) (*Verdict, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(in))
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return &Verdict{Allowed: false, Reason: "no_decision"}, nil
	}

	obj, ok := results[0].Expressions[0].Value.(map[string]interface{})
	if !ok {
		return &Verdict{Allowed: false, Reason: "malformed_decision"}, nil
	}

	v := &Verdict{}
	if allow, ok := obj["allow"].(bool); ok {
		v.Allowed = allow
	}
	if reason, ok := obj["reason"].(string); ok {
		v.Reason = reason
	}
	return v, nil
}

// DefaultPolicy is the default order policy content. Cancellation is
// allowed only before the order ships; returns only after delivery and
// within the return window, with the boundary day itself still allowed.
const DefaultPolicy = `
package order_policy

import rego.v1

default decision := {"allow": false, "reason": "not_permitted"}

decision := {"allow": true, "reason": "cancellable"} if {
	input.action == "cancel"
	input.status == "created"
}

decision := {"allow": false, "reason": "not_created"} if {
	input.action == "cancel"
	input.status != "created"
}

decision := {"allow": true, "reason": "within_window"} if {
	input.action == "return"
	input.status == "delivered"
	input.days_known
	input.days_elapsed <= input.window_days
}

decision := {"allow": false, "reason": "window_exceeded"} if {
	input.action == "return"
	input.status == "delivered"
	input.days_known
	input.days_elapsed > input.window_days
}

decision := {"allow": true, "reason": "delivered"} if {
	input.action == "return"
	input.status == "delivered"
	not input.days_known
}

decision := {"allow": false, "reason": "not_delivered"} if {
	input.action == "return"
	input.status != "delivered"
}
`
