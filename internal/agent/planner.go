package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/shopmate-io/orchestrator/internal/adapter/llm"
	"github.com/shopmate-io/orchestrator/internal/domain"
)

// Planner runs pass 1: one schema-constrained completion that produces
// the turn's intent plan. There are no retries; a bad plan falls back to
// a canned reply upstream.
type Planner struct {
	client llm.LLMClient
	model  string
}

// NewPlanner creates a planner over the given client.
func NewPlanner(client llm.LLMClient, model string) *Planner {
	return &Planner{client: client, model: model}
}

// Plan produces the intent plan for one user message. The raw model
// output is returned alongside for tracing, including when parsing or
// validation fails.
func (p *Planner) Plan(ctx context.Context, req *domain.ChatRequest, convo *domain.ConversationContext) (*domain.IntentPlan, string, error) {
	selectedLine := ""
	if req.SelectedOrder != nil {
		selectedLine = fmt.Sprintf("\n**SELECTED ORDER:** %s (status: %s, created: %s)\n",
			req.SelectedOrder.OrderID, req.SelectedOrder.Status, req.SelectedOrder.CreatedAt)
	}

	prompt := fmt.Sprintf(plannerPromptTemplate,
		req.Store,
		BuildContextSummary(convo),
		selectedLine,
		req.Message,
		req.Store,
	)

	temp := 0.0
	resp, err := p.client.CreateChatCompletion(ctx, &llm.ChatCompletionRequest{
		Model:       p.model,
		Temperature: &temp,
		Messages: []llm.ChatMessage{
			{Role: "system", Content: prompt},
			{Role: "user", Content: req.Message},
		},
		ResponseFormat: map[string]interface{}{"type": "json_object"},
	})
	if err != nil {
		return nil, "", fmt.Errorf("planner completion failed: %w", err)
	}

	raw, err := resp.Content()
	if err != nil {
		return nil, "", fmt.Errorf("planner returned empty response: %w", err)
	}

	var plan domain.IntentPlan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return nil, raw, fmt.Errorf("failed to parse plan: %w", err)
	}
	plan.Assessment.FlaggingReason = domain.NormalizeFlagReason(string(plan.Assessment.FlaggingReason))

	if err := plan.Validate(); err != nil {
		return nil, raw, fmt.Errorf("invalid plan: %w", err)
	}

	log.Printf("INFO: [pass1] intent=%s tools=%d confidence=%.2f",
		plan.Intent, len(plan.ToolCalls), plan.Assessment.Confidence)

	return &plan, raw, nil
}
