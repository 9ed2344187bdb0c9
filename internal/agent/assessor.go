package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/shopmate-io/orchestrator/internal/adapter/llm"
	"github.com/shopmate-io/orchestrator/internal/domain"
)

// Assessor scores the finished reply. A failed assessment never blocks
// delivery; it degrades to a fixed neutral score.
type Assessor struct {
	client llm.LLMClient
	model  string
}

// NewAssessor creates an assessor over the given client.
func NewAssessor(client llm.LLMClient, model string) *Assessor {
	return &Assessor{client: client, model: model}
}

// AssessInput carries the turn artifacts the assessor scores.
type AssessInput struct {
	UserMessage   string
	Reply         string
	Intent        domain.IntentType
	ToolsUsed     []string
	OrdersFound   int
	ProductsFound int
}

// Assess scores one turn.
func (a *Assessor) Assess(ctx context.Context, in AssessInput) *domain.Assessment {
	toolsUsed := "none"
	if len(in.ToolsUsed) > 0 {
		toolsUsed = strings.Join(in.ToolsUsed, ", ")
	}
	prompt := fmt.Sprintf(assessorPromptTemplate,
		in.UserMessage, in.Reply, in.Intent, toolsUsed, in.OrdersFound, in.ProductsFound)

	temp := 0.0
	resp, err := a.client.CreateChatCompletion(ctx, &llm.ChatCompletionRequest{
		Model:       a.model,
		Temperature: &temp,
		Messages: []llm.ChatMessage{
			{Role: "system", Content: prompt},
			{Role: "user", Content: "Assess the reply now."},
		},
		ResponseFormat: map[string]interface{}{"type": "json_object"},
	})
	if err != nil {
		log.Printf("WARN: [assessment] completion failed, using neutral defaults: %v", err)
		return domain.NeutralAssessment()
	}

	content, err := resp.Content()
	if err != nil {
		log.Printf("WARN: [assessment] empty response, using neutral defaults: %v", err)
		return domain.NeutralAssessment()
	}

	var out struct {
		ConfidenceScore   float64 `json:"confidence_score"`
		IsContextRelevant bool    `json:"is_context_relevant"`
		RequiresHuman     bool    `json:"requires_human"`
		FlaggingReason    string  `json:"flagging_reason"`
		Reasoning         string  `json:"reasoning"`
		WarningMessage    string  `json:"warning_message"`
	}
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		log.Printf("WARN: [assessment] unparseable response, using neutral defaults: %v", err)
		return domain.NeutralAssessment()
	}

	if out.ConfidenceScore < 0 {
		out.ConfidenceScore = 0
	}
	if out.ConfidenceScore > 1 {
		out.ConfidenceScore = 1
	}

	reason := domain.FlagReasonNone
	if out.FlaggingReason != "" && out.FlaggingReason != string(domain.FlagReasonNone) {
		reason = domain.NormalizeFlagReason(out.FlaggingReason)
	}
	if out.RequiresHuman && reason == domain.FlagReasonNone {
		reason = domain.FlagReasonPotentialError
	}

	return &domain.Assessment{
		ConfidenceScore:   out.ConfidenceScore,
		IsContextRelevant: out.IsContextRelevant,
		RequiresHuman:     out.RequiresHuman,
		FlaggingReason:    reason,
		Reasoning:         out.Reasoning,
		WarningMessage:    out.WarningMessage,
	}
}
