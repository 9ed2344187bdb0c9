package agent

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/shopmate-io/orchestrator/internal/adapter/llm"
	"github.com/shopmate-io/orchestrator/internal/domain"
)

// capturingClient records the last system prompt it was asked to answer.
type capturingClient struct {
	system  string
	content string
	err     error
}

func (c *capturingClient) CreateChatCompletion(ctx context.Context, req *llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	for _, m := range req.Messages {
		if m.Role == "system" {
			c.system = m.Content
			break
		}
	}
	if c.err != nil {
		return nil, c.err
	}
	return &llm.ChatCompletionResponse{
		Choices: []llm.Choice{{Message: &llm.ChatMessage{Role: "assistant", Content: c.content}}},
	}, nil
}

func TestAssessPromptCarriesToolsUsed(t *testing.T) {
	client := &capturingClient{content: assessClean}
	a := NewAssessor(client, "test-model")

	a.Assess(context.Background(), AssessInput{
		UserMessage: "cancel my order",
		Reply:       "Done.",
		Intent:      domain.IntentOrderModification,
		ToolsUsed:   []string{"faq_search", "process_order"},
		OrdersFound: 1,
	})
	if !strings.Contains(client.system, "**TOOLS USED:** faq_search, process_order") {
		t.Fatalf("prompt missing tools used:\n%s", client.system)
	}

	a.Assess(context.Background(), AssessInput{
		UserMessage: "hello",
		Reply:       "Hi!",
		Intent:      domain.IntentGreeting,
	})
	if !strings.Contains(client.system, "**TOOLS USED:** none") {
		t.Fatalf("prompt missing empty tools marker:\n%s", client.system)
	}
}

func TestAssessFailureUsesNeutralDefaults(t *testing.T) {
	client := &capturingClient{err: fmt.Errorf("model unavailable")}
	a := NewAssessor(client, "test-model")

	got := a.Assess(context.Background(), AssessInput{UserMessage: "hello", Reply: "Hi!"})
	want := domain.NeutralAssessment()
	if got.ConfidenceScore != want.ConfidenceScore || got.RequiresHuman || got.FlaggingReason != domain.FlagReasonNone {
		t.Fatalf("expected neutral assessment, got %+v", got)
	}
}
