package http

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopmate-io/orchestrator/internal/adapter/llm"
	"github.com/shopmate-io/orchestrator/internal/agent"
	"github.com/shopmate-io/orchestrator/internal/policy"
	"github.com/shopmate-io/orchestrator/internal/store"
	"github.com/shopmate-io/orchestrator/internal/tools"
)

// cannedClient answers every stage with a fixed script good enough for
// a simple greeting turn.
type cannedClient struct{}

func (cannedClient) CreateChatCompletion(ctx context.Context, req *llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	var system string
	for _, m := range req.Messages {
		if m.Role == "system" {
			system = m.Content
			break
		}
	}

	content := "Hello! How can I help you today?"
	switch {
	case strings.Contains(system, "intent planner"):
		content = `{"intent":"greeting","tool_calls":[],"context_understanding":{"referenced_product":null,"referenced_order":null,"language_detected":"en"},"requires_confirmation":false,"assessment":{"confidence":0.95,"flagging_reason":"none"}}`
	case strings.Contains(system, "quality assessor"):
		content = `{"confidence_score":0.9,"is_context_relevant":true,"requires_human":false,"flagging_reason":"none","reasoning":"ok"}`
	}

	return &llm.ChatCompletionResponse{
		Choices: []llm.Choice{{Message: &llm.ChatMessage{Role: "assistant", Content: content}}},
	}, nil
}

func newTestHandler(t *testing.T) (*Handler, *store.SQLiteStore) {
	t.Helper()
	st, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("failed to create policy engine: %v", err)
	}

	orch := agent.New(st, cannedClient{}, "test-model", tools.NewBuiltinRegistry(st), engine, agent.Config{
		PendingActionTTL:    5 * time.Minute,
		ReturnWindowDays:    30,
		LockFlagThreshold:   2,
		ReviewFlagThreshold: 3,
	})
	return NewHandler(orch, st), st
}
