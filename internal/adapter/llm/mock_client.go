package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// MockClient is an offline implementation of LLMClient. It keys on
// markers in the system prompt so each pipeline stage receives output
// of the right shape without a live model.
type MockClient struct{}

// NewMockClient creates a new mock LLM client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Ensure MockClient implements LLMClient interface.
var _ LLMClient = (*MockClient)(nil)

// CreateChatCompletion returns a mock response.
func (m *MockClient) CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	content := m.generateMockResponse(req)

	return &ChatCompletionResponse{
		ID:      fmt.Sprintf("mock-chatcmpl-%d", time.Now().UnixNano()),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []Choice{
			{
				Index: 0,
				Message: &ChatMessage{
					Role:    "assistant",
					Content: content,
				},
				FinishReason: "stop",
			},
		},
		Usage: &Usage{
			PromptTokens:     m.estimateTokens(req),
			CompletionTokens: len(content) / 4,
			TotalTokens:      m.estimateTokens(req) + len(content)/4,
		},
	}, nil
}

func (m *MockClient) generateMockResponse(req *ChatCompletionRequest) string {
	var system string
	for _, msg := range req.Messages {
		if msg.Role == "system" {
			system = msg.Content
			break
		}
	}

	switch {
	case strings.Contains(system, "intent planner"):
		return `{
  "intent": "general_inquiry",
  "tool_calls": [],
  "context_understanding": {
    "referenced_product": null,
    "referenced_order": null,
    "language_detected": "en",
    "conversation_flow": "new_topic"
  },
  "requires_confirmation": false,
  "assessment": {
    "confidence": 0.9,
    "flagging_reason": "none",
    "orders_found": 0,
    "products_found": 0,
    "context_used": false
  }
}`
	case strings.Contains(system, "VALIDATION:ALLOWED"):
		return "VALIDATION:ALLOWED\nI have the request ready. Please select Confirm to proceed or Cancel to keep your order as-is."
	case strings.Contains(system, "quality assessor"):
		return `{
  "confidence_score": 0.9,
  "is_context_relevant": true,
  "requires_human": false,
  "flagging_reason": "none",
  "reasoning": "mock assessment"
}`
	default:
		return "[MOCK] Thanks for your message! How can I help you today?"
	}
}

// estimateTokens provides a rough token count estimate.
func (m *MockClient) estimateTokens(req *ChatCompletionRequest) int {
	total := 0
	for _, msg := range req.Messages {
		total += len(msg.Content) / 4
	}
	return total
}
