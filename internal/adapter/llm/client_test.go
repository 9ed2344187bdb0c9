package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClientCreateChatCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Fatalf("unexpected auth header: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","object":"chat.completion","created":1,"model":"gpt","choices":[{"index":0,"message":{"role":"assistant","content":"hi"},"finish_reason":"stop"}],"usage":{"prompt_tokens":1,"completion_tokens":2,"total_tokens":3}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk-test", time.Second)
	resp, err := client.CreateChatCompletion(context.Background(), &ChatCompletionRequest{
		Model: "gpt",
		Messages: []ChatMessage{
			{Role: "user", Content: "hello"},
		},
	})
	if err != nil {
		t.Fatalf("CreateChatCompletion failed: %v", err)
	}
	content, err := resp.Content()
	if err != nil {
		t.Fatalf("Content failed: %v", err)
	}
	if content != "hi" {
		t.Fatalf("unexpected content: %q", content)
	}
}

func TestClientCreateChatCompletionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"bad","type":"invalid_request_error"}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	_, err := client.CreateChatCompletion(context.Background(), &ChatCompletionRequest{
		Model:    "gpt",
		Messages: []ChatMessage{{Role: "user", Content: "hello"}},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "invalid_request_error") {
		t.Fatalf("expected error type in message, got %v", err)
	}
}

func TestMockClientStageShapes(t *testing.T) {
	mock := NewMockClient()
	ctx := context.Background()

	plan, err := mock.CreateChatCompletion(ctx, &ChatCompletionRequest{
		Model:    "gpt",
		Messages: []ChatMessage{{Role: "system", Content: "You are the intent planner for ..."}},
	})
	if err != nil {
		t.Fatalf("mock plan failed: %v", err)
	}
	content, _ := plan.Content()
	if !strings.Contains(content, `"intent"`) {
		t.Fatalf("mock planner output missing intent: %q", content)
	}

	validation, err := mock.CreateChatCompletion(ctx, &ChatCompletionRequest{
		Model:    "gpt",
		Messages: []ChatMessage{{Role: "system", Content: "must start with VALIDATION:ALLOWED or VALIDATION:DENIED"}},
	})
	if err != nil {
		t.Fatalf("mock validation failed: %v", err)
	}
	content, _ = validation.Content()
	if !strings.HasPrefix(content, "VALIDATION:") {
		t.Fatalf("mock validation output missing marker: %q", content)
	}
}
