package agent

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopmate-io/orchestrator/internal/adapter/llm"
	"github.com/shopmate-io/orchestrator/internal/domain"
	"github.com/shopmate-io/orchestrator/internal/policy"
	"github.com/shopmate-io/orchestrator/internal/store"
	"github.com/shopmate-io/orchestrator/internal/tools"
)

// scriptedClient plays back fixed responses per pipeline stage, keyed on
// the stage markers in the system prompt.
type scriptedClient struct {
	planJSON  string
	validate  string
	compose   string
	assess    string
	planCalls int
}

func (s *scriptedClient) CreateChatCompletion(ctx context.Context, req *llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	var system string
	for _, m := range req.Messages {
		if m.Role == "system" {
			system = m.Content
			break
		}
	}

	var content string
	switch {
	case strings.Contains(system, "intent planner"):
		s.planCalls++
		content = s.planJSON
	case strings.Contains(system, "VALIDATION:ALLOWED"):
		content = s.validate
	case strings.Contains(system, "quality assessor"):
		content = s.assess
	default:
		content = s.compose
	}

	return &llm.ChatCompletionResponse{
		Choices: []llm.Choice{{Message: &llm.ChatMessage{Role: "assistant", Content: content}}},
	}, nil
}

const (
	assessClean = `{"confidence_score":0.92,"is_context_relevant":true,"requires_human":false,"flagging_reason":"none","reasoning":"ok"}`
	assessAbuse = `{"confidence_score":0.2,"is_context_relevant":true,"requires_human":true,"flagging_reason":"abusive_language","reasoning":"abusive message"}`
	greetPlan   = `{"intent":"greeting","tool_calls":[],"context_understanding":{"referenced_product":null,"referenced_order":null,"language_detected":"en"},"requires_confirmation":false,"assessment":{"confidence":0.95,"flagging_reason":"none"}}`
)

func destructivePlan(orderID, action string) string {
	return fmt.Sprintf(`{
		"intent": "order_modification",
		"tool_calls": [
			{"tool_name": "faq_search", "parameters": {"query": "%s policy", "store": "aurora"}},
			{"tool_name": "process_order", "parameters": {"order_id": "%s", "action": "%s", "store": "aurora"}}
		],
		"context_understanding": {"referenced_product": null, "referenced_order": "%s", "language_detected": "en"},
		"requires_confirmation": true,
		"assessment": {"confidence": 0.9, "flagging_reason": "none"}
	}`, action, orderID, action, orderID)
}

func newTestOrchestrator(t *testing.T, client llm.LLMClient) (*Orchestrator, *store.SQLiteStore) {
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

	orch := New(st, client, "test-model", tools.NewBuiltinRegistry(st), engine, Config{
		PendingActionTTL:    5 * time.Minute,
		ReturnWindowDays:    30,
		LockFlagThreshold:   2,
		ReviewFlagThreshold: 3,
	})
	return orch, st
}

func seedOrder(t *testing.T, st *store.SQLiteStore, orderID string, status domain.OrderStatus, createdAt time.Time) {
	t.Helper()
	err := st.CreateOrder(context.Background(), &domain.Order{
		OrderID:   orderID,
		UserID:    "u1",
		Store:     "aurora",
		Status:    status,
		CreatedAt: createdAt,
	})
	if err != nil {
		t.Fatalf("failed to seed order: %v", err)
	}
}

func seedPolicy(t *testing.T, st *store.SQLiteStore) {
	t.Helper()
	err := st.CreateFAQEntry(context.Background(), &domain.FAQEntry{
		ID:      "faq1",
		Store:   "aurora",
		Content: "Returns accepted within 30 days of delivery. Orders cannot be cancelled after they ship.",
	})
	if err != nil {
		t.Fatalf("failed to seed policy: %v", err)
	}
}

func TestCancelConfirmationFlow(t *testing.T) {
	ctx := context.Background()
	created := time.Now().UTC()
	client := &scriptedClient{
		planJSON: destructivePlan("o1", "cancel"),
		validate: "VALIDATION:ALLOWED\nI have the cancel request for order o1 ready. Please select Confirm to proceed or Cancel to keep your order as-is.",
		assess:   assessClean,
	}
	orch, st := newTestOrchestrator(t, client)
	seedOrder(t, st, "o1", domain.OrderStatusCreated, created)
	seedPolicy(t, st)

	req := &domain.ChatRequest{
		Message: "I want to cancel my order",
		Store:   "aurora",
		UserID:  "u1",
		SelectedOrder: &domain.OrderRef{
			OrderID:   "o1",
			Status:    "created",
			CreatedAt: created.Format(time.RFC3339),
		},
	}

	resp, err := orch.ExecuteTurn(ctx, "s1", req)
	if err != nil {
		t.Fatalf("ExecuteTurn failed: %v", err)
	}
	if resp.PendingAction == nil {
		t.Fatalf("expected a staged pending action, got %+v", resp)
	}
	if !strings.Contains(resp.Content, "cancel request for order o1") {
		t.Fatalf("unexpected content: %q", resp.Content)
	}

	// Staging must not touch the order.
	order, _ := st.GetOrder(ctx, "aurora", "o1")
	if order.Status != domain.OrderStatusCreated {
		t.Fatalf("order mutated during staging: %s", order.Status)
	}

	// Confirming executes exactly once.
	confirm := &domain.ChatRequest{
		Store:           "aurora",
		UserID:          "u1",
		ConfirmActionID: resp.PendingAction.ActionID,
	}
	resp2, err := orch.ExecuteTurn(ctx, "s1", confirm)
	if err != nil {
		t.Fatalf("confirmation turn failed: %v", err)
	}
	if !strings.Contains(resp2.Content, "processed successfully") {
		t.Fatalf("unexpected confirmation reply: %q", resp2.Content)
	}
	if resp2.ConfidenceScore != 1.0 {
		t.Fatalf("expected confidence 1.0, got %v", resp2.ConfidenceScore)
	}
	order, _ = st.GetOrder(ctx, "aurora", "o1")
	if order.Status != domain.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", order.Status)
	}

	// A second confirm of the same id finds nothing.
	resp3, err := orch.ExecuteTurn(ctx, "s1", confirm)
	if err != nil {
		t.Fatalf("replay turn failed: %v", err)
	}
	if resp3.Content != expiredConfirm {
		t.Fatalf("expected expired-confirmation reply, got %q", resp3.Content)
	}
	order, _ = st.GetOrder(ctx, "aurora", "o1")
	if order.Status != domain.OrderStatusCancelled {
		t.Fatalf("replay mutated the order: %s", order.Status)
	}
}

func TestConfirmationFailureHidesInternalError(t *testing.T) {
	ctx := context.Background()
	client := &scriptedClient{planJSON: greetPlan, assess: assessClean}
	orch, st := newTestOrchestrator(t, client)

	// A staged action whose order no longer exists fails at execution.
	pending := &domain.PendingAction{
		ActionID:   "a1",
		ActionType: domain.ToolProcessOrder,
		Parameters: map[string]string{"order_id": "ghost-42", "action": "cancel", "store": "aurora"},
		CreatedAt:  time.Now().UTC(),
		ExpiresAt:  time.Now().UTC().Add(5 * time.Minute),
	}
	if err := st.CreatePendingAction(ctx, pending); err != nil {
		t.Fatalf("CreatePendingAction failed: %v", err)
	}

	resp, err := orch.ExecuteTurn(ctx, "s1", &domain.ChatRequest{
		Store:           "aurora",
		UserID:          "u1",
		ConfirmActionID: "a1",
	})
	if err != nil {
		t.Fatalf("ExecuteTurn failed: %v", err)
	}
	if resp.Content != genericErrorReply {
		t.Fatalf("expected the generic error reply, got %q", resp.Content)
	}
	if strings.Contains(resp.Content, "ghost-42") || strings.Contains(resp.Content, "not found") {
		t.Fatalf("internal error text leaked into the reply: %q", resp.Content)
	}
	if !resp.RequiresHuman || resp.ConfidenceScore != 0 {
		t.Fatalf("expected flagged zero-confidence response, got %+v", resp)
	}
}

func TestReturnDeniedByPolicy(t *testing.T) {
	ctx := context.Background()
	client := &scriptedClient{
		planJSON: destructivePlan("o2", "return"),
		validate: "VALIDATION:DENIED\nI understand you want to return this order. However, returns are only accepted after you receive your order.",
		assess:   assessClean,
	}
	orch, st := newTestOrchestrator(t, client)
	seedOrder(t, st, "o2", domain.OrderStatusShipped, time.Now().UTC())
	seedPolicy(t, st)

	req := &domain.ChatRequest{
		Message: "I want to return my order",
		Store:   "aurora",
		UserID:  "u1",
		SelectedOrder: &domain.OrderRef{
			OrderID:   "o2",
			Status:    "shipped",
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}

	resp, err := orch.ExecuteTurn(ctx, "s1", req)
	if err != nil {
		t.Fatalf("ExecuteTurn failed: %v", err)
	}
	if resp.PendingAction != nil {
		t.Fatalf("denied action must not be staged: %+v", resp.PendingAction)
	}
	if !strings.Contains(resp.Content, "returns are only accepted") {
		t.Fatalf("unexpected content: %q", resp.Content)
	}

	order, _ := st.GetOrder(ctx, "aurora", "o2")
	if order.Status != domain.OrderStatusShipped {
		t.Fatalf("denied action mutated the order: %s", order.Status)
	}
}

func TestReturnPastWindowUsesTemplate(t *testing.T) {
	ctx := context.Background()
	// The model claims ALLOWED for a clearly expired return; the engine
	// verdict wins and the reply falls back to the template.
	client := &scriptedClient{
		planJSON: destructivePlan("o3", "return"),
		validate: "VALIDATION:ALLOWED\nSure, returning it now!",
		assess:   assessClean,
	}
	orch, st := newTestOrchestrator(t, client)
	created := time.Now().UTC().Add(-45 * 24 * time.Hour)
	seedOrder(t, st, "o3", domain.OrderStatusDelivered, created)
	seedPolicy(t, st)

	req := &domain.ChatRequest{
		Message: "return this order please",
		Store:   "aurora",
		UserID:  "u1",
		SelectedOrder: &domain.OrderRef{
			OrderID:   "o3",
			Status:    "delivered",
			CreatedAt: created.Format(time.RFC3339),
		},
	}

	resp, err := orch.ExecuteTurn(ctx, "s1", req)
	if err != nil {
		t.Fatalf("ExecuteTurn failed: %v", err)
	}
	if resp.PendingAction != nil {
		t.Fatal("expired return must not be staged")
	}
	if !strings.Contains(resp.Content, "returns are accepted within 30 days") {
		t.Fatalf("expected templated denial, got %q", resp.Content)
	}
}

func TestPlannerFailureFallsBack(t *testing.T) {
	ctx := context.Background()
	client := &scriptedClient{
		planJSON: "this is not json",
		assess:   assessClean,
	}
	orch, st := newTestOrchestrator(t, client)

	resp, err := orch.ExecuteTurn(ctx, "s1", &domain.ChatRequest{
		Message: "asdfghjkl",
		Store:   "aurora",
		UserID:  "u1",
	})
	if err != nil {
		t.Fatalf("ExecuteTurn failed: %v", err)
	}
	if resp.Content != fallbackReply {
		t.Fatalf("expected fallback reply, got %q", resp.Content)
	}
	if !resp.RequiresHuman || resp.ConfidenceScore != 0 {
		t.Fatalf("expected flagged zero-confidence response, got %+v", resp)
	}
	if len(resp.Products) != 0 || len(resp.Orders) != 0 {
		t.Fatal("no tools may run on a failed plan")
	}

	count, err := st.CountSessionFlags(ctx, "s1", domain.FlagClassTechnical)
	if err != nil {
		t.Fatalf("CountSessionFlags failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 technical flag, got %d", count)
	}
}

func TestPolicyFlagsLockSession(t *testing.T) {
	ctx := context.Background()
	client := &scriptedClient{
		planJSON: greetPlan,
		compose:  "Hello! How can I help you today?",
		assess:   assessAbuse,
	}
	orch, st := newTestOrchestrator(t, client)

	req := &domain.ChatRequest{Message: "you are useless", Store: "aurora", UserID: "u1"}

	resp1, err := orch.ExecuteTurn(ctx, "s1", req)
	if err != nil {
		t.Fatalf("turn 1 failed: %v", err)
	}
	if resp1.SessionLocked {
		t.Fatal("one policy flag must not lock the session")
	}

	resp2, err := orch.ExecuteTurn(ctx, "s1", req)
	if err != nil {
		t.Fatalf("turn 2 failed: %v", err)
	}
	if !resp2.SessionLocked {
		t.Fatal("second policy flag should lock the session")
	}

	locked, _ := st.IsSessionLocked(ctx, "s1")
	if !locked {
		t.Fatal("lock not persisted")
	}

	// A locked session short-circuits before planning.
	callsBefore := client.planCalls
	resp3, err := orch.ExecuteTurn(ctx, "s1", req)
	if err != nil {
		t.Fatalf("turn 3 failed: %v", err)
	}
	if resp3.Content != lockedReply || !resp3.SessionLocked {
		t.Fatalf("expected locked reply, got %+v", resp3)
	}
	if client.planCalls != callsBefore {
		t.Fatal("planner must not run for a locked session")
	}

	// Other sessions are unaffected.
	resp4, err := orch.ExecuteTurn(ctx, "s2", req)
	if err != nil {
		t.Fatalf("other-session turn failed: %v", err)
	}
	if resp4.Content == lockedReply {
		t.Fatal("lock leaked across sessions")
	}
}

func TestGreetingTurn(t *testing.T) {
	ctx := context.Background()
	client := &scriptedClient{
		planJSON: greetPlan,
		compose:  "Hi there! Welcome to Aurora Style.",
		assess:   assessClean,
	}
	orch, st := newTestOrchestrator(t, client)

	resp, err := orch.ExecuteTurn(ctx, "s1", &domain.ChatRequest{
		Message: "hello",
		Store:   "aurora",
		UserID:  "u1",
	})
	if err != nil {
		t.Fatalf("ExecuteTurn failed: %v", err)
	}
	if resp.Content != "Hi there! Welcome to Aurora Style." {
		t.Fatalf("unexpected content: %q", resp.Content)
	}
	if resp.RequiresHuman {
		t.Fatal("clean turn must not require a human")
	}

	convo, err := st.GetContext(ctx, "s1")
	if err != nil {
		t.Fatalf("GetContext failed: %v", err)
	}
	if convo == nil || convo.LastIntent != domain.IntentGreeting {
		t.Fatalf("context not updated: %+v", convo)
	}
}
