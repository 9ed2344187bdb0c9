package agent

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopmate-io/orchestrator/internal/adapter/llm"
	"github.com/shopmate-io/orchestrator/internal/domain"
	"github.com/shopmate-io/orchestrator/internal/policy"
)

// Composer runs pass 2: turning tool results into the customer-facing
// reply. In validation mode it only phrases a policy decision that has
// already been made.
type Composer struct {
	client llm.LLMClient
	model  string
}

// NewComposer creates a composer over the given client.
func NewComposer(client llm.LLMClient, model string) *Composer {
	return &Composer{client: client, model: model}
}

// ComposeInput carries everything pass 2 needs for a normal reply.
type ComposeInput struct {
	UserMessage string
	Intent      domain.IntentType
	Language    string
	Context     *domain.ConversationContext
	Results     []domain.ToolResult
	Tracking    *domain.Tracking
}

// Compose generates the reply for a normal turn.
func (c *Composer) Compose(ctx context.Context, in ComposeInput) (string, error) {
	prompt := fmt.Sprintf(composerPromptTemplate,
		in.Context.Store,
		in.Context.UserName,
		languageName(in.Language),
		in.UserMessage,
		in.Intent,
		toolResultsSummary(in.Results),
		trackingGuidance(in.Tracking),
		extractPolicyContext(in.Results),
		BuildContextSummary(in.Context),
	)

	resp, err := c.client.CreateChatCompletion(ctx, &llm.ChatCompletionRequest{
		Model: c.model,
		Messages: []llm.ChatMessage{
			{Role: "system", Content: prompt},
			{Role: "user", Content: "Generate your response now."},
		},
	})
	if err != nil {
		return "", fmt.Errorf("composer completion failed: %w", err)
	}

	content, err := resp.Content()
	if err != nil {
		return "", fmt.Errorf("composer returned empty response: %w", err)
	}

	log.Printf("INFO: [pass2] response generated (%d chars)", len(content))
	return strings.TrimSpace(content), nil
}

// ValidationInput carries the facts behind one policy decision.
type ValidationInput struct {
	Action      string
	OrderID     string
	OrderStatus string
	CreatedAt   string
	DaysElapsed int
	DaysKnown   bool
	WindowDays  int
	Policy      string
}

// ExplainVerdict phrases a policy engine verdict for the customer. The
// verdict itself is final; a model response that contradicts it or drops
// the expected marker is discarded in favor of a templated explanation.
func (c *Composer) ExplainVerdict(ctx context.Context, in ValidationInput, verdict *policy.Verdict) string {
	decision := "DENIED"
	if verdict.Allowed {
		decision = "ALLOWED"
	}
	days := "Unable to calculate"
	if in.DaysKnown {
		days = fmt.Sprintf("%d", in.DaysElapsed)
	}

	prompt := fmt.Sprintf(validationPromptTemplate,
		time.Now().UTC().Format("2006-01-02"),
		in.CreatedAt,
		days,
		in.Action, in.OrderID,
		in.OrderStatus,
		decision, verdict.Reason,
		in.Policy,
		in.Action, in.OrderID,
		in.Action,
	)

	resp, err := c.client.CreateChatCompletion(ctx, &llm.ChatCompletionRequest{
		Model: c.model,
		Messages: []llm.ChatMessage{
			{Role: "system", Content: prompt},
			{Role: "user", Content: "Generate your validation response now."},
		},
	})
	if err != nil {
		log.Printf("WARN: [policy] explanation failed, using template: %v", err)
		return fallbackExplanation(in, verdict)
	}

	content, err := resp.Content()
	if err != nil {
		log.Printf("WARN: [policy] empty explanation, using template: %v", err)
		return fallbackExplanation(in, verdict)
	}
	content = strings.TrimSpace(content)

	switch {
	case verdict.Allowed && strings.HasPrefix(content, "VALIDATION:ALLOWED"):
		return strings.TrimSpace(strings.TrimPrefix(content, "VALIDATION:ALLOWED"))
	case !verdict.Allowed && strings.HasPrefix(content, "VALIDATION:DENIED"):
		return strings.TrimSpace(strings.TrimPrefix(content, "VALIDATION:DENIED"))
	}

	log.Printf("WARN: [policy] explanation contradicts engine verdict %s, using template", decision)
	return fallbackExplanation(in, verdict)
}

// fallbackExplanation produces the templated wording for a verdict when
// the model cannot be trusted to phrase it.
func fallbackExplanation(in ValidationInput, verdict *policy.Verdict) string {
	if verdict.Allowed {
		return fmt.Sprintf("I have the %s request for order %s ready. Please select Confirm to proceed or Cancel to keep your order as-is.",
			in.Action, in.OrderID)
	}

	switch verdict.Reason {
	case "not_created":
		return fmt.Sprintf("I understand you want to cancel order %s. However, orders can only be cancelled before they ship, and this order is already %s.",
			in.OrderID, in.OrderStatus)
	case "not_delivered":
		return fmt.Sprintf("I understand you want to return order %s. However, returns are only accepted after you receive your order, and this order is currently %s.",
			in.OrderID, in.OrderStatus)
	case "window_exceeded":
		return fmt.Sprintf("I understand you want to return order %s. However, returns are accepted within %d days, and it has been %d days since your order.",
			in.OrderID, in.WindowDays, in.DaysElapsed)
	}
	return fmt.Sprintf("I understand you want to %s order %s. However, our store policy does not allow this action for the order in its current state.",
		in.Action, in.OrderID)
}

// toolResultsSummary builds the per-result digest for the composer
// prompt.
func toolResultsSummary(results []domain.ToolResult) string {
	if len(results) == 0 {
		return "No tools were executed."
	}

	var parts []string
	for _, r := range results {
		if !r.Success {
			parts = append(parts, fmt.Sprintf("FAILED %s: %s", r.ToolName, r.Error))
			continue
		}
		parts = append(parts, fmt.Sprintf("OK %s: %s", r.ToolName, summarizeToolData(r)))
	}
	return strings.Join(parts, "\n")
}

func summarizeToolData(r domain.ToolResult) string {
	switch r.ToolName {
	case domain.ToolProductSearch:
		if products := r.Products(); products != nil {
			return fmt.Sprintf("Found %d product(s)", len(products))
		}
		return "No products found"
	case domain.ToolListOrders:
		if orders := r.Orders(); orders != nil {
			return fmt.Sprintf("Found %d order(s)", len(orders))
		}
		return "No orders found"
	case domain.ToolFetchOrderLocation:
		if t := r.Tracking(); t != nil {
			return fmt.Sprintf("Tracking data retrieved (status: %s)", t.Status)
		}
		return "Tracking data not available"
	case domain.ToolFAQSearch:
		if entries := r.FAQEntries(); entries != nil {
			return fmt.Sprintf("Found %d FAQ result(s): %s", len(entries), string(r.Data))
		}
		return "No FAQ results"
	case domain.ToolVariantCheck:
		return fmt.Sprintf("Variant check completed: %s", string(r.Data))
	}
	return "Completed"
}

// trackingGuidance turns a tracking snapshot into a one-line hint for
// the composer.
func trackingGuidance(t *domain.Tracking) string {
	if t == nil {
		return ""
	}
	switch strings.ToLower(t.Status) {
	case "created":
		return "\n**TRACKING:** The order is still being prepared and hasn't shipped yet.\n"
	case "shipped":
		return "\n**TRACKING:** The order is in transit and tracking information is available.\n"
	case "delivered":
		return "\n**TRACKING:** The order has been delivered to the destination.\n"
	}
	return ""
}

// extractPolicyContext pulls the raw policy text out of a faq_search
// result. The store returns every policy chunk; the composer is told to
// extract only what applies.
func extractPolicyContext(results []domain.ToolResult) string {
	for _, r := range results {
		entries := r.FAQEntries()
		if len(entries) == 0 {
			continue
		}
		var texts []string
		for _, e := range entries {
			texts = append(texts, e.Content)
		}
		return strings.Join(texts, "\n\n")
	}
	return ""
}
