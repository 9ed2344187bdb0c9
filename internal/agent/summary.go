// Package agent implements the two-pass turn pipeline: intent planning,
// tool execution, response composition, and assessment.
package agent

import (
	"fmt"
	"strings"

	"github.com/shopmate-io/orchestrator/internal/domain"
)

// BuildContextSummary renders a conversation context as a short bullet
// list for prompt building. The output is deterministic for a given
// context.
func BuildContextSummary(c *domain.ConversationContext) string {
	var parts []string

	if n := len(c.RecentProducts); n > 0 {
		parts = append(parts, fmt.Sprintf("Recently discussed %d product(s)", n))
	}
	if c.CurrentOrder != nil {
		parts = append(parts, fmt.Sprintf("Currently selected order: %s (status: %s)",
			c.CurrentOrder.OrderID, c.CurrentOrder.Status))
	}
	if c.LastIntent != "" {
		parts = append(parts, fmt.Sprintf("Previous intent: %s", c.LastIntent))
	}
	if n := len(c.LastToolCalls); n > 0 {
		recent := c.LastToolCalls
		if n > 3 {
			recent = recent[n-3:]
		}
		parts = append(parts, fmt.Sprintf("Recent tools used: %s", strings.Join(recent, ", ")))
	}
	if c.DetectedLanguage != "" && c.DetectedLanguage != "en" {
		parts = append(parts, fmt.Sprintf("User language: %s", c.DetectedLanguage))
	}
	if c.PendingConfirmation != nil {
		parts = append(parts, fmt.Sprintf("Pending confirmation: %s", c.PendingConfirmation.ActionType))
	}

	if len(parts) == 0 {
		return "No prior context in this conversation."
	}

	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- ")
		b.WriteString(p)
	}
	return b.String()
}
