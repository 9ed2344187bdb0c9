package tools

import "github.com/shopmate-io/orchestrator/internal/domain"

// allowedParams lists the parameters each tool accepts. Anything the
// planner emits outside this list is dropped before execution.
var allowedParams = map[domain.ToolName][]string{
	domain.ToolProductSearch:      {"query", "store"},
	domain.ToolFAQSearch:          {"query", "store"},
	domain.ToolVariantCheck:       {"product_id", "size", "color"},
	domain.ToolProcessOrder:       {"order_id", "action", "store"},
	domain.ToolListOrders:         {"store", "user_id"},
	domain.ToolFetchOrderLocation: {"order_id", "store"},
}

// FilterParams returns only the parameters the named tool accepts.
func FilterParams(name domain.ToolName, params map[string]string) map[string]string {
	filtered := make(map[string]string)
	for _, key := range allowedParams[name] {
		if v, ok := params[key]; ok && v != "" {
			filtered[key] = v
		}
	}
	return filtered
}
