package domain

const (
	// MaxRecentProducts bounds the recent-products list in a context.
	MaxRecentProducts = 10
	// MaxToolHistory bounds the recent-tool-call log in a context.
	MaxToolHistory = 5
)

// ProductRef is a compact reference to a product kept in conversation
// context.
type ProductRef struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price,omitempty"`
	Currency string  `json:"currency,omitempty"`
}

// OrderRef is a compact reference to the currently selected order.
type OrderRef struct {
	OrderID     string `json:"order_id"`
	Status      string `json:"status"`
	ProductName string `json:"product_name,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// PendingRef mirrors the live ledger entry into the context. The ledger
// is authoritative; this is a read cache for prompt building.
type PendingRef struct {
	ActionID   string `json:"action_id"`
	ActionType string `json:"action_type"`
}

// ConversationContext is the durable memory of one chat session.
type ConversationContext struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	Store     string `json:"store"`

	// RecentProducts holds the last MaxRecentProducts discussed products,
	// de-duplicated by id, most recent last.
	RecentProducts []ProductRef `json:"recent_products,omitempty"`

	CurrentOrder *OrderRef `json:"current_order,omitempty"`

	LastIntent IntentType `json:"last_intent,omitempty"`

	// LastToolCalls is the bounded log of recently executed tool names.
	LastToolCalls []string `json:"last_tool_calls,omitempty"`

	PendingConfirmation *PendingRef `json:"pending_confirmation,omitempty"`

	DetectedLanguage string `json:"detected_language,omitempty"`

	ConversationTurn int `json:"conversation_turn"`
}

// ContextUpdate is a partial update applied to a stored context.
// Zero-valued fields are left unchanged; the turn counter always
// increments.
type ContextUpdate struct {
	Products  []ProductRef
	Order     *OrderRef
	Intent    IntentType
	ToolCalls []string
	Language  string
}

// Apply merges the update into the context in place: products merge by id
// (last occurrence wins ordering) and truncate to the bound, the order,
// intent, and language replace when provided, and tool calls append to the
// bounded log.
func (c *ConversationContext) Apply(upd ContextUpdate) {
	c.ConversationTurn++

	for _, p := range upd.Products {
		replaced := false
		for i := range c.RecentProducts {
			if c.RecentProducts[i].ID == p.ID {
				c.RecentProducts = append(c.RecentProducts[:i], c.RecentProducts[i+1:]...)
				c.RecentProducts = append(c.RecentProducts, p)
				replaced = true
				break
			}
		}
		if !replaced {
			c.RecentProducts = append(c.RecentProducts, p)
		}
	}
	if n := len(c.RecentProducts); n > MaxRecentProducts {
		c.RecentProducts = c.RecentProducts[n-MaxRecentProducts:]
	}

	if upd.Order != nil {
		c.CurrentOrder = upd.Order
	}
	if upd.Intent != "" {
		c.LastIntent = upd.Intent
	}
	if len(upd.ToolCalls) > 0 {
		c.LastToolCalls = append(c.LastToolCalls, upd.ToolCalls...)
		if n := len(c.LastToolCalls); n > MaxToolHistory {
			c.LastToolCalls = c.LastToolCalls[n-MaxToolHistory:]
		}
	}
	if upd.Language != "" {
		c.DetectedLanguage = upd.Language
	}
}
