package domain

import "encoding/json"

// ToolResult is the outcome of executing one planned tool call. Results
// live for the duration of a turn and are never persisted beyond the
// trace.
type ToolResult struct {
	ToolName  ToolName        `json:"tool_name"`
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     string          `json:"error,omitempty"`
	ElapsedMs int64           `json:"elapsed_ms"`
}

// OrdersPayload is the wire shape of a list_orders result.
type OrdersPayload struct {
	Orders []Order `json:"orders"`
}

// Products decodes a product_search result, or nil for other tools.
func (r ToolResult) Products() []Product {
	if r.ToolName != ToolProductSearch || !r.Success || len(r.Data) == 0 {
		return nil
	}
	var products []Product
	if err := json.Unmarshal(r.Data, &products); err != nil {
		return nil
	}
	return products
}

// Orders decodes a list_orders result, or nil for other tools.
func (r ToolResult) Orders() []Order {
	if r.ToolName != ToolListOrders || !r.Success || len(r.Data) == 0 {
		return nil
	}
	var payload OrdersPayload
	if err := json.Unmarshal(r.Data, &payload); err != nil {
		return nil
	}
	return payload.Orders
}

// Tracking decodes a fetch_order_location result, or nil for other tools.
func (r ToolResult) Tracking() *Tracking {
	if r.ToolName != ToolFetchOrderLocation || !r.Success || len(r.Data) == 0 {
		return nil
	}
	if string(r.Data) == "null" {
		return nil
	}
	var t Tracking
	if err := json.Unmarshal(r.Data, &t); err != nil {
		return nil
	}
	return &t
}

// FAQEntries decodes a faq_search result, or nil for other tools.
func (r ToolResult) FAQEntries() []FAQEntry {
	if r.ToolName != ToolFAQSearch || !r.Success || len(r.Data) == 0 {
		return nil
	}
	var entries []FAQEntry
	if err := json.Unmarshal(r.Data, &entries); err != nil {
		return nil
	}
	return entries
}
