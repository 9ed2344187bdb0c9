package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopmate-io/orchestrator/internal/domain"
	"github.com/shopmate-io/orchestrator/internal/store"
)

const productSearchLimit = 5

// NewBuiltinRegistry wires the six backend tools against the store.
func NewBuiltinRegistry(st store.Store) *Registry {
	r := NewRegistry()

	r.MustRegister(string(domain.ToolProductSearch), func(ctx context.Context, args map[string]string) (json.RawMessage, error) {
		products, err := st.SearchProducts(ctx, args["store"], args["query"], productSearchLimit)
		if err != nil {
			return nil, fmt.Errorf("product search failed: %w", err)
		}
		if products == nil {
			products = []domain.Product{}
		}
		return json.Marshal(products)
	})

	r.MustRegister(string(domain.ToolFAQSearch), func(ctx context.Context, args map[string]string) (json.RawMessage, error) {
		entries, err := st.SearchFAQ(ctx, args["store"], args["query"])
		if err != nil {
			return nil, fmt.Errorf("faq search failed: %w", err)
		}
		if entries == nil {
			entries = []domain.FAQEntry{}
		}
		return json.Marshal(entries)
	})

	r.MustRegister(string(domain.ToolVariantCheck), func(ctx context.Context, args map[string]string) (json.RawMessage, error) {
		variants, err := st.GetVariants(ctx, args["product_id"], args["size"], args["color"])
		if err != nil {
			return nil, fmt.Errorf("variant check failed: %w", err)
		}
		if variants == nil {
			variants = []domain.Variant{}
		}
		return json.Marshal(variants)
	})

	r.MustRegister(string(domain.ToolProcessOrder), func(ctx context.Context, args map[string]string) (json.RawMessage, error) {
		return processOrder(ctx, st, args)
	})

	r.MustRegister(string(domain.ToolListOrders), func(ctx context.Context, args map[string]string) (json.RawMessage, error) {
		orders, err := st.ListOrders(ctx, args["store"], args["user_id"])
		if err != nil {
			return nil, fmt.Errorf("list orders failed: %w", err)
		}
		if orders == nil {
			orders = []domain.Order{}
		}
		return json.Marshal(domain.OrdersPayload{Orders: orders})
	})

	r.MustRegister(string(domain.ToolFetchOrderLocation), func(ctx context.Context, args map[string]string) (json.RawMessage, error) {
		order, err := st.GetOrder(ctx, args["store"], args["order_id"])
		if err != nil {
			return nil, fmt.Errorf("fetch order location failed: %w", err)
		}
		if order == nil {
			return nil, fmt.Errorf("order %s not found", args["order_id"])
		}
		return json.Marshal(trackingFor(order))
	})

	return r
}

// processOrder executes a cancel or return against the order store. The
// caller is responsible for policy evaluation and confirmation; by the
// time this runs the action has already been approved.
func processOrder(ctx context.Context, st store.Store, args map[string]string) (json.RawMessage, error) {
	action := domain.OrderAction(args["action"])

	var next domain.OrderStatus
	switch action {
	case domain.OrderActionCancel:
		next = domain.OrderStatusCancelled
	case domain.OrderActionReturn:
		next = domain.OrderStatusReturned
	default:
		return nil, fmt.Errorf("unsupported order action %q", args["action"])
	}

	order, err := st.GetOrder(ctx, args["store"], args["order_id"])
	if err != nil {
		return nil, fmt.Errorf("process order failed: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("order %s not found", args["order_id"])
	}

	if err := st.UpdateOrderStatus(ctx, order.OrderID, next); err != nil {
		return nil, fmt.Errorf("process order failed: %w", err)
	}

	return json.Marshal(map[string]string{
		"order_id": order.OrderID,
		"action":   string(action),
		"status":   string(next),
	})
}

// trackingFor synthesizes a location snapshot from the order status.
// There is no carrier integration; the snapshot is derived data.
func trackingFor(order *domain.Order) domain.Tracking {
	t := domain.Tracking{
		OrderID:   order.OrderID,
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt,
	}
	switch order.Status {
	case domain.OrderStatusCreated:
		t.Location = "Fulfillment center"
		t.ETA = order.CreatedAt.Add(5 * 24 * time.Hour).Format("2006-01-02")
	case domain.OrderStatusShipped:
		t.Location = "In transit"
		t.ETA = order.CreatedAt.Add(3 * 24 * time.Hour).Format("2006-01-02")
	case domain.OrderStatusDelivered:
		t.Location = "Delivered to customer"
	}
	return t
}
