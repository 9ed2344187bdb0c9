package tools

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopmate-io/orchestrator/internal/domain"
	"github.com/shopmate-io/orchestrator/internal/store"
)

func newBuiltinFixture(t *testing.T) (*Registry, *store.SQLiteStore) {
	t.Helper()
	st, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return NewBuiltinRegistry(st), st
}

func TestProcessOrderCancel(t *testing.T) {
	ctx := context.Background()
	r, st := newBuiltinFixture(t)

	order := &domain.Order{OrderID: "o1", UserID: "u1", Store: "aurora", Status: domain.OrderStatusCreated, CreatedAt: time.Now()}
	if err := st.CreateOrder(ctx, order); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	data, err := r.Execute(ctx, string(domain.ToolProcessOrder), map[string]string{
		"order_id": "o1", "action": "cancel", "store": "aurora",
	})
	if err != nil {
		t.Fatalf("process_order failed: %v", err)
	}

	var out map[string]string
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if out["status"] != "cancelled" {
		t.Fatalf("expected cancelled, got %q", out["status"])
	}

	got, _ := st.GetOrder(ctx, "aurora", "o1")
	if got.Status != domain.OrderStatusCancelled {
		t.Fatalf("order not cancelled in store: %s", got.Status)
	}
}

func TestProcessOrderReturn(t *testing.T) {
	ctx := context.Background()
	r, st := newBuiltinFixture(t)

	order := &domain.Order{OrderID: "o1", UserID: "u1", Store: "aurora", Status: domain.OrderStatusDelivered, CreatedAt: time.Now()}
	if err := st.CreateOrder(ctx, order); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if _, err := r.Execute(ctx, string(domain.ToolProcessOrder), map[string]string{
		"order_id": "o1", "action": "return", "store": "aurora",
	}); err != nil {
		t.Fatalf("process_order failed: %v", err)
	}

	got, _ := st.GetOrder(ctx, "aurora", "o1")
	if got.Status != domain.OrderStatusReturned {
		t.Fatalf("expected returned, got %s", got.Status)
	}
}

func TestProcessOrderRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	r, st := newBuiltinFixture(t)

	if _, err := r.Execute(ctx, string(domain.ToolProcessOrder), map[string]string{
		"order_id": "o1", "action": "explode", "store": "aurora",
	}); err == nil {
		t.Fatal("expected error for unsupported action")
	}

	order := &domain.Order{OrderID: "o1", UserID: "u1", Store: "aurora", Status: domain.OrderStatusCreated, CreatedAt: time.Now()}
	if err := st.CreateOrder(ctx, order); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if _, err := r.Execute(ctx, string(domain.ToolProcessOrder), map[string]string{
		"order_id": "missing", "action": "cancel", "store": "aurora",
	}); err == nil {
		t.Fatal("expected error for unknown order")
	}
}

func TestListOrdersPayloadShape(t *testing.T) {
	ctx := context.Background()
	r, st := newBuiltinFixture(t)

	order := &domain.Order{OrderID: "o1", UserID: "u1", Store: "aurora", Status: domain.OrderStatusShipped, CreatedAt: time.Now()}
	if err := st.CreateOrder(ctx, order); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	data, err := r.Execute(ctx, string(domain.ToolListOrders), map[string]string{"store": "aurora", "user_id": "u1"})
	if err != nil {
		t.Fatalf("list_orders failed: %v", err)
	}

	result := domain.ToolResult{ToolName: domain.ToolListOrders, Success: true, Data: data}
	orders := result.Orders()
	if len(orders) != 1 || orders[0].OrderID != "o1" {
		t.Fatalf("unexpected orders payload: %+v", orders)
	}
}

func TestFetchOrderLocation(t *testing.T) {
	ctx := context.Background()
	r, st := newBuiltinFixture(t)

	order := &domain.Order{OrderID: "o1", UserID: "u1", Store: "aurora", Status: domain.OrderStatusShipped, CreatedAt: time.Now()}
	if err := st.CreateOrder(ctx, order); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	data, err := r.Execute(ctx, string(domain.ToolFetchOrderLocation), map[string]string{"order_id": "o1", "store": "aurora"})
	if err != nil {
		t.Fatalf("fetch_order_location failed: %v", err)
	}

	result := domain.ToolResult{ToolName: domain.ToolFetchOrderLocation, Success: true, Data: data}
	tracking := result.Tracking()
	if tracking == nil || tracking.Status != "shipped" || tracking.Location == "" {
		t.Fatalf("unexpected tracking: %+v", tracking)
	}
}

func TestProductSearchTool(t *testing.T) {
	ctx := context.Background()
	r, st := newBuiltinFixture(t)

	p := &domain.Product{ID: "p1", Store: "aurora", Name: "Linen Shirt", Price: 49.9, Currency: "USD"}
	if err := st.CreateProduct(ctx, p); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if err := st.CreateVariant(ctx, &domain.Variant{ProductID: "p1", Size: "M", Stock: 2}); err != nil {
		t.Fatalf("CreateVariant failed: %v", err)
	}

	data, err := r.Execute(ctx, string(domain.ToolProductSearch), map[string]string{"query": "linen", "store": "aurora"})
	if err != nil {
		t.Fatalf("product_search failed: %v", err)
	}

	result := domain.ToolResult{ToolName: domain.ToolProductSearch, Success: true, Data: data}
	products := result.Products()
	if len(products) != 1 || !products[0].InStock {
		t.Fatalf("unexpected products: %+v", products)
	}
}
