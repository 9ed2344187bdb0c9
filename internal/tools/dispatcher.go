package tools

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/shopmate-io/orchestrator/internal/domain"
)

// Dispatcher runs a plan's tool calls concurrently and collects their
// results in plan order.
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Execute fans the calls out, one goroutine per call, and waits for all
// of them. A failed call never aborts the batch; its failure is folded
// into the result so composition can still describe what happened.
// The caller's user id is injected into list_orders so one user can
// never read another's orders.
func (d *Dispatcher) Execute(ctx context.Context, calls []domain.ToolCall, userID string) []domain.ToolResult {
	results := make([]domain.ToolResult, len(calls))

	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(i int, call domain.ToolCall) {
			defer wg.Done()
			results[i] = d.executeOne(ctx, call, userID)
		}(i, call)
	}
	wg.Wait()

	return results
}

func (d *Dispatcher) executeOne(ctx context.Context, call domain.ToolCall, userID string) domain.ToolResult {
	params := call.Parameters.Map()
	if call.ToolName == domain.ToolListOrders {
		params["user_id"] = userID
	}
	args := FilterParams(call.ToolName, params)

	start := time.Now()
	data, err := d.registry.Execute(ctx, string(call.ToolName), args)
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		log.Printf("WARN: [tools] %s failed after %dms: %v", call.ToolName, elapsed, err)
		return domain.ToolResult{
			ToolName:  call.ToolName,
			Success:   false,
			Error:     err.Error(),
			ElapsedMs: elapsed,
		}
	}

	return domain.ToolResult{
		ToolName:  call.ToolName,
		Success:   true,
		Data:      data,
		ElapsedMs: elapsed,
	}
}
