// Package store defines the storage interface and implementations.
package store

import (
	"context"
	"time"

	"github.com/shopmate-io/orchestrator/internal/domain"
)

// Store defines the interface for data persistence. Absence of a record
// is reported as (nil, nil), not an error.
type Store interface {
	// Conversation context operations. All are read-modify-write against
	// a single logical record per session; the TTL refreshes on every
	// write. The design assumes a single in-flight turn per session.
	GetContext(ctx context.Context, sessionID string) (*domain.ConversationContext, error)
	SaveContext(ctx context.Context, c *domain.ConversationContext) error
	UpdateContext(ctx context.Context, sessionID string, upd domain.ContextUpdate) (*domain.ConversationContext, error)
	ClearOrder(ctx context.Context, sessionID, reason string) error
	StorePendingRef(ctx context.Context, sessionID string, ref *domain.PendingRef) error
	ClearPendingRef(ctx context.Context, sessionID string) error
	IncrementTurn(ctx context.Context, sessionID string) (int, error)

	// Pending-action ledger. ConsumePendingAction removes and returns the
	// entry in one step so an action id can be confirmed at most once.
	CreatePendingAction(ctx context.Context, action *domain.PendingAction) error
	GetPendingAction(ctx context.Context, actionID string) (*domain.PendingAction, error)
	ConsumePendingAction(ctx context.Context, actionID string) (*domain.PendingAction, error)
	DeletePendingAction(ctx context.Context, actionID string) error

	// Session flags and locks.
	CreateSessionFlag(ctx context.Context, flag *domain.SessionFlag) error
	CountSessionFlags(ctx context.Context, sessionID string, class domain.FlagClass) (int, error)
	ListPendingReviews(ctx context.Context, limit int) ([]domain.SessionFlag, error)
	MarkFlagReviewed(ctx context.Context, flagID, reviewedBy, notes string) error
	LockSession(ctx context.Context, sessionID, reason string) error
	IsSessionLocked(ctx context.Context, sessionID string) (bool, error)
	UnlockSession(ctx context.Context, sessionID string) error

	// Turn traces.
	SaveTurnTrace(ctx context.Context, trace *domain.TurnTrace) error

	// Catalog operations backing the tool capabilities.
	CreateProduct(ctx context.Context, p *domain.Product) error
	CreateVariant(ctx context.Context, v *domain.Variant) error
	CreateOrder(ctx context.Context, o *domain.Order) error
	CreateFAQEntry(ctx context.Context, f *domain.FAQEntry) error
	SearchProducts(ctx context.Context, storeName, query string, limit int) ([]domain.Product, error)
	GetVariants(ctx context.Context, productID, size, color string) ([]domain.Variant, error)
	ListOrders(ctx context.Context, storeName, userID string) ([]domain.Order, error)
	GetOrder(ctx context.Context, storeName, orderID string) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error
	SearchFAQ(ctx context.Context, storeName, query string) ([]domain.FAQEntry, error)

	// Lifecycle
	Close() error
}

// Options tune TTL behavior of a store implementation.
type Options struct {
	ContextTTL time.Duration
}
