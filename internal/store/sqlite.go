package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/shopmate-io/orchestrator/internal/domain"
)

// SQLiteStore implements Store using SQLite. Conversation contexts and
// pending actions are JSON key-value records with TTLs; catalog data is
// relational.
type SQLiteStore struct {
	db         *sql.DB
	contextTTL time.Duration
}

const defaultContextTTL = 24 * time.Hour

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string, opts ...Options) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db, contextTTL: defaultContextTTL}
	if len(opts) > 0 && opts[0].ContextTTL != 0 {
		s.contextTTL = opts[0].ContextTTL
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS contexts (
			session_id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			expires_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS session_turns (
			session_id TEXT PRIMARY KEY,
			turn INTEGER NOT NULL,
			expires_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS pending_actions (
			action_id TEXT PRIMARY KEY,
			action_type TEXT NOT NULL,
			parameters TEXT NOT NULL,
			confirmation_message TEXT,
			created_at DATETIME NOT NULL,
			expires_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS session_flags (
			flag_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			user_id TEXT,
			store TEXT,
			user_query TEXT,
			response TEXT,
			reason TEXT NOT NULL,
			confidence REAL,
			reasoning TEXT,
			flagged_at DATETIME NOT NULL,
			reviewed INTEGER NOT NULL DEFAULT 0,
			reviewed_at DATETIME,
			reviewed_by TEXT,
			review_notes TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_flags_session ON session_flags(session_id, flagged_at)`,
		`CREATE TABLE IF NOT EXISTS session_locks (
			session_id TEXT PRIMARY KEY,
			reason TEXT,
			locked_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS turn_traces (
			session_id TEXT NOT NULL,
			turn_number INTEGER NOT NULL,
			data TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			PRIMARY KEY (session_id, turn_number)
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			store TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			price REAL NOT NULL DEFAULT 0,
			currency TEXT NOT NULL DEFAULT 'USD',
			category TEXT,
			image TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_products_store ON products(store)`,
		`CREATE TABLE IF NOT EXISTS variants (
			product_id TEXT NOT NULL,
			size TEXT,
			color TEXT,
			stock INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (product_id) REFERENCES products(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_variants_product ON variants(product_id)`,
		`CREATE TABLE IF NOT EXISTS orders (
			order_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			store TEXT NOT NULL,
			product_name TEXT,
			status TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(store, user_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS faq_entries (
			id TEXT PRIMARY KEY,
			store TEXT NOT NULL,
			content TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_faq_store ON faq_entries(store)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetContext retrieves a conversation context by session id. Expired
// records read as absent.
func (s *SQLiteStore) GetContext(ctx context.Context, sessionID string) (*domain.ConversationContext, error) {
	var data string
	var expiresAt time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT data, expires_at FROM contexts WHERE session_id = ?`,
		sessionID).Scan(&data, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if time.Now().After(expiresAt) {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM contexts WHERE session_id = ?`, sessionID)
		return nil, nil
	}

	var c domain.ConversationContext
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, fmt.Errorf("failed to decode context: %w", err)
	}
	return &c, nil
}

// SaveContext upserts a conversation context and refreshes its TTL.
func (s *SQLiteStore) SaveContext(ctx context.Context, c *domain.ConversationContext) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode context: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO contexts (session_id, data, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET data = excluded.data, expires_at = excluded.expires_at`,
		c.SessionID, string(data), time.Now().Add(s.contextTTL))
	return err
}

// UpdateContext applies a partial update to the stored context,
// synthesizing a default context when none exists.
func (s *SQLiteStore) UpdateContext(ctx context.Context, sessionID string, upd domain.ContextUpdate) (*domain.ConversationContext, error) {
	c, err := s.GetContext(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = &domain.ConversationContext{SessionID: sessionID, DetectedLanguage: "en"}
	}

	c.Apply(upd)

	if err := s.SaveContext(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ClearOrder removes the current order from the context.
func (s *SQLiteStore) ClearOrder(ctx context.Context, sessionID, reason string) error {
	c, err := s.GetContext(ctx, sessionID)
	if err != nil {
		return err
	}
	if c == nil || c.CurrentOrder == nil {
		return nil
	}
	c.CurrentOrder = nil
	return s.SaveContext(ctx, c)
}

// StorePendingRef mirrors a ledger entry into the context.
func (s *SQLiteStore) StorePendingRef(ctx context.Context, sessionID string, ref *domain.PendingRef) error {
	c, err := s.GetContext(ctx, sessionID)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("no context for session %s", sessionID)
	}
	c.PendingConfirmation = ref
	return s.SaveContext(ctx, c)
}

// ClearPendingRef removes the pending-confirmation mirror from the context.
func (s *SQLiteStore) ClearPendingRef(ctx context.Context, sessionID string) error {
	c, err := s.GetContext(ctx, sessionID)
	if err != nil {
		return err
	}
	if c == nil {
		return nil
	}
	c.PendingConfirmation = nil
	return s.SaveContext(ctx, c)
}

// IncrementTurn increments and returns the turn counter for a session.
func (s *SQLiteStore) IncrementTurn(ctx context.Context, sessionID string) (int, error) {
	var turn int
	err := s.db.QueryRowContext(ctx,
		`SELECT turn FROM session_turns WHERE session_id = ? AND expires_at > ?`,
		sessionID, time.Now()).Scan(&turn)
	if err != nil && err != sql.ErrNoRows {
		return 0, err
	}
	turn++
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO session_turns (session_id, turn, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET turn = excluded.turn, expires_at = excluded.expires_at`,
		sessionID, turn, time.Now().Add(s.contextTTL))
	if err != nil {
		return 0, err
	}
	return turn, nil
}

// CreatePendingAction stores a new ledger entry.
func (s *SQLiteStore) CreatePendingAction(ctx context.Context, action *domain.PendingAction) error {
	params, err := json.Marshal(action.Parameters)
	if err != nil {
		return fmt.Errorf("failed to encode parameters: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO pending_actions (action_id, action_type, parameters, confirmation_message, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		action.ActionID, string(action.ActionType), string(params),
		action.ConfirmationMessage, action.CreatedAt, action.ExpiresAt)
	return err
}

// GetPendingAction retrieves a live ledger entry, or nil when absent or
// expired.
func (s *SQLiteStore) GetPendingAction(ctx context.Context, actionID string) (*domain.PendingAction, error) {
	return s.getPendingAction(ctx, s.db, actionID)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLiteStore) getPendingAction(ctx context.Context, q queryRower, actionID string) (*domain.PendingAction, error) {
	var action domain.PendingAction
	var actionType, params string
	var msg sql.NullString
	err := q.QueryRowContext(ctx,
		`SELECT action_id, action_type, parameters, confirmation_message, created_at, expires_at
		 FROM pending_actions WHERE action_id = ?`,
		actionID).Scan(&action.ActionID, &actionType, &params, &msg, &action.CreatedAt, &action.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if time.Now().After(action.ExpiresAt) {
		return nil, nil
	}
	action.ActionType = domain.ToolName(actionType)
	action.ConfirmationMessage = msg.String
	if err := json.Unmarshal([]byte(params), &action.Parameters); err != nil {
		return nil, fmt.Errorf("failed to decode parameters: %w", err)
	}
	return &action, nil
}

// ConsumePendingAction atomically removes and returns a live ledger
// entry. A second consume of the same id returns nil.
func (s *SQLiteStore) ConsumePendingAction(ctx context.Context, actionID string) (*domain.PendingAction, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	action, err := s.getPendingAction(ctx, tx, actionID)
	if err != nil {
		return nil, err
	}
	if action == nil {
		return nil, nil
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM pending_actions WHERE action_id = ?`, actionID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return action, nil
}

// DeletePendingAction removes a ledger entry.
func (s *SQLiteStore) DeletePendingAction(ctx context.Context, actionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM pending_actions WHERE action_id = ?`, actionID)
	return err
}

// CreateSessionFlag records one flagged turn.
func (s *SQLiteStore) CreateSessionFlag(ctx context.Context, flag *domain.SessionFlag) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session_flags (flag_id, session_id, user_id, store, user_query, response, reason, confidence, reasoning, flagged_at, reviewed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)`,
		flag.FlagID, flag.SessionID, flag.UserID, flag.Store, flag.UserQuery,
		flag.Response, string(flag.Reason), flag.Confidence, flag.Reasoning, flag.FlaggedAt)
	return err
}

// CountSessionFlags counts the flags recorded for a session in one
// escalation class.
func (s *SQLiteStore) CountSessionFlags(ctx context.Context, sessionID string, class domain.FlagClass) (int, error) {
	reasons := flagReasonsForClass(class)
	query := `SELECT COUNT(*) FROM session_flags WHERE session_id = ? AND reason IN (?, ?, ?)`
	args := []any{sessionID}
	for _, r := range reasons {
		args = append(args, string(r))
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func flagReasonsForClass(class domain.FlagClass) []domain.FlagReason {
	if class == domain.FlagClassPolicy {
		return []domain.FlagReason{
			domain.FlagReasonPolicyViolation,
			domain.FlagReasonAbusiveLanguage,
			domain.FlagReasonPromptInjection,
		}
	}
	return []domain.FlagReason{
		domain.FlagReasonPotentialError,
		domain.FlagReasonUnclearRequest,
		domain.FlagReasonOffTopic,
	}
}

// ListPendingReviews returns unreviewed flags, most recent first.
func (s *SQLiteStore) ListPendingReviews(ctx context.Context, limit int) ([]domain.SessionFlag, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT flag_id, session_id, user_id, store, user_query, response, reason, confidence, reasoning, flagged_at, reviewed, reviewed_at, reviewed_by, review_notes
		 FROM session_flags WHERE reviewed = 0 ORDER BY flagged_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flags []domain.SessionFlag
	for rows.Next() {
		f, err := scanFlag(rows)
		if err != nil {
			return nil, err
		}
		flags = append(flags, *f)
	}
	return flags, rows.Err()
}

func scanFlag(rows *sql.Rows) (*domain.SessionFlag, error) {
	var f domain.SessionFlag
	var reason string
	var userID, store, query, response, reasoning, reviewedBy, notes sql.NullString
	var reviewedAt sql.NullTime
	var reviewed int
	err := rows.Scan(&f.FlagID, &f.SessionID, &userID, &store, &query, &response,
		&reason, &f.Confidence, &reasoning, &f.FlaggedAt, &reviewed, &reviewedAt, &reviewedBy, &notes)
	if err != nil {
		return nil, err
	}
	f.UserID = userID.String
	f.Store = store.String
	f.UserQuery = query.String
	f.Response = response.String
	f.Reason = domain.FlagReason(reason)
	f.Reasoning = reasoning.String
	f.Reviewed = reviewed != 0
	if reviewedAt.Valid {
		f.ReviewedAt = &reviewedAt.Time
	}
	f.ReviewedBy = reviewedBy.String
	f.ReviewNotes = notes.String
	return &f, nil
}

// MarkFlagReviewed marks a flag as reviewed by a human.
func (s *SQLiteStore) MarkFlagReviewed(ctx context.Context, flagID, reviewedBy, notes string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE session_flags SET reviewed = 1, reviewed_at = ?, reviewed_by = ?, review_notes = ? WHERE flag_id = ?`,
		time.Now(), reviewedBy, notes, flagID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("flag %s not found", flagID)
	}
	return nil
}

// LockSession marks a session locked. Locking is sticky until manually
// cleared.
func (s *SQLiteStore) LockSession(ctx context.Context, sessionID, reason string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session_locks (session_id, reason, locked_at) VALUES (?, ?, ?)
		 ON CONFLICT(session_id) DO NOTHING`,
		sessionID, reason, time.Now())
	return err
}

// IsSessionLocked reports whether a session is locked.
func (s *SQLiteStore) IsSessionLocked(ctx context.Context, sessionID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM session_locks WHERE session_id = ?`, sessionID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UnlockSession clears a session lock.
func (s *SQLiteStore) UnlockSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session_locks WHERE session_id = ?`, sessionID)
	return err
}

// SaveTurnTrace persists the trace of one completed turn.
func (s *SQLiteStore) SaveTurnTrace(ctx context.Context, trace *domain.TurnTrace) error {
	data, err := json.Marshal(trace)
	if err != nil {
		return fmt.Errorf("failed to encode trace: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO turn_traces (session_id, turn_number, data, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(session_id, turn_number) DO UPDATE SET data = excluded.data`,
		trace.SessionID, trace.TurnNumber, string(data), time.Now())
	return err
}

// CreateProduct inserts a catalog product.
func (s *SQLiteStore) CreateProduct(ctx context.Context, p *domain.Product) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO products (id, store, name, description, price, currency, category, image)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Store, p.Name, p.Description, p.Price, p.Currency, p.Category, p.Image)
	return err
}

// CreateVariant inserts a product variant.
func (s *SQLiteStore) CreateVariant(ctx context.Context, v *domain.Variant) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO variants (product_id, size, color, stock) VALUES (?, ?, ?, ?)`,
		v.ProductID, v.Size, v.Color, v.Stock)
	return err
}

// CreateOrder inserts an order.
func (s *SQLiteStore) CreateOrder(ctx context.Context, o *domain.Order) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO orders (order_id, user_id, store, product_name, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		o.OrderID, o.UserID, o.Store, o.ProductName, string(o.Status), o.CreatedAt)
	return err
}

// CreateFAQEntry inserts a policy text chunk.
func (s *SQLiteStore) CreateFAQEntry(ctx context.Context, f *domain.FAQEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO faq_entries (id, store, content) VALUES (?, ?, ?)`,
		f.ID, f.Store, f.Content)
	return err
}

// SearchProducts returns catalog products matching the query for a store.
func (s *SQLiteStore) SearchProducts(ctx context.Context, storeName, query string, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 5
	}
	pattern := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, store, name, description, price, currency, category, image
		 FROM products
		 WHERE store = ? AND (name LIKE ? OR description LIKE ? OR category LIKE ?)
		 ORDER BY name LIMIT ?`,
		storeName, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		var desc, category, image sql.NullString
		if err := rows.Scan(&p.ID, &p.Store, &p.Name, &desc, &p.Price, &p.Currency, &category, &image); err != nil {
			return nil, err
		}
		p.Description = desc.String
		p.Category = category.String
		p.Image = image.String
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range products {
		variants, err := s.GetVariants(ctx, products[i].ID, "", "")
		if err != nil {
			return nil, err
		}
		sizes := make(map[string]bool)
		colors := make(map[string]bool)
		for _, v := range variants {
			if v.Available() {
				products[i].InStock = true
			}
			if v.Size != "" && !sizes[v.Size] {
				sizes[v.Size] = true
				products[i].Sizes = append(products[i].Sizes, v.Size)
			}
			if v.Color != "" && !colors[v.Color] {
				colors[v.Color] = true
				products[i].Colors = append(products[i].Colors, v.Color)
			}
		}
	}
	return products, nil
}

// GetVariants returns variants for a product, optionally filtered by size
// and color.
func (s *SQLiteStore) GetVariants(ctx context.Context, productID, size, color string) ([]domain.Variant, error) {
	query := `SELECT product_id, size, color, stock FROM variants WHERE product_id = ?`
	args := []any{productID}
	if size != "" {
		query += ` AND size = ?`
		args = append(args, size)
	}
	if color != "" {
		query += ` AND color = ?`
		args = append(args, color)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var variants []domain.Variant
	for rows.Next() {
		var v domain.Variant
		var vsize, vcolor sql.NullString
		if err := rows.Scan(&v.ProductID, &vsize, &vcolor, &v.Stock); err != nil {
			return nil, err
		}
		v.Size = vsize.String
		v.Color = vcolor.String
		variants = append(variants, v)
	}
	return variants, rows.Err()
}

// ListOrders returns a user's orders for a store, most recent first.
func (s *SQLiteStore) ListOrders(ctx context.Context, storeName, userID string) ([]domain.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT order_id, user_id, store, product_name, status, created_at
		 FROM orders WHERE store = ? AND user_id = ? ORDER BY created_at DESC`,
		storeName, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func scanOrder(rows *sql.Rows) (*domain.Order, error) {
	var o domain.Order
	var productName sql.NullString
	var status string
	if err := rows.Scan(&o.OrderID, &o.UserID, &o.Store, &productName, &status, &o.CreatedAt); err != nil {
		return nil, err
	}
	o.ProductName = productName.String
	o.Status = domain.OrderStatus(status)
	return &o, nil
}

// GetOrder retrieves one order by id within a store.
func (s *SQLiteStore) GetOrder(ctx context.Context, storeName, orderID string) (*domain.Order, error) {
	var o domain.Order
	var productName sql.NullString
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT order_id, user_id, store, product_name, status, created_at
		 FROM orders WHERE store = ? AND order_id = ?`,
		storeName, orderID).Scan(&o.OrderID, &o.UserID, &o.Store, &productName, &status, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	o.ProductName = productName.String
	o.Status = domain.OrderStatus(status)
	return &o, nil
}

// UpdateOrderStatus transitions an order to a new status.
func (s *SQLiteStore) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE orders SET status = ? WHERE order_id = ?`, string(status), orderID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("order %s not found", orderID)
	}
	return nil
}

// SearchFAQ returns the policy entries for a store. The retrieval is
// store-wide; relevance extraction happens downstream in the composer.
func (s *SQLiteStore) SearchFAQ(ctx context.Context, storeName, query string) ([]domain.FAQEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, store, content FROM faq_entries WHERE store = ? ORDER BY id`, storeName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.FAQEntry
	for rows.Next() {
		var f domain.FAQEntry
		if err := rows.Scan(&f.ID, &f.Store, &f.Content); err != nil {
			return nil, err
		}
		entries = append(entries, f)
	}
	return entries, rows.Err()
}
