package domain

import "time"

// Product is a catalog item returned by product_search.
type Product struct {
	ID          string   `json:"id"`
	Store       string   `json:"store"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
	Category    string   `json:"category,omitempty"`
	Image       string   `json:"image,omitempty"`
	InStock     bool     `json:"inStock"`
	Sizes       []string `json:"sizes,omitempty"`
	Colors      []string `json:"colors,omitempty"`
}

// Ref returns the compact context reference for the product.
func (p Product) Ref() ProductRef {
	return ProductRef{ID: p.ID, Name: p.Name, Price: p.Price, Currency: p.Currency}
}

// Variant is one purchasable variation of a product.
type Variant struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
	Stock     int    `json:"stock"`
}

// Available reports whether the variant can be purchased.
func (v Variant) Available() bool { return v.Stock > 0 }

// Order is a customer order.
type Order struct {
	OrderID     string      `json:"order_id"`
	UserID      string      `json:"user_id"`
	Store       string      `json:"store"`
	ProductName string      `json:"product_name,omitempty"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Ref returns the compact context reference for the order.
func (o Order) Ref() *OrderRef {
	return &OrderRef{
		OrderID:     o.OrderID,
		Status:      string(o.Status),
		ProductName: o.ProductName,
		CreatedAt:   o.CreatedAt.Format(time.RFC3339),
	}
}

// Tracking is the shipment location snapshot for an order.
type Tracking struct {
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status"`
	Location  string    `json:"location,omitempty"`
	ETA       string    `json:"eta,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FAQEntry is one retrieved chunk of store policy text.
type FAQEntry struct {
	ID      string `json:"id"`
	Store   string `json:"store"`
	Content string `json:"content"`
}
