package model

import "time"

// OrderStatus describes order processing lifecycle.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusContacted OrderStatus = "contacted"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// History entry kinds that are not lifecycle statuses. They record
// invoicing outcomes on the order's history without changing the
// order's current status.
const (
	EventInvoiceCreated = "hesabfa_created"
	EventInvoiceError   = "hesabfa_error"
)

// Known reports whether s is one of the lifecycle statuses.
func (s OrderStatus) Known() bool {
	switch s {
	case OrderStatusPending, OrderStatusContacted, OrderStatusConfirmed,
		OrderStatusPreparing, OrderStatusReady, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are accepted from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CartItem is a value snapshot of one cart line at order time.
type CartItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Size        string `json:"size"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"` // unit price, smallest currency unit
}

// Pricing holds amounts derived once at order creation.
type Pricing struct {
	Subtotal     int64   `json:"subtotal"`
	DiscountRate float64 `json:"discount_rate"`
	Discount     int64   `json:"discount"`
	Tax          int64   `json:"tax"`
	Total        int64   `json:"total"`
}

// StatusEvent is one append-only entry of the order's status history.
type StatusEvent struct {
	Status    string    `json:"status"`
	Actor     string    `json:"actor,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Order ties together a customer snapshot, cart snapshot and payment
// method, tracked through the status lifecycle. Mutated only through
// status transitions and invoice reconciliation, never deleted.
type Order struct {
	ID            string
	UserID        int64
	Customer      Customer
	CartItems     []CartItem
	PaymentMethod string
	Pricing       Pricing
	Status        OrderStatus
	History       []StatusEvent
	InvoiceID     *string
	InvoiceNumber *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderStats is an aggregate view over all orders.
type OrderStats struct {
	TotalOrders        int
	TodayOrders        int
	TotalRevenue       int64
	TodayRevenue       int64
	StatusDistribution map[OrderStatus]int
}
