package dto

import "time"

// CartItemPayload describes one cart line in a create request.
type CartItemPayload struct {
	ProductID   string `json:"product_id" binding:"required"`
	ProductName string `json:"product_name" binding:"required"`
	Size        string `json:"size"`
	Quantity    int    `json:"quantity" binding:"required"`
	Price       int64  `json:"price" binding:"required"`
}

// CreateOrderRequest describes the order creation payload. The customer
// snapshot is taken from the authenticated account.
type CreateOrderRequest struct {
	Items         []CartItemPayload `json:"items" binding:"required"`
	PaymentMethod string            `json:"payment_method" binding:"required"`
	DiscountRate  float64           `json:"discount_rate"`
	ReceiptRef    string            `json:"receipt_ref"`
}

// StatusUpdateRequest describes a staff lifecycle transition.
type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
	Actor  string `json:"actor"`
	Note   string `json:"note"`
}

// StatusEventResponse is one history entry of an order.
type StatusEventResponse struct {
	Status    string    `json:"status"`
	Actor     string    `json:"actor,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderResponse is the external representation of an order.
type OrderResponse struct {
	ID            string                `json:"id"`
	CustomerID    string                `json:"customer_id"`
	CustomerName  string                `json:"customer_name"`
	Items         []CartItemPayload     `json:"items"`
	PaymentMethod string                `json:"payment_method"`
	Subtotal      int64                 `json:"subtotal"`
	DiscountRate  float64               `json:"discount_rate"`
	Discount      int64                 `json:"discount"`
	Tax           int64                 `json:"tax"`
	Total         int64                 `json:"total"`
	Status        string                `json:"status"`
	History       []StatusEventResponse `json:"history"`
	InvoiceID     *string               `json:"invoice_id,omitempty"`
	InvoiceNumber *string               `json:"invoice_number,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// StatsResponse summarizes order volume and revenue.
type StatsResponse struct {
	TotalOrders        int            `json:"total_orders"`
	TodayOrders        int            `json:"today_orders"`
	TotalRevenue       int64          `json:"total_revenue"`
	TodayRevenue       int64          `json:"today_revenue"`
	StatusDistribution map[string]int `json:"status_distribution"`
}
