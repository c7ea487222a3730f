package dto

// RegisterRequest describes a reseller account registration payload.
type RegisterRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	City       string `json:"city"`
	ChatID     int64  `json:"chat_id" binding:"required"`
	AccessCode string `json:"access_code" binding:"required"`
}

// LoginRequest describes the fixed-code login payload.
type LoginRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
	AccessCode string `json:"access_code" binding:"required"`
}

// TokenResponse carries the issued auth token.
type TokenResponse struct {
	Token string `json:"token"`
}
