package dto

// CallbackRequest carries a chat button activation payload.
type CallbackRequest struct {
	Data string `json:"data" binding:"required"`
}
