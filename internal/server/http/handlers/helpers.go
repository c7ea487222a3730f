package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/decoteen/orderdesk/internal/domain/model"
	"github.com/decoteen/orderdesk/internal/server/http/dto"
	"github.com/decoteen/orderdesk/internal/server/http/middleware"
)

// CurrentChatID extracts the authenticated chat identifier from context.
func CurrentChatID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.ChatIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	items := make([]dto.CartItemPayload, 0, len(order.CartItems))
	for _, item := range order.CartItems {
		items = append(items, dto.CartItemPayload{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Size:        item.Size,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	history := make([]dto.StatusEventResponse, 0, len(order.History))
	for _, event := range order.History {
		history = append(history, dto.StatusEventResponse{
			Status:    event.Status,
			Actor:     event.Actor,
			Note:      event.Note,
			CreatedAt: event.CreatedAt,
		})
	}
	return dto.OrderResponse{
		ID:            order.ID,
		CustomerID:    order.Customer.CustomerID,
		CustomerName:  order.Customer.Name,
		Items:         items,
		PaymentMethod: order.PaymentMethod,
		Subtotal:      order.Pricing.Subtotal,
		DiscountRate:  order.Pricing.DiscountRate,
		Discount:      order.Pricing.Discount,
		Tax:           order.Pricing.Tax,
		Total:         order.Pricing.Total,
		Status:        string(order.Status),
		History:       history,
		InvoiceID:     order.InvoiceID,
		InvoiceNumber: order.InvoiceNumber,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

func toScheduleResponse(schedule model.PaymentSchedule) dto.ScheduleResponse {
	return dto.ScheduleResponse{
		ID:              schedule.ID,
		OrderID:         schedule.OrderID,
		CustomerID:      schedule.Customer.CustomerID,
		Plan:            string(schedule.Plan),
		TotalAmount:     schedule.TotalAmount,
		AdvancePaid:     schedule.AdvancePaid,
		RemainingAmount: schedule.RemainingAmount,
		MonthlyAmount:   schedule.MonthlyAmount,
		PaymentDates:    schedule.PaymentDates,
		PaymentsMade:    schedule.PaymentsMade,
		Status:          string(schedule.Status),
		CreatedAt:       schedule.CreatedAt,
	}
}

func toCartItems(payload []dto.CartItemPayload) []model.CartItem {
	items := make([]model.CartItem, 0, len(payload))
	for _, item := range payload {
		items = append(items, model.CartItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Size:        item.Size,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	return items
}
