package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/decoteen/orderdesk/internal/domain/errors"
	"github.com/decoteen/orderdesk/internal/domain/model"
	"github.com/decoteen/orderdesk/internal/server/http/dto"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade DeskFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade DeskFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	chatID := CurrentChatID(c)

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	account, err := h.facade.AccountByChatID(c.Request.Context(), chatID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	order, err := h.facade.PlaceOrder(c.Request.Context(), chatID, account.Snapshot(), toCartItems(req.Items), req.PaymentMethod, req.DiscountRate, req.ReceiptRef)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrEmptyCart),
			errors.Is(err, domainErrors.ErrInvalidDiscountRate),
			errors.Is(err, domainErrors.ErrInvalidQuantity):
			c.Status(http.StatusUnprocessableEntity)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.facade.Order(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// List handles GET /api/orders with optional day/status/mine filters.
func (h *OrderHandler) List(c *gin.Context) {
	var (
		orders []model.Order
		err    error
	)

	switch {
	case c.Query("day") != "":
		var day time.Time
		day, err = time.Parse("2006-01-02", c.Query("day"))
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		orders, err = h.facade.OrdersByDay(c.Request.Context(), day)
	case c.Query("mine") == "true":
		orders, err = h.facade.OrdersByUser(c.Request.Context(), CurrentChatID(c))
	default:
		var filter *model.OrderStatus
		if raw := c.Query("status"); raw != "" {
			status := model.OrderStatus(raw)
			if !status.Known() {
				c.Status(http.StatusBadRequest)
				return
			}
			filter = &status
		}
		orders, err = h.facade.Orders(c.Request.Context(), filter)
	}
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, order := range orders {
		response = append(response, toOrderResponse(order))
	}
	c.JSON(http.StatusOK, response)
}

// Stats handles GET /api/orders/stats.
func (h *OrderHandler) Stats(c *gin.Context) {
	stats, err := h.facade.Statistics(c.Request.Context())
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	distribution := make(map[string]int, len(stats.StatusDistribution))
	for status, count := range stats.StatusDistribution {
		distribution[string(status)] = count
	}
	c.JSON(http.StatusOK, dto.StatsResponse{
		TotalOrders:        stats.TotalOrders,
		TodayOrders:        stats.TodayOrders,
		TotalRevenue:       stats.TotalRevenue,
		TodayRevenue:       stats.TodayRevenue,
		StatusDistribution: distribution,
	})
}

// UpdateStatus handles POST /api/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req dto.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	err := h.facade.ChangeOrderStatus(c.Request.Context(), c.Param("id"), model.OrderStatus(req.Status), req.Actor, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrUnknownStatus):
			c.Status(http.StatusUnprocessableEntity)
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrTerminalStatus):
			c.Status(http.StatusConflict)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.Status(http.StatusOK)
}
