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

// ScheduleHandler manages deferred-payment plan endpoints.
type ScheduleHandler struct {
	facade DeskFacade
}

// NewScheduleHandler constructs ScheduleHandler.
func NewScheduleHandler(facade DeskFacade) *ScheduleHandler {
	return &ScheduleHandler{facade: facade}
}

// Create60Day handles POST /api/schedules/60day.
func (h *ScheduleHandler) Create60Day(c *gin.Context) {
	h.create(c, model.Plan60Day)
}

// Create90Day handles POST /api/schedules/90day.
func (h *ScheduleHandler) Create90Day(c *gin.Context) {
	h.create(c, model.Plan90Day)
}

func (h *ScheduleHandler) create(c *gin.Context, plan model.PaymentPlan) {
	chatID := CurrentChatID(c)

	var req dto.CreateScheduleRequest
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

	add := h.facade.AddSchedule60Day
	if plan == model.Plan90Day {
		add = h.facade.AddSchedule90Day
	}

	schedule, err := add(c.Request.Context(), chatID, account.Snapshot(), req.TotalAmount, req.AdvancePaid, req.RemainingAmount, req.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidAmounts):
			c.Status(http.StatusUnprocessableEntity)
		case errors.Is(err, domainErrors.ErrAlreadyExists):
			c.Status(http.StatusConflict)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, toScheduleResponse(*schedule))
}

// List handles GET /api/schedules.
func (h *ScheduleHandler) List(c *gin.Context) {
	schedules, err := h.facade.SchedulesByUser(c.Request.Context(), CurrentChatID(c))
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(schedules) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.ScheduleResponse, 0, len(schedules))
	for _, schedule := range schedules {
		response = append(response, toScheduleResponse(schedule))
	}
	c.JSON(http.StatusOK, response)
}

// MarkPayment handles POST /api/schedules/:id/payments.
func (h *ScheduleHandler) MarkPayment(c *gin.Context) {
	var req dto.MarkPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	err := h.facade.MarkPaymentMade(c.Request.Context(), c.Param("id"), req.PaymentNumber)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrInvalidInstallment):
			c.Status(http.StatusUnprocessableEntity)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.Status(http.StatusOK)
}

// Cancel handles POST /api/schedules/:id/cancel.
func (h *ScheduleHandler) Cancel(c *gin.Context) {
	err := h.facade.CancelSchedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusOK)
}

// RunReminders handles POST /api/reminders/run, the no-argument entry
// point an external scheduler hits daily.
func (h *ScheduleHandler) RunReminders(c *gin.Context) {
	sent, err := h.facade.DispatchReminders(c.Request.Context(), time.Now())
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, dto.RemindersRunResponse{Sent: sent})
}
