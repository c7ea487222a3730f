package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/decoteen/orderdesk/internal/command"
	domainErrors "github.com/decoteen/orderdesk/internal/domain/errors"
	"github.com/decoteen/orderdesk/internal/server/http/dto"
)

// CallbackHandler routes chat button activations. The payload is
// decoded once into a command value and dispatched exhaustively;
// anything unroutable is a decode error, not a silent fallthrough.
type CallbackHandler struct {
	facade DeskFacade
}

// NewCallbackHandler constructs CallbackHandler.
func NewCallbackHandler(facade DeskFacade) *CallbackHandler {
	return &CallbackHandler{facade: facade}
}

// Handle handles POST /api/callbacks.
func (h *CallbackHandler) Handle(c *gin.Context) {
	var req dto.CallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	cmd, err := command.Parse(req.Data)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	ctx := c.Request.Context()
	switch cmd.Kind {
	case command.KindPaymentConfirmed:
		err = h.facade.MarkPaymentMade(ctx, cmd.ScheduleID, cmd.PaymentNumber)
	case command.KindContactMade:
		err = h.facade.NoteContactMade(ctx, cmd.ScheduleID, cmd.PaymentNumber)
	case command.KindRemindTomorrow:
		err = h.facade.NoteRemindTomorrow(ctx, cmd.ScheduleID, cmd.PaymentNumber)
	case command.KindOrderStatus:
		err = h.facade.ChangeOrderStatus(ctx, cmd.OrderID, cmd.Status, "staff", "")
	default:
		c.Status(http.StatusBadRequest)
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrInvalidInstallment),
			errors.Is(err, domainErrors.ErrUnknownStatus):
			c.Status(http.StatusUnprocessableEntity)
		case errors.Is(err, domainErrors.ErrTerminalStatus):
			c.Status(http.StatusConflict)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.Status(http.StatusOK)
}
