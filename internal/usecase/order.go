package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	domainErrors "github.com/decoteen/orderdesk/internal/domain/errors"
	"github.com/decoteen/orderdesk/internal/domain/model"
	"github.com/decoteen/orderdesk/internal/domain/repository"
)

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	orders repository.OrderRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{orders: orders, logger: logger, now: time.Now}
}

// Create validates a checkout snapshot, prices it and persists a new
// order in the pending status with a single history entry.
func (u *OrderUseCase) Create(ctx context.Context, userID int64, customer model.Customer, items []model.CartItem, paymentMethod string, discountRate float64) (*model.Order, error) {
	if len(items) == 0 {
		return nil, domainErrors.ErrEmptyCart
	}
	if discountRate < 0 || discountRate > 1 {
		return nil, domainErrors.ErrInvalidDiscountRate
	}
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, domainErrors.ErrInvalidQuantity
		}
	}

	id, err := u.orders.NextID(ctx)
	if err != nil {
		// counter store unavailable, degrade to a timestamp-derived id
		id = fmt.Sprintf("ORD%s", u.now().UTC().Format("150405"))
		u.logger.Error("order counter unavailable, using timestamp id",
			slog.String("fallback_id", id),
			slog.String("error", err.Error()))
	}

	now := u.now().UTC()
	order := &model.Order{
		ID:            id,
		UserID:        userID,
		Customer:      customer,
		CartItems:     items,
		PaymentMethod: paymentMethod,
		Pricing:       Price(items, discountRate),
		Status:        model.OrderStatusPending,
		History: []model.StatusEvent{{
			Status:    string(model.OrderStatusPending),
			Note:      "order created",
			CreatedAt: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := u.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateStatus applies a lifecycle transition. Transitions out of a
// terminal status are rejected with ErrTerminalStatus and leave the
// record unchanged.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus, actor, note string) error {
	if !status.Known() {
		return domainErrors.ErrUnknownStatus
	}
	if note == "" {
		note = fmt.Sprintf("status changed to %s", status)
	}

	enqueueInvoice := status == model.OrderStatusConfirmed
	applied, err := u.orders.UpdateStatus(ctx, orderID, status, actor, note, enqueueInvoice)
	if err != nil {
		return err
	}
	if !applied {
		return domainErrors.ErrTerminalStatus
	}
	return nil
}

// GetByID returns the order with its full status history.
func (u *OrderUseCase) GetByID(ctx context.Context, orderID string) (*model.Order, error) {
	return u.orders.GetByID(ctx, orderID)
}

// ListByUser returns the customer's orders, newest first.
func (u *OrderUseCase) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return u.orders.ListByUser(ctx, userID)
}

// ListByDay returns orders created on the given UTC calendar day.
func (u *OrderUseCase) ListByDay(ctx context.Context, day time.Time) ([]model.Order, error) {
	return u.orders.ListByDay(ctx, day)
}

// ListAll returns every order, optionally filtered by status.
func (u *OrderUseCase) ListAll(ctx context.Context, status *model.OrderStatus) ([]model.Order, error) {
	if status != nil && !status.Known() {
		return nil, domainErrors.ErrUnknownStatus
	}
	return u.orders.ListAll(ctx, status)
}

// Statistics aggregates counts and revenue across all orders.
func (u *OrderUseCase) Statistics(ctx context.Context) (*model.OrderStats, error) {
	return u.orders.Statistics(ctx, u.now().UTC())
}

// RecordInvoice reconciles a successful external invoicing call onto
// the order.
func (u *OrderUseCase) RecordInvoice(ctx context.Context, orderID, invoiceID, invoiceNumber string) error {
	note := fmt.Sprintf("invoice registered, number %s", invoiceNumber)
	return u.orders.RecordInvoice(ctx, orderID, invoiceID, invoiceNumber, note)
}

// RecordInvoiceError writes an error trail entry for a failed external
// invoicing call. The error text is bounded.
func (u *OrderUseCase) RecordInvoiceError(ctx context.Context, orderID, errText string) error {
	const maxErrLen = 100
	if len(errText) > maxErrLen {
		errText = errText[:maxErrLen]
	}
	return u.orders.RecordInvoiceError(ctx, orderID, errText)
}
