package repository

import (
	"context"
	"time"

	"github.com/decoteen/orderdesk/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// Create persists a new order with its initial history entry and
	// returns the allocated order id.
	Create(ctx context.Context, order *model.Order) error
	// NextID allocates the next order id from the monotonic counter.
	NextID(ctx context.Context) (string, error)
	GetByID(ctx context.Context, orderID string) (*model.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
	// ListByDay returns orders created on the given UTC calendar day.
	ListByDay(ctx context.Context, day time.Time) ([]model.Order, error)
	// ListAll returns every order, optionally filtered by status.
	ListAll(ctx context.Context, status *model.OrderStatus) ([]model.Order, error)
	// UpdateStatus transitions an order and appends a history entry. The
	// update is guarded: it does not apply when the current status is
	// terminal, in which case it reports applied=false.
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus, actor, note string, enqueueInvoice bool) (applied bool, err error)
	// RecordInvoice sets the external invoice reference once and appends
	// a history entry of kind hesabfa_created.
	RecordInvoice(ctx context.Context, orderID, invoiceID, invoiceNumber, note string) error
	// RecordInvoiceError appends a hesabfa_error history entry without
	// touching the order's status.
	RecordInvoiceError(ctx context.Context, orderID, note string) error
	Statistics(ctx context.Context, today time.Time) (*model.OrderStats, error)
}
