package repository

import (
	"context"

	"github.com/decoteen/orderdesk/internal/domain/model"
)

// ScheduleRepository describes persistence operations with payment
// schedules.
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *model.PaymentSchedule) error
	GetByID(ctx context.Context, scheduleID string) (*model.PaymentSchedule, error)
	ListActive(ctx context.Context) ([]model.PaymentSchedule, error)
	ListByUser(ctx context.Context, userID int64) ([]model.PaymentSchedule, error)
	// HasActiveForOrder reports whether an active schedule already
	// exists for the order.
	HasActiveForOrder(ctx context.Context, orderID string) (bool, error)
	// MarkPayment records the 0-based installment index as paid and
	// flips the schedule to completed once all installments are present.
	// Recording an already-present index is a no-op.
	MarkPayment(ctx context.Context, scheduleID string, index int) error
	Cancel(ctx context.Context, scheduleID string) error
}
