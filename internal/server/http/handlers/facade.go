package handlers

import (
	"context"
	"time"

	"github.com/decoteen/orderdesk/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, customerID, name, city string, chatID int64, accessCode string) (*model.CustomerAccount, error)
	Authenticate(ctx context.Context, customerID, accessCode string) (string, error)
	ParseToken(token string) (int64, error)
	AccountByChatID(ctx context.Context, chatID int64) (*model.CustomerAccount, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, userID int64, customer model.Customer, items []model.CartItem, paymentMethod string, discountRate float64, receiptRef string) (*model.Order, error)
	ChangeOrderStatus(ctx context.Context, orderID string, status model.OrderStatus, actor, note string) error
	Order(ctx context.Context, orderID string) (*model.Order, error)
	OrdersByUser(ctx context.Context, userID int64) ([]model.Order, error)
	OrdersByDay(ctx context.Context, day time.Time) ([]model.Order, error)
	Orders(ctx context.Context, status *model.OrderStatus) ([]model.Order, error)
	Statistics(ctx context.Context) (*model.OrderStats, error)
}

// ScheduleFacade provides deferred-payment plan operations.
type ScheduleFacade interface {
	AddSchedule60Day(ctx context.Context, userID int64, customer model.Customer, total, advance, remaining int64, orderID string) (*model.PaymentSchedule, error)
	AddSchedule90Day(ctx context.Context, userID int64, customer model.Customer, total, advance, remaining int64, orderID string) (*model.PaymentSchedule, error)
	MarkPaymentMade(ctx context.Context, scheduleID string, paymentNumber int) error
	CancelSchedule(ctx context.Context, scheduleID string) error
	SchedulesByUser(ctx context.Context, userID int64) ([]model.PaymentSchedule, error)
	NoteContactMade(ctx context.Context, scheduleID string, paymentNumber int) error
	NoteRemindTomorrow(ctx context.Context, scheduleID string, paymentNumber int) error
	DispatchReminders(ctx context.Context, asOf time.Time) (int, error)
}

// DeskFacade aggregates the full set of operations used across handlers.
type DeskFacade interface {
	AuthFacade
	OrderFacade
	ScheduleFacade
}
