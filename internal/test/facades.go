package test

import (
	"context"
	"time"

	domainErrors "github.com/decoteen/orderdesk/internal/domain/errors"
	"github.com/decoteen/orderdesk/internal/domain/model"
)

// DeskFacadeStub provides controllable behaviour for handler tests.
// Every method falls back to a benign default when its override is nil.
type DeskFacadeStub struct {
	RegisterFn           func(context.Context, string, string, string, int64, string) (*model.CustomerAccount, error)
	AuthenticateFn       func(context.Context, string, string) (string, error)
	ParseTokenFn         func(string) (int64, error)
	AccountByChatIDFn    func(context.Context, int64) (*model.CustomerAccount, error)
	PlaceOrderFn         func(context.Context, int64, model.Customer, []model.CartItem, string, float64, string) (*model.Order, error)
	ChangeOrderStatusFn  func(context.Context, string, model.OrderStatus, string, string) error
	OrderFn              func(context.Context, string) (*model.Order, error)
	OrdersByUserFn       func(context.Context, int64) ([]model.Order, error)
	OrdersByDayFn        func(context.Context, time.Time) ([]model.Order, error)
	OrdersFn             func(context.Context, *model.OrderStatus) ([]model.Order, error)
	StatisticsFn         func(context.Context) (*model.OrderStats, error)
	AddSchedule60DayFn   func(context.Context, int64, model.Customer, int64, int64, int64, string) (*model.PaymentSchedule, error)
	AddSchedule90DayFn   func(context.Context, int64, model.Customer, int64, int64, int64, string) (*model.PaymentSchedule, error)
	MarkPaymentMadeFn    func(context.Context, string, int) error
	CancelScheduleFn     func(context.Context, string) error
	SchedulesByUserFn    func(context.Context, int64) ([]model.PaymentSchedule, error)
	NoteContactMadeFn    func(context.Context, string, int) error
	NoteRemindTomorrowFn func(context.Context, string, int) error
	DispatchRemindersFn  func(context.Context, time.Time) (int, error)
}

func (s DeskFacadeStub) Register(ctx context.Context, customerID, name, city string, chatID int64, accessCode string) (*model.CustomerAccount, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, customerID, name, city, chatID, accessCode)
	}
	return &model.CustomerAccount{CustomerID: customerID, Name: name, City: city, ChatID: chatID}, nil
}

func (s DeskFacadeStub) Authenticate(ctx context.Context, customerID, accessCode string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, customerID, accessCode)
	}
	return "token", nil
}

func (s DeskFacadeStub) ParseToken(token string) (int64, error) {
	if s.ParseTokenFn != nil {
		return s.ParseTokenFn(token)
	}
	return 1, nil
}

func (s DeskFacadeStub) AccountByChatID(ctx context.Context, chatID int64) (*model.CustomerAccount, error) {
	if s.AccountByChatIDFn != nil {
		return s.AccountByChatIDFn(ctx, chatID)
	}
	return &model.CustomerAccount{CustomerID: "C-1", Name: "Stub", ChatID: chatID}, nil
}

func (s DeskFacadeStub) PlaceOrder(ctx context.Context, userID int64, customer model.Customer, items []model.CartItem, paymentMethod string, discountRate float64, receiptRef string) (*model.Order, error) {
	if s.PlaceOrderFn != nil {
		return s.PlaceOrderFn(ctx, userID, customer, items, paymentMethod, discountRate, receiptRef)
	}
	return &model.Order{ID: "00001", UserID: userID, Customer: customer, CartItems: items, Status: model.OrderStatusPending}, nil
}

func (s DeskFacadeStub) ChangeOrderStatus(ctx context.Context, orderID string, status model.OrderStatus, actor, note string) error {
	if s.ChangeOrderStatusFn != nil {
		return s.ChangeOrderStatusFn(ctx, orderID, status, actor, note)
	}
	return nil
}

func (s DeskFacadeStub) Order(ctx context.Context, orderID string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, orderID)
	}
	return nil, domainErrors.ErrNotFound
}

func (s DeskFacadeStub) OrdersByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.OrdersByUserFn != nil {
		return s.OrdersByUserFn(ctx, userID)
	}
	return nil, nil
}

func (s DeskFacadeStub) OrdersByDay(ctx context.Context, day time.Time) ([]model.Order, error) {
	if s.OrdersByDayFn != nil {
		return s.OrdersByDayFn(ctx, day)
	}
	return nil, nil
}

func (s DeskFacadeStub) Orders(ctx context.Context, status *model.OrderStatus) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, status)
	}
	return nil, nil
}

func (s DeskFacadeStub) Statistics(ctx context.Context) (*model.OrderStats, error) {
	if s.StatisticsFn != nil {
		return s.StatisticsFn(ctx)
	}
	return &model.OrderStats{StatusDistribution: map[model.OrderStatus]int{}}, nil
}

func (s DeskFacadeStub) AddSchedule60Day(ctx context.Context, userID int64, customer model.Customer, total, advance, remaining int64, orderID string) (*model.PaymentSchedule, error) {
	if s.AddSchedule60DayFn != nil {
		return s.AddSchedule60DayFn(ctx, userID, customer, total, advance, remaining, orderID)
	}
	return &model.PaymentSchedule{ID: "1_00001_1", UserID: userID, OrderID: orderID, Plan: model.Plan60Day, Status: model.ScheduleStatusActive}, nil
}

func (s DeskFacadeStub) AddSchedule90Day(ctx context.Context, userID int64, customer model.Customer, total, advance, remaining int64, orderID string) (*model.PaymentSchedule, error) {
	if s.AddSchedule90DayFn != nil {
		return s.AddSchedule90DayFn(ctx, userID, customer, total, advance, remaining, orderID)
	}
	return &model.PaymentSchedule{ID: "1_00001_1", UserID: userID, OrderID: orderID, Plan: model.Plan90Day, Status: model.ScheduleStatusActive}, nil
}

func (s DeskFacadeStub) MarkPaymentMade(ctx context.Context, scheduleID string, paymentNumber int) error {
	if s.MarkPaymentMadeFn != nil {
		return s.MarkPaymentMadeFn(ctx, scheduleID, paymentNumber)
	}
	return nil
}

func (s DeskFacadeStub) CancelSchedule(ctx context.Context, scheduleID string) error {
	if s.CancelScheduleFn != nil {
		return s.CancelScheduleFn(ctx, scheduleID)
	}
	return nil
}

func (s DeskFacadeStub) SchedulesByUser(ctx context.Context, userID int64) ([]model.PaymentSchedule, error) {
	if s.SchedulesByUserFn != nil {
		return s.SchedulesByUserFn(ctx, userID)
	}
	return nil, nil
}

func (s DeskFacadeStub) NoteContactMade(ctx context.Context, scheduleID string, paymentNumber int) error {
	if s.NoteContactMadeFn != nil {
		return s.NoteContactMadeFn(ctx, scheduleID, paymentNumber)
	}
	return nil
}

func (s DeskFacadeStub) NoteRemindTomorrow(ctx context.Context, scheduleID string, paymentNumber int) error {
	if s.NoteRemindTomorrowFn != nil {
		return s.NoteRemindTomorrowFn(ctx, scheduleID, paymentNumber)
	}
	return nil
}

func (s DeskFacadeStub) DispatchReminders(ctx context.Context, asOf time.Time) (int, error) {
	if s.DispatchRemindersFn != nil {
		return s.DispatchRemindersFn(ctx, asOf)
	}
	return 0, nil
}
