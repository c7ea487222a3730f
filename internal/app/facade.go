package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/decoteen/orderdesk/internal/adapter/hesabfa"
	"github.com/decoteen/orderdesk/internal/domain/model"
	"github.com/decoteen/orderdesk/internal/domain/repository"
	"github.com/decoteen/orderdesk/internal/notify"
	"github.com/decoteen/orderdesk/internal/usecase"
)

// InvoicingBridge abstracts the external bookkeeping service.
type InvoicingBridge interface {
	CreateInvoice(ctx context.Context, order *model.Order) (*hesabfa.InvoiceResult, error)
	CreateContactIfNotExists(ctx context.Context, customer model.Customer) error
}

// OrderDeskFacade couples the use cases with the notification and
// invoicing boundaries. State changes are persisted first; notification
// failures are logged inside the notifier and never propagated.
type OrderDeskFacade struct {
	auth      *usecase.AuthUseCase
	orders    *usecase.OrderUseCase
	schedules *usecase.ScheduleUseCase
	outbox    repository.OutboxRepository
	notifier  *notify.Notifier
	invoicing InvoicingBridge
	logger    *slog.Logger
}

func NewOrderDeskFacade(
	auth *usecase.AuthUseCase,
	orders *usecase.OrderUseCase,
	schedules *usecase.ScheduleUseCase,
	outbox repository.OutboxRepository,
	notifier *notify.Notifier,
	invoicing InvoicingBridge,
	logger *slog.Logger,
) *OrderDeskFacade {
	return &OrderDeskFacade{
		auth:      auth,
		orders:    orders,
		schedules: schedules,
		outbox:    outbox,
		notifier:  notifier,
		invoicing: invoicing,
		logger:    logger,
	}
}

func (f *OrderDeskFacade) Register(ctx context.Context, customerID, name, city string, chatID int64, accessCode string) (*model.CustomerAccount, error) {
	return f.auth.Register(ctx, customerID, name, city, chatID, accessCode)
}

func (f *OrderDeskFacade) Authenticate(ctx context.Context, customerID, accessCode string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, customerID, accessCode)
	return token, err
}

func (f *OrderDeskFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *OrderDeskFacade) AccountByChatID(ctx context.Context, chatID int64) (*model.CustomerAccount, error) {
	return f.auth.AccountByChatID(ctx, chatID)
}

// PlaceOrder persists the order and then announces it to staff and
// customer. The order is created regardless of notification outcome.
func (f *OrderDeskFacade) PlaceOrder(ctx context.Context, userID int64, customer model.Customer, items []model.CartItem, paymentMethod string, discountRate float64, receiptRef string) (*model.Order, error) {
	order, err := f.orders.Create(ctx, userID, customer, items, paymentMethod, discountRate)
	if err != nil {
		return nil, err
	}
	f.notifier.OrderCreated(ctx, order, receiptRef)
	return order, nil
}

// ChangeOrderStatus applies the transition and notifies the customer.
func (f *OrderDeskFacade) ChangeOrderStatus(ctx context.Context, orderID string, status model.OrderStatus, actor, note string) error {
	order, err := f.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if err := f.orders.UpdateStatus(ctx, orderID, status, actor, note); err != nil {
		return err
	}
	f.notifier.StatusChanged(ctx, order.UserID, orderID, status, actor)
	return nil
}

func (f *OrderDeskFacade) Order(ctx context.Context, orderID string) (*model.Order, error) {
	return f.orders.GetByID(ctx, orderID)
}

func (f *OrderDeskFacade) OrdersByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return f.orders.ListByUser(ctx, userID)
}

func (f *OrderDeskFacade) OrdersByDay(ctx context.Context, day time.Time) ([]model.Order, error) {
	return f.orders.ListByDay(ctx, day)
}

func (f *OrderDeskFacade) Orders(ctx context.Context, status *model.OrderStatus) ([]model.Order, error) {
	return f.orders.ListAll(ctx, status)
}

func (f *OrderDeskFacade) Statistics(ctx context.Context) (*model.OrderStats, error) {
	return f.orders.Statistics(ctx)
}

func (f *OrderDeskFacade) AddSchedule60Day(ctx context.Context, userID int64, customer model.Customer, total, advance, remaining int64, orderID string) (*model.PaymentSchedule, error) {
	return f.schedules.Add60Day(ctx, userID, customer, total, advance, remaining, orderID)
}

func (f *OrderDeskFacade) AddSchedule90Day(ctx context.Context, userID int64, customer model.Customer, total, advance, remaining int64, orderID string) (*model.PaymentSchedule, error) {
	return f.schedules.Add90Day(ctx, userID, customer, total, advance, remaining, orderID)
}

func (f *OrderDeskFacade) MarkPaymentMade(ctx context.Context, scheduleID string, paymentNumber int) error {
	return f.schedules.MarkPaymentMade(ctx, scheduleID, paymentNumber)
}

func (f *OrderDeskFacade) CancelSchedule(ctx context.Context, scheduleID string) error {
	return f.schedules.Cancel(ctx, scheduleID)
}

func (f *OrderDeskFacade) SchedulesByUser(ctx context.Context, userID int64) ([]model.PaymentSchedule, error) {
	return f.schedules.ListByUser(ctx, userID)
}

// NoteContactMade acknowledges the staff annotation. The schedule is
// not modified: the affordance is informational only.
func (f *OrderDeskFacade) NoteContactMade(ctx context.Context, scheduleID string, paymentNumber int) error {
	if _, err := f.schedules.Get(ctx, scheduleID); err != nil {
		return err
	}
	f.logger.Info("contact made noted",
		slog.String("schedule", scheduleID), slog.Int("payment", paymentNumber))
	return nil
}

// NoteRemindTomorrow acknowledges the staff annotation. Due dates are
// not rescheduled; the next automatic reminder still fires.
func (f *OrderDeskFacade) NoteRemindTomorrow(ctx context.Context, scheduleID string, paymentNumber int) error {
	if _, err := f.schedules.Get(ctx, scheduleID); err != nil {
		return err
	}
	f.logger.Info("remind tomorrow noted",
		slog.String("schedule", scheduleID), slog.Int("payment", paymentNumber))
	return nil
}

// DispatchReminders sends every reminder due as of the given day to the
// staff channel. Individual send failures are logged and skipped.
func (f *OrderDeskFacade) DispatchReminders(ctx context.Context, asOf time.Time) (int, error) {
	reminders, err := f.schedules.PendingReminders(ctx, asOf)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, reminder := range reminders {
		if err := f.notifier.PaymentReminder(ctx, reminder); err != nil {
			f.logger.Error("payment reminder failed",
				slog.String("schedule", reminder.ScheduleID),
				slog.String("error", err.Error()))
			continue
		}
		sent++
	}
	return sent, nil
}

func (f *OrderDeskFacade) PendingInvoiceRequests(ctx context.Context, limit, maxAttempts int) ([]model.InvoiceRequest, error) {
	return f.outbox.SelectPending(ctx, limit, maxAttempts)
}

// RegisterInvoice pushes the order to the bookkeeping service. Contact
// registration is best-effort: the invoice is attempted regardless.
func (f *OrderDeskFacade) RegisterInvoice(ctx context.Context, order *model.Order) (string, string, error) {
	if err := f.invoicing.CreateContactIfNotExists(ctx, order.Customer); err != nil {
		f.logger.Warn("contact registration failed",
			slog.String("customer", order.Customer.CustomerID),
			slog.String("error", err.Error()))
	}
	result, err := f.invoicing.CreateInvoice(ctx, order)
	if err != nil {
		return "", "", err
	}
	return result.InvoiceID, result.InvoiceNumber, nil
}

func (f *OrderDeskFacade) RecordInvoice(ctx context.Context, orderID, invoiceID, invoiceNumber string) error {
	return f.orders.RecordInvoice(ctx, orderID, invoiceID, invoiceNumber)
}

func (f *OrderDeskFacade) RecordInvoiceError(ctx context.Context, orderID, errText string) error {
	return f.orders.RecordInvoiceError(ctx, orderID, errText)
}

func (f *OrderDeskFacade) CompleteInvoiceRequest(ctx context.Context, requestID string) error {
	return f.outbox.MarkDone(ctx, requestID)
}

func (f *OrderDeskFacade) FailInvoiceRequest(ctx context.Context, requestID, lastError string, maxAttempts int) error {
	return f.outbox.MarkFailed(ctx, requestID, lastError, maxAttempts)
}
