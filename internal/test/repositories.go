package test

import (
	"context"
	"time"

	domainErrors "github.com/decoteen/orderdesk/internal/domain/errors"
	"github.com/decoteen/orderdesk/internal/domain/model"
)

// CustomerRepositoryStub stores reseller accounts in-memory for tests.
type CustomerRepositoryStub struct {
	ByCustomerID map[string]*model.CustomerAccount
	ByChatID     map[int64]*model.CustomerAccount
	Err          error
}

// NewCustomerRepositoryStub constructs stub repository with initialized maps.
func NewCustomerRepositoryStub() *CustomerRepositoryStub {
	return &CustomerRepositoryStub{
		ByCustomerID: make(map[string]*model.CustomerAccount),
		ByChatID:     make(map[int64]*model.CustomerAccount),
	}
}

// Create registers the account unless it already exists or the stub has an explicit error.
func (s *CustomerRepositoryStub) Create(ctx context.Context, account *model.CustomerAccount) error {
	if s.Err != nil {
		return s.Err
	}
	if _, exists := s.ByCustomerID[account.CustomerID]; exists {
		return domainErrors.ErrAlreadyExists
	}
	s.ByCustomerID[account.CustomerID] = account
	s.ByChatID[account.ChatID] = account
	return nil
}

// GetByCustomerID fetches the account or returns not found.
func (s *CustomerRepositoryStub) GetByCustomerID(ctx context.Context, customerID string) (*model.CustomerAccount, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if account, ok := s.ByCustomerID[customerID]; ok {
		return account, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByChatID fetches the account or returns not found.
func (s *CustomerRepositoryStub) GetByChatID(ctx context.Context, chatID int64) (*model.CustomerAccount, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if account, ok := s.ByChatID[chatID]; ok {
		return account, nil
	}
	return nil, domainErrors.ErrNotFound
}

// OrderRepositoryStub allows tests to customize behaviour.
type OrderRepositoryStub struct {
	CreateFn             func(context.Context, *model.Order) error
	NextIDFn             func(context.Context) (string, error)
	GetByIDFn            func(context.Context, string) (*model.Order, error)
	ListByUserFn         func(context.Context, int64) ([]model.Order, error)
	ListByDayFn          func(context.Context, time.Time) ([]model.Order, error)
	ListAllFn            func(context.Context, *model.OrderStatus) ([]model.Order, error)
	UpdateStatusFn       func(context.Context, string, model.OrderStatus, string, string, bool) (bool, error)
	RecordInvoiceFn      func(context.Context, string, string, string, string) error
	RecordInvoiceErrorFn func(context.Context, string, string) error
	StatisticsFn         func(context.Context, time.Time) (*model.OrderStats, error)
}

func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	return nil
}

func (s *OrderRepositoryStub) NextID(ctx context.Context) (string, error) {
	if s.NextIDFn != nil {
		return s.NextIDFn(ctx)
	}
	return "00001", nil
}

func (s *OrderRepositoryStub) GetByID(ctx context.Context, orderID string) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, orderID)
	}
	return nil, domainErrors.ErrNotFound
}

func (s *OrderRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.ListByUserFn != nil {
		return s.ListByUserFn(ctx, userID)
	}
	return nil, nil
}

func (s *OrderRepositoryStub) ListByDay(ctx context.Context, day time.Time) ([]model.Order, error) {
	if s.ListByDayFn != nil {
		return s.ListByDayFn(ctx, day)
	}
	return nil, nil
}

func (s *OrderRepositoryStub) ListAll(ctx context.Context, status *model.OrderStatus) ([]model.Order, error) {
	if s.ListAllFn != nil {
		return s.ListAllFn(ctx, status)
	}
	return nil, nil
}

func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus, actor, note string, enqueueInvoice bool) (bool, error) {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, orderID, status, actor, note, enqueueInvoice)
	}
	return true, nil
}

func (s *OrderRepositoryStub) RecordInvoice(ctx context.Context, orderID, invoiceID, invoiceNumber, note string) error {
	if s.RecordInvoiceFn != nil {
		return s.RecordInvoiceFn(ctx, orderID, invoiceID, invoiceNumber, note)
	}
	return nil
}

func (s *OrderRepositoryStub) RecordInvoiceError(ctx context.Context, orderID, errText string) error {
	if s.RecordInvoiceErrorFn != nil {
		return s.RecordInvoiceErrorFn(ctx, orderID, errText)
	}
	return nil
}

func (s *OrderRepositoryStub) Statistics(ctx context.Context, today time.Time) (*model.OrderStats, error) {
	if s.StatisticsFn != nil {
		return s.StatisticsFn(ctx, today)
	}
	return &model.OrderStats{StatusDistribution: map[model.OrderStatus]int{}}, nil
}

// ScheduleRepositoryStub stores schedules in-memory for tests.
type ScheduleRepositoryStub struct {
	Schedules map[string]*model.PaymentSchedule
	Err       error
}

// NewScheduleRepositoryStub constructs stub repository with an initialized map.
func NewScheduleRepositoryStub() *ScheduleRepositoryStub {
	return &ScheduleRepositoryStub{Schedules: make(map[string]*model.PaymentSchedule)}
}

func (s *ScheduleRepositoryStub) Create(ctx context.Context, schedule *model.PaymentSchedule) error {
	if s.Err != nil {
		return s.Err
	}
	s.Schedules[schedule.ID] = schedule
	return nil
}

func (s *ScheduleRepositoryStub) GetByID(ctx context.Context, scheduleID string) (*model.PaymentSchedule, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if schedule, ok := s.Schedules[scheduleID]; ok {
		return schedule, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *ScheduleRepositoryStub) ListActive(ctx context.Context) ([]model.PaymentSchedule, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var active []model.PaymentSchedule
	for _, schedule := range s.Schedules {
		if schedule.Status == model.ScheduleStatusActive {
			active = append(active, *schedule)
		}
	}
	return active, nil
}

func (s *ScheduleRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.PaymentSchedule, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var result []model.PaymentSchedule
	for _, schedule := range s.Schedules {
		if schedule.UserID == userID {
			result = append(result, *schedule)
		}
	}
	return result, nil
}

func (s *ScheduleRepositoryStub) HasActiveForOrder(ctx context.Context, orderID string) (bool, error) {
	if s.Err != nil {
		return false, s.Err
	}
	for _, schedule := range s.Schedules {
		if schedule.OrderID == orderID && schedule.Status == model.ScheduleStatusActive {
			return true, nil
		}
	}
	return false, nil
}

func (s *ScheduleRepositoryStub) MarkPayment(ctx context.Context, scheduleID string, index int) error {
	if s.Err != nil {
		return s.Err
	}
	schedule, ok := s.Schedules[scheduleID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	for _, made := range schedule.PaymentsMade {
		if made == index {
			return nil
		}
	}
	schedule.PaymentsMade = append(schedule.PaymentsMade, index)
	if len(schedule.PaymentsMade) >= schedule.Installments() {
		schedule.Status = model.ScheduleStatusCompleted
	}
	return nil
}

func (s *ScheduleRepositoryStub) Cancel(ctx context.Context, scheduleID string) error {
	if s.Err != nil {
		return s.Err
	}
	schedule, ok := s.Schedules[scheduleID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	schedule.Status = model.ScheduleStatusCancelled
	return nil
}

// OutboxRepositoryStub allows tests to customize outbox behaviour.
type OutboxRepositoryStub struct {
	SelectPendingFn func(context.Context, int, int) ([]model.InvoiceRequest, error)
	MarkDoneFn      func(context.Context, string) error
	MarkFailedFn    func(context.Context, string, string, int) error
}

func (s *OutboxRepositoryStub) SelectPending(ctx context.Context, limit, maxAttempts int) ([]model.InvoiceRequest, error) {
	if s.SelectPendingFn != nil {
		return s.SelectPendingFn(ctx, limit, maxAttempts)
	}
	return nil, nil
}

func (s *OutboxRepositoryStub) MarkDone(ctx context.Context, requestID string) error {
	if s.MarkDoneFn != nil {
		return s.MarkDoneFn(ctx, requestID)
	}
	return nil
}

func (s *OutboxRepositoryStub) MarkFailed(ctx context.Context, requestID, lastError string, maxAttempts int) error {
	if s.MarkFailedFn != nil {
		return s.MarkFailedFn(ctx, requestID, lastError, maxAttempts)
	}
	return nil
}
