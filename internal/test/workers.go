package test

import (
	"context"
	"sync"
	"time"

	"github.com/decoteen/orderdesk/internal/domain/model"
)

// ReminderFacadeStub records reminder dispatch calls.
type ReminderFacadeStub struct {
	sync.Mutex

	DispatchFn func(context.Context, time.Time) (int, error)
	Calls      int
}

func (s *ReminderFacadeStub) DispatchReminders(ctx context.Context, asOf time.Time) (int, error) {
	s.Lock()
	s.Calls++
	s.Unlock()
	if s.DispatchFn != nil {
		return s.DispatchFn(ctx, asOf)
	}
	return 0, nil
}

// InvoicingFacadeStub drives the invoicing worker pool in tests. Each
// poll consumes the next batch from Batches; outcomes are recorded for
// assertions.
type InvoicingFacadeStub struct {
	sync.Mutex

	Batches [][]model.InvoiceRequest
	batch   int

	OrderFn    func(context.Context, string) (*model.Order, error)
	RegisterFn func(context.Context, *model.Order) (string, string, error)

	Recorded  []string
	Errors    []string
	Completed []string
	Failed    []string
}

func (s *InvoicingFacadeStub) PendingInvoiceRequests(ctx context.Context, limit, maxAttempts int) ([]model.InvoiceRequest, error) {
	s.Lock()
	defer s.Unlock()
	if s.batch >= len(s.Batches) {
		return nil, nil
	}
	batch := s.Batches[s.batch]
	s.batch++
	return batch, nil
}

func (s *InvoicingFacadeStub) Order(ctx context.Context, orderID string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, orderID)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusConfirmed}, nil
}

func (s *InvoicingFacadeStub) RegisterInvoice(ctx context.Context, order *model.Order) (string, string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, order)
	}
	return "inv-1", "1007", nil
}

func (s *InvoicingFacadeStub) RecordInvoice(ctx context.Context, orderID, invoiceID, invoiceNumber string) error {
	s.Lock()
	defer s.Unlock()
	s.Recorded = append(s.Recorded, orderID)
	return nil
}

func (s *InvoicingFacadeStub) RecordInvoiceError(ctx context.Context, orderID, errText string) error {
	s.Lock()
	defer s.Unlock()
	s.Errors = append(s.Errors, orderID)
	return nil
}

func (s *InvoicingFacadeStub) CompleteInvoiceRequest(ctx context.Context, requestID string) error {
	s.Lock()
	defer s.Unlock()
	s.Completed = append(s.Completed, requestID)
	return nil
}

func (s *InvoicingFacadeStub) FailInvoiceRequest(ctx context.Context, requestID, lastError string, maxAttempts int) error {
	s.Lock()
	defer s.Unlock()
	s.Failed = append(s.Failed, requestID)
	return nil
}
