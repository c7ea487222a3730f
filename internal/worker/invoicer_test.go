package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/decoteen/orderdesk/internal/domain/model"
	testhelpers "github.com/decoteen/orderdesk/internal/test"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewInvoicerDefaults(t *testing.T) {
	p := NewInvoicer(&testhelpers.InvoicingFacadeStub{}, time.Second, 0, 0, 0, newTestLogger())
	if p.batchSize != 1 {
		t.Fatalf("expected batch size default to 1, got %d", p.batchSize)
	}
	if p.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", p.workers)
	}
	if p.maxAttempts != 1 {
		t.Fatalf("expected max attempts default to 1, got %d", p.maxAttempts)
	}
}

func TestInvoicerRegistersInvoices(t *testing.T) {
	facade := &testhelpers.InvoicingFacadeStub{
		Batches: [][]model.InvoiceRequest{{{ID: "req-1", OrderID: "00042"}}},
	}
	p := NewInvoicer(facade, 10*time.Millisecond, 1, 3, 1, newTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	deadline := time.After(500 * time.Millisecond)
	for {
		facade.Lock()
		done := len(facade.Completed) > 0
		facade.Unlock()
		if done {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timeout waiting for invoice registration")
		case <-time.After(10 * time.Millisecond):
		}
	}

	p.Stop()
	facade.Lock()
	defer facade.Unlock()
	if len(facade.Recorded) != 1 || facade.Recorded[0] != "00042" {
		t.Fatalf("expected invoice recorded for 00042, got %v", facade.Recorded)
	}
	if facade.Completed[0] != "req-1" {
		t.Fatalf("expected request req-1 completed, got %v", facade.Completed)
	}
	if len(facade.Failed) != 0 {
		t.Fatalf("expected no failures, got %v", facade.Failed)
	}
}

func TestInvoicerSkipsAlreadyInvoicedOrder(t *testing.T) {
	invoiceID := "inv-9"
	facade := &testhelpers.InvoicingFacadeStub{
		OrderFn: func(ctx context.Context, orderID string) (*model.Order, error) {
			return &model.Order{ID: orderID, InvoiceID: &invoiceID}, nil
		},
	}
	p := NewInvoicer(facade, time.Second, 1, 3, 1, newTestLogger())

	p.handleRequest(context.Background(), model.InvoiceRequest{ID: "req-1", OrderID: "00042"})

	if len(facade.Recorded) != 0 {
		t.Fatalf("expected no new invoice, got %v", facade.Recorded)
	}
	if len(facade.Completed) != 1 || facade.Completed[0] != "req-1" {
		t.Fatalf("expected request completed, got %v", facade.Completed)
	}
}

func TestInvoicerRecordsRegistrationFailure(t *testing.T) {
	facade := &testhelpers.InvoicingFacadeStub{
		RegisterFn: func(context.Context, *model.Order) (string, string, error) {
			return "", "", errors.New("api down")
		},
	}
	p := NewInvoicer(facade, time.Second, 1, 3, 1, newTestLogger())

	p.handleRequest(context.Background(), model.InvoiceRequest{ID: "req-1", OrderID: "00042"})

	if len(facade.Errors) != 1 || facade.Errors[0] != "00042" {
		t.Fatalf("expected error event for 00042, got %v", facade.Errors)
	}
	if len(facade.Failed) != 1 || facade.Failed[0] != "req-1" {
		t.Fatalf("expected request failed, got %v", facade.Failed)
	}
	if len(facade.Completed) != 0 {
		t.Fatalf("expected no completion, got %v", facade.Completed)
	}
}

func TestInvoicerFailsRequestWhenOrderMissing(t *testing.T) {
	facade := &testhelpers.InvoicingFacadeStub{
		OrderFn: func(context.Context, string) (*model.Order, error) {
			return nil, errors.New("not found")
		},
	}
	p := NewInvoicer(facade, time.Second, 1, 3, 1, newTestLogger())

	p.handleRequest(context.Background(), model.InvoiceRequest{ID: "req-1", OrderID: "missing"})

	if len(facade.Failed) != 1 {
		t.Fatalf("expected request failed, got %v", facade.Failed)
	}
	if len(facade.Errors) != 0 {
		t.Fatalf("expected no error event for a load failure, got %v", facade.Errors)
	}
}

func TestInvoicerStopWithoutStart(t *testing.T) {
	p := NewInvoicer(&testhelpers.InvoicingFacadeStub{}, time.Second, 1, 3, 1, newTestLogger())
	p.Stop()
}
