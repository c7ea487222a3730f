package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	domainErrors "github.com/decoteen/orderdesk/internal/domain/errors"
	"github.com/decoteen/orderdesk/internal/domain/model"
	"github.com/decoteen/orderdesk/internal/test"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validCart() []model.CartItem {
	return []model.CartItem{{ProductID: "P-1", ProductName: "Jacket", Size: "L", Quantity: 1, Price: 4_780_000}}
}

func TestOrderCreateRejectsEmptyCart(t *testing.T) {
	repo := &test.OrderRepositoryStub{
		NextIDFn: func(context.Context) (string, error) {
			t.Fatal("counter must not be touched for an empty cart")
			return "", nil
		},
		CreateFn: func(context.Context, *model.Order) error {
			t.Fatal("empty cart must not be persisted")
			return nil
		},
	}
	uc := NewOrderUseCase(repo, newTestLogger())

	if _, err := uc.Create(context.Background(), 7, model.Customer{}, nil, "cash", 0); !errors.Is(err, domainErrors.ErrEmptyCart) {
		t.Fatalf("expected empty cart error, got %v", err)
	}
}

func TestOrderCreateRejectsInvalidDiscountRate(t *testing.T) {
	uc := NewOrderUseCase(&test.OrderRepositoryStub{}, newTestLogger())

	for _, rate := range []float64{-0.1, 1.5} {
		if _, err := uc.Create(context.Background(), 7, model.Customer{}, validCart(), "cash", rate); !errors.Is(err, domainErrors.ErrInvalidDiscountRate) {
			t.Fatalf("rate %v: expected invalid discount rate error, got %v", rate, err)
		}
	}
}

func TestOrderCreateRejectsZeroQuantity(t *testing.T) {
	items := []model.CartItem{{ProductID: "P-1", Quantity: 0, Price: 100}}
	uc := NewOrderUseCase(&test.OrderRepositoryStub{}, newTestLogger())

	if _, err := uc.Create(context.Background(), 7, model.Customer{}, items, "cash", 0); !errors.Is(err, domainErrors.ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity error, got %v", err)
	}
}

func TestOrderCreateInitialHistory(t *testing.T) {
	var persisted *model.Order
	repo := &test.OrderRepositoryStub{
		NextIDFn: func(context.Context) (string, error) { return "00042", nil },
		CreateFn: func(_ context.Context, order *model.Order) error {
			persisted = order
			return nil
		},
	}
	uc := NewOrderUseCase(repo, newTestLogger())

	order, err := uc.Create(context.Background(), 7, model.Customer{CustomerID: "C-9"}, validCart(), "installment_60", 0.30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if persisted == nil {
		t.Fatal("order was not persisted")
	}
	if order.ID != "00042" {
		t.Fatalf("unexpected order id %s", order.ID)
	}
	if order.Status != model.OrderStatusPending {
		t.Fatalf("new order must be pending, got %s", order.Status)
	}
	if len(order.History) != 1 || order.History[0].Status != string(model.OrderStatusPending) {
		t.Fatalf("expected single pending history entry, got %+v", order.History)
	}
	if order.Pricing.Total != 3_647_140 {
		t.Fatalf("unexpected total %d", order.Pricing.Total)
	}
}

func TestOrderCreateFallsBackToTimestampID(t *testing.T) {
	repo := &test.OrderRepositoryStub{
		NextIDFn: func(context.Context) (string, error) { return "", errors.New("sequence unavailable") },
	}
	uc := NewOrderUseCase(repo, newTestLogger())
	uc.now = func() time.Time { return time.Date(2026, 2, 3, 15, 4, 5, 0, time.UTC) }

	order, err := uc.Create(context.Background(), 7, model.Customer{}, validCart(), "cash", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ID != "ORD150405" {
		t.Fatalf("unexpected fallback id %s", order.ID)
	}
}

func TestOrderUpdateStatusRejectsUnknown(t *testing.T) {
	repo := &test.OrderRepositoryStub{
		UpdateStatusFn: func(context.Context, string, model.OrderStatus, string, string, bool) (bool, error) {
			t.Fatal("unknown status must not reach the repository")
			return false, nil
		},
	}
	uc := NewOrderUseCase(repo, newTestLogger())

	if err := uc.UpdateStatus(context.Background(), "00001", "vanished", "staff", ""); !errors.Is(err, domainErrors.ErrUnknownStatus) {
		t.Fatalf("expected unknown status error, got %v", err)
	}
}

func TestOrderUpdateStatusTerminalNotApplied(t *testing.T) {
	repo := &test.OrderRepositoryStub{
		UpdateStatusFn: func(context.Context, string, model.OrderStatus, string, string, bool) (bool, error) {
			return false, nil
		},
	}
	uc := NewOrderUseCase(repo, newTestLogger())

	if err := uc.UpdateStatus(context.Background(), "00001", model.OrderStatusShipped, "staff", ""); !errors.Is(err, domainErrors.ErrTerminalStatus) {
		t.Fatalf("expected terminal status error, got %v", err)
	}
}

func TestOrderUpdateStatusEnqueuesInvoiceOnConfirmed(t *testing.T) {
	var enqueued []bool
	repo := &test.OrderRepositoryStub{
		UpdateStatusFn: func(_ context.Context, _ string, _ model.OrderStatus, _, _ string, enqueueInvoice bool) (bool, error) {
			enqueued = append(enqueued, enqueueInvoice)
			return true, nil
		},
	}
	uc := NewOrderUseCase(repo, newTestLogger())

	if err := uc.UpdateStatus(context.Background(), "00001", model.OrderStatusConfirmed, "staff", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := uc.UpdateStatus(context.Background(), "00001", model.OrderStatusShipped, "staff", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(enqueued) != 2 || !enqueued[0] || enqueued[1] {
		t.Fatalf("invoicing must be requested on confirmed only, got %v", enqueued)
	}
}

func TestOrderRecordInvoiceErrorTruncates(t *testing.T) {
	var recorded string
	repo := &test.OrderRepositoryStub{
		RecordInvoiceErrorFn: func(_ context.Context, _ string, note string) error {
			recorded = note
			return nil
		},
	}
	uc := NewOrderUseCase(repo, newTestLogger())

	long := strings.Repeat("x", 300)
	if err := uc.RecordInvoiceError(context.Background(), "00001", long); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recorded) != 100 {
		t.Fatalf("error text must be bounded to 100 chars, got %d", len(recorded))
	}
}
