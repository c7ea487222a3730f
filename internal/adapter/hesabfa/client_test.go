package hesabfa

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/decoteen/orderdesk/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func sampleOrder() *model.Order {
	return &model.Order{
		ID:     "00042",
		UserID: 42,
		Customer: model.Customer{
			CustomerID: "C-100",
			Name:       "Marjan",
			City:       "Tehran",
		},
		CartItems: []model.CartItem{
			{ProductID: "P-7", ProductName: "Boot", Size: "38", Quantity: 2, Price: 500000},
		},
		Pricing: model.Pricing{
			Subtotal:     1000000,
			DiscountRate: 0.1,
			Discount:     100000,
			Tax:          90000,
			Total:        990000,
		},
	}
}

func TestNewHTTPClientValidatesURL(t *testing.T) {
	if _, err := NewHTTPClient("://bad-url", "key", testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewHTTPClient("/relative", "key", testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestCreateInvoice(t *testing.T) {
	var gotPath, gotKey string
	var gotPayload invoicePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("apikey")
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		_, _ = w.Write([]byte(`{"Success":true,"Result":{"Id":123,"Number":1007}}`))
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, "secret-key", testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	result, err := client.CreateInvoice(context.Background(), sampleOrder())
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if result.InvoiceID != "123" || result.InvoiceNumber != "1007" {
		t.Fatalf("unexpected invoice reference %+v", result)
	}

	if gotPath != "/invoice" {
		t.Fatalf("unexpected endpoint %q", gotPath)
	}
	if gotKey != "secret-key" {
		t.Fatalf("unexpected api key %q", gotKey)
	}
	if gotPayload.Number != "00042" {
		t.Fatalf("unexpected invoice number %q", gotPayload.Number)
	}
	if gotPayload.Status != 0 {
		t.Fatalf("invoice must be registered as draft, got status %d", gotPayload.Status)
	}
	if gotPayload.Contact.Code != "C-100" || gotPayload.Contact.ContactType != 1 {
		t.Fatalf("unexpected contact %+v", gotPayload.Contact)
	}
	if len(gotPayload.InvoiceItems) != 1 {
		t.Fatalf("expected one invoice item, got %d", len(gotPayload.InvoiceItems))
	}
	item := gotPayload.InvoiceItems[0]
	if item.ItemCode != "P-7" || item.Quantity != 2 || item.UnitPrice != 500000 {
		t.Fatalf("unexpected invoice item %+v", item)
	}
	if gotPayload.Discount != 100000 || gotPayload.DiscountType != 1 {
		t.Fatalf("discount not carried over: %+v", gotPayload)
	}
}

func TestCreateInvoiceWithoutDiscount(t *testing.T) {
	var gotPayload invoicePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		_, _ = w.Write([]byte(`{"Success":true,"Result":{"Id":5,"Number":6}}`))
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, "key", testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	order := sampleOrder()
	order.Pricing.Discount = 0
	if _, err := client.CreateInvoice(context.Background(), order); err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if gotPayload.Discount != 0 || gotPayload.DiscountType != 0 {
		t.Fatalf("expected no discount fields, got %+v", gotPayload)
	}
}

func TestCreateInvoiceAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Success":false,"ErrorMessage":"invalid contact code"}`))
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, "key", testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	_, err = client.CreateInvoice(context.Background(), sampleOrder())
	var apiErr APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != "invalid contact code" {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
}

func TestCreateInvoiceBadResultPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Success":true,"Result":[1,2]}`))
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, "key", testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if _, err := client.CreateInvoice(context.Background(), sampleOrder()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestCreateInvoiceLogsHTTPFailure(t *testing.T) {
	called := make(chan struct{}, 1)
	handler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.LevelKey && a.Value.Any() == slog.LevelError {
			select {
			case called <- struct{}{}:
			default:
			}
		}
		return a
	}})
	logger := slog.New(handler)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, "key", logger)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if _, err := client.CreateInvoice(context.Background(), sampleOrder()); err == nil {
		t.Fatal("expected error from server")
	}

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("expected error log to be written")
	}
}

func TestCreateContactIfNotExists(t *testing.T) {
	var gotPath string
	var gotPayload contactPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		_, _ = w.Write([]byte(`{"Success":true,"Result":{}}`))
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, "key", testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	customer := model.Customer{CustomerID: "C-100", Name: "Marjan", City: "Tehran"}
	if err := client.CreateContactIfNotExists(context.Background(), customer); err != nil {
		t.Fatalf("create contact: %v", err)
	}
	if gotPath != "/contact" {
		t.Fatalf("unexpected endpoint %q", gotPath)
	}
	if gotPayload.Code != "C-100" || gotPayload.Name != "Marjan" || gotPayload.ContactType != 1 {
		t.Fatalf("unexpected contact payload %+v", gotPayload)
	}
}

func TestCreateContactToleratesDuplicate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Success":false,"ErrorMessage":"contact code already exists"}`))
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, "key", testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	customer := model.Customer{CustomerID: "C-100", Name: "Marjan"}
	if err := client.CreateContactIfNotExists(context.Background(), customer); err != nil {
		t.Fatalf("duplicate contact must not be an error: %v", err)
	}
}

func TestCreateContactPropagatesHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, "key", testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if err := client.CreateContactIfNotExists(context.Background(), model.Customer{CustomerID: "C-100"}); err == nil {
		t.Fatal("expected error for http failure")
	}
}
