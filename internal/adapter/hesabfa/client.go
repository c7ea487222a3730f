package hesabfa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/decoteen/orderdesk/internal/domain/model"
)

// APIError carries the error text returned by the bookkeeping service.
type APIError struct {
	Message string
}

func (e APIError) Error() string {
	return fmt.Sprintf("hesabfa: %s", e.Message)
}

// InvoiceResult is the reference of a registered draft invoice.
type InvoiceResult struct {
	InvoiceID     string
	InvoiceNumber string
}

// Client exposes the external bookkeeping operations the core calls.
type Client interface {
	CreateInvoice(ctx context.Context, order *model.Order) (*InvoiceResult, error)
	CreateContactIfNotExists(ctx context.Context, customer model.Customer) error
}

// HTTPClient implements Client via the Hesabfa v1 HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

type contactPayload struct {
	Name        string `json:"Name"`
	Code        string `json:"Code"`
	City        string `json:"City"`
	ContactType int    `json:"ContactType"`
}

type invoiceItemPayload struct {
	ItemCode    string `json:"ItemCode"`
	ItemName    string `json:"ItemName"`
	Description string `json:"Description"`
	Quantity    int    `json:"Quantity"`
	UnitPrice   int64  `json:"UnitPrice"`
	Tax         int64  `json:"Tax"`
	Discount    int64  `json:"Discount"`
}

type invoicePayload struct {
	Contact      contactPayload       `json:"Contact"`
	InvoiceItems []invoiceItemPayload `json:"InvoiceItems"`
	Number       string               `json:"Number"`
	Date         string               `json:"Date"`
	DueDate      string               `json:"DueDate"`
	Status       int                  `json:"Status"` // 0 = draft invoice
	Reference    string               `json:"Reference"`
	Discount     int64                `json:"Discount,omitempty"`
	DiscountType int                  `json:"DiscountType,omitempty"`
}

// response mirrors the JSON envelope of the Hesabfa API.
type response struct {
	Success      bool            `json:"Success"`
	ErrorMessage string          `json:"ErrorMessage"`
	Result       json.RawMessage `json:"Result"`
}

type invoiceResult struct {
	ID     json.Number `json:"Id"`
	Number json.Number `json:"Number"`
}

// NewHTTPClient creates the bookkeeping client with default timeout.
func NewHTTPClient(baseURL, apiKey string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse hesabfa url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("hesabfa url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		apiKey:  apiKey,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// CreateInvoice registers a draft invoice for the order. No idempotency
// is offered by the service; the caller guards against duplicates by
// checking the recorded invoice reference first.
func (c *HTTPClient) CreateInvoice(ctx context.Context, order *model.Order) (*InvoiceResult, error) {
	data, err := c.post(ctx, "invoice", buildInvoicePayload(order))
	if err != nil {
		return nil, err
	}

	var result invoiceResult
	if err := json.Unmarshal(data.Result, &result); err != nil {
		return nil, fmt.Errorf("hesabfa: decode invoice result: %w", err)
	}
	return &InvoiceResult{
		InvoiceID:     result.ID.String(),
		InvoiceNumber: result.Number.String(),
	}, nil
}

// CreateContactIfNotExists registers the customer as a contact. The
// service reports an existing contact as a non-error.
func (c *HTTPClient) CreateContactIfNotExists(ctx context.Context, customer model.Customer) error {
	payload := contactPayload{
		Name:        customer.Name,
		Code:        customer.CustomerID,
		City:        customer.City,
		ContactType: 1, // customer
	}
	if _, err := c.post(ctx, "contact", payload); err != nil {
		// the service answers Success=false for duplicates too, which
		// is not a failure for this call
		var apiErr APIError
		if errors.As(err, &apiErr) {
			c.logger.Info("hesabfa contact already registered",
				slog.String("customer", customer.CustomerID))
			return nil
		}
		return err
	}
	return nil
}

func (c *HTTPClient) post(ctx context.Context, endpoint string, payload any) (*response, error) {
	target := *c.baseURL
	target.Path = path.Join(target.Path, endpoint)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("hesabfa request failed",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("hesabfa: http %d", resp.StatusCode)
	}

	var data response
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("hesabfa: decode response: %w", err)
	}
	if !data.Success {
		message := data.ErrorMessage
		if message == "" {
			message = "unknown error"
		}
		return nil, APIError{Message: message}
	}
	return &data, nil
}

func buildInvoicePayload(order *model.Order) invoicePayload {
	items := make([]invoiceItemPayload, 0, len(order.CartItems))
	for _, item := range order.CartItems {
		items = append(items, invoiceItemPayload{
			ItemCode:    item.ProductID,
			ItemName:    item.ProductName,
			Description: fmt.Sprintf("size: %s", item.Size),
			Quantity:    item.Quantity,
			UnitPrice:   item.Price,
		})
	}

	now := time.Now().Format("2006/01/02")
	payload := invoicePayload{
		Contact: contactPayload{
			Name:        order.Customer.Name,
			Code:        order.Customer.CustomerID,
			City:        order.Customer.City,
			ContactType: 1,
		},
		InvoiceItems: items,
		Number:       order.ID,
		Date:         now,
		DueDate:      now,
		Status:       0,
		Reference:    fmt.Sprintf("chat order %s", order.ID),
	}
	if order.Pricing.Discount > 0 {
		payload.Discount = order.Pricing.Discount
		payload.DiscountType = 1 // fixed amount
	}
	return payload
}
