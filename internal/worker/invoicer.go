package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/decoteen/orderdesk/internal/domain/model"
)

// InvoicingFacade exposes the subset of application functionality required by the invoicer.
type InvoicingFacade interface {
	PendingInvoiceRequests(ctx context.Context, limit, maxAttempts int) ([]model.InvoiceRequest, error)
	Order(ctx context.Context, orderID string) (*model.Order, error)
	RegisterInvoice(ctx context.Context, order *model.Order) (invoiceID, invoiceNumber string, err error)
	RecordInvoice(ctx context.Context, orderID, invoiceID, invoiceNumber string) error
	RecordInvoiceError(ctx context.Context, orderID, errText string) error
	CompleteInvoiceRequest(ctx context.Context, requestID string) error
	FailInvoiceRequest(ctx context.Context, requestID, lastError string, maxAttempts int) error
}

// Invoicer drains the invoice request queue and registers draft
// invoices with the bookkeeping service concurrently.
type Invoicer struct {
	facade       InvoicingFacade
	pollInterval time.Duration
	batchSize    int
	maxAttempts  int
	workers      int
	logger       *slog.Logger

	jobs   chan model.InvoiceRequest
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewInvoicer constructs the invoicing worker pool.
func NewInvoicer(facade InvoicingFacade, pollInterval time.Duration, batchSize, maxAttempts, workers int, logger *slog.Logger) *Invoicer {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &Invoicer{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		maxAttempts:  maxAttempts,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.InvoiceRequest, batchSize*workers),
	}
}

// Start launches background processing.
func (p *Invoicer) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *Invoicer) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Invoicer) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *Invoicer) fetchAndDispatch(ctx context.Context) {
	requests, err := p.facade.PendingInvoiceRequests(ctx, p.batchSize, p.maxAttempts)
	if err != nil {
		p.logger.Error("fetch invoice requests failed", slog.String("error", err.Error()))
		return
	}
	for _, request := range requests {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- request:
		}
	}
}

func (p *Invoicer) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case request, ok := <-p.jobs:
			if !ok {
				return
			}
			p.handleRequest(ctx, request)
		}
	}
}

func (p *Invoicer) handleRequest(ctx context.Context, request model.InvoiceRequest) {
	order, err := p.facade.Order(ctx, request.OrderID)
	if err != nil {
		p.logger.Error("load order for invoicing failed",
			slog.String("order", request.OrderID), slog.String("error", err.Error()))
		p.fail(ctx, request, err)
		return
	}

	// an earlier attempt may have registered the invoice already
	if order.InvoiceID != nil {
		p.complete(ctx, request)
		return
	}

	invoiceID, invoiceNumber, err := p.facade.RegisterInvoice(ctx, order)
	if err != nil {
		p.logger.Error("invoice registration failed",
			slog.String("order", request.OrderID), slog.String("error", err.Error()))
		if recErr := p.facade.RecordInvoiceError(ctx, request.OrderID, err.Error()); recErr != nil {
			p.logger.Error("record invoice error failed",
				slog.String("order", request.OrderID), slog.String("error", recErr.Error()))
		}
		p.fail(ctx, request, err)
		return
	}

	if err := p.facade.RecordInvoice(ctx, request.OrderID, invoiceID, invoiceNumber); err != nil {
		p.logger.Error("record invoice failed",
			slog.String("order", request.OrderID), slog.String("error", err.Error()))
		p.fail(ctx, request, err)
		return
	}
	p.complete(ctx, request)
	p.logger.Info("invoice registered",
		slog.String("order", request.OrderID), slog.String("invoice", invoiceID))
}

func (p *Invoicer) complete(ctx context.Context, request model.InvoiceRequest) {
	if err := p.facade.CompleteInvoiceRequest(ctx, request.ID); err != nil {
		p.logger.Error("complete invoice request failed",
			slog.String("request", request.ID), slog.String("error", err.Error()))
	}
}

func (p *Invoicer) fail(ctx context.Context, request model.InvoiceRequest, cause error) {
	if err := p.facade.FailInvoiceRequest(ctx, request.ID, cause.Error(), p.maxAttempts); err != nil {
		p.logger.Error("fail invoice request failed",
			slog.String("request", request.ID), slog.String("error", err.Error()))
	}
}
