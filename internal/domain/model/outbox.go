package model

import "time"

// OutboxStatus describes invoice request processing state.
type OutboxStatus string

const (
	OutboxStatusPending OutboxStatus = "pending"
	OutboxStatusDone    OutboxStatus = "done"
	OutboxStatusFailed  OutboxStatus = "failed"
)

// InvoiceRequest is one row of the invoicing outbox. It is written in
// the same transaction as the CONFIRMED status transition and processed
// asynchronously by the outbox worker.
type InvoiceRequest struct {
	ID        string
	OrderID   string
	Status    OutboxStatus
	Attempts  int
	LastError string
	CreatedAt time.Time
	UpdatedAt time.Time
}
