package repository

import (
	"context"

	"github.com/decoteen/orderdesk/internal/domain/model"
)

// OutboxRepository manages pending invoice requests.
type OutboxRepository interface {
	// SelectPending claims up to limit pending requests that have not
	// exhausted maxAttempts, incrementing their attempt counter.
	SelectPending(ctx context.Context, limit, maxAttempts int) ([]model.InvoiceRequest, error)
	MarkDone(ctx context.Context, requestID string) error
	// MarkFailed records the error; requests that exhausted maxAttempts
	// move to the failed status and are not selected again.
	MarkFailed(ctx context.Context, requestID, lastError string, maxAttempts int) error
}
