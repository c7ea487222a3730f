package repository

import (
	"context"

	"github.com/decoteen/orderdesk/internal/domain/model"
)

// CustomerRepository manages the reseller registry.
type CustomerRepository interface {
	Create(ctx context.Context, account *model.CustomerAccount) error
	GetByCustomerID(ctx context.Context, customerID string) (*model.CustomerAccount, error)
	GetByChatID(ctx context.Context, chatID int64) (*model.CustomerAccount, error)
}
