package usecase

import (
	"context"
	"errors"

	domainErrors "github.com/decoteen/orderdesk/internal/domain/errors"
	"github.com/decoteen/orderdesk/internal/domain/model"
	"github.com/decoteen/orderdesk/internal/domain/repository"
	"github.com/decoteen/orderdesk/internal/pkg/auth"
)

// AuthUseCase authenticates resellers by their access code and issues
// tokens bound to their chat identity.
type AuthUseCase struct {
	customers repository.CustomerRepository
	hasher    auth.CodeHasher
	tokens    auth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(customers repository.CustomerRepository, hasher auth.CodeHasher, tokens auth.Strategy) *AuthUseCase {
	return &AuthUseCase{customers: customers, hasher: hasher, tokens: tokens}
}

// Register creates a reseller account with a hashed access code.
func (u *AuthUseCase) Register(ctx context.Context, customerID, name, city string, chatID int64, accessCode string) (*model.CustomerAccount, error) {
	hash, err := u.hasher.Hash(accessCode)
	if err != nil {
		return nil, err
	}

	account := &model.CustomerAccount{
		CustomerID: customerID,
		Name:       name,
		City:       city,
		ChatID:     chatID,
		CodeHash:   hash,
	}
	if err := u.customers.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Authenticate verifies the access code and returns the account with a
// signed token. Unknown customers and wrong codes are indistinguishable
// to the caller.
func (u *AuthUseCase) Authenticate(ctx context.Context, customerID, accessCode string) (*model.CustomerAccount, string, error) {
	account, err := u.customers.GetByCustomerID(ctx, customerID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(account.CodeHash, accessCode); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(account.ChatID)
	if err != nil {
		return nil, "", err
	}
	return account, token, nil
}

// ParseToken returns the chat identity encoded in the token.
func (u *AuthUseCase) ParseToken(token string) (int64, error) {
	return u.tokens.ParseToken(token)
}

// AccountByChatID resolves the reseller account behind a chat identity.
func (u *AuthUseCase) AccountByChatID(ctx context.Context, chatID int64) (*model.CustomerAccount, error) {
	return u.customers.GetByChatID(ctx, chatID)
}
