package test

import (
	"errors"

	pkgAuth "github.com/decoteen/orderdesk/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied access code.
func (h HasherStub) Hash(code string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(code)
	}
	return "hash:" + code, nil
}

// Compare validates the access code against the stored hash.
func (h HasherStub) Compare(hash string, code string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, code)
	}
	if hash != "hash:"+code {
		return errors.New("mismatch")
	}
	return nil
}

// TokenParserStub implements middleware token parsing contract.
type TokenParserStub struct {
	ID  int64
	Err error
}

// ParseToken returns the configured chat identifier or error.
func (s TokenParserStub) ParseToken(token string) (int64, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	if token == "" {
		return 0, pkgAuth.ErrInvalidToken
	}
	return s.ID, nil
}

// StrategyStub issues and parses tokens via function overrides.
type StrategyStub struct {
	IssueFn func(int64) (string, error)
	ParseFn func(string) (int64, error)
	NameVal string
}

// IssueToken returns the token for the given chat identifier.
func (s StrategyStub) IssueToken(chatID int64) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(chatID)
	}
	return "token", nil
}

// ParseToken resolves the chat identifier encoded in the token.
func (s StrategyStub) ParseToken(token string) (int64, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	if token == "" {
		return 0, pkgAuth.ErrInvalidToken
	}
	return 1, nil
}

// Name reports the strategy identifier.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}
