package auth

import "time"

// Strategy issues and verifies tokens bound to a chat identity.
type Strategy interface {
	IssueToken(chatID int64) (string, error)
	ParseToken(token string) (int64, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}
