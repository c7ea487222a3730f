package auth

import "golang.org/x/crypto/bcrypt"

// CodeHasher defines the hashing strategy for reseller access codes.
type CodeHasher interface {
	Hash(code string) (string, error)
	Compare(hash string, code string) error
}

// BcryptHasher uses bcrypt to hash access codes.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates BcryptHasher with provided cost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns the bcrypt hash for the provided code.
func (h *BcryptHasher) Hash(code string) (string, error) {
	encoded, err := bcrypt.GenerateFromPassword([]byte(code), h.cost)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// Compare checks a code against the stored hash.
func (h *BcryptHasher) Compare(hash string, code string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code))
}
