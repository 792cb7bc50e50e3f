// Package hasher provides one-way password hashing functionality.
package hasher

import "golang.org/x/crypto/bcrypt"

// Hasher defines object structure and its attributes.
type Hasher struct {
	cost int
}

// NewHasherService initializes a hasher service with adaptive-cost bcrypt hashing.
func NewHasherService() *Hasher {
	return &Hasher{cost: bcrypt.DefaultCost}
}

// Hash produces a salted bcrypt hash, each call yields a different output for
// the same input.
func (h *Hasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Check reports whether password matches hash, false for malformed hashes.
func (h *Hasher) Check(password string, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
