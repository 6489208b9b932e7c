// Package password wraps bcrypt hashing for stored user credentials.
package password

import "golang.org/x/crypto/bcrypt"

// DefaultCost is the bcrypt cost factor used for new hashes.
const DefaultCost = 10

// Hasher hashes and verifies passwords with a fixed cost factor.
type Hasher struct {
	cost int
}

// New creates a Hasher. A cost outside the bcrypt range falls back to
// DefaultCost.
func New(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash derives a salted one-way hash from the plaintext password.
// Each call produces a different hash for the same input.
func (h *Hasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash.
func (h *Hasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
