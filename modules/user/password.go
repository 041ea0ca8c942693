package user

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher converts plaintext passwords into their stored form and
// verifies login attempts against it. bcrypt embeds the salt and cost factor
// in the hash, so verification needs no side-channel storage.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher with the given bcrypt cost.
// A cost outside bcrypt's valid range falls back to the library default.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash derives the stored form of a plaintext password with a fresh random
// salt. Any failure aborts the calling operation; no record may be persisted
// without a hash.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether the plaintext matches the stored hash. Mismatch,
// malformed hash and library faults are all uniformly false so the outcome
// never reveals why verification failed.
func (h *PasswordHasher) Verify(password, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil
}
