package security

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost matches the work factor the service has always used.
const DefaultBcryptCost = 10

// HashPassword produces a salted one-way digest of password. A cost of 0
// selects DefaultBcryptCost.
func HashPassword(password string, cost int) ([]byte, error) {
	if cost <= 0 {
		cost = DefaultBcryptCost
	}
	return bcrypt.GenerateFromPassword([]byte(password), cost)
}

// CheckPassword reports whether password reproduces hash. A malformed hash
// yields false, never an error: callers treat it as a failed credential.
func CheckPassword(password string, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
