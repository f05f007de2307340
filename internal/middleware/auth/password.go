package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// placeholderHash is compared against when no account matches a username, so a miss
// costs the same bcrypt round as a wrong password.
var placeholderHash, _ = bcrypt.GenerateFromPassword([]byte("placeholder"), bcrypt.DefaultCost)

// HashPassword creates a bcrypt hash for a librarian's plaintext password.
func HashPassword(password string) (string, error) {
	// default cost is 10; raising it slows every login
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// VerifyPassword checks if the provided plaintext password matches the stored bcrypt hash.
func VerifyPassword(hashedPassword, providedPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(providedPassword))
}

// BurnCompare spends one bcrypt comparison and discards the result.
func BurnCompare(providedPassword string) {
	_ = bcrypt.CompareHashAndPassword(placeholderHash, []byte(providedPassword))
}
