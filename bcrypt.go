package authfile

import (
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword will generate a password hash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext password matches
// the hashed password. The comparison runs in constant time inside bcrypt.
// Mismatches and malformed stored hashes report the same uniform error so the
// caller's failure shape never reveals which one occurred.
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// compareDummyPassword burns a full bcrypt compare against a throwaway hash.
// Callers use it on lookup misses so the unknown-identifier path costs the
// same as a real password check and response time cannot enumerate accounts.
func compareDummyPassword(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = HashPassword("not-a-real-password")
	})
	_ = ComparePasswordAndHash(password, dummyHash)
}

// RandomPasswordHash is a temporary password
func RandomPasswordHash() string {
	pwd := uuid.New()

	h, err := HashPassword(pwd.String())
	if err != nil {
		return RandomPasswordHash()
	}

	return h
}
