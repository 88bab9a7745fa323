package util

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

var (
	jwtSecretValue = getEnv("JWTSECRET", "")
	jwtSecret      = jwtSecretValue
	jwtSecretByte  = []byte(jwtSecretValue)
	jwtMutex       sync.RWMutex
)

// Argon2id parameters are embedded in the encoded hash string, so changing
// them does not invalidate previously stored hashes.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 16
)

func getEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}

// GenerateSalt returns a random base64-encoded salt for password hashing.
func GenerateSalt() (string, error) {
	b := make([]byte, saltLen)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return base64.RawStdEncoding.EncodeToString(b), nil
}

// HashPasswordArgon2 hashes a plaintext password with Argon2id and the given
// base64 salt, returning an encoded string of the form
// argon2id$<time>$<memory>$<threads>$<hash>.
func HashPasswordArgon2(password, salt string) (string, error) {
	saltBytes, err := base64.RawStdEncoding.DecodeString(salt)
	if err != nil {
		return "", fmt.Errorf("invalid salt encoding: %w", err)
	}
	key := argon2.IDKey([]byte(password), saltBytes, argonTime, argonMemory, argonThreads, argonKeyLen)
	return fmt.Sprintf("argon2id$%d$%d$%d$%s",
		argonTime, argonMemory, argonThreads,
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// VerifyPassword checks a plaintext password against a stored hash using a
// constant-time comparison. Hashes prefixed with "argon2id$" are verified
// with Argon2id; anything else is treated as a legacy HMAC-SHA256 hash so
// accounts created before the Argon2 migration can still log in (the login
// flow upgrades them on success).
func VerifyPassword(password, storedHash, salt string) (bool, error) {
	if strings.HasPrefix(storedHash, "argon2id$") {
		computed, err := HashPasswordArgon2(password, salt)
		if err != nil {
			return false, err
		}
		return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1, nil
	}
	legacy := HashPasswordLegacy(password)
	return subtle.ConstantTimeCompare([]byte(legacy), []byte(storedHash)) == 1, nil
}

// HashPasswordLegacy is the pre-migration HMAC-SHA256 password hash keyed on
// the JWT secret. Retained only so VerifyPassword can accept old hashes.
func HashPasswordLegacy(password string) string {
	h := hmac.New(sha256.New, GetJWTSecretByte())
	h.Write([]byte(password))
	return hex.EncodeToString(h.Sum(nil))
}

// SetJWTSecret allows tests or runtime code to update the JWT secret used
// for token signing. This function is thread-safe and can be called
// concurrently. Tests using this should avoid parallel execution if they
// need deterministic secret values.
func SetJWTSecret(secret string) {
	jwtMutex.Lock()
	defer jwtMutex.Unlock()
	jwtSecret = secret
	jwtSecretByte = []byte(secret)
}

// GetJWTSecretByte returns a copy of the current JWT secret bytes in a thread-safe manner.
func GetJWTSecretByte() []byte {
	jwtMutex.RLock()
	defer jwtMutex.RUnlock()
	return append([]byte(nil), jwtSecretByte...)
}
