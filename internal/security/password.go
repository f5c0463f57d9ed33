package security

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/matthewhartstonge/argon2"
)

// HashPassword hashes a plaintext password with argon2id using the library
// defaults. The returned string is self-describing (encoded form), so no
// parameters need to be stored alongside it.
func HashPassword(password string) (string, error) {
	cfg := argon2.DefaultConfig()

	encoded, err := cfg.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}

	return string(encoded), nil
}

// VerifyPassword reports whether the plaintext password matches the stored
// encoded hash.
func VerifyPassword(password, encodedHash string) (bool, error) {
	return argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
}

// GeneratePlaceholderSecret returns a random, unguessable value used as the
// credential for accounts created through an OAuth callback. It is hashed and
// stored like a password but never disclosed, so every user record satisfies
// the has-credential invariant even when login is OAuth-only.
func GeneratePlaceholderSecret() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
