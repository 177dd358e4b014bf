package db

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// PrefixLength is the length of the public part of an API key.
const PrefixLength = 8

var ErrInvalidKey = errors.New("invalid API key")

// NewAPIKey generates a key of the form "<prefix>.<secret>". The plain key is
// returned once; the record holds only its bcrypt hash.
func NewAPIKey(label string, ttl time.Duration, cost int) (string, APIKey, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", APIKey{}, err
	}
	secret, err := uuid.NewRandom()
	if err != nil {
		return "", APIKey{}, err
	}
	prefix := strings.ReplaceAll(id.String(), "-", "")[:PrefixLength]
	plain := fmt.Sprintf("%s.%s", prefix, strings.ReplaceAll(secret.String(), "-", ""))

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", APIKey{}, err
	}
	now := time.Now().UTC()
	return plain, APIKey{
		Prefix:    prefix,
		Label:     label,
		Hash:      hash,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// KeyPrefix extracts the lookup prefix of a plain key.
func KeyPrefix(plain string) (string, error) {
	prefix, _, ok := strings.Cut(plain, ".")
	if !ok || len(prefix) != PrefixLength {
		return "", ErrInvalidKey
	}
	return prefix, nil
}

// Verify checks plain against the stored hash and the expiry time.
func (k APIKey) Verify(plain string, now time.Time) error {
	if now.After(k.ExpiresAt) {
		return fmt.Errorf("%w: api key is expired", ErrInvalidKey)
	}
	if err := bcrypt.CompareHashAndPassword(k.Hash, []byte(plain)); err != nil {
		return ErrInvalidKey
	}
	return nil
}
