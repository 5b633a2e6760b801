// Package store is the durable client-side storage used for the bearer
// token, the joined-rooms set and the credit ledger.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when a key has no value.
var ErrNotFound = errors.New("store: key not found")

// ErrMalformed is returned by GetJSON when the stored value does not decode.
var ErrMalformed = errors.New("store: malformed value")

// Store is a string key/value store. Implementations must be safe for
// concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// GetJSON decodes the value at key into dest. It returns false with a nil
// error when the key is missing.
func GetJSON(ctx context.Context, s Store, key string, dest any) (bool, error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("%w: decode %s: %v", ErrMalformed, key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it at key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, string(data))
}
