package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Slot names of the durable store. Each holds one JSON document replaced as a whole.
const (
	SlotUser    = "auth_user"
	SlotProfile = "user_profile"
	SlotAssets  = "user_assets"
)

// ErrCorruptValue marks a stored value that could not be decoded.
var ErrCorruptValue = errors.New("corrupt value")

// Store is a whole-value key-value store. Get returns a nil slice and no error
// for an absent key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// GetJSON decodes the value stored under key into v. found is false when the key is absent.
func GetJSON(ctx context.Context, s Store, key string, v any) (found bool, err error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s: %w: %w", key, ErrCorruptValue, err)
	}
	return true, nil
}

// PutJSON encodes v and stores it under key.
func PutJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Put(ctx, key, raw)
}
