package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// GetJSON decodes the value under key into dst.
// It reports false when the key is absent.
func (s *Store) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	data, _, err := s.backend.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// PutJSON stores v under key, replacing any previous value.
func (s *Store) PutJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if _, err := s.backend.Put(ctx, key, data, AnyVersion); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// DeleteKey removes key.
func (s *Store) DeleteKey(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, key)
}
