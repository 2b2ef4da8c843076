// Package grant persists the usage-access authorization flag.
package grant

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/netusage/internal/db"
)

const granted = "granted"

// store is the consumer interface for grant operations (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}

// Store keeps the usage-stats grant at {prefix}permission:usage_stats.
type Store struct {
	store store
	key   string
}

// New creates a grant store.
func New(s store, prefix string) *Store {
	return &Store{store: s, key: prefix + "permission:usage_stats"}
}

// Granted reports whether usage access is granted. A missing key means not granted.
func (s *Store) Granted(ctx context.Context) (bool, error) {
	data, err := s.store.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("grant GET %s: %w", s.key, err)
	}
	return string(data) == granted, nil
}

// Grant records that usage access was granted.
func (s *Store) Grant(ctx context.Context) error {
	if err := s.store.Set(ctx, s.key, []byte(granted)); err != nil {
		return fmt.Errorf("grant SET %s: %w", s.key, err)
	}
	return nil
}

// Revoke removes the grant.
func (s *Store) Revoke(ctx context.Context) error {
	if err := s.store.Del(ctx, s.key); err != nil {
		return fmt.Errorf("grant DEL %s: %w", s.key, err)
	}
	return nil
}
