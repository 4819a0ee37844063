// Package goredis implements db.Store on github.com/redis/go-redis/v9.
package goredis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ftwire/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds connection parameters for a go-redis-backed store.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
	Logger   *zap.Logger
}

// Store implements db.Store via go-redis.
type Store struct {
	client redis.UniversalClient
	logger *zap.Logger
}

// NewStore creates a go-redis store. A single address yields a plain client,
// several addresses a cluster client.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:      cfg.Addrs,
		Username:   cfg.Username,
		Password:   cfg.Password,
		DB:         cfg.DB,
		ClientName: "ftwire",
		Protocol:   2, // FT.* replies are documented in RESP2 array form
	})

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{client: client, logger: logger}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	_ = s.client.Close()
}

// WaitForReady blocks until the server answers PING or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.WaitForReady(ctx, s, timeout)
}
