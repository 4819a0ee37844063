package ftwire

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ftwire/internal/db"
	dbGoRedis "github.com/kailas-cloud/ftwire/internal/db/goredis"
	dbRedis "github.com/kailas-cloud/ftwire/internal/db/redis"
)

const defaultReadinessTimeout = 10 * time.Second

// Client issues FT.* commands. It is safe for concurrent use.
type Client struct {
	store          db.Store
	defaultDialect *int64
	logger         *zap.Logger
}

// New creates a Client and waits until the server answers PING.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		driver:           DriverRueidis,
		readinessTimeout: defaultReadinessTimeout,
	}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("ftwire: database address required (use WithRueidis or WithGoRedis)")
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("ftwire: database not ready: %w", err)
	}

	return newClient(store, cfg), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case DriverRueidis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Username: cfg.username,
			Password: cfg.password,
			DB:       cfg.db,
			Logger:   cfg.logger,
		})
		if err != nil {
			return nil, fmt.Errorf("ftwire: create rueidis store: %w", err)
		}
		return s, nil
	case DriverGoRedis:
		s, err := dbGoRedis.NewStore(dbGoRedis.Config{
			Addrs:    cfg.addrs,
			Username: cfg.username,
			Password: cfg.password,
			DB:       cfg.db,
			Logger:   cfg.logger,
		})
		if err != nil {
			return nil, fmt.Errorf("ftwire: create go-redis store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("ftwire: unknown driver %q", cfg.driver)
	}
}

func newClient(store db.Store, cfg *clientConfig) *Client {
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		store:          store,
		defaultDialect: cfg.defaultDialect,
		logger:         logger,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// requestResponse hands build to the transport and decodes the reply.
func (c *Client) requestResponse(ctx context.Context, build db.BuildFunc) (Value, error) {
	frame, err := c.store.RequestResponse(ctx, build)
	if err != nil {
		return Value{}, err
	}
	v, err := frame.Decode()
	if err != nil {
		return Value{}, fmt.Errorf("decode reply: %w", err)
	}
	return v, nil
}

// argsValuesCmd sends a command whose arguments need no conversion.
func (c *Client) argsValuesCmd(ctx context.Context, kind string, args ...Value) (Value, error) {
	return c.requestResponse(ctx, func() (db.Command, error) {
		return db.Command{Kind: kind, Args: args}, nil
	})
}

func (c *Client) dialect(d *int64) *int64 {
	if d != nil {
		return d
	}
	return c.defaultDialect
}
