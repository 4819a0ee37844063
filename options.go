package ftwire

import (
	"time"

	"go.uber.org/zap"
)

// Drivers accepted by New.
const (
	DriverRueidis = "rueidis"
	DriverGoRedis = "goredis"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string
	addrs    []string
	username string
	password string
	db       int

	readinessTimeout time.Duration
	defaultDialect   *int64

	logger *zap.Logger
}

// WithRueidis sends commands through a rueidis client connected to addrs.
func WithRueidis(addrs ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = DriverRueidis
		c.addrs = addrs
	})
}

// WithGoRedis sends commands through a go-redis universal client connected to addrs.
func WithGoRedis(addrs ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = DriverGoRedis
		c.addrs = addrs
	})
}

// WithAuth sets ACL credentials. An empty username authenticates as "default".
func WithAuth(username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
		c.password = password
	})
}

// WithDB selects a logical database.
func WithDB(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.db = n
	})
}

// WithReadinessTimeout bounds how long New waits for the server to answer PING.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithDefaultDialect sets the DIALECT sent by FTSearch, FTAggregate,
// FTSpellCheck and FTExplain when the call itself does not set one.
func WithDefaultDialect(dialect int64) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultDialect = &dialect
	})
}

// WithLogger sets the fallback logger. A logger carried in the request
// context takes precedence.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
