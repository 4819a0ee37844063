package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ftwire"
	"github.com/kailas-cloud/ftwire/internal/config"
	logpkg "github.com/kailas-cloud/ftwire/internal/logger"
	"github.com/kailas-cloud/ftwire/internal/version"
)

type rootFlags struct {
	env      string
	driver   string
	addrs    []string
	password string
	dialect  int64
	logLevel string
}

var flags rootFlags

var rootCmd = &cobra.Command{
	Use:           "ftwire",
	Short:         "RediSearch command gateway and client",
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.env, "env", config.GetEnv(), "config environment (config/<env>.yaml)")
	pf.StringVar(&flags.driver, "driver", "", "database driver override: rueidis or goredis")
	pf.StringSliceVar(&flags.addrs, "addr", nil, "database address override (repeatable)")
	pf.StringVar(&flags.password, "password", "", "database password override")
	pf.Int64Var(&flags.dialect, "default-dialect", 0, "default DIALECT override")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level override: debug, info, warn, error")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(queryCommands()...)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads config/<env>.yaml and applies command-line overrides.
// With --addr set a missing config file is not an error.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flags.env)
	if err != nil {
		if len(flags.addrs) == 0 {
			return config.Config{}, err
		}
		cfg = config.Config{HTTP: config.HTTPConfig{Port: 8080}}
		cfg.ApplyDefaults()
	}

	if flags.driver != "" {
		cfg.Database.Driver = flags.driver
	}
	if len(flags.addrs) > 0 {
		cfg.Database.Addrs = flags.addrs
	}
	if flags.password != "" {
		cfg.Database.Password = flags.password
	}
	if flags.dialect > 0 {
		cfg.Search.DefaultDialect = flags.dialect
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	logger, err := logpkg.NewLogger(flags.env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return logger, nil
}

// clientOptions maps the database and search sections onto client options.
func clientOptions(cfg config.Config, logger *zap.Logger) []ftwire.Option {
	opts := []ftwire.Option{
		ftwire.WithAuth(cfg.Database.Username, cfg.Database.Password),
		ftwire.WithDB(cfg.Database.DB),
		ftwire.WithReadinessTimeout(time.Duration(cfg.Database.ReadinessTimeout) * time.Second),
		ftwire.WithLogger(logger),
	}
	switch cfg.Database.Driver {
	case ftwire.DriverGoRedis:
		opts = append(opts, ftwire.WithGoRedis(cfg.Database.Addrs...))
	default:
		opts = append(opts, ftwire.WithRueidis(cfg.Database.Addrs...))
	}
	if cfg.Search.DefaultDialect > 0 {
		opts = append(opts, ftwire.WithDefaultDialect(cfg.Search.DefaultDialect))
	}
	return opts
}
