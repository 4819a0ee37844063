package db

import (
	"context"
	"fmt"
	"time"
)

// ReadyPollInterval is how often WaitForReady retries PING.
const ReadyPollInterval = 100 * time.Millisecond

// WaitForReady pings p immediately and then every ReadyPollInterval until
// it answers or timeout expires. The last ping error is reported on timeout.
func WaitForReady(ctx context.Context, p Pinger, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	lastErr := p.Ping(ctx)
	if lastErr == nil {
		return nil
	}

	ticker := time.NewTicker(ReadyPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w (last error: %v)", ctx.Err(), lastErr)
		case <-ticker.C:
			if lastErr = p.Ping(ctx); lastErr == nil {
				return nil
			}
		}
	}
}
