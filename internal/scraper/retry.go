package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mandibot/internal/logging"
)

// ErrMaxRetriesExceeded is returned when an operation fails on every attempt.
var ErrMaxRetriesExceeded = errors.New("max retries exceeded")

// RetryConfig bounds the retry loop around flaky portal interactions.
type RetryConfig struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig matches the portal's observed flakiness: three attempts
// with base-2 exponential backoff.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     8 * time.Second,
	}
}

// withRetry runs fn up to cfg.MaxAttempts times, backing off between
// attempts. Context cancellation is checked before each attempt and during
// backoff sleeps, and aborts immediately.
func withRetry(ctx context.Context, cfg RetryConfig, operation string, fn func(attempt int) error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if attempt > 0 {
			backoff := calculateBackoff(cfg, attempt)
			logging.ScraperWarn("%s failed (attempt %d/%d), retrying in %s: %v",
				operation, attempt, cfg.MaxAttempts, backoff, lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
		if err := fn(attempt); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("%s: %w: %v", operation, ErrMaxRetriesExceeded, lastErr)
}

// calculateBackoff returns InitialBackoff * 2^(attempt-1), capped at
// MaxBackoff.
func calculateBackoff(cfg RetryConfig, attempt int) time.Duration {
	backoff := cfg.InitialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
		if backoff >= cfg.MaxBackoff {
			return cfg.MaxBackoff
		}
	}
	if backoff > cfg.MaxBackoff {
		return cfg.MaxBackoff
	}
	return backoff
}
