package scraper

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     4 * time.Millisecond,
	}
}

func TestWithRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), fastRetry(3), "op", func(int) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestWithRetryExhausted(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), fastRetry(3), "op", func(int) error {
		calls++
		return errors.New("always fails")
	})
	if !errors.Is(err, ErrMaxRetriesExceeded) {
		t.Fatalf("expected ErrMaxRetriesExceeded, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestWithRetryContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := withRetry(ctx, fastRetry(3), "op", func(int) error {
		t.Fatal("fn must not run after cancellation")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWithRetryPassesAttemptNumber(t *testing.T) {
	var seen []int
	_ = withRetry(context.Background(), fastRetry(3), "op", func(attempt int) error {
		seen = append(seen, attempt)
		return errors.New("fail")
	})
	want := []int{0, 1, 2}
	if len(seen) != len(want) {
		t.Fatalf("expected attempts %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("expected attempts %v, got %v", want, seen)
		}
	}
}

func TestCalculateBackoff(t *testing.T) {
	cfg := RetryConfig{InitialBackoff: time.Second, MaxBackoff: 8 * time.Second}
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{10, 8 * time.Second},
	}
	for _, tt := range tests {
		if got := calculateBackoff(cfg, tt.attempt); got != tt.want {
			t.Errorf("attempt %d: expected %s, got %s", tt.attempt, tt.want, got)
		}
	}
}

func TestConfigRetryFromYAMLFields(t *testing.T) {
	cfg := Config{RetryAttempts: 5, RetryBackoff: "100ms", RetryMaxBackoff: "1s"}.retry()
	if cfg.MaxAttempts != 5 {
		t.Errorf("expected 5 attempts, got %d", cfg.MaxAttempts)
	}
	if cfg.InitialBackoff != 100*time.Millisecond {
		t.Errorf("expected 100ms initial backoff, got %s", cfg.InitialBackoff)
	}
	if cfg.MaxBackoff != time.Second {
		t.Errorf("expected 1s max backoff, got %s", cfg.MaxBackoff)
	}
}

func TestConfigRetryDefaults(t *testing.T) {
	def := DefaultRetryConfig()
	for _, cfg := range []Config{{}, {RetryBackoff: "garbage", RetryMaxBackoff: "nope"}} {
		got := cfg.retry()
		if got != def {
			t.Errorf("Config %+v: expected defaults %+v, got %+v", cfg, def, got)
		}
	}
}
