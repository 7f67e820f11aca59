package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_AllowWithinBurst(t *testing.T) {
	limiter := NewLimiter(1, 2)

	if !limiter.Allow("openai") {
		t.Error("First call should be allowed")
	}
	if !limiter.Allow("openai") {
		t.Error("Second call should be allowed within burst")
	}
	if limiter.Allow("openai") {
		t.Error("Third call should be rate limited")
	}
}

func TestLimiter_ProvidersAreIndependent(t *testing.T) {
	limiter := NewLimiter(1, 1)

	if !limiter.Allow("openai") {
		t.Error("openai should be allowed")
	}
	if !limiter.Allow("anthropic") {
		t.Error("anthropic has its own bucket")
	}
	if limiter.Allow("openai") {
		t.Error("openai should now be limited")
	}
}

func TestLimiter_SetProviderRate(t *testing.T) {
	limiter := NewLimiter(1, 1)
	limiter.SetProviderRate("ollama", 100, 10)

	for i := 0; i < 10; i++ {
		if !limiter.Allow("ollama") {
			t.Fatalf("Call %d should be allowed with burst 10", i+1)
		}
	}
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	limiter := NewLimiter(0.1, 1)
	limiter.Allow("openai") // Drain the burst

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, "openai"); err == nil {
		t.Error("Expected context deadline to abort the wait")
	}
}

func TestLimiter_DefaultBurst(t *testing.T) {
	limiter := NewLimiter(1, 0)
	if limiter.defaultBurst != 5 {
		t.Errorf("Expected default burst 5, got %d", limiter.defaultBurst)
	}
}
