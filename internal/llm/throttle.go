package llm

import "context"

// Gate admits provider calls. The batch worker's rate limiter satisfies it.
type Gate interface {
	Wait(ctx context.Context, provider string) error
}

// throttledProvider blocks on the gate before each generation call
type throttledProvider struct {
	inner Provider
	gate  Gate
}

// Throttled wraps a provider so every Generate call waits for rate limit
// clearance first
func Throttled(p Provider, gate Gate) Provider {
	if p == nil || gate == nil {
		return p
	}
	return &throttledProvider{inner: p, gate: gate}
}

func (t *throttledProvider) Name() string { return t.inner.Name() }

func (t *throttledProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if err := t.gate.Wait(ctx, t.inner.Name()); err != nil {
		return nil, err
	}
	return t.inner.Generate(ctx, req)
}

func (t *throttledProvider) IsAvailable(ctx context.Context) bool {
	return t.inner.IsAvailable(ctx)
}
