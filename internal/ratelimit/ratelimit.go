package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/amishk599/jobintake/internal/ai"
)

// ProviderRateLimiter enforces a minimum delay between requests to the same
// inference provider.
type ProviderRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter // key: provider name
	minDelay time.Duration
}

// NewProviderRateLimiter creates a rate limiter that enforces minDelay between
// consecutive requests to the same provider. A zero minDelay disables limiting.
func NewProviderRateLimiter(minDelay time.Duration) *ProviderRateLimiter {
	return &ProviderRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		minDelay: minDelay,
	}
}

func (r *ProviderRateLimiter) limiter(provider string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.limiters[provider]
	if !ok {
		limit := rate.Inf
		if r.minDelay > 0 {
			limit = rate.Every(r.minDelay)
		}
		l = rate.NewLimiter(limit, 1)
		r.limiters[provider] = l
	}
	return l
}

// Wait blocks until the provider may be called again.
// Returns an error if the context is cancelled while waiting.
func (r *ProviderRateLimiter) Wait(ctx context.Context, provider string) error {
	if err := r.limiter(provider).Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait for %s: %w", provider, err)
	}
	return nil
}

// RateLimitedProvider is a decorator that enforces provider-level rate limiting
// before delegating to the wrapped LLMProvider.
type RateLimitedProvider struct {
	inner    ai.LLMProvider
	limiter  *ProviderRateLimiter
	provider string
}

// NewRateLimitedProvider wraps an LLMProvider with rate limiting.
// All decorators targeting the same provider should share one limiter.
func NewRateLimitedProvider(inner ai.LLMProvider, limiter *ProviderRateLimiter, provider string) *RateLimitedProvider {
	return &RateLimitedProvider{
		inner:    inner,
		limiter:  limiter,
		provider: provider,
	}
}

// Complete waits for the limiter, then delegates to the wrapped provider.
func (p *RateLimitedProvider) Complete(ctx context.Context, req ai.CompletionRequest) (string, error) {
	if err := p.limiter.Wait(ctx, p.provider); err != nil {
		return "", err
	}
	return p.inner.Complete(ctx, req)
}
