package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("cache circuit breaker open")

type breakerState string

const (
	stateClosed   breakerState = "closed"
	stateOpen     breakerState = "open"
	stateHalfOpen breakerState = "half_open"
)

type BreakerConfig struct {
	Timeout          time.Duration // hard timeout per cache call
	FailureThreshold int           // consecutive failures to open circuit
	Cooldown         time.Duration // how long to stay open before half-open
	HalfOpenMaxCalls int           // allow N trial calls in half-open
}

// Breaker guards a remote Store so a dead cache costs one fast failure
// instead of a network timeout on every list request.
// Bumps always reach the inner store; skipping an invalidation would
// leave a stale list behind once the cache recovers.
type Breaker struct {
	inner Store
	cfg   BreakerConfig
	now   func() time.Time

	mu                  sync.Mutex
	state               breakerState
	consecutiveFailures int
	openedAt            time.Time
	halfOpenInFlight    int
}

func NewBreaker(inner Store, cfg BreakerConfig) *Breaker {
	//defaults
	if cfg.Timeout <= 0 {
		cfg.Timeout = 200 * time.Millisecond
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 15 * time.Second
	}
	if cfg.HalfOpenMaxCalls <= 0 {
		cfg.HalfOpenMaxCalls = 1
	}

	return &Breaker{
		inner: inner,
		cfg:   cfg,
		now:   time.Now,
		state: stateClosed,
	}
}

func (b *Breaker) Get(ctx context.Context, key string, out any) (bool, error) {
	if !b.allowRequest() {
		return false, ErrCircuitOpen
	}

	cctx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	hit, err := b.inner.Get(cctx, key, out)
	b.afterRequest(err)

	return hit, err
}

func (b *Breaker) Set(ctx context.Context, key string, val any) error {
	if !b.allowRequest() {
		return ErrCircuitOpen
	}

	cctx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	err := b.inner.Set(cctx, key, val)
	b.afterRequest(err)

	return err
}

func (b *Breaker) Generation(ctx context.Context, key string) (int64, error) {
	if !b.allowRequest() {
		return 0, ErrCircuitOpen
	}

	cctx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	gen, err := b.inner.Generation(cctx, key)
	b.afterRequest(err)

	return gen, err
}

func (b *Breaker) Bump(ctx context.Context, key string) (int64, error) {
	cctx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	return b.inner.Bump(cctx, key)
}

func (b *Breaker) allowRequest() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case stateClosed:
		return true
	case stateOpen:
		if b.now().Sub(b.openedAt) >= b.cfg.Cooldown {
			b.state = stateHalfOpen
			b.halfOpenInFlight = 1
			return true
		}
		return false
	case stateHalfOpen:
		if b.halfOpenInFlight >= b.cfg.HalfOpenMaxCalls {
			return false
		}
		b.halfOpenInFlight++
		return true
	default:
		return true
	}
}

func (b *Breaker) afterRequest(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == stateHalfOpen && b.halfOpenInFlight > 0 {
		b.halfOpenInFlight--
	}

	if err == nil {
		b.consecutiveFailures = 0
		b.state = stateClosed
		return
	}

	b.consecutiveFailures++

	// a failed trial call reopens immediately
	if b.state == stateHalfOpen {
		b.state = stateOpen
		b.openedAt = b.now()
		return
	}

	if b.consecutiveFailures >= b.cfg.FailureThreshold {
		b.state = stateOpen
		b.openedAt = b.now()
	}
}
