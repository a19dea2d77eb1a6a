package rpc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"
	"github.com/wnt/memeforge/internal/logger"
	"github.com/wnt/memeforge/internal/metrics"
	"golang.org/x/time/rate"
)

// ErrNoEndpoints is returned when a pool is built without endpoints
var ErrNoEndpoints = errors.New("rpc pool requires at least one endpoint")

// MaxConsecutiveFailures is how many failed calls in a row take an endpoint out of rotation
const MaxConsecutiveFailures = 3

// Pool manages a pool of Solana RPC endpoints with round-robin selection and rate limiting
type Pool struct {
	endpoints []*Endpoint
	current   int
	mutex     sync.Mutex
	logger    zerolog.Logger
}

// Endpoint represents a single RPC endpoint with its own rate limiter
type Endpoint struct {
	URL           string
	Client        *solanarpc.Client
	limiter       *rate.Limiter
	healthy       bool
	failures      int
	cooldownUntil time.Time
	mutex         sync.RWMutex
}

// PoolOption configures a Pool
type PoolOption func(*poolOptions)

type poolOptions struct {
	rps   float64
	burst int
}

// WithRateLimit sets the per-endpoint request rate and burst
func WithRateLimit(rps float64, burst int) PoolOption {
	return func(o *poolOptions) {
		o.rps = rps
		o.burst = burst
	}
}

// NewPool creates a new RPC pool with the given endpoints
func NewPool(urls []string, baseLogger zerolog.Logger, opts ...PoolOption) (*Pool, error) {
	if len(urls) == 0 {
		return nil, ErrNoEndpoints
	}

	// Public endpoints throttle hard; ~2 req/s per endpoint stays under free tier limits
	o := poolOptions{rps: 2, burst: 5}
	for _, opt := range opts {
		opt(&o)
	}

	endpoints := make([]*Endpoint, len(urls))
	for i, url := range urls {
		endpoints[i] = &Endpoint{
			URL:     url,
			Client:  solanarpc.New(url),
			limiter: rate.NewLimiter(rate.Limit(o.rps), o.burst),
			healthy: true,
		}
		metrics.SetRPCEndpointHealth(url, true)
	}

	return &Pool{
		endpoints: endpoints,
		logger:    logger.WithComponent(baseLogger, "rpc_pool"),
	}, nil
}

// Acquire returns the next usable endpoint using round-robin. Endpoints that
// are unhealthy, cooling down or rate limited are skipped; when none is free it
// waits on the first endpoint's limiter.
func (p *Pool) Acquire(ctx context.Context) (*Endpoint, error) {
	p.mutex.Lock()
	startIndex := p.current
	for attempts := 0; attempts < len(p.endpoints); attempts++ {
		endpoint := p.endpoints[p.current]
		p.current = (p.current + 1) % len(p.endpoints)

		if !endpoint.available() {
			p.logger.Debug().Str("endpoint", endpoint.URL).Msg("Endpoint unavailable, skipping")
			continue
		}

		if endpoint.limiter.Allow() {
			p.mutex.Unlock()
			p.logger.Debug().Str("endpoint", endpoint.URL).Msg("Selected RPC endpoint")
			return endpoint, nil
		}

		p.logger.Debug().Str("endpoint", endpoint.URL).Msg("Endpoint rate limited, trying next")
	}
	endpoint := p.endpoints[startIndex]
	p.mutex.Unlock()

	p.logger.Debug().Str("endpoint", endpoint.URL).Msg("All endpoints busy, waiting for availability")

	if err := endpoint.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}
	return endpoint, nil
}

func (e *Endpoint) available() bool {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return e.healthy && !time.Now().Before(e.cooldownUntil)
}

// MarkUnhealthy marks an endpoint as unhealthy
func (p *Pool) MarkUnhealthy(url string) {
	if endpoint := p.find(url); endpoint != nil {
		endpoint.mutex.Lock()
		endpoint.healthy = false
		endpoint.mutex.Unlock()

		metrics.SetRPCEndpointHealth(url, false)
		p.logger.Warn().Str("endpoint", url).Msg("Marked endpoint as unhealthy")
	}
}

// MarkHealthy marks an endpoint as healthy and clears its cooldown
func (p *Pool) MarkHealthy(url string) {
	if endpoint := p.find(url); endpoint != nil {
		endpoint.mutex.Lock()
		wasHealthy := endpoint.healthy
		endpoint.healthy = true
		endpoint.failures = 0
		endpoint.cooldownUntil = time.Time{}
		endpoint.mutex.Unlock()

		metrics.SetRPCEndpointHealth(url, true)
		if !wasHealthy {
			p.logger.Info().Str("endpoint", url).Msg("Marked endpoint as healthy")
		}
	}
}

// SetCooldown puts an endpoint in cooldown for the specified duration
func (p *Pool) SetCooldown(url string, duration time.Duration) {
	if endpoint := p.find(url); endpoint != nil {
		endpoint.mutex.Lock()
		endpoint.cooldownUntil = time.Now().Add(duration)
		endpoint.mutex.Unlock()

		p.logger.Warn().
			Str("endpoint", url).
			Dur("duration", duration).
			Msg("Set endpoint cooldown")
	}
}

// ReportFailure records a failed call against an endpoint. The endpoint cools
// down for the given duration, and after MaxConsecutiveFailures in a row it is
// marked unhealthy until a later call through it succeeds.
func (p *Pool) ReportFailure(url string, cooldown time.Duration) {
	endpoint := p.find(url)
	if endpoint == nil {
		return
	}

	endpoint.mutex.Lock()
	endpoint.failures++
	failures := endpoint.failures
	endpoint.mutex.Unlock()

	if failures >= MaxConsecutiveFailures {
		p.MarkUnhealthy(url)
		return
	}
	p.SetCooldown(url, cooldown)
}

// HealthyEndpointCount returns the number of endpoints currently usable
func (p *Pool) HealthyEndpointCount() int {
	count := 0
	for _, endpoint := range p.endpoints {
		if endpoint.available() {
			count++
		}
	}
	return count
}

func (p *Pool) find(url string) *Endpoint {
	for _, endpoint := range p.endpoints {
		if endpoint.URL == url {
			return endpoint
		}
	}
	return nil
}
