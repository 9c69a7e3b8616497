// Package ratelimit provides a process-wide request regulator for the SEC
// EDGAR archive host. It is constructed once and passed explicitly to every
// fetching component rather than exposed as a package-level singleton.
package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Default governance values for the archive host (spec §4.1).
const (
	DefaultRequestsPerSecond = 10
	DefaultMinSpacing        = 100 * time.Millisecond
	BackoffOn429             = 5 * time.Second
)

// RateRegulator enforces a minimum spacing between outbound requests and a
// 429 back-off-and-retry policy. It is safe for concurrent use; callers
// acquire a token before dispatching, and never hold it across I/O.
type RateRegulator struct {
	limiter *rate.Limiter

	mu       sync.Mutex
	lastCall time.Time
	minGap   time.Duration
}

// NewRegulator builds a regulator capped at requestsPerSecond with the given
// minimum inter-request spacing. Pass zero values to use the archive
// defaults.
func NewRegulator(requestsPerSecond float64, minGap time.Duration) *RateRegulator {
	if requestsPerSecond <= 0 {
		requestsPerSecond = DefaultRequestsPerSecond
	}
	if minGap <= 0 {
		minGap = DefaultMinSpacing
	}
	return &RateRegulator{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		minGap:  minGap,
	}
}

// Wait blocks until a token is available, then records the dispatch
// timestamp so subsequent callers observe the minimum spacing even if the
// token-bucket alone would allow a burst.
func (r *RateRegulator) Wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate regulator wait: %w", err)
	}

	r.mu.Lock()
	since := time.Since(r.lastCall)
	var sleep time.Duration
	if !r.lastCall.IsZero() && since < r.minGap {
		sleep = r.minGap - since
	}
	r.lastCall = time.Now().Add(sleep)
	r.mu.Unlock()

	if sleep > 0 {
		t := time.NewTimer(sleep)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Do executes req through client after acquiring a token, applying the
// one-shot 429 back-off-and-retry policy described in spec §4.1. It never
// holds the regulator's internal lock during the HTTP round trip.
func (r *RateRegulator) Do(ctx context.Context, client *http.Client, req *http.Request) (*http.Response, error) {
	if err := r.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusTooManyRequests {
		return resp, nil
	}
	resp.Body.Close()

	t := time.NewTimer(BackoffOn429)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if err := r.Wait(ctx); err != nil {
		return nil, err
	}
	retryReq := req.Clone(ctx)
	return client.Do(retryReq)
}
