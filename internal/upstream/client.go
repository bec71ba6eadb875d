// Package upstream is the HTTP layer shared by the feed adapters.
// It adds a per-request timeout, optional retries for transport errors and
// 5xx responses, and a circuit breaker per provider.
//
// Non-success statuses are not errors here: they come back as a Response so
// adapters can turn them into feed-level errors. Only transport failures,
// cancelled contexts and an open breaker are returned as errors.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/rewired-gh/oddsboard/internal/logger"
)

// maxBodyBytes caps how much of an upstream body is read.
const maxBodyBytes = 16 << 20

// ClientConfig holds transport tuning for one upstream provider.
type ClientConfig struct {
	Timeout         time.Duration
	MaxRetries      int           // extra attempts after the first; 0 disables retries
	RetryDelayBase  time.Duration // linear backoff: base * attempt
	BreakerFailures uint32        // consecutive failures that open the breaker; 0 disables it
	BreakerCooldown time.Duration // how long the breaker stays open
	MinInterval     time.Duration // minimum spacing between requests; 0 disables throttling
}

// Client performs GET requests against one provider.
type Client struct {
	name           string
	httpClient     *http.Client
	breaker        *gobreaker.CircuitBreaker
	limiter        *rate.Limiter
	maxRetries     int
	retryDelayBase time.Duration
}

// Response is a fully read upstream response.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// serverStatusError marks a 5xx response as a failure for the breaker while
// still carrying the response back to the caller.
type serverStatusError struct {
	resp *Response
}

func (e *serverStatusError) Error() string {
	return fmt.Sprintf("server error: %d", e.resp.StatusCode)
}

// callerDoneError marks a call abandoned because the caller's context ended.
// It says nothing about the provider, so the breaker never counts it as a
// failure. gobreaker v0.5 has no neutral outcome; it is reported as a success.
type callerDoneError struct {
	err error
}

func (e *callerDoneError) Error() string { return e.err.Error() }

func (e *callerDoneError) Unwrap() error { return e.err }

// isSuccessful tells the breaker which outcomes count against the provider.
func isSuccessful(err error) bool {
	var done *callerDoneError
	return err == nil || errors.As(err, &done)
}

// NewClient creates a client named after the provider it talks to.
func NewClient(name string, cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelayBase <= 0 {
		cfg.RetryDelayBase = 500 * time.Millisecond
	}

	c := &Client{
		name:           name,
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		maxRetries:     cfg.MaxRetries,
		retryDelayBase: cfg.RetryDelayBase,
	}

	if cfg.BreakerFailures > 0 {
		threshold := cfg.BreakerFailures
		c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     cfg.BreakerCooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("Circuit breaker %s changed state: %s -> %s", name, from, to)
			},
			IsSuccessful: isSuccessful,
		})
	}

	if cfg.MinInterval > 0 {
		c.limiter = rate.NewLimiter(rate.Every(cfg.MinInterval), 1)
	}

	return c
}

// Name returns the provider name the client was created with.
func (c *Client) Name() string {
	return c.name
}

// State reports the breaker state; a client without a breaker is always closed.
func (c *Client) State() gobreaker.State {
	if c.breaker == nil {
		return gobreaker.StateClosed
	}
	return c.breaker.State()
}

// Get fetches url with the given extra headers.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*Response, error) {
	call := func() (interface{}, error) {
		resp, err := c.doRequest(ctx, url, headers)
		if err != nil {
			if ctx.Err() != nil {
				return nil, &callerDoneError{err: ctx.Err()}
			}
			return nil, err
		}
		if resp.StatusCode >= 500 {
			return resp, &serverStatusError{resp: resp}
		}
		return resp, nil
	}

	var (
		result interface{}
		err    error
	)
	if c.breaker != nil {
		result, err = c.breaker.Execute(call)
	} else {
		result, err = call()
	}

	var statusErr *serverStatusError
	if errors.As(err, &statusErr) {
		return statusErr.resp, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", c.name, err)
	}
	return result.(*Response), nil
}

// doRequest performs the HTTP request with retry logic
func (c *Client) doRequest(ctx context.Context, url string, headers map[string]string) (*Response, error) {
	var (
		lastResp *Response
		lastErr  error
	)

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			logger.Debug("Retrying %s request (attempt %d/%d): %v", c.name, attempt+1, c.maxRetries+1, lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelayBase * time.Duration(attempt)):
			}
		}

		resp, err := c.once(ctx, url, headers)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastResp, lastErr = nil, err
			continue
		}
		if resp.StatusCode >= 500 {
			lastResp, lastErr = resp, fmt.Errorf("server error: %d", resp.StatusCode)
			continue
		}
		return resp, nil
	}

	if lastResp != nil {
		return lastResp, nil
	}
	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) once(ctx context.Context, url string, headers map[string]string) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}
