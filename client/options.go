package client

// Functional options that configure the Client during construction.

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/techsbuilds/pgsphere-customer/client/meal"
)

// Option configures a Client during construction in New.
//
// Options run before the transport wrappers are installed, so a custom
// http.Client passed with WithHTTPClient still gets the session cookie and
// debug logging.
type Option func(*Client) error

// WithHTTPTimeout bounds the total time of a single HTTP request. Prefer
// per-call context deadlines; this is the coarse safety net. The value must
// be greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithHTTPClient replaces the underlying http.Client. Its Timeout is kept.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return errors.New("http client cannot be nil")
		}
		cp := *hc
		c.http = &cp
		return nil
	}
}

// WithDebugLogging logs each request and response at debug level when
// enabled is true. Do not enable it in production: dumps include the
// session cookie.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		c.debug = c.debug || enabled
		return nil
	}
}

// WithToken starts the client with an existing session token, for example
// one restored from localstate.
func WithToken(token string) Option {
	return func(c *Client) error {
		c.auth.set(token)
		return nil
	}
}

// WithPolicy sets the meal modification policy used by sessions.
func WithPolicy(p meal.Policy) Option {
	return func(c *Client) error {
		c.policy = p
		return nil
	}
}

// WithClock overrides the time source used for cutoff decisions and token
// expiry. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Client) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		c.now = now
		return nil
	}
}

// WithFetchRetries lets day menu fetches make up to n attempts with
// exponential backoff on recoverable errors. Commands are never retried.
func WithFetchRetries(n int) Option {
	return func(c *Client) error {
		if n < 1 {
			return fmt.Errorf("fetch retries must be >= 1")
		}
		c.fetchAttempts = n
		return nil
	}
}
