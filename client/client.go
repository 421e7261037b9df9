package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/techsbuilds/pgsphere-customer/client/internal/api"
	clienterrors "github.com/techsbuilds/pgsphere-customer/client/internal/errors"
	"github.com/techsbuilds/pgsphere-customer/client/internal/shardqueue"
	"github.com/techsbuilds/pgsphere-customer/client/internal/types"
	"github.com/techsbuilds/pgsphere-customer/client/meal"
	"github.com/techsbuilds/pgsphere-customer/devmode"
)

// DefaultBaseURL is the portal backend used when none is configured.
const DefaultBaseURL = "http://localhost:8020"

// SessionCookie carries the token on every authenticated request.
const SessionCookie = "pgtoken"

// Client talks to the PG portal backend on behalf of one tenant.
type Client struct {
	baseURL string
	http    *http.Client
	auth    *tokenSource

	policy        meal.Policy
	now           func() time.Time
	fetchAttempts int
	debug         bool

	closedOnce uint32
}

// New constructs a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("baseURL cannot be empty")
	}

	c := &Client{
		baseURL:       baseURL,
		http:          &http.Client{Timeout: 30 * time.Second},
		auth:          &tokenSource{},
		policy:        meal.DefaultPolicy(),
		now:           time.Now,
		fetchAttempts: 1,
		debug:         debugLoggingRequested(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	if c.debug {
		base = &debugTransport{base: base}
	}
	c.http.Transport = &tokenTransport{base: base, auth: c.auth}
	return c, nil
}

// NewWithDevMode constructs a Client that presents the development token.
// It only works against the in-memory development backend.
func NewWithDevMode(baseURL string, opts ...Option) (*Client, error) {
	return New(baseURL, append([]Option{WithToken(devmode.Token)}, opts...)...)
}

// BaseURL returns the backend the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Token returns the current session token, or "" when logged out.
func (c *Client) Token() string { return c.auth.get() }

// Authenticated reports whether a token is present and not known to be
// expired.
func (c *Client) Authenticated() bool { return c.requireToken() == nil }

// Close releases idle connections. Safe to call multiple times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	c.http.CloseIdleConnections()
	return nil
}

func (c *Client) requireToken() error {
	tok := c.auth.get()
	if tok == "" {
		return ErrNotAuthenticated
	}
	if tokenExpired(tok, c.now()) {
		return fmt.Errorf("%w: token expired", ErrNotAuthenticated)
	}
	return nil
}

// --------------------------------------------------------------------
// Transport
// --------------------------------------------------------------------

type tokenSource struct {
	mu    sync.RWMutex
	token string
}

func (s *tokenSource) get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *tokenSource) set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// tokenTransport adds the session cookie, a bearer header and a request id.
type tokenTransport struct {
	base http.RoundTripper
	auth *tokenSource
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	cloned := req.Clone(req.Context())
	if tok := t.auth.get(); tok != "" {
		cloned.AddCookie(&http.Cookie{Name: SessionCookie, Value: tok})
		cloned.Header.Set("Authorization", "Bearer "+tok)
	}
	if cloned.Header.Get("X-Request-ID") == "" {
		cloned.Header.Set("X-Request-ID", uuid.NewString())
	}
	return t.base.RoundTrip(cloned)
}

// --------------------------------------------------------------------
// Auth operations
// --------------------------------------------------------------------

// Login signs the tenant in and keeps the returned token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	start := time.Now()
	s, err := api.Login(ctx, c.http, c.baseURL, types.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, wrapBackend("login", "Login failed", err)
	}
	c.auth.set(s.Token)
	log.Debug().Str("user_id", s.UserID).Str("pgcode", s.PGCode).Dur("elapsed", time.Since(start)).Msg("logged in")
	return s, nil
}

// Logout forgets the token. Sessions created earlier keep their cache until
// closed but their commands fail with ErrNotAuthenticated.
func (c *Client) Logout() { c.auth.set("") }

// VerifySignupToken checks a signup invitation. It needs no login.
func (c *Client) VerifySignupToken(ctx context.Context, token string) (*SignupInvite, error) {
	inv, err := api.VerifySignupToken(ctx, c.http, c.baseURL, token)
	if err != nil {
		return nil, wrapBackend("verify signup token", "Invalid or expired token", err)
	}
	return inv, nil
}

// wrapBackend turns a transport failure into a *BackendError whose message
// is the backend's envelope message, or fallback. Context and local
// validation errors are returned unchanged.
func wrapBackend(op, fallback string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, types.ErrInvalidInput) || errors.Is(err, ErrNotAuthenticated) {
		return err
	}
	if errors.Is(err, shardqueue.ErrExecutorClosed) {
		return ErrSessionClosed
	}
	msg := fallback
	var ce *clienterrors.ClassifiedError
	if errors.As(err, &ce) && ce.Message != "" {
		msg = ce.Message
	}
	return &BackendError{Op: op, Message: msg, Err: err}
}
