package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/techsbuilds/pgsphere-customer/devmode"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestNew_RejectsEmptyBaseURL(t *testing.T) {
	t.Parallel()
	if _, err := New("  "); err == nil {
		t.Fatal("expected error for empty base URL")
	}
	if _, err := New("http://x", WithHTTPTimeout(0)); err == nil {
		t.Fatal("expected error for zero timeout")
	}
	if _, err := New("http://x", WithFetchRetries(0)); err == nil {
		t.Fatal("expected error for zero fetch retries")
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	t.Parallel()
	c, err := New("http://localhost:8020/")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.BaseURL() != "http://localhost:8020" {
		t.Fatalf("BaseURL = %q", c.BaseURL())
	}
}

func TestTokenTransport_AddsCookieAndHeaders(t *testing.T) {
	t.Parallel()
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = w.Write([]byte(`{"success":true,"data":{}}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithToken("abc"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.GetDashboardStats(context.Background()); err != nil {
		t.Fatalf("GetDashboardStats: %v", err)
	}
	ck, err := got.Cookie(SessionCookie)
	if err != nil || ck.Value != "abc" {
		t.Fatalf("expected pgtoken cookie, got %v err=%v", ck, err)
	}
	if got.Header.Get("Authorization") != "Bearer abc" {
		t.Fatalf("Authorization = %q", got.Header.Get("Authorization"))
	}
	if got.Header.Get("X-Request-ID") == "" {
		t.Fatal("expected X-Request-ID header")
	}
}

func TestNew_AutoEnableDebugViaEnv(t *testing.T) {
	t.Setenv("PGPORTAL_DEBUG", "true")
	c, err := New("http://example.com")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tt, ok := c.http.Transport.(*tokenTransport)
	if !ok {
		t.Fatalf("expected tokenTransport outermost, got %T", c.http.Transport)
	}
	if _, ok := tt.base.(*debugTransport); !ok {
		t.Fatalf("expected debugTransport under the token transport when PGPORTAL_DEBUG=true")
	}
}

func TestDebugTransport_ErrorPath(t *testing.T) {
	t.Parallel()
	rt := roundTripFunc(func(*http.Request) (*http.Response, error) { return nil, context.DeadlineExceeded })
	c, err := New("http://example.com", WithHTTPClient(&http.Client{Transport: rt}), WithDebugLogging(true))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://example.com", http.NoBody)
	if _, err := c.http.Do(req); err == nil {
		t.Fatal("expected error from underlying transport")
	}
}

func TestLogin_StoresToken(t *testing.T) {
	t.Parallel()
	f, srv := newFakePortal(t)
	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.Authenticated() {
		t.Fatal("fresh client should not be authenticated")
	}
	res, err := c.Login(context.Background(), "tenant@example.com", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token != "tok-1" || c.Token() != "tok-1" || !c.Authenticated() {
		t.Fatalf("token not stored: res=%+v token=%q", res, c.Token())
	}
	if f.lastBody("POST /api/auth/customer/sign-in")["userType"] != "Customer" {
		t.Fatal("login must send userType Customer")
	}

	c.Logout()
	if _, err := c.GetDashboardStats(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated after logout, got %v", err)
	}
}

func TestLogin_BackendMessage(t *testing.T) {
	t.Parallel()
	_, srv := newFakePortal(t)
	c, _ := New(srv.URL)
	_, err := c.Login(context.Background(), "tenant@example.com", "wrong")
	var be *BackendError
	if !errors.As(err, &be) || be.UserMessage() != "Invalid email or password" {
		t.Fatalf("expected BackendError with envelope message, got %v", err)
	}
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatal("401 should match ErrNotAuthenticated")
	}
	if c.Token() != "" {
		t.Fatal("failed login must not set a token")
	}
}

func TestLogin_LocalValidation(t *testing.T) {
	t.Parallel()
	f, srv := newFakePortal(t)
	c, _ := New(srv.URL)
	if _, err := c.Login(context.Background(), "not-an-email", "x"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if f.count("POST /api/auth/customer/sign-in") != 0 {
		t.Fatal("invalid login must not reach the backend")
	}
}

func TestExpiredToken_NoRequest(t *testing.T) {
	t.Parallel()
	f, srv := newFakePortal(t)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(fixedNow.Add(-time.Minute)),
	}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	c, _ := New(srv.URL, WithToken(tok), clockAt(fixedNow))
	if _, err := c.GetDashboardStats(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if _, err := c.NewSession(); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated from NewSession, got %v", err)
	}
	if f.count("GET /api/customer/dashboard/me") != 0 {
		t.Fatal("expired token must not be sent")
	}
}

func TestTokenExpiry(t *testing.T) {
	t.Parallel()
	if _, ok := tokenExpiry(devmode.Token); ok {
		t.Fatal("opaque token should have no expiry")
	}
	exp := fixedNow.Add(time.Hour).Truncate(time.Second)
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)}).SignedString([]byte("k"))
	got, ok := tokenExpiry(tok)
	if !ok || !got.Equal(exp) {
		t.Fatalf("tokenExpiry = %v %v, want %v", got, ok, exp)
	}
	if tokenExpired(tok, fixedNow) || !tokenExpired(tok, exp) {
		t.Fatal("expiry boundary is wrong")
	}
}

func TestNewWithDevMode_SendsDevToken(t *testing.T) {
	t.Parallel()
	var cookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie(SessionCookie); err == nil {
			cookie = ck.Value
		}
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	defer srv.Close()
	c, err := NewWithDevMode(srv.URL)
	if err != nil {
		t.Fatalf("NewWithDevMode: %v", err)
	}
	defer func() { _ = c.Close() }()
	if _, err := c.ListComplaints(context.Background()); err != nil {
		t.Fatalf("ListComplaints: %v", err)
	}
	if cookie != devmode.Token {
		t.Fatalf("cookie = %q, want dev token", cookie)
	}
}

func TestUserMessage(t *testing.T) {
	t.Parallel()
	if UserMessage(&ValidationError{Op: "cancel meal", Message: "nope"}) != "nope" {
		t.Fatal("ValidationError message not surfaced")
	}
	if UserMessage(errors.New("plain")) != "plain" {
		t.Fatal("plain errors fall back to Error()")
	}
}
