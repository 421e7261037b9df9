package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// errRT is an http.RoundTripper that always returns an error (simulates network failure).
type errRT struct{}

func (e *errRT) RoundTrip(*http.Request) (*http.Response, error) { return nil, fmt.Errorf("boom") }

// recorded captures what the handler under test received.
type recorded struct {
	method string
	path   string
	body   map[string]any
}

// envelopeServer answers every request with status and an envelope built
// from success, message and data, recording the request into rec.
func envelopeServer(t *testing.T, rec *recorded, status int, success bool, message string, data any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rec != nil {
			rec.method = r.Method
			rec.path = r.URL.Path
			if r.Body != nil {
				_ = json.NewDecoder(r.Body).Decode(&rec.body)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		env := map[string]any{"success": success}
		if message != "" {
			env["message"] = message
		}
		if data != nil {
			env["data"] = data
		}
		_ = json.NewEncoder(w).Encode(env)
	}))
	t.Cleanup(srv.Close)
	return srv
}
