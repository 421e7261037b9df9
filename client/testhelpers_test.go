package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// fixedNow is a Friday morning; breakfast cutoff (8:00am) has passed, lunch
// (12pm) and dinner (7:30pm) have not.
var fixedNow = time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)

func clockAt(t time.Time) Option { return WithClock(func() time.Time { return t }) }

const dayMenu = `{"success":true,"meal":[{"date":"2024-03-15T00:00:00.000Z","meals":[
	{"type":"Breakfast","description":"light","items":["poha"],"cancelled":[]},
	{"type":"Lunch","description":"veg","items":["rice","dal"],"cancelled":[]},
	{"type":"Dinner","description":"","items":["roti"],"cancelled":[]}]}]}`

// fakePortal is a scripted portal backend recording every request.
type fakePortal struct {
	t *testing.T

	mu        sync.Mutex
	calls     []string
	bodies    map[string][]map[string]any
	cookies   []string
	config    any
	menus     map[string]string // DD-MM-YYYY -> raw response
	failures  map[string]int    // "METHOD path" -> status to answer with
	transient map[string]int    // "METHOD path" -> failures left before success
}

func newFakePortal(t *testing.T) (*fakePortal, *httptest.Server) {
	t.Helper()
	f := &fakePortal{
		t:         t,
		bodies:    map[string][]map[string]any{},
		config:    map[string]string{"breakfast_time": "8:00am", "lunch_time": "12pm", "dinner_time": "7:30pm"},
		menus:     map[string]string{"15-03-2024": dayMenu},
		failures:  map[string]int{},
		transient: map[string]int{},
	}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakePortal) serve(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	f.mu.Lock()
	f.calls = append(f.calls, key)
	if c, err := r.Cookie(SessionCookie); err == nil {
		f.cookies = append(f.cookies, c.Value)
	}
	var body map[string]any
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	f.bodies[key] = append(f.bodies[key], body)
	status, failing := f.failures[key]
	left := f.transient[key]
	if left > 0 {
		f.transient[key] = left - 1
	}
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if failing {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"success":false,"message":"backend says no"}`))
		return
	}
	if left > 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"success":false,"message":"try later"}`))
		return
	}

	switch {
	case key == "POST /api/auth/customer/sign-in":
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"message":"Invalid email or password"}`))
			return
		}
		writeEnvelope(w, map[string]string{"token": "tok-1", "userId": "u1", "userType": "Customer", "pgcode": "PG1"})
	case key == "GET /api/mealconfig":
		writeEnvelope(w, f.config)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/meal/"):
		wire := strings.TrimPrefix(r.URL.Path, "/api/meal/")
		f.mu.Lock()
		menu, ok := f.menus[wire]
		f.mu.Unlock()
		if !ok {
			menu = `{"success":true,"meal":[]}`
		}
		_, _ = w.Write([]byte(menu))
	case key == "PUT /api/meal", key == "PUT /api/meals/selection":
		writeEnvelope(w, nil)
	case key == "GET /api/customer/dashboard/me":
		writeEnvelope(w, map[string]any{"dailyUpdateCount": 3, "complaintCount": 1, "pendingRentAmount": 1200, "pendingRentMonths": 1})
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"not found"}`))
	}
}

func writeEnvelope(w http.ResponseWriter, data any) {
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func (f *fakePortal) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == key {
			n++
		}
	}
	return n
}

func (f *fakePortal) lastBody(key string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.bodies[key]
	if len(b) == 0 {
		return nil
	}
	return b[len(b)-1]
}

func (f *fakePortal) fail(key string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[key] = status
}

func (f *fakePortal) heal(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, key)
}

// loggedInSession returns a session with config loaded and 2024-03-15 cached.
func loggedInSession(t *testing.T, srvURL string, opts ...Option) *Session {
	t.Helper()
	c, err := New(srvURL, append([]Option{WithToken("tok-1"), clockAt(fixedNow)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s, err := c.NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}
