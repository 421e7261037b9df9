// Package server is an in-memory implementation of the PG portal REST API
// for local development and tests. It serves one seeded tenant whose
// credentials live in package devmode.
package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/techsbuilds/pgsphere-customer/client/meal"
	"github.com/techsbuilds/pgsphere-customer/devmode/internal/recovery"
)

// InviteToken is the only signup token the backend accepts.
const InviteToken = "DEV-INVITE"

// DefaultMealConfig is served by GET /api/mealconfig unless overridden.
var DefaultMealConfig = meal.Config{BreakfastTime: "8:00am", LunchTime: "12:00pm", DinnerTime: "7:30pm"}

// Server is the development backend.
type Server struct {
	store  *store
	tokens *tokenIssuer
	router *mux.Router
}

type settings struct {
	now    func() time.Time
	config *meal.Config
	secret []byte
	ttl    time.Duration
}

// Option configures a Server.
type Option func(*settings)

// WithClock sets the time source for cutoffs and token expiry.
func WithClock(now func() time.Time) Option { return func(s *settings) { s.now = now } }

// WithMealConfig replaces the served cutoff configuration. nil makes the
// backend answer with null data.
func WithMealConfig(cfg *meal.Config) Option { return func(s *settings) { s.config = cfg } }

// WithSigningKey sets the HS256 key for issued tokens.
func WithSigningKey(key []byte) Option { return func(s *settings) { s.secret = key } }

// WithTokenTTL sets the lifetime of issued tokens.
func WithTokenTTL(d time.Duration) Option { return func(s *settings) { s.ttl = d } }

// New builds a Server with seeded data.
func New(opts ...Option) *Server {
	cfg := DefaultMealConfig
	st := settings{now: time.Now, config: &cfg, secret: []byte(uuid.NewString()), ttl: 24 * time.Hour}
	for _, opt := range opts {
		opt(&st)
	}

	s := &Server{
		store:  newStore(st.now, st.config),
		tokens: &tokenIssuer{secret: st.secret, ttl: st.ttl, now: st.now},
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.router.ServeHTTP(w, r) }

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recovery.Middleware)
	router.Use(instrument)

	router.HandleFunc("/api/health", s.health).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Auth endpoints
	router.HandleFunc("/api/auth/customer/sign-in", s.login).Methods("POST")
	router.HandleFunc("/api/auth/verify/customer/signup/{token}", s.verifySignup).Methods("GET")

	// Meal endpoints
	router.HandleFunc("/api/mealconfig", s.requireAuth(s.getMealConfig)).Methods("GET")
	router.HandleFunc("/api/meal/{date}", s.requireAuth(s.getMealsByDate)).Methods("GET")
	router.HandleFunc("/api/meal", s.requireAuth(s.cancelMeal)).Methods("PUT")
	router.HandleFunc("/api/meals/selection", s.requireAuth(s.updateSelection)).Methods("PUT")

	// Tenant endpoints
	router.HandleFunc("/api/customer/dashboard/me", s.requireAuth(s.dashboard)).Methods("GET")
	router.HandleFunc("/api/dailyupdate/customer", s.requireAuth(s.listUpdates)).Methods("GET")
	router.HandleFunc("/api/complaint/customer", s.requireAuth(s.listComplaints)).Methods("GET")
	router.HandleFunc("/api/complaint", s.requireAuth(s.submitComplaint)).Methods("POST")
	router.HandleFunc("/api/customer/me/rent-list", s.requireAuth(s.rentList)).Methods("GET")
	router.HandleFunc("/api/customer/me", s.requireAuth(s.getProfile)).Methods("GET")
	router.HandleFunc("/api/customer/me", s.requireAuth(s.updateProfile)).Methods("PUT")

	return router
}
