package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/techsbuilds/pgsphere-customer/devmode"
	"github.com/techsbuilds/pgsphere-customer/devmode/internal/respond"
)

// cookieName is the session cookie the portal client sends.
const cookieName = "pgtoken"

var errInvalidToken = errors.New("invalid token")

// tokenIssuer signs and checks HS256 session tokens. The static dev token is
// accepted as the seeded tenant.
type tokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func (ti *tokenIssuer) issue(userID string) (string, error) {
	now := ti.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
}

// verify returns the user a token belongs to.
func (ti *tokenIssuer) verify(token string) (string, error) {
	if token == devmode.Token {
		return devmode.UserID, nil
	}
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return ti.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(ti.now))
	if err != nil {
		return "", fmt.Errorf("%w: %v", errInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", errInvalidToken)
	}
	return claims.Subject, nil
}

type userKey struct{}

// userFrom returns the authenticated user stored by requireAuth.
func userFrom(ctx context.Context) string {
	id, _ := ctx.Value(userKey{}).(string)
	return id
}

// requireAuth reads the token from the pgtoken cookie, falling back to a
// bearer header.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if c, err := r.Cookie(cookieName); err == nil {
			token = c.Value
		}
		if token == "" {
			token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		}
		if token == "" {
			respond.WriteUnauthorized(w, "Unauthorized")
			return
		}
		userID, err := s.tokens.verify(token)
		if err != nil {
			respond.WriteUnauthorized(w, "Session expired. Please login again.")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userKey{}, userID)))
	}
}
