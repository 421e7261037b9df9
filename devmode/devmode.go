// Package devmode provides the shared development credentials understood by
// both the portal client and the in-memory development backend.
package devmode

// Token is accepted by the development backend without a login. It is
// intentionally obvious and must never be used against a real PG backend.
const Token = "LOCAL_DEV_MODE_NOT_FOR_PRODUCTION"

// Seeded tenant of the development backend.
const (
	Email    = "tenant@pgsphere.local"
	Password = "dev-password"
	UserID   = "dev-customer"
	PGCode   = "DEVPG"
)

// DefaultAddr is where cmd/pg-devserver listens, matching the client's
// default API URL.
const DefaultAddr = ":8020"
