package client

import (
	"errors"
	"fmt"
	"net/http"

	clienterrors "github.com/techsbuilds/pgsphere-customer/client/internal/errors"
	"github.com/techsbuilds/pgsphere-customer/client/internal/shardqueue"
	"github.com/techsbuilds/pgsphere-customer/client/internal/types"
)

// ErrNotAuthenticated is returned when no token is set or the token has
// expired. Log in again to continue.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrSessionClosed is returned by Session methods after Close.
var ErrSessionClosed = errors.New("session closed")

// ErrInvalidInput is wrapped by local request validation failures.
var ErrInvalidInput = types.ErrInvalidInput

// IsBackPressure reports whether err came from a full command queue.
func IsBackPressure(err error) bool { return errors.Is(err, shardqueue.ErrQueueFull) }

// ValidationError is a local policy rejection. No request was sent.
type ValidationError struct {
	Op      string
	Message string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("%s: %s", e.Op, e.Message) }

// UserMessage returns the text shown to the tenant.
func (e *ValidationError) UserMessage() string { return e.Message }

// BackendError is a failed portal request. Err holds the classified transport
// error; Message is the generic text suggesting a retry.
type BackendError struct {
	Op      string
	Message string
	Err     error
}

func (e *BackendError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *BackendError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrNotAuthenticated) match a backend 401.
func (e *BackendError) Is(target error) bool {
	return target == ErrNotAuthenticated && clienterrors.StatusCode(e.Err) == http.StatusUnauthorized
}

// UserMessage returns the text shown to the tenant.
func (e *BackendError) UserMessage() string { return e.Message }

// UserMessage extracts the tenant-facing text from err, falling back to
// err.Error().
func UserMessage(err error) string {
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	return err.Error()
}
