package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestHTTPCategory(t *testing.T) {
	t.Parallel()
	cases := map[int]ErrorCategory{
		400: Irrecoverable, 401: Irrecoverable, 403: Irrecoverable, 404: Irrecoverable,
		408: Recoverable, 429: Recoverable, 500: Recoverable, 502: Recoverable, 503: Recoverable,
	}
	for code, want := range cases {
		if got := NewHTTPError(code, "", "op").Category; got != want {
			t.Fatalf("status %d: category %v, want %v", code, got, want)
		}
	}
}

func TestIsIrrecoverable_Wrapped(t *testing.T) {
	t.Parallel()
	err := fmt.Errorf("cancel meal: %w", NewEnvelopeError(200, "Meal already cancelled", "cancel meal"))
	if !IsIrrecoverable(err) {
		t.Fatal("wrapped envelope error should be irrecoverable")
	}
	if IsIrrecoverable(NewNetworkError("op", stderrors.New("reset"))) {
		t.Fatal("network error should be recoverable")
	}
	if IsIrrecoverable(stderrors.New("plain")) {
		t.Fatal("unclassified error should not be irrecoverable")
	}
}

func TestClassifiedError_Message(t *testing.T) {
	t.Parallel()
	err := NewEnvelopeError(200, "Invalid date", "select meal")
	want := "[Irrecoverable] HTTP 200: select meal rejected by backend: Invalid date"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
	if StatusCode(fmt.Errorf("x: %w", err)) != 200 {
		t.Fatal("StatusCode should unwrap")
	}
}

func TestNetworkError_Unwraps(t *testing.T) {
	t.Parallel()
	base := stderrors.New("connection refused")
	if !stderrors.Is(NewNetworkError("get meal config", base), base) {
		t.Fatal("network error should unwrap to its cause")
	}
}
