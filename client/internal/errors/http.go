package errors

import "fmt"

// ClassifyHTTPError builds a ClassifiedError for a non-2xx response.
func ClassifyHTTPError(statusCode int, body string, underlying error) *ClassifiedError {
	return &ClassifiedError{
		Category:   httpCategory(statusCode),
		StatusCode: statusCode,
		Body:       body,
		Underlying: underlying,
	}
}

func httpCategory(statusCode int) ErrorCategory {
	switch {
	case statusCode == 408, statusCode == 429:
		return Recoverable
	case statusCode >= 400 && statusCode < 500:
		return Irrecoverable
	default:
		return Recoverable
	}
}

// NewHTTPError creates a classified error for an HTTP failure of operation.
func NewHTTPError(statusCode int, body string, operation string) *ClassifiedError {
	return ClassifyHTTPError(statusCode, body, fmt.Errorf("%s failed: HTTP %d", operation, statusCode))
}

// NewEnvelopeError creates an error for a 2xx response whose envelope reports
// success:false. The backend has made its decision, so it is not retried.
func NewEnvelopeError(statusCode int, message, operation string) *ClassifiedError {
	return &ClassifiedError{
		Category:   Irrecoverable,
		StatusCode: statusCode,
		Message:    message,
		Underlying: fmt.Errorf("%s rejected by backend", operation),
	}
}

// NewNetworkError creates a classified error for a network-level failure.
func NewNetworkError(operation string, err error) *ClassifiedError {
	return &ClassifiedError{
		Category:   Recoverable,
		Underlying: fmt.Errorf("%s network error: %w", operation, err),
	}
}

// NewDecodeError creates an error for a response body that could not be
// decoded. Decoding the same body again will not help.
func NewDecodeError(operation string, statusCode int, err error) *ClassifiedError {
	return &ClassifiedError{
		Category:   Irrecoverable,
		StatusCode: statusCode,
		Underlying: fmt.Errorf("%s decode response: %w", operation, err),
	}
}
