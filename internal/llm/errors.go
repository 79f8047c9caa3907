package llm

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable is returned when the provider cannot be reached or fails.
	ErrUnavailable = errors.New("llm provider unavailable")
	// ErrRateLimited is returned on HTTP 429 from the provider.
	ErrRateLimited = errors.New("llm provider rate limited")
	// ErrInvalidResponse marks content that is empty or breaks the schema.
	ErrInvalidResponse = errors.New("invalid llm response")
)

// callFailed classifies an SDK error by the HTTP status it carried (0 when unknown).
func callFailed(err error, status int) error {
	if status == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidResponse, fmt.Sprintf(format, args...))
}
