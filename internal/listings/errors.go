package listings

import (
	"errors"
	"fmt"
)

var (
	// ErrCircuitOpen is returned while the provider is considered unavailable
	ErrCircuitOpen = errors.New("upstream circuit is open")
)

// UpstreamError reports a non-2xx response from the listings provider
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("API responded with status: %d", e.StatusCode)
}

// ParseError reports a payload that is still malformed after repair
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
