package backend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"unicode/utf8"
)

var (
	// ErrAuth is returned when the provider rejects the credentials or they are missing.
	ErrAuth = errors.New("authentication failed")

	// ErrNetwork is returned when the provider could not be reached.
	ErrNetwork = errors.New("network error")

	// ErrTimeout is returned when a request or polling budget ran out.
	ErrTimeout = errors.New("timed out")

	// ErrMalformedResponse is returned when a provider payload cannot be decoded.
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrUpstreamStatus is returned for unexpected provider HTTP status codes.
	ErrUpstreamStatus = errors.New("unexpected provider status")
)

// maxSnippet bounds how much of an upstream error body is kept in errors.
const maxSnippet = 256

// StatusError maps a non-success HTTP status into the taxonomy.
func StatusError(status int, body []byte) error {
	snippet := string(truncate(body, maxSnippet))
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: status %d: %s", ErrAuth, status, snippet)
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return fmt.Errorf("%w: status %d", ErrTimeout, status)
	default:
		return fmt.Errorf("%w: status %d: %s", ErrUpstreamStatus, status, snippet)
	}
}

// truncate cuts body to at most n bytes without splitting a UTF-8 sequence.
func truncate(body []byte, n int) []byte {
	if len(body) <= n {
		return body
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut]
}

// TransportError classifies an error returned by the HTTP transport.
func TransportError(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}

// Malformed wraps a decode failure.
func Malformed(err error) error {
	return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
}

// Reason returns a short failure description for status reporting.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuth):
		return "authentication failed"
	case errors.Is(err, ErrTimeout):
		return "timed out"
	case errors.Is(err, ErrNetwork):
		return "provider unreachable"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed response"
	case errors.Is(err, ErrUpstreamStatus):
		return "provider returned an error"
	default:
		return err.Error()
	}
}
