package client

import "fmt"

// Error code discriminators for backend failures.
const (
	CodeNetworkError = "NETWORK_ERROR"
	CodeUnknownError = "UNKNOWN_ERROR"
)

// APIError is the typed error surfaced for any backend failure. Code is
// NETWORK_ERROR for connection-level failures, HTTP_<status> for non-2xx
// responses, and UNKNOWN_ERROR for undecodable payloads.
type APIError struct {
	Code    string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error %s: %s", e.Code, e.Message)
}

// IsNetworkError reports whether err is a connection-level APIError, the
// only category eligible for transparent retry.
func IsNetworkError(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Code == CodeNetworkError
}

// httpCode builds the discriminator for an HTTP-level failure.
func httpCode(status int) string {
	return fmt.Sprintf("HTTP_%d", status)
}
