package marketdata

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// UpstreamError is any non-2xx response from a data provider, normalized to
// one shape so callers can apply a single retry policy regardless of which
// provider failed.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Message)
}

// NetworkError is a request that could not complete at the transport level
// (DNS, timeout, connection reset). Kept distinct from UpstreamError.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// newUpstreamError builds an UpstreamError from a non-2xx response body.
// The message prefers a provider-supplied error field when the body is JSON,
// then the HTTP status text, then the raw body.
func newUpstreamError(statusCode int, body []byte) *UpstreamError {
	message := http.StatusText(statusCode)

	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "{") {
		var payload struct {
			Error  string `json:"error"`
			Status struct {
				ErrorMessage string `json:"error_message"`
			} `json:"status"`
		}
		if err := json.Unmarshal(body, &payload); err == nil {
			if payload.Error != "" {
				message = payload.Error
			} else if payload.Status.ErrorMessage != "" {
				message = payload.Status.ErrorMessage
			}
		}
	} else if trimmed != "" && message == "" {
		message = trimmed
	}

	return &UpstreamError{StatusCode: statusCode, Message: message}
}
