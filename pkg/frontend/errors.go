package frontend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is returned when the API responds with a non-2xx status. Code
// and DocsURL are populated when the envelope carries them.
type APIError struct {
	Status    int
	Code      string
	Message   string
	DocsURL   string
	RequestID string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("cakeauth: %s (%s)", e.Message, e.Code)
	}
	return fmt.Sprintf("cakeauth: %s", e.Message)
}

// IsUnauthorized reports whether the error represents a 401 response.
func (e *APIError) IsUnauthorized() bool { return e.Status == http.StatusUnauthorized }

// IsNotFound reports whether the error represents a 404 response.
func (e *APIError) IsNotFound() bool { return e.Status == http.StatusNotFound }

// parseErrorResponse builds the richest error the body allows: a rate
// limit error for 429s with limit headers, the envelope's error detail
// when it decodes, otherwise the raw body text.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode == http.StatusTooManyRequests {
		if rl := parseRateLimit(resp.Header); rl != nil {
			return &TooManyRequestsError{
				Status:    resp.StatusCode,
				RateLimit: *rl,
			}
		}
	}

	var envelope Response[json.RawMessage]
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		apiErr := &APIError{
			Status:    resp.StatusCode,
			Code:      envelope.Error.Code,
			Message:   envelope.Error.Message,
			RequestID: envelope.Metadata.RequestID,
		}
		if envelope.Error.URL != nil {
			apiErr.DocsURL = *envelope.Error.URL
		}
		return apiErr
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{
		Status:  resp.StatusCode,
		Message: msg,
	}
}
