package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/cakeauth/cakeauth-go/pkg/idx"
)

const maxRetries = 1

func retryableStatus(status int) bool {
	switch status {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

type transport struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	limiter    *rate.Limiter
	logger     *slog.Logger
	userAgent  string
	authHeader string
}

// Metadata is returned on every response envelope.
type Metadata struct {
	Timestamp int64  `json:"timestamp"`
	RequestID string `json:"request_id"`
	Page      *int   `json:"page"`
	PageSize  *int   `json:"page_size"`
	Total     *int   `json:"total"`
}

// ErrorDetail is the error object of the response envelope.
type ErrorDetail struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	URL     *string `json:"url"`
}

// Response is the standard CakeAuth response envelope.
type Response[T any] struct {
	Status   int          `json:"status"`
	Metadata Metadata     `json:"metadata"`
	Error    *ErrorDetail `json:"error"`
	Data     T            `json:"data"`
}

// APIError is returned when the API responds with a non-2xx status.
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

func do[T any](ctx context.Context, t *transport, method, path string, query url.Values, body any) (*Response[T], error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	resp, respBody, err := t.send(ctx, method, path, query, payload)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseErrorResponse(resp.StatusCode, respBody)
	}

	if resp.StatusCode == http.StatusNoContent {
		return &Response[T]{Status: resp.StatusCode}, nil
	}

	var out Response[T]
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &out, nil
}

func (t *transport) send(ctx context.Context, method, path string, query url.Values, payload []byte) (*http.Response, []byte, error) {
	reqID := idx.New().String()

	endpoint := t.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var (
		resp     *http.Response
		respBody []byte
	)

	for attempt := 0; ; attempt++ {
		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}

		reqCtx, cancel := context.WithTimeout(ctx, t.timeout)
		req, err := http.NewRequestWithContext(reqCtx, method, endpoint, bodyReader)
		if err != nil {
			cancel()
			return nil, nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Accept", "application/json")
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", t.userAgent)
		req.Header.Set("Authorization", t.authHeader)
		req.Header.Set("X-Request-Id", reqID)

		resp, err = t.httpClient.Do(req)
		if err != nil {
			cancel()
			return nil, nil, fmt.Errorf("failed to send request: %w", err)
		}

		respBody, err = io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		cancel()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read response body: %w", err)
		}

		if !retryableStatus(resp.StatusCode) || attempt >= maxRetries {
			return resp, respBody, nil
		}

		delay := time.Duration(1<<uint(attempt+1)) * time.Second
		t.logger.Debug("retrying request",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"delay", delay,
			"req_id", reqID,
		)

		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

func parseErrorResponse(status int, body []byte) error {
	var envelope Response[json.RawMessage]
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		apiErr := &APIError{
			Status:    status,
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
		msg = http.StatusText(status)
	}
	return &APIError{Status: status, Message: msg}
}
