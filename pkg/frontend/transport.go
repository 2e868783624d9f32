package frontend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/cakeauth/cakeauth-go/pkg/idx"
)

// maxRetries is the number of additional attempts after the first request.
// Retries apply only to gateway-style server errors; network failures and
// timeouts are surfaced immediately.
const maxRetries = 1

// retryableStatus reports whether a response status warrants a retry.
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

// transport issues JSON requests against the API with the client's ambient
// headers, per-request timeout, and bounded retry.
type transport struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	limiter    *rate.Limiter
	logger     *slog.Logger
	userAgent  string
	headers    map[string]string
}

// Metadata is returned on every response envelope.
type Metadata struct {
	Timestamp int64  `json:"timestamp"`
	RequestID string `json:"request_id"`
	Page      *int   `json:"page"`
	PageSize  *int   `json:"page_size"`
	Total     *int   `json:"total"`
}

// ErrorDetail is the error object of the response envelope. Non-2xx
// responses always populate it.
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

// do performs one logical API call: marshal body, send with retry, decode
// the envelope into Response[T]. A non-nil error always means the caller
// got no usable data.
func do[T any](ctx context.Context, t *transport, method, path string, query url.Values, body any, accessToken string) (*Response[T], error) {
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

	resp, respBody, err := t.send(ctx, method, path, query, payload, accessToken)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseErrorResponse(resp, respBody)
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

// send issues the request, retrying once on gateway-style errors with
// exponential delay. The response body is fully read and returned.
func (t *transport) send(ctx context.Context, method, path string, query url.Values, payload []byte, accessToken string) (*http.Response, []byte, error) {
	reqID := idx.New().String()

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
		req, err := http.NewRequestWithContext(reqCtx, method, t.url(path, query), bodyReader)
		if err != nil {
			cancel()
			return nil, nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Accept", "application/json")
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Cache-Control", "no-store")
		req.Header.Set("User-Agent", t.userAgent)
		req.Header.Set("X-Request-Id", reqID)
		for k, v := range t.headers {
			req.Header.Set(k, v)
		}
		if accessToken != "" {
			req.Header.Set("Authorization", "Bearer "+accessToken)
		}

		resp, err = t.httpClient.Do(req)
		if err != nil {
			cancel()
			// Network failures and timeouts are not retried.
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

func (t *transport) url(path string, query url.Values) string {
	u := t.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}
