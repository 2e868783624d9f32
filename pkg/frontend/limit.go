package frontend

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// RateLimit describes the server-side quota reported on 429 responses.
type RateLimit struct {
	Scope     string
	Limit     int
	Remaining int
	Reset     time.Time
}

// TooManyRequestsError is returned when the API rejects a request for
// exceeding a rate limit and reports the quota in its headers.
type TooManyRequestsError struct {
	Status    int
	RateLimit RateLimit
}

func (e *TooManyRequestsError) Error() string {
	wait := time.Until(e.RateLimit.Reset)
	if wait < 0 {
		wait = 0
	}
	wait = wait.Round(time.Second)
	minutes := int(wait / time.Minute)
	seconds := int(wait/time.Second) % 60
	scope := e.RateLimit.Scope
	if scope == "" {
		scope = "request"
	}
	return fmt.Sprintf("cakeauth: %s limit exceeded, try again in %dm%ds", scope, minutes, seconds)
}

// parseRateLimit reads the X-RateLimit-* headers. It returns nil when the
// response carries no limit information.
func parseRateLimit(h http.Header) *RateLimit {
	limit := h.Get("X-RateLimit-Limit")
	reset := h.Get("X-RateLimit-Reset")
	if limit == "" && reset == "" {
		return nil
	}

	rl := &RateLimit{Scope: h.Get("X-RateLimit-Scope")}
	if n, err := strconv.Atoi(limit); err == nil {
		rl.Limit = n
	}
	if n, err := strconv.Atoi(h.Get("X-RateLimit-Remaining")); err == nil {
		rl.Remaining = n
	}
	if n, err := strconv.ParseInt(reset, 10, 64); err == nil {
		rl.Reset = time.Unix(n, 0)
	}
	return rl
}
