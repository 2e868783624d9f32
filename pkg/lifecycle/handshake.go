package lifecycle

import (
	"context"
	"errors"
	"net/url"

	"github.com/cakeauth/cakeauth-go/pkg/frontend"
)

// URL parameters the hosted auth pages use to hand state across
// redirects.
const (
	// ParamHandshakeID carries a one-time handshake id after a redirect
	// sign-in, exchanged for a session.
	ParamHandshakeID = "__cakeauth_handshake"

	// ParamError carries a user-facing error message.
	ParamError = "error"

	// ParamAttemptID and ParamToken arrive in password reset links.
	ParamAttemptID = "__cakeauth_attempt"
	ParamToken     = "__cakeauth_token"
)

// ExchangeHandshake inspects pageURL for a handshake id and, when one is
// present, exchanges it for a session and stores the credentials. It
// returns the URL the page should continue under: on success the
// handshake and error parameters are stripped, on failure the handshake
// parameter is stripped and the error parameter set to a user-facing
// message. URLs without a handshake id pass through untouched.
func (m *Manager) ExchangeHandshake(ctx context.Context, pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL, err
	}

	query := u.Query()
	handshakeID := query.Get(ParamHandshakeID)
	if handshakeID == "" {
		return pageURL, nil
	}

	m.mu.Lock()
	m.state = StateLoading
	m.lastErr = nil
	m.mu.Unlock()

	resp, err := m.client.Sessions.ExchangeHandshake(ctx, handshakeID)

	if err != nil {
		m.mu.Lock()
		m.state = StateError
		m.lastErr = err
		m.mu.Unlock()

		query.Del(ParamHandshakeID)
		query.Set(ParamError, userFacingMessage(err))
		u.RawQuery = query.Encode()
		return u.String(), err
	}

	m.creds.ApplySession(&resp.Data)

	m.mu.Lock()
	m.state = StateIdle
	m.failed = 0
	m.mu.Unlock()

	query.Del(ParamHandshakeID)
	query.Del(ParamError)
	u.RawQuery = query.Encode()
	return u.String(), nil
}

// ParseResetPasswordLink extracts the attempt id and ephemeral token from
// a password reset link. ok is false unless both are present.
func ParseResetPasswordLink(pageURL string) (attemptID, token string, ok bool) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", "", false
	}

	query := u.Query()
	attemptID = query.Get(ParamAttemptID)
	token = query.Get(ParamToken)
	return attemptID, token, attemptID != "" && token != ""
}

func userFacingMessage(err error) string {
	var apiErr *frontend.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Something went wrong"
}
