package frontend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// SessionsService manages the current user's sessions and access tokens.
type SessionsService struct {
	transport *transport
}

// ExchangeHandshake trades a one-time handshake id, delivered via URL
// parameter after a redirect flow, for a full session with an access
// token. A handshake id can be exchanged once; a second exchange fails.
//
// Endpoint: GET /v1/sessions/handshake/{handshake_id}
func (s *SessionsService) ExchangeHandshake(ctx context.Context, handshakeID string) (*Response[SessionItem], error) {
	if err := validateHandshakeID(handshakeID); err != nil {
		return nil, err
	}
	return do[SessionItem](ctx, s.transport, http.MethodGet, "/sessions/handshake/"+handshakeID, nil, nil, "")
}

// ListSessionsInput filters the session list. Zero values are omitted.
type ListSessionsInput struct {
	Pagination
	Status string
}

// ListSessions returns the current user's sessions, newest first.
//
// Endpoint: GET /v1/sessions
func (s *SessionsService) ListSessions(ctx context.Context, accessToken string, in ListSessionsInput) (*Response[[]SessionItem], error) {
	query := url.Values{}
	if in.Page > 0 {
		query.Set("page", strconv.Itoa(in.Page))
	}
	if in.PageSize > 0 {
		query.Set("page_size", strconv.Itoa(in.PageSize))
	}
	if in.Status != "" {
		query.Set("status", in.Status)
	}
	return do[[]SessionItem](ctx, s.transport, http.MethodGet, "/sessions", query, nil, accessToken)
}

// GetSessionDetails returns the session the supplied access token belongs
// to. The returned item never carries a token.
//
// Endpoint: GET /v1/sessions/details
func (s *SessionsService) GetSessionDetails(ctx context.Context, accessToken string) (*Response[SessionItem], error) {
	return do[SessionItem](ctx, s.transport, http.MethodGet, "/sessions/details", nil, nil, accessToken)
}

// RefreshAccessToken mints a new access token for the current session.
// The session is identified by the ambient session cookie, so the HTTP
// client must carry a cookie jar holding it (see Config.HTTPClient).
//
// Endpoint: POST /v1/sessions/tokens
func (s *SessionsService) RefreshAccessToken(ctx context.Context) (*Response[SessionItem], error) {
	return do[SessionItem](ctx, s.transport, http.MethodPost, "/sessions/tokens", nil, nil, "")
}

// RevokeSession revokes a session. With an empty sessionID the current
// session is revoked, signing the user out everywhere this token works.
//
// Endpoint: POST /v1/sessions/revoke
func (s *SessionsService) RevokeSession(ctx context.Context, accessToken, sessionID string) (*Response[MessageItem], error) {
	var query url.Values
	if sessionID != "" {
		query = url.Values{"session_id": {sessionID}}
	}
	return do[MessageItem](ctx, s.transport, http.MethodPost, "/sessions/revoke", query, nil, accessToken)
}
