package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// SessionsService manages sessions across the whole userbase.
type SessionsService struct {
	transport *transport
}

// ListSessionsInput filters the session list. Zero values are omitted.
type ListSessionsInput struct {
	Pagination
	EnvironmentID string
	UserID        string
}

// ListSessions returns sessions across the userbase, newest first.
//
// Endpoint: GET /v1/sessions
func (s *SessionsService) ListSessions(ctx context.Context, in ListSessionsInput) (*Response[[]Session], error) {
	query := url.Values{}
	if in.Page > 0 {
		query.Set("page", strconv.Itoa(in.Page))
	}
	if in.PageSize > 0 {
		query.Set("page_size", strconv.Itoa(in.PageSize))
	}
	if in.EnvironmentID != "" {
		query.Set("environment_id", in.EnvironmentID)
	}
	if in.UserID != "" {
		query.Set("user_id", in.UserID)
	}
	return do[[]Session](ctx, s.transport, http.MethodGet, "/sessions", query, nil)
}

// TokenMetadata is recorded on tokens minted by CreateSession.
type TokenMetadata struct {
	Origin string `json:"origin"`
}

// CreateSessionInput creates a session for a user, identified by either
// UserID or IdentifierID. With IssueTokens set the response carries an
// access token and a refresh token.
type CreateSessionInput struct {
	UserID        string        `json:"user_id,omitempty"`
	IdentifierID  string        `json:"identifier_id,omitempty"`
	IssueTokens   bool          `json:"issue_tokens"`
	TokenMetadata TokenMetadata `json:"token_metadata"`
}

// CreateSession mints a session server-side, bypassing the sign-in flow.
// Useful for impersonation and for custom authentication schemes.
//
// Endpoint: POST /v1/sessions
func (s *SessionsService) CreateSession(ctx context.Context, in CreateSessionInput, environmentID string) (*Response[Session], error) {
	return do[Session](ctx, s.transport, http.MethodPost, "/sessions", environmentQuery(environmentID), in)
}

// RevokeSession revokes a session, invalidating its tokens.
//
// Endpoint: POST /v1/sessions/{session_id}/revoke
func (s *SessionsService) RevokeSession(ctx context.Context, sessionID string, environmentID string) (*Response[Session], error) {
	return do[Session](ctx, s.transport, http.MethodPost, "/sessions/"+url.PathEscape(sessionID)+"/revoke", environmentQuery(environmentID), nil)
}

// RefreshSessionToken mints a new access token for a session.
//
// Endpoint: POST /v1/sessions/{session_id}/tokens
func (s *SessionsService) RefreshSessionToken(ctx context.Context, sessionID string, environmentID string) (*Response[Session], error) {
	return do[Session](ctx, s.transport, http.MethodPost, "/sessions/"+url.PathEscape(sessionID)+"/tokens", environmentQuery(environmentID), nil)
}
