package frontend

import (
	"context"
	"net/http"
)

// MeService operates on the signed-in user.
type MeService struct {
	transport *transport
}

// Me is the signed-in user's profile.
type Me struct {
	ID          string       `json:"id"`
	ExternalID  string       `json:"external_id"`
	Status      string       `json:"status"`
	Identifiers []Identifier `json:"identifiers"`
	UpdatedAt   int64        `json:"updated_at"`
	CreatedAt   int64        `json:"created_at"`
}

// GetMe returns the profile of the user the access token belongs to.
//
// Endpoint: GET /v1/me
func (s *MeService) GetMe(ctx context.Context, accessToken string) (*Response[Me], error) {
	return do[Me](ctx, s.transport, http.MethodGet, "/me", nil, nil, accessToken)
}

// ResetMyPasswordInput changes the signed-in user's password. Setting
// RevokeOtherSessions revokes every session except the current one.
type ResetMyPasswordInput struct {
	CurrentPassword     string `json:"current_password"`
	NewPassword         string `json:"new_password"`
	RevokeOtherSessions bool   `json:"revoke_other_sessions"`
}

// ResetMyPassword changes the password of a signed-in user who knows
// their current password.
//
// Endpoint: POST /v1/me/reset_password
func (s *MeService) ResetMyPassword(ctx context.Context, accessToken string, in ResetMyPasswordInput) (*Response[MessageItem], error) {
	return do[MessageItem](ctx, s.transport, http.MethodPost, "/me/reset_password", nil, in, accessToken)
}
