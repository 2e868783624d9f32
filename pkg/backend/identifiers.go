package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// IdentifiersService manages the identifiers attached to users.
type IdentifiersService struct {
	transport *transport
}

// ListIdentifiersInput lists the identifiers of one user.
type ListIdentifiersInput struct {
	Pagination
	UserID        string
	EnvironmentID string
}

// ListIdentifiers returns a user's identifiers.
//
// Endpoint: GET /v1/identifiers
func (s *IdentifiersService) ListIdentifiers(ctx context.Context, in ListIdentifiersInput) (*Response[[]Identifier], error) {
	query := url.Values{}
	query.Set("user_id", in.UserID)
	if in.Page > 0 {
		query.Set("page", strconv.Itoa(in.Page))
	}
	if in.PageSize > 0 {
		query.Set("page_size", strconv.Itoa(in.PageSize))
	}
	if in.EnvironmentID != "" {
		query.Set("environment_id", in.EnvironmentID)
	}
	return do[[]Identifier](ctx, s.transport, http.MethodGet, "/identifiers", query, nil)
}

// CreateIdentifierInput attaches a new identifier to an existing user.
type CreateIdentifierInput struct {
	UserID              string               `json:"user_id"`
	Provider            Provider             `json:"provider"`
	Value               string               `json:"value"`
	Password            string               `json:"password,omitempty"`
	IsVerified          bool                 `json:"is_verified,omitempty"`
	ContactInformations []ContactInformation `json:"contact_informations,omitempty"`
}

// CreateIdentifier attaches an identifier to a user.
//
// Endpoint: POST /v1/identifiers
func (s *IdentifiersService) CreateIdentifier(ctx context.Context, in CreateIdentifierInput, environmentID string) (*Response[Identifier], error) {
	return do[Identifier](ctx, s.transport, http.MethodPost, "/identifiers", environmentQuery(environmentID), in)
}

// DeleteIdentifier removes an identifier from its user.
//
// Endpoint: DELETE /v1/identifiers/{identifier_id}
func (s *IdentifiersService) DeleteIdentifier(ctx context.Context, identifierID string, environmentID string) (*Response[MessageItem], error) {
	return do[MessageItem](ctx, s.transport, http.MethodDelete, "/identifiers/"+url.PathEscape(identifierID), environmentQuery(environmentID), nil)
}

// SetIdentifierPasswordInput sets a new password on an identifier.
// ForceSet overwrites an existing password instead of failing.
type SetIdentifierPasswordInput struct {
	NewPassword string `json:"new_password"`
	ForceSet    bool   `json:"force_set,omitempty"`
}

// SetIdentifierPassword sets or replaces the password of an identifier.
//
// Endpoint: POST /v1/identifiers/{identifier_id}/set_password
func (s *IdentifiersService) SetIdentifierPassword(ctx context.Context, identifierID string, in SetIdentifierPasswordInput, environmentID string) (*Response[MessageItem], error) {
	return do[MessageItem](ctx, s.transport, http.MethodPost, "/identifiers/"+url.PathEscape(identifierID)+"/set_password", environmentQuery(environmentID), in)
}
