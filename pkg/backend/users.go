package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// UsersService manages the tenant's userbase.
type UsersService struct {
	transport *transport
}

// ListUsersInput filters the user list. Zero values are omitted.
type ListUsersInput struct {
	Pagination
	EnvironmentID string
	Search        string
	Status        string
}

// ListUsers returns the tenant's users, newest first.
//
// Endpoint: GET /v1/users
func (s *UsersService) ListUsers(ctx context.Context, in ListUsersInput) (*Response[[]User], error) {
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
	if in.Search != "" {
		query.Set("search", in.Search)
	}
	if in.Status != "" {
		query.Set("status", in.Status)
	}
	return do[[]User](ctx, s.transport, http.MethodGet, "/users", query, nil)
}

// GetUser returns one user by id.
//
// Endpoint: GET /v1/users/{user_id}
func (s *UsersService) GetUser(ctx context.Context, userID string, environmentID string) (*Response[User], error) {
	return do[User](ctx, s.transport, http.MethodGet, "/users/"+url.PathEscape(userID), environmentQuery(environmentID), nil)
}

// NewIdentifier attaches an identifier to a user being created.
type NewIdentifier struct {
	Provider            Provider             `json:"provider"`
	Value               string               `json:"value"`
	Password            string               `json:"password,omitempty"`
	IsVerified          bool                 `json:"is_verified,omitempty"`
	ContactInformations []ContactInformation `json:"contact_informations,omitempty"`
}

// CreateUserInput creates a user without the signup flow, e.g. when
// migrating an existing userbase.
type CreateUserInput struct {
	ExternalID  string          `json:"external_id"`
	Identifiers []NewIdentifier `json:"identifiers"`
}

// CreateUser creates a user directly.
//
// Endpoint: POST /v1/users
func (s *UsersService) CreateUser(ctx context.Context, in CreateUserInput, environmentID string) (*Response[User], error) {
	return do[User](ctx, s.transport, http.MethodPost, "/users", environmentQuery(environmentID), in)
}

// BanUser bans a user. Banned users cannot sign in and their active
// sessions stop refreshing.
//
// Endpoint: POST /v1/users/{user_id}/ban
func (s *UsersService) BanUser(ctx context.Context, userID string, environmentID string) (*Response[User], error) {
	return do[User](ctx, s.transport, http.MethodPost, "/users/"+url.PathEscape(userID)+"/ban", environmentQuery(environmentID), nil)
}

// UnbanUser lifts a ban.
//
// Endpoint: POST /v1/users/{user_id}/unban
func (s *UsersService) UnbanUser(ctx context.Context, userID string, environmentID string) (*Response[User], error) {
	return do[User](ctx, s.transport, http.MethodPost, "/users/"+url.PathEscape(userID)+"/unban", environmentQuery(environmentID), nil)
}

// DeleteUser permanently deletes a user and everything attached to them.
//
// Endpoint: DELETE /v1/users/{user_id}
func (s *UsersService) DeleteUser(ctx context.Context, userID string, environmentID string) (*Response[MessageItem], error) {
	return do[MessageItem](ctx, s.transport, http.MethodDelete, "/users/"+url.PathEscape(userID), environmentQuery(environmentID), nil)
}

func environmentQuery(environmentID string) url.Values {
	if environmentID == "" {
		return nil
	}
	return url.Values{"environment_id": {environmentID}}
}
