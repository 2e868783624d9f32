package frontend

import (
	"context"
	"errors"
	"net/http"
)

// ErrCodeAndPassword is returned by VerifySigninAttempt when both a code
// and a password are supplied. The API accepts exactly one.
var ErrCodeAndPassword = errors.New("frontend: code and password are mutually exclusive")

// SigninService signs existing users in: discover strategies, open an
// attempt, verify it into a session.
type SigninService struct {
	transport *transport
}

// SigninStrategiesInput identifies the user whose strategies to look up.
type SigninStrategiesInput struct {
	Provider Provider `json:"provider"`
	Value    string   `json:"value"`
}

// GetAvailableSigninStrategies fetches the sign-in strategies available to
// one user.
//
// Userbases with a single strategy (e.g. user_password only) can skip this
// and call CreateSigninAttempt directly.
//
// Endpoint: POST /v1/signin/strategies
func (s *SigninService) GetAvailableSigninStrategies(ctx context.Context, in SigninStrategiesInput) (*Response[[]Strategy], error) {
	return do[[]Strategy](ctx, s.transport, http.MethodPost, "/signin/strategies", nil, in, "")
}

// CreateSigninAttemptInput opens a sign-in attempt for a user with a
// chosen authentication strategy.
type CreateSigninAttemptInput struct {
	CaptchaToken           *string  `json:"captcha_token,omitempty"`
	AuthenticationStrategy string   `json:"authentication_strategy"`
	Provider               Provider `json:"provider"`
	Value                  string   `json:"value"`
}

// SigninAttempt is an open sign-in attempt awaiting verification.
type SigninAttempt struct {
	AttemptID              string             `json:"attempt_id"`
	AuthenticationStrategy string             `json:"authentication_strategy"`
	MaskedTarget           *string            `json:"masked_target"`
	ExpiresAt              int64              `json:"expires_at"`
	Components             []AttemptComponent `json:"components"`
}

// CreateSigninAttempt initiates a sign-in attempt. The response describes
// what the user must provide to complete it.
//
// Endpoint: POST /v1/signin/attempts
func (s *SigninService) CreateSigninAttempt(ctx context.Context, in CreateSigninAttemptInput) (*Response[SigninAttempt], error) {
	return do[SigninAttempt](ctx, s.transport, http.MethodPost, "/signin/attempts", nil, in, "")
}

// VerifySigninAttemptInput supplies exactly one of Code or Password.
type VerifySigninAttemptInput struct {
	Code     string `json:"code,omitempty"`
	Password string `json:"password,omitempty"`
}

// VerifySigninAttempt verifies an open attempt and creates a session. The
// returned session carries the freshly minted access token.
//
// Endpoint: POST /v1/signin/attempts/{attempt_id}/verify
func (s *SigninService) VerifySigninAttempt(ctx context.Context, attemptID string, in VerifySigninAttemptInput) (*Response[SessionItem], error) {
	if err := validateAttemptID(attemptID); err != nil {
		return nil, err
	}
	if in.Code != "" && in.Password != "" {
		return nil, ErrCodeAndPassword
	}
	return do[SessionItem](ctx, s.transport, http.MethodPost, "/signin/attempts/"+attemptID+"/verify", nil, in, "")
}
