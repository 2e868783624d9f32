package frontend

import (
	"context"
	"net/http"
)

// SignupService registers new users.
type SignupService struct {
	transport *transport
}

// NewContactInformation attaches a contact channel to a signup.
type NewContactInformation struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// CreateSignupAttemptInput registers a new user. VerificationStrategy
// decides how the user proves ownership of the identifier.
type CreateSignupAttemptInput struct {
	CaptchaToken         *string                 `json:"captcha_token,omitempty"`
	VerificationStrategy string                  `json:"verification_strategy"`
	Provider             Provider                `json:"provider"`
	Value                string                  `json:"value"`
	ExternalID           string                  `json:"external_id,omitempty"`
	Password             string                  `json:"password,omitempty"`
	ContactInformations  []NewContactInformation `json:"contact_informations,omitempty"`
}

// SignupAttempt is an open signup attempt awaiting verification.
type SignupAttempt struct {
	AttemptID            string             `json:"attempt_id"`
	VerificationStrategy string             `json:"verification_strategy"`
	MaskedTarget         *string            `json:"masked_target"`
	ExpiresAt            int64              `json:"expires_at"`
	Components           []AttemptComponent `json:"components"`
}

// SignupResult is either a pending attempt or, when the tenant skips
// verification, a created user with an active session.
type SignupResult struct {
	IsUserCreated bool           `json:"is_user_created"`
	Attempt       *SignupAttempt `json:"attempt,omitempty"`
	Session       *SessionItem   `json:"session,omitempty"`
}

// CreateSignupAttempt begins a signup. When IsUserCreated is true on the
// result the user was created immediately and Session is populated;
// otherwise Attempt must be verified first.
//
// Endpoint: POST /v1/signup/attempts
func (s *SignupService) CreateSignupAttempt(ctx context.Context, in CreateSignupAttemptInput) (*Response[SignupResult], error) {
	return do[SignupResult](ctx, s.transport, http.MethodPost, "/signup/attempts", nil, in, "")
}

// VerifySignupAttemptInput carries the code delivered to the user.
type VerifySignupAttemptInput struct {
	Code string `json:"code"`
}

// VerifySignupAttempt completes a signup, creating the user and a session
// with a fresh access token.
//
// Endpoint: POST /v1/signup/attempts/{attempt_id}/verify
func (s *SignupService) VerifySignupAttempt(ctx context.Context, attemptID string, in VerifySignupAttemptInput) (*Response[SessionItem], error) {
	if err := validateAttemptID(attemptID); err != nil {
		return nil, err
	}
	return do[SessionItem](ctx, s.transport, http.MethodPost, "/signup/attempts/"+attemptID+"/verify", nil, in, "")
}
