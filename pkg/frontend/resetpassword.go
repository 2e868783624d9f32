package frontend

import (
	"context"
	"net/http"
)

// ResetPasswordService handles forgotten-password recovery for users who
// are signed out. Signed-in users change their password via MeService.
type ResetPasswordService struct {
	transport *transport
}

// CreateResetPasswordAttemptInput identifies the user and the page that
// hosts the reset form. The API emails or texts a link to TargetURL with
// the attempt id and an ephemeral token appended.
type CreateResetPasswordAttemptInput struct {
	Provider     Provider `json:"provider"`
	Value        string   `json:"value"`
	TargetURL    string   `json:"target_url"`
	CaptchaToken string   `json:"captcha_token,omitempty"`
}

// ResetPasswordAttempt is an open reset attempt. Medium says how the
// reset link was delivered.
type ResetPasswordAttempt struct {
	AttemptID    string   `json:"attempt_id"`
	Provider     Provider `json:"provider"`
	ExpiresAt    int64    `json:"expires_at"`
	MaskedTarget *string  `json:"masked_target"`
	Medium       string   `json:"medium"`
}

// CreateResetPasswordAttempt starts a password reset for a user.
//
// Endpoint: POST /v1/reset_password/attempts
func (s *ResetPasswordService) CreateResetPasswordAttempt(ctx context.Context, in CreateResetPasswordAttemptInput) (*Response[ResetPasswordAttempt], error) {
	return do[ResetPasswordAttempt](ctx, s.transport, http.MethodPost, "/reset_password/attempts", nil, in, "")
}

// VerifyResetPasswordAttemptInput carries the token from the reset link
// and the password to set.
type VerifyResetPasswordAttemptInput struct {
	NewPassword string `json:"new_password"`
	Token       string `json:"token"`
}

// VerifyResetPasswordAttempt completes a password reset. The token is the
// 36-character value delivered in the reset link.
//
// Endpoint: POST /v1/reset_password/attempts/{attempt_id}/verify
func (s *ResetPasswordService) VerifyResetPasswordAttempt(ctx context.Context, attemptID string, in VerifyResetPasswordAttemptInput) (*Response[MessageItem], error) {
	if err := validateAttemptID(attemptID); err != nil {
		return nil, err
	}
	return do[MessageItem](ctx, s.transport, http.MethodPost, "/reset_password/attempts/"+attemptID+"/verify", nil, in, "")
}
