package frontend

import (
	"context"
	"net/http"
)

// SettingsService exposes the environment's public configuration, the
// data a sign-in or sign-up page needs to render itself.
type SettingsService struct {
	transport *transport
}

// Duration is a configured time span, e.g. {7, "days"}.
type Duration struct {
	Value int64  `json:"value"`
	Unit  string `json:"unit"`
}

// CaptchaSettings is the bot-protection widget configuration.
type CaptchaSettings struct {
	SiteKey string `json:"site_key"`
	Type    string `json:"type"`
}

// EnvironmentConfiguration is the tenant's environment-level policy.
type EnvironmentConfiguration struct {
	SupportLink            string           `json:"support_link"`
	AllowSignup            bool             `json:"allow_signup"`
	SessionLifetime        Duration         `json:"session_lifetime"`
	InactivityTimeout      *Duration        `json:"inactivity_timeout"`
	AttemptLimit           *int             `json:"attempt_limit"`
	Lockout                *Duration        `json:"lockout"`
	Captcha                *CaptchaSettings `json:"captcha"`
	DisableEmailSubAddress bool             `json:"disable_email_sub_address"`
	EmailDenyList          []string         `json:"email_deny_list"`
	EmailAllowList         []string         `json:"email_allow_list"`
	PhoneDenyList          []string         `json:"phone_deny_list"`
	PhoneAllowList         []string         `json:"phone_allow_list"`
}

// Environment identifies the environment a public key belongs to.
type Environment struct {
	ID            string                    `json:"id"`
	Host          string                    `json:"host"`
	Name          string                    `json:"name"`
	IsProduction  bool                      `json:"is_production"`
	Configuration *EnvironmentConfiguration `json:"configuration"`
}

// Project identifies the project an environment belongs to.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AuthorizedDomain is a domain allowed to embed the auth pages.
type AuthorizedDomain struct {
	ID        string `json:"id"`
	Domain    string `json:"domain"`
	CreatedAt int64  `json:"created_at"`
}

// SignupForm describes one way users can sign up, with the verification
// strategies and UI components it requires.
type SignupForm struct {
	Provider               string             `json:"provider"`
	Group                  string             `json:"group"`
	VerificationStrategies []Strategy         `json:"verification_strategies"`
	Components             []AttemptComponent `json:"components"`
}

// SigninForm describes one way users can sign in.
type SigninForm struct {
	Provider   string             `json:"provider"`
	Group      string             `json:"group"`
	Components []AttemptComponent `json:"components"`
}

// Settings is the public configuration of an environment.
type Settings struct {
	Project     Project            `json:"project"`
	Environment Environment        `json:"environment"`
	Domains     []AuthorizedDomain `json:"domains"`
	SignupForms []SignupForm       `json:"signup_forms"`
	SigninForms []SigninForm       `json:"signin_forms"`
}

// GetSettings fetches the environment's public configuration.
//
// Endpoint: GET /v1/settings
func (s *SettingsService) GetSettings(ctx context.Context) (*Response[Settings], error) {
	return do[Settings](ctx, s.transport, http.MethodGet, "/settings", nil, nil, "")
}
