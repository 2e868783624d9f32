package frontend

import (
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/cakeauth/cakeauth-go/pkg/slogx"
)

// Version is reported in the User-Agent header of every request.
const Version = "0.4.0"

const apiBasePath = "/v1"

var (
	// ErrMissingPublicKey is returned by New when no public key is supplied.
	ErrMissingPublicKey = errors.New("frontend: missing CakeAuth public key")

	// ErrPrivateKey is returned by New when a private key (`sec_...`) is
	// supplied. Private keys must never reach browser-side surfaces; use a
	// public key (`pub_...`) instead.
	ErrPrivateKey = errors.New("frontend: private key (`sec_...`) supplied; use a public key (`pub_...`) for the frontend APIs")

	// ErrInvalidPublicKey is returned when the API host cannot be derived
	// from the public key and no URL override is given.
	ErrInvalidPublicKey = errors.New("frontend: public key is invalid")
)

// Config configures a Client.
type Config struct {
	// PublicKey is the environment's public key (`pub_test_...` or
	// `pub_live_...`). Required.
	PublicKey string

	// URL overrides the API host. When empty the host is decoded from the
	// public key itself.
	URL string

	// Timeout applies per request. Defaults to 10 seconds.
	Timeout time.Duration

	// HTTPClient overrides the underlying client. Set a cookie Jar here to
	// get browser-like ambient session cookies (the lifecycle package does
	// exactly that).
	HTTPClient *http.Client

	// Limiter optionally caps outbound request rate. Requests wait for a
	// token before being sent.
	Limiter *rate.Limiter

	// Logger receives transport-level debug logs. Silent when nil.
	Logger *slog.Logger
}

// Client is the CakeAuth Frontend API client. Operations are grouped the
// way the API is: client.Signin, client.Sessions, and so on.
type Client struct {
	Signin        *SigninService
	Signup        *SignupService
	ResetPassword *ResetPasswordService
	Sessions      *SessionsService
	Me            *MeService
	Settings      *SettingsService

	transport *transport
}

// New validates cfg and returns a ready Client.
func New(cfg Config) (*Client, error) {
	if cfg.PublicKey == "" {
		return nil, ErrMissingPublicKey
	}
	if strings.HasPrefix(cfg.PublicKey, "sec_") {
		return nil, ErrPrivateKey
	}

	baseURL := cfg.URL
	if baseURL == "" {
		derived, err := baseURLFromPublicKey(cfg.PublicKey)
		if err != nil {
			return nil, err
		}
		baseURL = derived
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" {
		return nil, ErrInvalidPublicKey
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slogx.Nop()
	}

	t := &transport{
		baseURL:    strings.TrimSuffix(parsed.Scheme+"://"+parsed.Host, "/") + apiBasePath,
		httpClient: httpClient,
		timeout:    timeout,
		limiter:    cfg.Limiter,
		logger:     logger,
		userAgent:  "cakeauth-go/frontend@" + Version,
		headers: map[string]string{
			"x-cakeauth-public-key": cfg.PublicKey,
		},
	}

	c := &Client{transport: t}
	c.Signin = &SigninService{transport: t}
	c.Signup = &SignupService{transport: t}
	c.ResetPassword = &ResetPasswordService{transport: t}
	c.Sessions = &SessionsService{transport: t}
	c.Me = &MeService{transport: t}
	c.Settings = &SettingsService{transport: t}
	return c, nil
}

// baseURLFromPublicKey decodes the API host embedded in a public key: the
// part after the `pub_test_` / `pub_live_` prefix is the base64-encoded
// host of the environment.
func baseURLFromPublicKey(publicKey string) (string, error) {
	trimmed := strings.TrimPrefix(publicKey, "pub_test_")
	trimmed = strings.TrimPrefix(trimmed, "pub_live_")

	host, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil || len(host) == 0 {
		return "", ErrInvalidPublicKey
	}

	return "https://" + string(host), nil
}
