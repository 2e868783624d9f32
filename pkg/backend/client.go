package backend

import (
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

const (
	defaultURL  = "https://api.cakeauth.com"
	apiBasePath = "/v1"
)

var (
	// ErrMissingPrivateKey is returned by New when no private key is supplied.
	ErrMissingPrivateKey = errors.New("backend: missing CakeAuth private key")

	// ErrPublicKey is returned by New when a public key (`pub_...`) is
	// supplied. The Backend API requires a private key (`sec_...`).
	ErrPublicKey = errors.New("backend: public key (`pub_...`) supplied; use a private key (`sec_...`) for the backend APIs")

	// ErrInvalidURL is returned when the URL override does not parse.
	ErrInvalidURL = errors.New("backend: invalid API URL")
)

// Config configures a Client.
type Config struct {
	// PrivateKey is the environment's private key (`sec_test_...` or
	// `sec_live_...`). Required.
	PrivateKey string

	// URL overrides the API host. Defaults to https://api.cakeauth.com.
	URL string

	// Timeout applies per request. Defaults to 10 seconds.
	Timeout time.Duration

	// HTTPClient overrides the underlying client.
	HTTPClient *http.Client

	// Limiter optionally caps outbound request rate.
	Limiter *rate.Limiter

	// Logger receives transport-level debug logs. Silent when nil.
	Logger *slog.Logger
}

// Client is the CakeAuth Backend API client.
type Client struct {
	Users       *UsersService
	Sessions    *SessionsService
	Identifiers *IdentifiersService

	transport *transport
}

// New validates cfg and returns a ready Client.
func New(cfg Config) (*Client, error) {
	if cfg.PrivateKey == "" {
		return nil, ErrMissingPrivateKey
	}
	if strings.HasPrefix(cfg.PrivateKey, "pub_") {
		return nil, ErrPublicKey
	}

	baseURL := cfg.URL
	if baseURL == "" {
		baseURL = defaultURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" {
		return nil, ErrInvalidURL
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
		userAgent:  "cakeauth-go/backend@" + Version,
		authHeader: "Bearer " + cfg.PrivateKey,
	}

	c := &Client{transport: t}
	c.Users = &UsersService{transport: t}
	c.Sessions = &SessionsService{transport: t}
	c.Identifiers = &IdentifiersService{transport: t}
	return c, nil
}
