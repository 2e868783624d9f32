package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cakeauth/cakeauth-go/pkg/frontend"
	"github.com/cakeauth/cakeauth-go/pkg/slogx"
	"github.com/cakeauth/cakeauth-go/pkg/storage"
)

const (
	// RefreshInterval is how often the access token is refreshed while a
	// session exists. Kept under the cache TTL so a fresh token is always
	// in place before cached reads expire.
	RefreshInterval = 45 * time.Second

	// MaxFailedAttempts is how many consecutive refresh failures are
	// tolerated before the session is abandoned and the user signed out.
	MaxFailedAttempts = 3
)

var (
	// ErrNoClient is returned by New when Config.Client is nil.
	ErrNoClient = errors.New("lifecycle: frontend client is required")

	// ErrNoCredentials is returned by New when Config.Credentials is nil.
	ErrNoCredentials = errors.New("lifecycle: credential store is required")
)

// Config configures a Manager.
type Config struct {
	// Client is the Frontend API client. Required. Its HTTP client should
	// carry Credentials as its cookie jar so token refresh requests are
	// accompanied by the ambient session cookie.
	Client *frontend.Client

	// Credentials holds the session cookies. Required.
	Credentials *CredentialStore

	// Store optionally persists cache snapshots across restarts.
	Store storage.Store

	// Logger receives refresh and sign-out logs. Silent when nil.
	Logger *slog.Logger

	// RefreshInterval overrides RefreshInterval when positive.
	RefreshInterval time.Duration

	// MaxFailedAttempts overrides MaxFailedAttempts when positive.
	MaxFailedAttempts int
}

// Manager keeps a session alive: it refreshes the access token on a
// fixed interval, abandons the session after repeated failures, and
// exposes cached reads of the user profile and environment settings.
type Manager struct {
	client *frontend.Client
	creds  *CredentialStore
	logger *slog.Logger

	refreshInterval time.Duration
	maxFailed       int

	// User caches the signed-in user's profile, Settings the
	// environment's public configuration. Both expire after CacheTTL.
	User     *Cache[frontend.Me]
	Settings *Cache[frontend.Settings]

	mu         sync.Mutex
	state      State
	lastErr    error
	failed     int
	refreshing bool
}

// New validates cfg and returns a Manager. The caller decides when the
// refresh loop runs by calling Run.
func New(cfg Config) (*Manager, error) {
	if cfg.Client == nil {
		return nil, ErrNoClient
	}
	if cfg.Credentials == nil {
		return nil, ErrNoCredentials
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slogx.Nop()
	}

	m := &Manager{
		client:          cfg.Client,
		creds:           cfg.Credentials,
		logger:          logger,
		refreshInterval: cfg.RefreshInterval,
		maxFailed:       cfg.MaxFailedAttempts,
		state:           StateIdle,
	}
	if m.refreshInterval <= 0 {
		m.refreshInterval = RefreshInterval
	}
	if m.maxFailed <= 0 {
		m.maxFailed = MaxFailedAttempts
	}

	m.User = NewCache(CacheConfig{
		Key:    "cakeauth.user",
		Store:  cfg.Store,
		Logger: logger,
	}, func(ctx context.Context) (frontend.Me, error) {
		creds := m.creds.Credentials()
		resp, err := m.client.Me.GetMe(ctx, creds.AccessToken)
		if err != nil {
			return frontend.Me{}, err
		}
		return resp.Data, nil
	})

	m.Settings = NewCache(CacheConfig{
		Key:    "cakeauth.settings",
		Store:  cfg.Store,
		Logger: logger,
	}, func(ctx context.Context) (frontend.Settings, error) {
		resp, err := m.client.Settings.GetSettings(ctx)
		if err != nil {
			return frontend.Settings{}, err
		}
		return resp.Data, nil
	})

	return m, nil
}

// Refresh mints a new access token for the current session and stores the
// refreshed credentials. A refresh already in flight makes Refresh a
// no-op. After MaxFailedAttempts consecutive failures the session is
// abandoned via SignOut.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	if m.refreshing {
		m.mu.Unlock()
		return nil
	}
	m.refreshing = true
	m.state = StateLoading
	m.lastErr = nil
	m.mu.Unlock()

	resp, err := m.client.Sessions.RefreshAccessToken(ctx)

	m.mu.Lock()
	m.refreshing = false

	if err == nil {
		m.creds.ApplySession(&resp.Data)
		m.state = StateIdle
		m.failed = 0
		m.mu.Unlock()
		return nil
	}

	m.state = StateError
	m.lastErr = err
	m.failed++
	abandon := m.failed >= m.maxFailed
	failed := m.failed
	m.mu.Unlock()

	m.logger.Warn("token refresh failed", "consecutive_failures", failed, "error", err)

	if abandon {
		m.SignOut(ctx)
	}
	return err
}

// SignOut revokes the current session best-effort and clears all local
// state. Credentials and caches are cleared even when revocation fails;
// a failed revocation is logged, never surfaced to the caller.
func (m *Manager) SignOut(ctx context.Context) {
	creds := m.creds.Credentials()

	if creds.AccessToken != "" {
		if _, err := m.client.Sessions.RevokeSession(ctx, creds.AccessToken, ""); err != nil {
			m.logger.Warn("session revocation failed", "error", err)
		}
	}

	m.creds.Clear()
	if err := m.User.Clear(ctx); err != nil {
		m.logger.Warn("failed to clear user cache", "error", err)
	}
	if err := m.Settings.Clear(ctx); err != nil {
		m.logger.Warn("failed to clear settings cache", "error", err)
	}

	m.mu.Lock()
	m.state = StateUnauthorized
	m.failed = 0
	m.lastErr = nil
	m.mu.Unlock()
}

// Run drives the refresh loop until ctx is cancelled. On entry it
// performs a cold-start refresh when a session id exists but the rest of
// the credentials are missing, then refreshes every RefreshInterval as
// long as a session id is present.
func (m *Manager) Run(ctx context.Context) error {
	if creds := m.creds.Credentials(); creds.HasSession() && !creds.Complete() {
		if err := m.Refresh(ctx); err != nil {
			m.logger.Debug("cold-start refresh failed", "error", err)
		}
	}

	ticker := time.NewTicker(m.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			// The tick may race teardown.
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !m.creds.Credentials().HasSession() {
				continue
			}
			if m.State() == StateLoading {
				continue
			}
			if err := m.Refresh(ctx); err != nil {
				m.logger.Debug("scheduled refresh failed", "error", err)
			}
		}
	}
}

// State reports the manager's own condition.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.refreshing {
		return StateLoading
	}
	return m.state
}

// CombinedState folds the manager and both caches into one state.
func (m *Manager) CombinedState() State {
	return CombineStates(m.State(), m.User.State(), m.Settings.State())
}

// Err returns the error of the last failed operation, nil after success.
func (m *Manager) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}
