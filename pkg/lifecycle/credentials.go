package lifecycle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cakeauth/cakeauth-go/pkg/frontend"
	"github.com/cakeauth/cakeauth-go/pkg/storage"
)

// Cookie names shared with the hosted auth pages. A session's access
// token lives under a per-session name so concurrent sessions in
// different tabs cannot clobber each other.
const (
	CookieSessionID = "__session"
	CookieUserID    = "__uid"

	accessTokenPrefix = "__client."
)

// Sessions without a server-provided expiry fall back to a week.
const fallbackSessionTTL = 7 * 24 * time.Hour

// credentialsKey names the serialized cookie set in a backing Store.
const credentialsKey = "cakeauth.credentials"

// AccessTokenCookie returns the cookie name holding the access token of
// one session.
func AccessTokenCookie(sessionID string) string {
	return accessTokenPrefix + sessionID
}

// Credentials is a snapshot of the stored session identity. Fields are
// empty when absent or expired.
type Credentials struct {
	SessionID   string
	UserID      string
	AccessToken string
}

// HasSession reports whether a session id is present.
func (c Credentials) HasSession() bool { return c.SessionID != "" }

// Complete reports whether every credential needed to act as the user is
// present.
func (c Credentials) Complete() bool {
	return c.SessionID != "" && c.UserID != "" && c.AccessToken != ""
}

type cookieRecord struct {
	value     string
	domain    string
	expiresAt time.Time // zero means session cookie, never expires here
}

func (r cookieRecord) expired(now time.Time) bool {
	return !r.expiresAt.IsZero() && !now.Before(r.expiresAt)
}

// CredentialStore holds session credentials as named cookies. It
// implements http.CookieJar so it can be plugged into an http.Client,
// giving requests the ambient session cookie a browser would carry.
//
// The zero value is not usable; call NewCredentialStore.
type CredentialStore struct {
	mu      sync.Mutex
	cookies map[string]cookieRecord
	store   storage.Store

	now func() time.Time
}

// NewCredentialStore returns a credential store. When store is non-nil
// every cookie change is written through to it and the cookie set is
// rehydrated from it on construction, so a session survives process
// restarts and can be shared between instances pointed at the same
// backend. A nil store keeps credentials in process memory only.
func NewCredentialStore(store storage.Store) *CredentialStore {
	s := &CredentialStore{
		cookies: make(map[string]cookieRecord),
		store:   store,
		now:     time.Now,
	}
	s.rehydrate()
	return s
}

type persistedCookie struct {
	Value     string `json:"value"`
	Domain    string `json:"domain,omitempty"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}

func (s *CredentialStore) rehydrate() {
	if s.store == nil {
		return
	}

	raw, ok, err := s.store.Get(context.Background(), credentialsKey)
	if err != nil || !ok {
		return
	}

	var records map[string]persistedCookie
	if err := json.Unmarshal(raw, &records); err != nil {
		return
	}

	now := s.now()
	for name, pc := range records {
		rec := cookieRecord{value: pc.Value, domain: pc.Domain}
		if pc.ExpiresAt != 0 {
			rec.expiresAt = time.UnixMilli(pc.ExpiresAt)
		}
		if rec.expired(now) {
			continue
		}
		// Live local cookies win over the persisted copy.
		if cur, ok := s.cookies[name]; ok && !cur.expired(now) {
			continue
		}
		s.cookies[name] = rec
	}
}

// persist writes the cookie set through to the backing store. Best
// effort; the in-memory view stays authoritative when the store is
// unavailable. Callers hold mu.
func (s *CredentialStore) persist() {
	if s.store == nil {
		return
	}

	records := make(map[string]persistedCookie, len(s.cookies))
	for name, rec := range s.cookies {
		pc := persistedCookie{Value: rec.value, Domain: rec.domain}
		if !rec.expiresAt.IsZero() {
			pc.ExpiresAt = rec.expiresAt.UnixMilli()
		}
		records[name] = pc
	}

	raw, err := json.Marshal(records)
	if err != nil {
		return
	}
	_ = s.store.Set(context.Background(), credentialsKey, raw, time.Time{})
}

// ApplySession stores the credentials of a session returned by a sign-in,
// sign-up, handshake exchange, or token refresh. The session id and user
// id expire with the session, falling back to a week when the server gave
// no expiry; the access token expires with the token itself.
func (s *CredentialStore) ApplySession(session *frontend.SessionItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	sessionExpires := now.Add(fallbackSessionTTL)
	if session.ExpiresAt != nil {
		sessionExpires = time.UnixMilli(*session.ExpiresAt)
	}

	var domain string
	if session.Token != nil {
		domain = session.Token.Domain
	}

	s.cookies[CookieSessionID] = cookieRecord{
		value:     session.ID,
		domain:    domain,
		expiresAt: sessionExpires,
	}
	s.cookies[CookieUserID] = cookieRecord{
		value:     session.User.ID,
		domain:    domain,
		expiresAt: sessionExpires,
	}
	if session.Token != nil {
		s.cookies[session.Token.Name] = cookieRecord{
			value:     session.Token.Value,
			domain:    session.Token.Domain,
			expiresAt: time.UnixMilli(session.Token.ExpiresAt),
		}
	}

	s.persist()
}

// Credentials returns the currently stored identity. Expired cookies read
// as absent. Incomplete credentials trigger a re-read of the backing
// store, picking up a refresh performed by another instance.
func (s *CredentialStore) Credentials() Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds := s.read()
	if !creds.Complete() && s.store != nil {
		s.rehydrate()
		creds = s.read()
	}
	return creds
}

func (s *CredentialStore) read() Credentials {
	now := s.now()

	creds := Credentials{
		SessionID: s.get(CookieSessionID, now),
		UserID:    s.get(CookieUserID, now),
	}
	if creds.SessionID != "" {
		creds.AccessToken = s.get(AccessTokenCookie(creds.SessionID), now)
	}
	return creds
}

// Clear removes every stored credential, including access tokens left
// over from previous sessions and the persisted copy.
func (s *CredentialStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cookies = make(map[string]cookieRecord)
	if s.store != nil {
		_ = s.store.Delete(context.Background(), credentialsKey)
	}
}

func (s *CredentialStore) get(name string, now time.Time) string {
	rec, ok := s.cookies[name]
	if !ok || rec.expired(now) {
		delete(s.cookies, name)
		return ""
	}
	return rec.value
}

// SetCookies implements http.CookieJar, capturing cookies set by the API.
func (s *CredentialStore) SetCookies(u *url.URL, cookies []*http.Cookie) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range cookies {
		if c.MaxAge < 0 {
			delete(s.cookies, c.Name)
			continue
		}
		rec := cookieRecord{value: c.Value, domain: c.Domain, expiresAt: c.Expires}
		if c.MaxAge > 0 {
			rec.expiresAt = s.now().Add(time.Duration(c.MaxAge) * time.Second)
		}
		s.cookies[c.Name] = rec
	}

	s.persist()
}

// Cookies implements http.CookieJar. Every live cookie whose domain
// matches the request host is attached; cookies without a domain are sent
// everywhere, which mirrors how the store is used with a single API host.
func (s *CredentialStore) Cookies(u *url.URL) []*http.Cookie {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	host := u.Hostname()

	var out []*http.Cookie
	for name, rec := range s.cookies {
		if rec.expired(now) {
			delete(s.cookies, name)
			continue
		}
		if rec.domain != "" && !domainMatches(host, rec.domain) {
			continue
		}
		out = append(out, &http.Cookie{Name: name, Value: rec.value})
	}
	return out
}

func domainMatches(host, domain string) bool {
	domain = strings.TrimPrefix(domain, ".")
	return host == domain || strings.HasSuffix(host, "."+domain)
}
