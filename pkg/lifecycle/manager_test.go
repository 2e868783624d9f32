package lifecycle

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RefreshStoresCredentials(t *testing.T) {
	tokenExpires := time.Now().Add(15 * time.Minute)
	mgr, creds := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/v1/sessions/tokens" {
			writeEnvelope(w, http.StatusOK, sessionJSON("sess_1", "user_1", "tok_fresh", tokenExpires))
			return
		}
		t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
	}))

	require.NoError(t, mgr.Refresh(context.Background()))

	got := creds.Credentials()
	assert.Equal(t, "sess_1", got.SessionID)
	assert.Equal(t, "user_1", got.UserID)
	assert.Equal(t, "tok_fresh", got.AccessToken)
	assert.Equal(t, StateIdle, mgr.State())
	assert.NoError(t, mgr.Err())
}

func TestManager_RefreshSendsSessionCookie(t *testing.T) {
	tokenExpires := time.Now().Add(15 * time.Minute)

	var gotCookie string
	mgr, creds := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(CookieSessionID); err == nil {
			gotCookie = c.Value
		}
		writeEnvelope(w, http.StatusOK, sessionJSON("sess_1", "user_1", "tok", tokenExpires))
	}))

	creds.ApplySession(sessionItem("sess_1", "user_1", "tok_old", tokenExpires, nil))

	require.NoError(t, mgr.Refresh(context.Background()))
	assert.Equal(t, "sess_1", gotCookie)
}

func TestManager_SignsOutOnThirdConsecutiveFailure(t *testing.T) {
	tokenExpires := time.Now().Add(15 * time.Minute)

	var revoked atomic.Bool
	mgr, creds := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/sessions/tokens":
			writeErrorEnvelope(w, http.StatusUnauthorized, "session_expired", "session expired")
		case "/v1/sessions/revoke":
			revoked.Store(true)
			writeEnvelope(w, http.StatusOK, `{"message": "revoked"}`)
		default:
			t.Fatalf("unexpected request %s", r.URL.Path)
		}
	}))

	creds.ApplySession(sessionItem("sess_1", "user_1", "tok", tokenExpires, nil))

	// Two failures leave the session in place.
	require.Error(t, mgr.Refresh(context.Background()))
	require.Error(t, mgr.Refresh(context.Background()))
	assert.True(t, creds.Credentials().HasSession())
	assert.Equal(t, StateError, mgr.State())
	assert.False(t, revoked.Load())

	// The third consecutive failure abandons the session.
	require.Error(t, mgr.Refresh(context.Background()))
	assert.False(t, creds.Credentials().HasSession())
	assert.Equal(t, StateUnauthorized, mgr.State())
	assert.True(t, revoked.Load())
}

func TestManager_SuccessResetsFailureCount(t *testing.T) {
	tokenExpires := time.Now().Add(15 * time.Minute)

	var fail atomic.Bool
	mgr, creds := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			writeErrorEnvelope(w, http.StatusUnauthorized, "session_expired", "session expired")
			return
		}
		writeEnvelope(w, http.StatusOK, sessionJSON("sess_1", "user_1", "tok", tokenExpires))
	}))

	creds.ApplySession(sessionItem("sess_1", "user_1", "tok", tokenExpires, nil))

	fail.Store(true)
	require.Error(t, mgr.Refresh(context.Background()))
	require.Error(t, mgr.Refresh(context.Background()))

	fail.Store(false)
	require.NoError(t, mgr.Refresh(context.Background()))

	// The counter restarted, so two more failures do not sign out.
	fail.Store(true)
	require.Error(t, mgr.Refresh(context.Background()))
	require.Error(t, mgr.Refresh(context.Background()))
	assert.True(t, creds.Credentials().HasSession())
}

func TestManager_SignOutClearsEvenWhenRevokeFails(t *testing.T) {
	tokenExpires := time.Now().Add(15 * time.Minute)

	var revokeTried atomic.Bool
	mgr, creds := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		revokeTried.Store(true)
		writeErrorEnvelope(w, http.StatusInternalServerError, "internal", "boom")
	}))

	creds.ApplySession(sessionItem("sess_1", "user_1", "tok", tokenExpires, nil))

	// The failed revocation is swallowed; local state clears regardless.
	mgr.SignOut(context.Background())

	assert.True(t, revokeTried.Load())
	assert.False(t, creds.Credentials().HasSession())
	assert.Equal(t, StateUnauthorized, mgr.State())
	assert.NoError(t, mgr.Err())
}

func TestManager_SignOutWithoutTokenSkipsRevoke(t *testing.T) {
	mgr, creds := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected request %s", r.URL.Path)
	}))

	mgr.SignOut(context.Background())
	assert.False(t, creds.Credentials().HasSession())
	assert.Equal(t, StateUnauthorized, mgr.State())
}

func TestManager_RunColdStartRefreshesIncompleteCredentials(t *testing.T) {
	tokenExpires := time.Now().Add(15 * time.Minute)

	var refreshes atomic.Int32
	mgr, creds := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/sessions/tokens" {
			refreshes.Add(1)
			writeEnvelope(w, http.StatusOK, sessionJSON("sess_1", "user_1", "tok_new", tokenExpires))
		}
	}))

	// Session id present but no user id or token, as after a restart.
	item := sessionItem("sess_1", "", "", tokenExpires, nil)
	item.Token = nil
	creds.ApplySession(item)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- mgr.Run(ctx) }()

	require.Eventually(t, func() bool {
		return refreshes.Load() >= 1 && creds.Credentials().Complete()
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestManager_RunTicksRefresh(t *testing.T) {
	tokenExpires := time.Now().Add(15 * time.Minute)

	var refreshes atomic.Int32
	creds := NewCredentialStore(nil)
	client := newTestFrontend(t, creds, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/sessions/tokens" {
			refreshes.Add(1)
			writeEnvelope(w, http.StatusOK, sessionJSON("sess_1", "user_1", "tok", tokenExpires))
		}
	}))

	mgr, err := New(Config{
		Client:          client,
		Credentials:     creds,
		RefreshInterval: 20 * time.Millisecond,
	})
	require.NoError(t, err)

	creds.ApplySession(sessionItem("sess_1", "user_1", "tok", tokenExpires, nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- mgr.Run(ctx) }()

	require.Eventually(t, func() bool {
		return refreshes.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestManager_RunIdlesWithoutSession(t *testing.T) {
	var refreshes atomic.Int32
	creds := NewCredentialStore(nil)
	client := newTestFrontend(t, creds, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refreshes.Add(1)
	}))

	mgr, err := New(Config{
		Client:          client,
		Credentials:     creds,
		RefreshInterval: 10 * time.Millisecond,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	err = mgr.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(0), refreshes.Load())
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{})
	require.ErrorIs(t, err, ErrNoClient)

	client := newTestFrontend(t, nil, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	_, err = New(Config{Client: client})
	require.ErrorIs(t, err, ErrNoCredentials)
}

func TestManager_UserCacheFetchesProfile(t *testing.T) {
	tokenExpires := time.Now().Add(15 * time.Minute)

	var gotAuth string
	mgr, creds := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/me" {
			gotAuth = r.Header.Get("Authorization")
			writeEnvelope(w, http.StatusOK, `{
				"id": "user_1", "external_id": "ext_1", "status": "active",
				"identifiers": [], "updated_at": 1, "created_at": 1
			}`)
		}
	}))

	creds.ApplySession(sessionItem("sess_1", "user_1", "tok_abc", tokenExpires, nil))

	me, err := mgr.User.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "user_1", me.ID)
	assert.Equal(t, "Bearer tok_abc", gotAuth)
}
