package frontend

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifySigninAttempt_RejectsBadAttemptID(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request should not be sent")
	}))

	_, err := c.Signin.VerifySigninAttempt(context.Background(), "not-a-uuid", VerifySigninAttemptInput{Code: "123456"})
	require.ErrorIs(t, err, ErrInvalidAttemptID)
}

func TestVerifySigninAttempt_RejectsCodeAndPassword(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request should not be sent")
	}))

	_, err := c.Signin.VerifySigninAttempt(context.Background(), uuid.NewString(), VerifySigninAttemptInput{
		Code:     "123456",
		Password: "hunter2",
	})
	require.ErrorIs(t, err, ErrCodeAndPassword)
}

func TestExchangeHandshake_RejectsBadHandshakeID(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request should not be sent")
	}))

	_, err := c.Sessions.ExchangeHandshake(context.Background(), "nope")
	require.ErrorIs(t, err, ErrInvalidHandshakeID)
}

func TestExchangeHandshake_HitsHandshakePath(t *testing.T) {
	id := uuid.NewString()

	var gotPath string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		writeEnvelope(w, http.StatusOK, `{
			"id": "sess_1",
			"user": {"id": "user_1", "external_id": "ext_1"},
			"status": "active",
			"metadata": null,
			"identifiers": [],
			"token": {"name": "__client.sess_1", "value": "jwt", "expires_at": 1700000900, "domain": "example.com"},
			"expires_at": null,
			"revoked_at": null,
			"updated_at": 1700000000,
			"created_at": 1700000000
		}`)
	}))

	resp, err := c.Sessions.ExchangeHandshake(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, "/v1/sessions/handshake/"+id, gotPath)
	require.NotNil(t, resp.Data.Token)
	assert.Equal(t, "jwt", resp.Data.Token.Value)
}

func TestListSessions_EncodesQuery(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeEnvelope(w, http.StatusOK, `[]`)
	}))

	_, err := c.Sessions.ListSessions(context.Background(), "tok", ListSessionsInput{
		Pagination: Pagination{Page: 2, PageSize: 25},
		Status:     "active",
	})
	require.NoError(t, err)

	assert.Equal(t, "page=2&page_size=25&status=active", gotQuery)
}

func TestRevokeSession_OmitsEmptySessionID(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeEnvelope(w, http.StatusOK, `{"message": "revoked"}`)
	}))

	_, err := c.Sessions.RevokeSession(context.Background(), "tok", "")
	require.NoError(t, err)
	assert.Empty(t, gotQuery)

	_, err = c.Sessions.RevokeSession(context.Background(), "tok", "sess_2")
	require.NoError(t, err)
	assert.Equal(t, "session_id=sess_2", gotQuery)
}

func TestCreateSignupAttempt_ImmediateUser(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, `{
			"is_user_created": true,
			"session": {
				"id": "sess_1",
				"user": {"id": "user_1", "external_id": ""},
				"status": "active",
				"identifiers": [],
				"token": {"name": "__client.sess_1", "value": "jwt", "expires_at": 1700000900, "domain": ""},
				"expires_at": null,
				"revoked_at": null,
				"updated_at": 1700000000,
				"created_at": 1700000000
			}
		}`)
	}))

	resp, err := c.Signup.CreateSignupAttempt(context.Background(), CreateSignupAttemptInput{
		VerificationStrategy: "email_code",
		Provider:             ProviderEmail,
		Value:                "new@example.com",
	})
	require.NoError(t, err)

	assert.True(t, resp.Data.IsUserCreated)
	assert.Nil(t, resp.Data.Attempt)
	require.NotNil(t, resp.Data.Session)
	assert.Equal(t, "sess_1", resp.Data.Session.ID)
}
