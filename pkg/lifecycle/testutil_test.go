package lifecycle

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cakeauth/cakeauth-go/pkg/frontend"
)

const testPublicKey = "pub_test_YXV0aC5leGFtcGxlLmNvbQ==" // auth.example.com

func newTestFrontend(t *testing.T, creds *CredentialStore, handler http.Handler) *frontend.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	httpClient := &http.Client{}
	if creds != nil {
		httpClient.Jar = creds
	}

	client, err := frontend.New(frontend.Config{
		PublicKey:  testPublicKey,
		URL:        srv.URL,
		HTTPClient: httpClient,
	})
	require.NoError(t, err)
	return client
}

func newTestManager(t *testing.T, handler http.Handler) (*Manager, *CredentialStore) {
	t.Helper()

	creds := NewCredentialStore(nil)
	client := newTestFrontend(t, creds, handler)

	mgr, err := New(Config{Client: client, Credentials: creds})
	require.NoError(t, err)
	return mgr, creds
}

func writeEnvelope(w http.ResponseWriter, status int, data string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{
		"status": %d,
		"metadata": {"timestamp": 1700000000, "request_id": "req_1", "page": null, "page_size": null, "total": null},
		"error": null,
		"data": %s
	}`, status, data)
}

func writeErrorEnvelope(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{
		"status": %d,
		"metadata": {"timestamp": 1700000000, "request_id": "req_err", "page": null, "page_size": null, "total": null},
		"error": {"code": %q, "message": %q, "url": null},
		"data": null
	}`, status, code, message)
}

func sessionJSON(sessionID, userID, tokenValue string, tokenExpires time.Time) string {
	return fmt.Sprintf(`{
		"id": %q,
		"user": {"id": %q, "external_id": "ext_1"},
		"status": "active",
		"metadata": null,
		"identifiers": [],
		"token": {"name": "__client.%s", "value": %q, "expires_at": %d, "domain": ""},
		"expires_at": null,
		"revoked_at": null,
		"updated_at": 1700000000,
		"created_at": 1700000000
	}`, sessionID, userID, sessionID, tokenValue, tokenExpires.UnixMilli())
}
