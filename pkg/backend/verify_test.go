package backend

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func signToken(t *testing.T, claims AccessTokenClaims, secret []byte) string {
	t.Helper()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return signed
}

func testClient(t *testing.T) *Client {
	t.Helper()

	c, err := New(Config{PrivateKey: "sec_test_abc123"})
	require.NoError(t, err)
	return c
}

func TestVerifyAccessToken_Valid(t *testing.T) {
	c := testClient(t)

	token := signToken(t, AccessTokenClaims{
		SessionID:  "sess_1",
		ExternalID: "ext_1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
		},
	}, testSecret)

	claims, err := c.VerifyAccessToken(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, "sess_1", claims.SessionID)
	assert.Equal(t, "user_1", claims.Subject)
}

func TestVerifyAccessToken_Expired(t *testing.T) {
	c := testClient(t)

	token := signToken(t, AccessTokenClaims{
		SessionID: "sess_1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}, testSecret)

	_, err := c.VerifyAccessToken(token, testSecret)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyAccessToken_WrongSecret(t *testing.T) {
	c := testClient(t)

	token := signToken(t, AccessTokenClaims{
		SessionID: "sess_1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}, testSecret)

	_, err := c.VerifyAccessToken(token, []byte("another-secret-another-secret!!!"))
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyAccessToken_MissingSessionID(t *testing.T) {
	c := testClient(t)

	token := signToken(t, AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}, testSecret)

	_, err := c.VerifyAccessToken(token, testSecret)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyAccessToken_Garbage(t *testing.T) {
	c := testClient(t)

	_, err := c.VerifyAccessToken("not.a.jwt", testSecret)
	require.ErrorIs(t, err, ErrTokenInvalid)
}
