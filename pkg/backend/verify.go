package backend

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenInvalid is returned when an access token fails verification.
	ErrTokenInvalid = errors.New("backend: access token is invalid")

	// ErrTokenExpired is returned when an access token is well-formed but
	// past its expiry.
	ErrTokenExpired = errors.New("backend: access token is expired")
)

// AccessTokenClaims are the claims CakeAuth mints into session access
// tokens. SessionID links the token back to its session.
type AccessTokenClaims struct {
	SessionID  string `json:"sid"`
	ExternalID string `json:"ext,omitempty"`

	jwt.RegisteredClaims
}

// VerifyAccessToken verifies a session access token locally against the
// environment's signing secret, without a round trip to the API. It
// returns the claims when the signature and expiry check out.
//
// For session state beyond the token itself (revocation, bans) use
// Sessions.ListSessions or the Frontend API's session details endpoint.
func (c *Client) VerifyAccessToken(tokenString string, secret []byte) (*AccessTokenClaims, error) {
	claims := &AccessTokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.SessionID == "" {
		return nil, fmt.Errorf("%w: missing sid claim", ErrTokenInvalid)
	}

	return claims, nil
}
