/*
Package frontend provides the public-key client for the CakeAuth Frontend
API. It is the Go counterpart of what a browser application uses: sign-in,
sign-up and password-reset attempts, session token refresh, handshake
exchange, and the current user's profile and environment settings.

# Client

Create a Client with a public key. The API host is derived from the key
itself unless a URL is supplied:

	client, err := frontend.New(frontend.Config{
		PublicKey: "pub_test_xxx",
	})

All operations take a context.Context and return a typed response wrapping
the standard CakeAuth envelope (status, metadata, error, data):

	settings, err := client.Settings.Get(ctx)
	me, err := client.Me.Get(ctx, accessToken)

# Errors

Failed requests return *APIError carrying the server's error code and
message. Rate-limited requests (HTTP 429) return *TooManyRequestsError with
a human-readable retry hint derived from the X-RateLimit-* headers:

	if rlErr, ok := err.(*frontend.TooManyRequestsError); ok {
		fmt.Println(rlErr.Error()) // "api limit exceeded, try again in 1m30s"
	}

# Transport behavior

Requests carry a 10 second timeout by default and are retried at most once,
only on 502/503/504/500 responses, with exponential delay. Network errors
and timeouts are not retried. Every request is stamped with a ULID
X-Request-Id for log correlation.
*/
package frontend
