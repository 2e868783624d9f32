// Package backend is the CakeAuth Backend API client for server-side Go
// applications. It authenticates with an environment's private key
// (`sec_test_...` or `sec_live_...`) and manages users, sessions, and
// identifiers on behalf of the tenant.
//
//	client, err := backend.New(backend.Config{
//		PrivateKey: os.Getenv("CAKEAUTH_PRIVATE_KEY"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	users, err := client.Users.ListUsers(ctx, backend.ListUsersInput{})
//
// Private keys grant full tenant access. Never embed them in code shipped
// to browsers or devices; those surfaces use package frontend with a
// public key instead.
//
// VerifyAccessToken checks session access tokens locally, without a round
// trip, when the environment's signing secret is available:
//
//	claims, err := client.VerifyAccessToken(tokenString, secret)
package backend
