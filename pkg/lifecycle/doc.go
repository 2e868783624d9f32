// Package lifecycle keeps a CakeAuth session alive on the client side the
// way the hosted browser widgets do: credentials live in a cookie-shaped
// store, an access token is refreshed on a fixed interval, and cached
// reads of the user profile and environment settings expire just under a
// minute after they were fetched.
//
// The entry point is the Manager:
//
//	creds := lifecycle.NewCredentialStore(nil)
//	client, _ := frontend.New(frontend.Config{
//		PublicKey:  key,
//		HTTPClient: &http.Client{Jar: creds},
//	})
//
//	mgr, _ := lifecycle.New(lifecycle.Config{
//		Client:      client,
//		Credentials: creds,
//	})
//	go mgr.Run(ctx)
//
// Wiring the CredentialStore in as the HTTP client's cookie jar gives the
// transport the same ambient session cookie a browser would send, which
// is how the token refresh endpoint identifies the session. Passing a
// storage.Store to NewCredentialStore persists those cookies, so a
// session survives a process restart.
//
// The flow types (SigninFlow, SignupFlow, ResetPasswordFlow) drive the
// multi-step authentication conversations and hand completed sessions to
// the credential store.
package lifecycle
