package lifecycle

import (
	"context"
	"errors"
	"sync"

	"github.com/cakeauth/cakeauth-go/pkg/frontend"
)

// ErrPasswordMismatch is raised locally when the password confirmation
// does not match; nothing is sent to the API.
var ErrPasswordMismatch = errors.New("lifecycle: passwords do not match")

// ResetPasswordFlow drives forgotten-password recovery. Start sends the
// user a reset link pointing at the hosting page; Complete consumes the
// link's attempt id and token together with the new password.
type ResetPasswordFlow struct {
	client *frontend.Client

	mu      sync.Mutex
	state   State
	err     error
	attempt *frontend.ResetPasswordAttempt
	done    bool
}

// NewResetPasswordFlow starts a fresh flow.
func NewResetPasswordFlow(client *frontend.Client) *ResetPasswordFlow {
	return &ResetPasswordFlow{
		client: client,
		state:  StateIdle,
	}
}

// Start requests a reset link for the user. targetURL is the page that
// hosts the reset form; the link delivered to the user points there with
// the attempt id and token appended as URL parameters.
func (f *ResetPasswordFlow) Start(ctx context.Context, provider frontend.Provider, value, targetURL string) error {
	f.mu.Lock()
	f.state = StateLoading
	f.err = nil
	f.mu.Unlock()

	resp, err := f.client.ResetPassword.CreateResetPasswordAttempt(ctx, frontend.CreateResetPasswordAttemptInput{
		Provider:  provider,
		Value:     value,
		TargetURL: targetURL,
	})
	if err != nil {
		f.mu.Lock()
		f.state = StateError
		f.err = err
		f.mu.Unlock()
		return err
	}

	f.mu.Lock()
	f.attempt = &resp.Data
	f.state = StateIdle
	f.mu.Unlock()
	return nil
}

// Complete sets the new password using the credentials from a reset
// link. The confirmation is checked locally first; a mismatch never
// reaches the network.
func (f *ResetPasswordFlow) Complete(ctx context.Context, attemptID, token, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		f.mu.Lock()
		f.state = StateError
		f.err = ErrPasswordMismatch
		f.mu.Unlock()
		return ErrPasswordMismatch
	}

	f.mu.Lock()
	f.state = StateLoading
	f.err = nil
	f.mu.Unlock()

	_, err := f.client.ResetPassword.VerifyResetPasswordAttempt(ctx, attemptID, frontend.VerifyResetPasswordAttemptInput{
		NewPassword: newPassword,
		Token:       token,
	})
	if err != nil {
		f.mu.Lock()
		f.state = StateError
		f.err = err
		f.mu.Unlock()
		return err
	}

	f.mu.Lock()
	f.state = StateIdle
	f.done = true
	f.mu.Unlock()
	return nil
}

// CompleteFromLink extracts the attempt id and token from a reset link
// and completes the flow with them.
func (f *ResetPasswordFlow) CompleteFromLink(ctx context.Context, pageURL, newPassword, confirmPassword string) error {
	attemptID, token, ok := ParseResetPasswordLink(pageURL)
	if !ok {
		return ErrFlowNotReady
	}
	return f.Complete(ctx, attemptID, token, newPassword, confirmPassword)
}

// State reports the flow's condition.
func (f *ResetPasswordFlow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Err returns the last operation's error, nil after success.
func (f *ResetPasswordFlow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Attempt returns the open attempt, nil before Start succeeds.
func (f *ResetPasswordFlow) Attempt() *frontend.ResetPasswordAttempt {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempt
}

// Done reports whether the password was reset.
func (f *ResetPasswordFlow) Done() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}
