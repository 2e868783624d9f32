package lifecycle

import (
	"context"
	"sync"

	"github.com/cakeauth/cakeauth-go/pkg/frontend"
)

// SignupFlow drives registration. Tenants that skip verification create
// the user on the first call, in which case the flow completes
// immediately with a stored session; otherwise the attempt must be
// verified with the delivered code.
type SignupFlow struct {
	client *frontend.Client
	creds  *CredentialStore

	mu          sync.Mutex
	degree      Degree
	state       State
	err         error
	verifyFails int
	done        bool

	input   frontend.CreateSignupAttemptInput
	attempt *frontend.SignupAttempt
}

// NewSignupFlow starts a fresh flow at the first degree.
func NewSignupFlow(client *frontend.Client, creds *CredentialStore) *SignupFlow {
	return &SignupFlow{
		client: client,
		creds:  creds,
		degree: DegreeFirst,
		state:  StateIdle,
	}
}

// Start submits the registration. When the tenant creates the user
// immediately the session is stored and the flow is done; otherwise the
// flow advances to the third degree to verify the attempt.
func (f *SignupFlow) Start(ctx context.Context, in frontend.CreateSignupAttemptInput) error {
	f.mu.Lock()
	f.input = in
	f.attempt = nil
	f.verifyFails = 0
	f.state = StateLoading
	f.err = nil
	f.mu.Unlock()

	resp, err := f.client.Signup.CreateSignupAttempt(ctx, in)
	if err != nil {
		f.mu.Lock()
		f.state = StateError
		f.err = err
		f.mu.Unlock()
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if resp.Data.IsUserCreated && resp.Data.Session != nil {
		f.creds.ApplySession(resp.Data.Session)
		f.state = StateIdle
		f.done = true
		return nil
	}

	f.attempt = resp.Data.Attempt
	f.degree = DegreeThird
	f.state = StateIdle
	return nil
}

// Verify completes the attempt with the delivered code and stores the
// resulting session. Repeated failures lock the flow.
func (f *SignupFlow) Verify(ctx context.Context, code string) error {
	f.mu.Lock()
	if f.attempt == nil {
		f.mu.Unlock()
		return ErrFlowNotReady
	}
	if f.verifyFails > maxVerifyFailures {
		f.mu.Unlock()
		return ErrTooManyVerifyAttempts
	}
	attemptID := f.attempt.AttemptID
	f.state = StateLoading
	f.err = nil
	f.mu.Unlock()

	resp, err := f.client.Signup.VerifySignupAttempt(ctx, attemptID, frontend.VerifySignupAttemptInput{Code: code})
	if err != nil {
		f.mu.Lock()
		f.verifyFails++
		f.state = StateError
		f.err = err
		f.mu.Unlock()
		return err
	}

	f.creds.ApplySession(&resp.Data)

	f.mu.Lock()
	f.state = StateIdle
	f.done = true
	f.mu.Unlock()
	return nil
}

// Resend submits the registration again, resending the verification code.
func (f *SignupFlow) Resend(ctx context.Context) error {
	f.mu.Lock()
	if f.input.Value == "" {
		f.mu.Unlock()
		return ErrFlowNotReady
	}
	in := f.input
	f.mu.Unlock()

	return f.Start(ctx, in)
}

// Back abandons progress and returns the flow to the first degree.
func (f *SignupFlow) Back() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.degree = DegreeFirst
	f.state = StateIdle
	f.err = nil
	f.verifyFails = 0
	f.input = frontend.CreateSignupAttemptInput{}
	f.attempt = nil
}

// Degree reports which step the flow is at.
func (f *SignupFlow) Degree() Degree {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.degree
}

// State reports the flow's condition.
func (f *SignupFlow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Err returns the last operation's error, nil after success.
func (f *SignupFlow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Attempt returns the open attempt, nil before the third degree.
func (f *SignupFlow) Attempt() *frontend.SignupAttempt {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempt
}

// Done reports whether the flow produced a stored session.
func (f *SignupFlow) Done() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}
