package lifecycle

import (
	"context"
	"errors"
	"sync"

	"github.com/cakeauth/cakeauth-go/pkg/frontend"
)

// Degree is the step a sign-in or sign-up conversation is at. First
// collects the identifier, second picks a strategy, third verifies.
type Degree string

const (
	DegreeFirst  Degree = "first"
	DegreeSecond Degree = "second"
	DegreeThird  Degree = "third"
)

// Flow errors raised locally, without a network call.
var (
	// ErrFlowNotReady is returned when an operation is called out of
	// order, e.g. Verify before an attempt exists.
	ErrFlowNotReady = errors.New("lifecycle: flow is not at the right step for this operation")

	// ErrTooManyVerifyAttempts is returned once a flow has failed
	// verification too often; the user must restart the flow.
	ErrTooManyVerifyAttempts = errors.New("lifecycle: too many failed verification attempts")
)

// After this many failed verifications the flow locks itself.
const maxVerifyFailures = 3

// SigninFlow drives the sign-in conversation: identifier in, strategies
// out, attempt opened, attempt verified, session stored. When the user's
// identifier maps to exactly one strategy the middle step is skipped.
type SigninFlow struct {
	client *frontend.Client
	creds  *CredentialStore

	mu          sync.Mutex
	degree      Degree
	state       State
	err         error
	verifyFails int
	done        bool

	provider   frontend.Provider
	value      string
	strategy   string
	strategies []frontend.Strategy
	attempt    *frontend.SigninAttempt
}

// NewSigninFlow starts a fresh flow at the first degree.
func NewSigninFlow(client *frontend.Client, creds *CredentialStore) *SigninFlow {
	return &SigninFlow{
		client: client,
		creds:  creds,
		degree: DegreeFirst,
		state:  StateIdle,
	}
}

// Start submits the user's identifier and advances the flow. With exactly
// one available strategy the flow opens an attempt immediately and lands
// on the third degree; otherwise it stops at the second degree for the
// user to pick a strategy.
func (f *SigninFlow) Start(ctx context.Context, provider frontend.Provider, value string) error {
	f.mu.Lock()
	f.provider = provider
	f.value = value
	f.strategy = ""
	f.attempt = nil
	f.verifyFails = 0
	f.state = StateLoading
	f.err = nil
	f.mu.Unlock()

	resp, err := f.client.Signin.GetAvailableSigninStrategies(ctx, frontend.SigninStrategiesInput{
		Provider: provider,
		Value:    value,
	})
	if err != nil {
		f.fail(err)
		return err
	}

	f.mu.Lock()
	f.strategies = resp.Data
	f.mu.Unlock()

	if len(resp.Data) == 1 {
		return f.SelectStrategy(ctx, resp.Data[0].Strategy)
	}

	f.mu.Lock()
	f.degree = DegreeSecond
	f.state = StateIdle
	f.mu.Unlock()
	return nil
}

// SelectStrategy opens a sign-in attempt with the chosen strategy and
// advances to the third degree.
func (f *SigninFlow) SelectStrategy(ctx context.Context, strategy string) error {
	f.mu.Lock()
	if f.value == "" {
		f.mu.Unlock()
		return ErrFlowNotReady
	}
	provider, value := f.provider, f.value
	f.strategy = strategy
	f.state = StateLoading
	f.err = nil
	f.mu.Unlock()

	resp, err := f.client.Signin.CreateSigninAttempt(ctx, frontend.CreateSigninAttemptInput{
		AuthenticationStrategy: strategy,
		Provider:               provider,
		Value:                  value,
	})
	if err != nil {
		f.fail(err)
		return err
	}

	f.mu.Lock()
	f.attempt = &resp.Data
	f.degree = DegreeThird
	f.state = StateIdle
	f.verifyFails = 0
	f.mu.Unlock()
	return nil
}

// Verify completes the attempt with a code or a password and stores the
// resulting session. Repeated failures lock the flow.
func (f *SigninFlow) Verify(ctx context.Context, code, password string) error {
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

	resp, err := f.client.Signin.VerifySigninAttempt(ctx, attemptID, frontend.VerifySigninAttemptInput{
		Code:     code,
		Password: password,
	})
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

// Resend opens a new attempt with the same identifier and strategy,
// resending the verification code.
func (f *SigninFlow) Resend(ctx context.Context) error {
	f.mu.Lock()
	if f.strategy == "" || f.value == "" {
		f.mu.Unlock()
		return ErrFlowNotReady
	}
	strategy := f.strategy
	f.mu.Unlock()

	return f.SelectStrategy(ctx, strategy)
}

// Back abandons progress and returns the flow to the first degree.
func (f *SigninFlow) Back() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.degree = DegreeFirst
	f.state = StateIdle
	f.err = nil
	f.verifyFails = 0
	f.provider = ""
	f.value = ""
	f.strategy = ""
	f.strategies = nil
	f.attempt = nil
}

func (f *SigninFlow) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateError
	f.err = err
}

// Degree reports which step the flow is at.
func (f *SigninFlow) Degree() Degree {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.degree
}

// State reports the flow's condition.
func (f *SigninFlow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Err returns the last operation's error, nil after success.
func (f *SigninFlow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Strategies returns the strategies fetched by Start.
func (f *SigninFlow) Strategies() []frontend.Strategy {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.strategies
}

// Attempt returns the open attempt, nil before the third degree.
func (f *SigninFlow) Attempt() *frontend.SigninAttempt {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempt
}

// Done reports whether the flow produced a stored session.
func (f *SigninFlow) Done() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}
