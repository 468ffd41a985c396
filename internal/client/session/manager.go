package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/studynotes/internal/client/api"
	"github.com/dmitrijs2005/studynotes/internal/client/credentials"
	"github.com/dmitrijs2005/studynotes/internal/client/models"
	"github.com/dmitrijs2005/studynotes/internal/logging"
)

// DefaultValidationDeadline bounds the startup credential check. If the
// profile fetch has not resolved by then, the persisted credential is
// treated as invalid.
const DefaultValidationDeadline = 5 * time.Second

// errStaleAttempt marks an async outcome that lost its race: a newer
// transition committed first, so the result is discarded.
var errStaleAttempt = errors.New("stale session attempt")

// Options tunes Manager behavior.
type Options struct {
	// ValidationDeadline overrides DefaultValidationDeadline when positive.
	ValidationDeadline time.Duration
}

// Manager owns the session state machine.
//
// Invariants:
//   - PhaseAuthenticated implies a credential is persisted;
//     PhaseUnauthenticated implies the slot is empty.
//   - For every state-installing transition the persistent slot is written
//     before the in-memory state commits, so a reader of the slot never
//     observes memory ahead of storage.
//   - Committed states are totally ordered; an async transition's result
//     is discarded unless its attempt is still the current epoch.
type Manager struct {
	store    credentials.Store
	gateway  api.AuthGateway
	log      logging.Logger
	deadline time.Duration

	mu          sync.Mutex
	state       State
	token       string // memory copy of the persisted token
	epoch       uint64 // bumped on every commit
	initStarted bool
	subs        map[int]func(State)
	nextSubID   int
}

func NewManager(store credentials.Store, gateway api.AuthGateway, log logging.Logger, opts Options) *Manager {
	deadline := opts.ValidationDeadline
	if deadline <= 0 {
		deadline = DefaultValidationDeadline
	}
	return &Manager{
		store:    store,
		gateway:  gateway,
		log:      log,
		deadline: deadline,
		state:    State{Phase: PhaseUnauthenticated},
		subs:     make(map[int]func(State)),
	}
}

// CurrentState returns a snapshot of the committed session state.
func (m *Manager) CurrentState() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers fn to be called synchronously, in commit order, with
// every committed state. The returned function removes the subscription.
// Observers must not call back into the Manager's mutating methods.
func (m *Manager) Subscribe(fn func(State)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSubID
	m.nextSubID++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// transition performs one committed state change. When attempt is non-nil
// the change belongs to an async operation and is discarded if a newer
// commit has already happened. write, if non-nil, updates the persistent
// slot and runs before the in-memory commit; its failure aborts the
// transition. The whole sequence runs under the state lock so concurrent
// transitions cannot interleave between the slot write and the commit.
func (m *Manager) transition(ctx context.Context, attempt *uint64, write func(ctx context.Context) error, next State) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if attempt != nil && m.epoch != *attempt {
		return m.epoch, errStaleAttempt
	}

	if write != nil {
		if err := write(ctx); err != nil {
			return m.epoch, err
		}
	}

	m.epoch++
	m.state = next
	switch next.Phase {
	case PhaseAuthenticated:
		// token updated by the caller via setToken inside write
	case PhaseValidating:
		m.token = next.Pending.Token
	default:
		m.token = ""
	}

	for _, fn := range m.subs {
		fn(next)
	}
	return m.epoch, nil
}

// setToken records the in-memory copy of the persisted token. Only called
// from within a transition's write step, i.e. under the state lock.
func (m *Manager) setToken(token string) { m.token = token }

// Initialize reads the credential slot and either settles immediately on
// PhaseUnauthenticated or starts the validation race for the persisted
// credential. Calling it again while the first call is still in flight is
// coalesced into a no-op.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	if m.initStarted {
		m.mu.Unlock()
		return nil
	}
	m.initStarted = true
	m.mu.Unlock()

	cred, err := m.store.Get(ctx)
	if err != nil {
		m.mu.Lock()
		m.initStarted = false
		m.mu.Unlock()
		return err
	}

	if cred == nil {
		_, _ = m.transition(ctx, nil, nil, State{Phase: PhaseUnauthenticated})
		return nil
	}

	attempt, _ := m.transition(ctx, nil, nil, State{Phase: PhaseValidating, Pending: cred})

	go m.validate(cred, attempt)
	return nil
}

// validate runs the race between the profile fetch and the deadline.
// Whichever side finishes first resolves the attempt; the loser observes a
// stale epoch inside transition and is a no-op. The fetch is not cancelled
// on a deadline win, merely abandoned.
func (m *Manager) validate(cred *models.Credential, attempt uint64) {
	ctx := context.Background()

	type fetchResult struct {
		user *models.UserProfile
		err  error
	}
	ch := make(chan fetchResult, 1)
	go func() {
		user, err := m.gateway.FetchProfile(ctx)
		ch <- fetchResult{user: user, err: err}
	}()

	timer := time.NewTimer(m.deadline)
	defer timer.Stop()

	select {
	case res := <-ch:
		if res.err != nil {
			m.log.Warn(ctx, "credential validation failed", "error", res.err)
			m.resolveInvalid(ctx, attempt)
			return
		}
		m.resolveValid(ctx, attempt, cred.Token, res.user)

	case <-timer.C:
		m.log.Warn(ctx, "credential validation timed out", "deadline", m.deadline)
		m.resolveInvalid(ctx, attempt)
	}
}

// resolveValid installs the authenticated state for a won validation:
// slot refreshed with the fetched profile, then memory commit.
func (m *Manager) resolveValid(ctx context.Context, attempt uint64, token string, user *models.UserProfile) {
	fresh := &models.Credential{Token: token, User: *user}
	_, err := m.transition(ctx, &attempt, func(ctx context.Context) error {
		if err := m.store.Set(ctx, fresh); err != nil {
			return err
		}
		m.setToken(token)
		return nil
	}, State{Phase: PhaseAuthenticated, User: user})

	switch {
	case errors.Is(err, errStaleAttempt):
		m.log.Debug(ctx, "discarding stale validation success")
	case err != nil:
		// Memory must not get ahead of storage; settle as invalid instead.
		m.log.Error(ctx, "failed to persist validated credential", "error", err)
		m.resolveInvalid(ctx, attempt)
	default:
		m.log.Info(ctx, "session validated", "user", user.Email)
	}
}

// resolveInvalid settles a failed or timed-out validation: slot cleared,
// then PhaseUnauthenticated.
func (m *Manager) resolveInvalid(ctx context.Context, attempt uint64) {
	_, err := m.transition(ctx, &attempt, func(ctx context.Context) error {
		return m.store.Clear(ctx)
	}, State{Phase: PhaseUnauthenticated})

	if err != nil && !errors.Is(err, errStaleAttempt) {
		m.log.Error(ctx, "failed to clear invalid credential", "error", err)
	}
}

// Login authenticates against the backend. On success the credential is
// persisted before the in-memory state commits. On failure nothing changes
// and the typed gateway error is returned for the caller to surface.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	cred, err := m.gateway.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return m.install(ctx, cred)
}

// Register creates an account; same contract as Login.
func (m *Manager) Register(ctx context.Context, input api.RegisterInput) error {
	cred, err := m.gateway.Register(ctx, input)
	if err != nil {
		return err
	}
	return m.install(ctx, cred)
}

func (m *Manager) install(ctx context.Context, cred *models.Credential) error {
	user := cred.User
	_, err := m.transition(ctx, nil, func(ctx context.Context) error {
		if err := m.store.Set(ctx, cred); err != nil {
			return err
		}
		m.setToken(cred.Token)
		return nil
	}, State{Phase: PhaseAuthenticated, User: &user})
	return err
}

// Logout tells the backend best-effort and unconditionally clears the local
// session. The remote outcome never blocks the local transition, so Logout
// has no error to return.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.gateway.Logout(ctx); err != nil {
		m.log.Warn(ctx, "remote logout failed", "error", err)
	}

	_, _ = m.transition(ctx, nil, func(ctx context.Context) error {
		if err := m.store.Clear(ctx); err != nil {
			// The local transition is unconditional; a failed wipe is
			// logged and retried implicitly by the next invalidation.
			m.log.Error(ctx, "failed to clear credential slot", "error", err)
		}
		m.setToken("")
		return nil
	}, State{Phase: PhaseUnauthenticated})
}

// Invalidate is the global auth-failure hook: slot cleared, state forced to
// PhaseUnauthenticated, subscribers notified. Safe to call repeatedly.
// Bumping the epoch here also discards any in-flight validation outcome.
func (m *Manager) Invalidate(ctx context.Context) {
	_, _ = m.transition(ctx, nil, func(ctx context.Context) error {
		if err := m.store.Clear(ctx); err != nil {
			m.log.Error(ctx, "failed to clear credential slot", "error", err)
		}
		m.setToken("")
		return nil
	}, State{Phase: PhaseUnauthenticated})
}

// UpdateProfile pushes a profile patch to the backend. On success the
// refreshed profile is persisted alongside the unchanged token and the
// state recommits; on failure the session is untouched.
func (m *Manager) UpdateProfile(ctx context.Context, patch api.ProfilePatch) error {
	user, err := m.gateway.UpdateProfile(ctx, patch)
	if err != nil {
		return err
	}

	_, err = m.transition(ctx, nil, func(ctx context.Context) error {
		return m.store.Set(ctx, &models.Credential{Token: m.token, User: *user})
	}, State{Phase: PhaseAuthenticated, User: user})
	return err
}

// ChangePassword rotates the session token; the cached user is unchanged.
func (m *Manager) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	token, err := m.gateway.ChangePassword(ctx, oldPassword, newPassword)
	if err != nil {
		return err
	}

	m.mu.Lock()
	user := m.state.User
	m.mu.Unlock()
	if user == nil {
		return errors.New("no authenticated session")
	}

	_, err = m.transition(ctx, nil, func(ctx context.Context) error {
		if err := m.store.Set(ctx, &models.Credential{Token: token, User: *user}); err != nil {
			return err
		}
		m.setToken(token)
		return nil
	}, State{Phase: PhaseAuthenticated, User: user})
	return err
}
