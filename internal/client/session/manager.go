package session

import (
	"context"
	"errors"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/dmitrijs2005/campus/internal/client/models"
	"github.com/dmitrijs2005/campus/internal/client/services"
	"github.com/dmitrijs2005/campus/internal/common"
	"github.com/dmitrijs2005/campus/internal/logging"
)

const (
	MsgSaveFailed = "No se pudo guardar la sesión"
	MsgExpired    = "Tu sesión expiró"
)

var errIncompleteResult = errors.New("auth result without token or profile")

// Vault is the credential persistence the manager relies on.
type Vault interface {
	Save(ctx context.Context, token string, profile models.Profile) error
	Clear(ctx context.Context) error
	ReadToken(ctx context.Context) (string, bool)
	ReadProfile(ctx context.Context) (*models.Profile, bool)
}

// Authenticator talks to the auth endpoints.
type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (*models.AuthResult, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error)
}

type Option func(*Manager)

func WithClock(c clockwork.Clock) Option {
	return func(m *Manager) {
		m.clock = c
	}
}

type subscriber struct {
	id int
	fn Listener
}

type Manager struct {
	vault Vault
	auth  Authenticator
	log   logging.Logger
	clock clockwork.Clock

	// notifyMu orders mutations together with their notifications.
	// Lock order: notifyMu, then mu.
	notifyMu sync.Mutex

	mu        sync.Mutex
	state     State
	busy      bool
	listeners []subscriber
	nextID    int
}

func NewManager(v Vault, auth Authenticator, log logging.Logger, opts ...Option) *Manager {
	m := &Manager{
		vault: v,
		auth:  auth,
		log:   log.With("component", "session"),
		clock: clockwork.NewRealClock(),
		state: State{Phase: PhaseRestoring, IsLoading: true},
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// State returns a copy of the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// Subscribe registers fn and returns a function that removes it. Listeners
// run in registration order after every change.
func (m *Manager) Subscribe(fn Listener) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	m.listeners = append(m.listeners, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			for i, s := range m.listeners {
				if s.id == id {
					m.listeners = append(m.listeners[:i:i], m.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Restore settles the initial state from the vault. It never calls the
// network.
func (m *Manager) Restore(ctx context.Context) (State, error) {
	m.mu.Lock()
	switch {
	case m.busy:
		st := m.state.clone()
		m.mu.Unlock()
		return st, common.ErrBusy
	case m.state.Phase != PhaseRestoring:
		st := m.state.clone()
		m.mu.Unlock()
		return st, nil
	}
	m.busy = true
	m.mu.Unlock()

	token, hasToken := m.vault.ReadToken(ctx)
	profile, hasProfile := m.vault.ReadProfile(ctx)

	if hasToken && tokenExpired(token, m.clock.Now()) {
		m.log.Info(ctx, "stored credential has expired")
		hasToken = false
	}

	if !hasToken || !hasProfile {
		if token != "" || hasProfile {
			// Leftovers from an expired or half-written session.
			if err := m.vault.Clear(ctx); err != nil {
				m.log.Warn(ctx, "failed to clear stale session", "error", err)
			}
		}
		m.log.Info(ctx, "session restored", "authenticated", false)
		return m.finish(func(s *State) {
			s.Phase = PhaseUnauthenticated
			s.User = nil
		}), nil
	}

	m.log.Info(ctx, "session restored", "authenticated", true)
	return m.finish(func(s *State) {
		s.Phase = PhaseAuthenticated
		s.User = profile
	}), nil
}

// SignIn authenticates with the backend and persists the credential.
func (m *Manager) SignIn(ctx context.Context, identifier, password string) (State, error) {
	if st, err := m.begin(false); err != nil {
		return st, err
	}

	res, err := m.auth.Login(ctx, identifier, password)
	return m.complete(ctx, "sign in", res, err, services.MsgLoginFailed), nil
}

// Register creates an account and signs in with the issued credential.
func (m *Manager) Register(ctx context.Context, req models.RegisterRequest) (State, error) {
	if st, err := m.begin(false); err != nil {
		return st, err
	}

	res, err := m.auth.Register(ctx, req)
	return m.complete(ctx, "register", res, err, services.MsgRegisterFailed), nil
}

// SignOut clears the vault and always ends unauthenticated, even if the
// vault fails.
func (m *Manager) SignOut(ctx context.Context) (State, error) {
	if st, err := m.begin(false); err != nil {
		return st, err
	}
	return m.drop(ctx, ""), nil
}

// Expire is a forced sign-out after the backend rejected the credential.
// It is a no-op unless authenticated and idle.
func (m *Manager) Expire(ctx context.Context) (State, error) {
	if st, err := m.begin(true); err != nil {
		if errors.Is(err, errNotAuthenticated) {
			return st, nil
		}
		return st, err
	}
	m.log.Info(ctx, "session expired by backend")
	return m.drop(ctx, MsgExpired), nil
}

var errNotAuthenticated = errors.New("not authenticated")

func (m *Manager) begin(requireAuth bool) (State, error) {
	return m.update(func(s *State) error {
		switch {
		case m.busy:
			return common.ErrBusy
		case s.Phase == PhaseRestoring:
			return common.ErrNotReady
		case requireAuth && s.Phase != PhaseAuthenticated:
			return errNotAuthenticated
		}
		m.busy = true
		s.IsLoading = true
		s.Error = ""
		return nil
	})
}

func (m *Manager) complete(ctx context.Context, op string, res *models.AuthResult, err error, fallback string) State {
	if err == nil && (res == nil || res.Token == "" || res.Profile == nil) {
		err = errIncompleteResult
	}
	if err != nil {
		m.log.Warn(ctx, op+" failed", "error", err)
		msg := services.Message(err, fallback)
		return m.finish(func(s *State) {
			s.Error = msg
		})
	}

	if err := m.vault.Save(ctx, res.Token, *res.Profile); err != nil {
		m.log.Error(ctx, "failed to persist session", "error", err)
		return m.finish(func(s *State) {
			s.Error = MsgSaveFailed
		})
	}

	profile := res.Profile.Clone()
	m.log.Info(ctx, op+" succeeded", "rut", profile.Rut)
	return m.finish(func(s *State) {
		s.Phase = PhaseAuthenticated
		s.User = profile
	})
}

func (m *Manager) drop(ctx context.Context, msg string) State {
	if err := m.vault.Clear(ctx); err != nil {
		m.log.Error(ctx, "failed to clear vault", "error", err)
	}
	return m.finish(func(s *State) {
		s.Phase = PhaseUnauthenticated
		s.User = nil
		s.Error = msg
	})
}

func (m *Manager) finish(fn func(*State)) State {
	st, _ := m.update(func(s *State) error {
		fn(s)
		s.IsLoading = false
		m.busy = false
		return nil
	})
	return st
}

// update applies fn under the state lock and, when it succeeds, notifies
// listeners before the next mutation can start.
func (m *Manager) update(fn func(*State) error) (State, error) {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	m.mu.Lock()
	if err := fn(&m.state); err != nil {
		st := m.state.clone()
		m.mu.Unlock()
		return st, err
	}
	st := m.state.clone()
	ls := make([]Listener, len(m.listeners))
	for i, s := range m.listeners {
		ls[i] = s.fn
	}
	m.mu.Unlock()

	for _, fn := range ls {
		fn(st.clone())
	}
	return st, nil
}
