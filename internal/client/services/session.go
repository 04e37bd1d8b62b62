package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/salesdesk/internal/client/client"
	"github.com/dmitrijs2005/salesdesk/internal/client/models"
	"github.com/dmitrijs2005/salesdesk/internal/logging"
	"golang.org/x/sync/singleflight"
)

// State is the authentication state of the session.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Session is a point-in-time view of the session store.
type Session struct {
	State     State
	User      *models.User
	IsLoading bool
}

const sessionExpiredMessage = "Your session has expired. Please log in again."

// SessionStore owns the authenticated user and drives the project store
// once a session is established.
type SessionStore struct {
	auth     AuthAPI
	tokens   TokenRepository
	projects ProjectLoader
	log      logging.Logger
	notifier Notifier

	clearWorkspaceOnLogout bool

	mu          sync.RWMutex
	state       State
	user        *models.User
	initialized bool

	boot    singleflight.Group
	loginMu sync.Mutex

	bgCtx    context.Context
	bgCancel context.CancelFunc
	bg       sync.WaitGroup
}

type SessionOption func(*SessionStore)

// WithClearWorkspaceOnLogout controls whether Logout also resets the
// persisted project workspace. Enabled by default.
func WithClearWorkspaceOnLogout(v bool) SessionOption {
	return func(s *SessionStore) {
		s.clearWorkspaceOnLogout = v
	}
}

func NewSessionStore(auth AuthAPI, tokens TokenRepository, projects ProjectLoader, log logging.Logger, notifier Notifier, opts ...SessionOption) *SessionStore {
	ctx, cancel := context.WithCancel(context.Background())
	s := &SessionStore{
		auth:                   auth,
		tokens:                 tokens,
		projects:               projects,
		log:                    log,
		notifier:               notifier,
		clearWorkspaceOnLogout: true,
		bgCtx:                  ctx,
		bgCancel:               cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SessionStore) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var u *models.User
	if s.user != nil {
		c := *s.user
		u = &c
	}
	return Session{State: s.state, User: u, IsLoading: s.state == StateLoading}
}

// IsAuthenticated reports whether the session is authenticated and an
// access token is still stored. A session whose tokens were removed
// behind its back reports false.
func (s *SessionStore) IsAuthenticated(ctx context.Context) bool {
	if s.Snapshot().State != StateAuthenticated {
		return false
	}
	token, err := s.tokens.AccessToken(ctx)
	return err == nil && token != ""
}

// Initialize restores the session from the stored access token. Without a
// token it settles as anonymous without touching the network. Concurrent
// calls share one run, and once settled it returns the state as is.
func (s *SessionStore) Initialize(ctx context.Context) Session {
	s.mu.RLock()
	done := s.initialized
	s.mu.RUnlock()
	if done {
		return s.Snapshot()
	}

	ch := s.boot.DoChan("initialize", func() (any, error) {
		s.initialize(context.WithoutCancel(ctx))
		return nil, nil
	})
	select {
	case <-ch:
	case <-ctx.Done():
	}
	return s.Snapshot()
}

func (s *SessionStore) initialize(ctx context.Context) {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return
	}
	s.state = StateLoading
	s.mu.Unlock()

	token, err := s.tokens.AccessToken(ctx)
	if err != nil {
		s.log.Error(ctx, "failed to read access token", "error", err)
		s.settle(StateAnonymous, nil)
		return
	}
	if token == "" {
		s.settle(StateAnonymous, nil)
		return
	}

	user, err := s.auth.Me(ctx)
	if err != nil {
		// ErrAuthenticationExpired means the request client already
		// cleared the tokens.
		if !errors.Is(err, client.ErrAuthenticationExpired) {
			s.clearTokens(ctx)
		}
		s.log.Warn(ctx, "stored session rejected", "error", err)
		s.settle(StateAnonymous, nil)
		return
	}

	s.projects.BindUser(ctx, user.ID)
	s.settle(StateAuthenticated, user)
	s.loadProjects()
}

// Login authenticates with email and password. Failures come back as a
// message in the result. Logins run one at a time, so of two overlapping
// submissions the later one's tokens are the ones kept.
func (s *SessionStore) Login(ctx context.Context, email, password string) models.LoginResult {
	s.loginMu.Lock()
	defer s.loginMu.Unlock()

	pair, err := s.auth.Login(ctx, models.Credentials{Email: email, Password: password})
	if err != nil {
		s.log.Info(ctx, "login failed", "email", email, "error", err)
		return models.LoginResult{Error: client.UserMessage(err)}
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		s.log.Warn(ctx, "login response is missing tokens")
		return models.LoginResult{Error: client.GenericErrorMessage}
	}

	if err := s.tokens.SavePair(ctx, pair); err != nil {
		s.log.Error(ctx, "failed to save tokens", "error", err)
		return models.LoginResult{Error: client.GenericErrorMessage}
	}

	user, err := s.auth.Me(ctx)
	if err != nil {
		if !errors.Is(err, client.ErrAuthenticationExpired) {
			s.clearTokens(ctx)
		}
		s.log.Warn(ctx, "failed to fetch user after login", "error", err)
		return models.LoginResult{Error: client.UserMessage(err)}
	}

	s.projects.BindUser(ctx, user.ID)
	s.settle(StateAuthenticated, user)
	s.log.Info(ctx, "logged in", "user_id", user.ID)
	s.loadProjects()
	return models.LoginResult{Success: true}
}

// Logout tells the server (best effort), then drops the tokens and goes
// anonymous regardless of the outcome. The session is anonymous before the
// server is called, so an expiry raised by that call stays silent.
func (s *SessionStore) Logout(ctx context.Context) {
	s.settle(StateAnonymous, nil)

	refresh, err := s.tokens.RefreshToken(ctx)
	if err != nil {
		s.log.Error(ctx, "failed to read refresh token", "error", err)
	}
	if refresh != "" {
		if err := s.auth.Logout(ctx, refresh); err != nil {
			s.log.Warn(ctx, "logout notification failed", "error", err)
		}
	}

	s.clearTokens(ctx)
	if s.clearWorkspaceOnLogout {
		if err := s.projects.Reset(ctx); err != nil {
			s.log.Error(ctx, "failed to reset workspace", "error", err)
		}
	}
	s.settle(StateAnonymous, nil)
	s.log.Info(ctx, "logged out")
}

// HandleAuthExpired is registered with the request client. The tokens are
// already gone when it runs.
func (s *SessionStore) HandleAuthExpired(ctx context.Context) {
	s.mu.Lock()
	wasAuthenticated := s.state == StateAuthenticated
	s.state = StateAnonymous
	s.user = nil
	s.initialized = true
	s.mu.Unlock()

	if wasAuthenticated {
		s.notifier.Notify(ctx, LevelError, sessionExpiredMessage)
	}
}

// Wait blocks until background project loads have finished.
func (s *SessionStore) Wait() {
	s.bg.Wait()
}

// Close cancels background work and waits for it.
func (s *SessionStore) Close() {
	s.bgCancel()
	s.bg.Wait()
}

func (s *SessionStore) settle(state State, user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.user = user
	s.initialized = true
}

func (s *SessionStore) clearTokens(ctx context.Context) {
	if err := s.tokens.Clear(ctx); err != nil {
		s.log.Error(ctx, "failed to clear tokens", "error", err)
	}
}

// loadProjects runs in the background; the project store reports its own
// failures to the user.
func (s *SessionStore) loadProjects() {
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		_ = s.projects.LoadProjects(s.bgCtx)
	}()
}
