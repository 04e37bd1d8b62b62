package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/salesdesk/internal/client/models"
)

// fakeAuth is an in-memory AuthAPI. Every Login hands out a fresh
// numbered pair.
type fakeAuth struct {
	loginErr  error
	meErr     error
	logoutErr error
	user      models.User
	onLogin   func(n int32)
	onMe      func()
	onLogout  func()

	loginCalls  atomic.Int32
	meCalls     atomic.Int32
	logoutCalls atomic.Int32
	logoutToken atomic.Value
}

func (f *fakeAuth) Login(_ context.Context, _ models.Credentials) (models.TokenPair, error) {
	n := f.loginCalls.Add(1)
	if f.onLogin != nil {
		f.onLogin(n)
	}
	if f.loginErr != nil {
		return models.TokenPair{}, f.loginErr
	}
	return models.TokenPair{
		AccessToken:  fmt.Sprintf("access-%d", n),
		RefreshToken: fmt.Sprintf("refresh-%d", n),
	}, nil
}

func (f *fakeAuth) Me(context.Context) (*models.User, error) {
	f.meCalls.Add(1)
	if f.onMe != nil {
		f.onMe()
	}
	if f.meErr != nil {
		return nil, f.meErr
	}
	u := f.user
	return &u, nil
}

func (f *fakeAuth) Logout(_ context.Context, refreshToken string) error {
	f.logoutCalls.Add(1)
	f.logoutToken.Store(refreshToken)
	if f.onLogout != nil {
		f.onLogout()
	}
	return f.logoutErr
}

type memTokens struct {
	mu   sync.Mutex
	pair models.TokenPair
}

func (m *memTokens) AccessToken(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pair.AccessToken, nil
}

func (m *memTokens) RefreshToken(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pair.RefreshToken, nil
}

func (m *memTokens) SavePair(_ context.Context, p models.TokenPair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair = p
	return nil
}

func (m *memTokens) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair = models.TokenPair{}
	return nil
}

func (m *memTokens) get() models.TokenPair {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pair
}

type fakeProjectAPI struct {
	mu        sync.Mutex
	list      []models.Project
	listErr   error
	createErr error
	updateErr error
	// block, when set, is waited on by List before answering.
	block chan struct{}

	listCalls   atomic.Int32
	createCalls atomic.Int32
	updateCalls atomic.Int32
}

func (f *fakeProjectAPI) List(ctx context.Context) ([]models.Project, error) {
	f.listCalls.Add(1)
	f.mu.Lock()
	block := f.block
	list, err := f.list, f.listErr
	f.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	out := make([]models.Project, len(list))
	copy(out, list)
	return out, nil
}

func (f *fakeProjectAPI) Create(_ context.Context, in models.ProjectInput) (*models.Project, error) {
	n := f.createCalls.Add(1)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Project{ID: fmt.Sprintf("new-%d", n), Name: in.Name, Timezone: in.Timezone}, nil
}

func (f *fakeProjectAPI) Update(_ context.Context, id string, patch models.ProjectPatch) (*models.Project, error) {
	f.updateCalls.Add(1)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	p := models.Project{ID: id}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	return &p, nil
}

type memWorkspace struct {
	mu      sync.Mutex
	ws      models.Workspace
	saved   int
	loadErr error
	saveErr error
	// gate, when set, holds the next Save until closed; started is closed
	// once that Save is waiting.
	gate    chan struct{}
	started chan struct{}
	cleared int
}

func (m *memWorkspace) Load(context.Context) (models.Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ws, m.loadErr
}

func (m *memWorkspace) Save(_ context.Context, ws models.Workspace) error {
	m.mu.Lock()
	gate, started := m.gate, m.started
	m.gate = nil
	m.mu.Unlock()
	if gate != nil {
		close(started)
		<-gate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.ws = ws
	m.saved++
	return nil
}

func (m *memWorkspace) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ws = models.Workspace{}
	m.cleared++
	return nil
}

func (m *memWorkspace) get() models.Workspace {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ws
}

type notification struct {
	level Level
	msg   string
}

type recordingNotifier struct {
	mu   sync.Mutex
	seen []notification
}

func (r *recordingNotifier) Notify(_ context.Context, level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, notification{level: level, msg: msg})
}

func (r *recordingNotifier) all() []notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notification(nil), r.seen...)
}
