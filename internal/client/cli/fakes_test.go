package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"sync"

	"github.com/dmitrijs2005/salesdesk/internal/client/models"
	"github.com/dmitrijs2005/salesdesk/internal/client/services"
)

type fakeSession struct {
	state     services.State
	user      *models.User
	loginRes  models.LoginResult
	logins    []string
	loggedOut bool
}

func (f *fakeSession) Initialize(context.Context) services.Session { return f.Snapshot() }

func (f *fakeSession) Login(_ context.Context, email, password string) models.LoginResult {
	f.logins = append(f.logins, email+":"+password)
	if f.loginRes.Success {
		f.state = services.StateAuthenticated
		f.user = &models.User{ID: "u1", Email: email}
	}
	return f.loginRes
}

func (f *fakeSession) Logout(context.Context) {
	f.loggedOut = true
	f.state = services.StateAnonymous
	f.user = nil
}

func (f *fakeSession) Snapshot() services.Session {
	return services.Session{State: f.state, User: f.user}
}

func (f *fakeSession) IsAuthenticated(context.Context) bool {
	return f.state == services.StateAuthenticated
}

type fakeProjects struct {
	list      []models.Project
	current   *models.Project
	loadErr   error
	createRes models.CreateProjectResult
	updateRes models.UpdateProjectResult

	created []models.ProjectInput
	patched map[string]models.ProjectPatch
	loads   int
}

func (f *fakeProjects) LoadProjects(context.Context) error {
	f.loads++
	return f.loadErr
}

func (f *fakeProjects) Projects() []models.Project { return f.list }
func (f *fakeProjects) Current() *models.Project   { return f.current }

func (f *fakeProjects) SetCurrentProject(_ context.Context, p *models.Project) {
	f.current = p
}

func (f *fakeProjects) CreateProject(_ context.Context, in models.ProjectInput) models.CreateProjectResult {
	f.created = append(f.created, in)
	return f.createRes
}

func (f *fakeProjects) UpdateProject(_ context.Context, id string, patch models.ProjectPatch) models.UpdateProjectResult {
	if f.patched == nil {
		f.patched = map[string]models.ProjectPatch{}
	}
	f.patched[id] = patch
	return f.updateRes
}

// stubRequester answers every call with reply (or err) and records paths.
type stubRequester struct {
	reply string
	err   error
	paths []string
	// onCall runs before answering.
	onCall func()
}

func (s *stubRequester) Request(_ context.Context, _ string, path string, _ any, _ url.Values, out any) error {
	s.paths = append(s.paths, path)
	if s.onCall != nil {
		s.onCall()
	}
	if s.err != nil {
		return s.err
	}
	if out != nil && s.reply != "" {
		return json.Unmarshal([]byte(s.reply), out)
	}
	return nil
}

// syncBuffer is a bytes.Buffer safe for the background notifier.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
