package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/salesdesk/internal/client/client"
	"github.com/dmitrijs2005/salesdesk/internal/client/models"
	"github.com/dmitrijs2005/salesdesk/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	p1 = models.Project{ID: "p1", Name: "Shop"}
	p2 = models.Project{ID: "p2", Name: "Cafe"}
	p3 = models.Project{ID: "p3", Name: "Bakery"}
)

func newProjectStore(t *testing.T, api *fakeProjectAPI, ws *memWorkspace) (*ProjectStore, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	return NewProjectStore(context.Background(), api, ws, logging.Discard(), n), n
}

func TestLoadProjects_AutoSelectsFirst(t *testing.T) {
	api := &fakeProjectAPI{list: []models.Project{p1, p2}}
	ws := &memWorkspace{}
	s, _ := newProjectStore(t, api, ws)

	require.NoError(t, s.LoadProjects(context.Background()))

	assert.Equal(t, []models.Project{p1, p2}, s.Projects())
	require.NotNil(t, s.Current())
	assert.Equal(t, p1, *s.Current())
	assert.Equal(t, "p1", ws.get().CurrentProject.ID)
}

func TestLoadProjects_KeepsPersistedSelection(t *testing.T) {
	api := &fakeProjectAPI{list: []models.Project{p1, p2}}
	ws := &memWorkspace{ws: models.Workspace{Projects: []models.Project{p2}, CurrentProject: &p2}}
	s, _ := newProjectStore(t, api, ws)

	require.NoError(t, s.LoadProjects(context.Background()))
	assert.Equal(t, "p2", s.Current().ID)
}

func TestLoadProjects_EmptyListLeavesCurrentNil(t *testing.T) {
	api := &fakeProjectAPI{list: []models.Project{}}
	s, n := newProjectStore(t, api, &memWorkspace{})

	require.NoError(t, s.LoadProjects(context.Background()))
	assert.Nil(t, s.Current())
	assert.Empty(t, s.Projects())
	assert.Empty(t, n.all())
}

func TestLoadProjects_FailureLeavesStateAndNotifies(t *testing.T) {
	api := &fakeProjectAPI{listErr: &client.APIError{Status: http.StatusInternalServerError, Message: "db down"}}
	ws := &memWorkspace{ws: models.Workspace{Projects: []models.Project{p1, p2}, CurrentProject: &p2}}
	s, n := newProjectStore(t, api, ws)

	err := s.LoadProjects(context.Background())
	require.Error(t, err)

	assert.Equal(t, []models.Project{p1, p2}, s.Projects())
	assert.Equal(t, "p2", s.Current().ID)
	require.Len(t, n.all(), 1)
	assert.Equal(t, LevelError, n.all()[0].level)
	assert.Contains(t, n.all()[0].msg, "db down")
	assert.Zero(t, ws.saved)
}

func TestLoadProjects_SupersededLoadIsDropped(t *testing.T) {
	gate := make(chan struct{})
	api := &fakeProjectAPI{list: []models.Project{p1}, block: gate}
	s, _ := newProjectStore(t, api, &memWorkspace{})

	done := make(chan error, 1)
	go func() { done <- s.LoadProjects(context.Background()) }()
	require.Eventually(t, func() bool { return api.listCalls.Load() == 1 }, time.Second, 5*time.Millisecond)

	// A newer load answers first with a different list.
	api.mu.Lock()
	api.block = nil
	api.list = []models.Project{p2, p3}
	api.mu.Unlock()
	require.NoError(t, s.LoadProjects(context.Background()))

	close(gate)
	require.NoError(t, <-done)

	assert.Equal(t, []models.Project{p2, p3}, s.Projects())
	assert.Equal(t, "p2", s.Current().ID)
}

func TestSetCurrentProject_NoValidation(t *testing.T) {
	api := &fakeProjectAPI{}
	ws := &memWorkspace{}
	s, _ := newProjectStore(t, api, ws)

	other := models.Project{ID: "elsewhere", Name: "Not in list"}
	s.SetCurrentProject(context.Background(), &other)

	assert.Equal(t, "elsewhere", s.Current().ID)
	assert.Equal(t, "elsewhere", ws.get().CurrentProject.ID)
	assert.Zero(t, api.listCalls.Load())

	s.SetCurrentProject(context.Background(), nil)
	assert.Nil(t, s.Current())
}

func TestCreateProject_SwitchesContext(t *testing.T) {
	api := &fakeProjectAPI{}
	ws := &memWorkspace{ws: models.Workspace{Projects: []models.Project{p1, p2}, CurrentProject: &p1}}
	s, _ := newProjectStore(t, api, ws)

	res := s.CreateProject(context.Background(), models.ProjectInput{Name: "New"})
	require.True(t, res.Success, res.Error)
	require.NotNil(t, res.Project)

	assert.Equal(t, res.Project.ID, s.Current().ID)
	assert.Equal(t, "New", s.Current().Name)
	list := s.Projects()
	require.Len(t, list, 3)
	assert.Equal(t, "New", list[2].Name)
	assert.Equal(t, res.Project.ID, ws.get().CurrentProject.ID)
}

func TestCreateProject_FailureDoesNotMutate(t *testing.T) {
	api := &fakeProjectAPI{createErr: &client.APIError{Status: http.StatusPaymentRequired, Message: "Project limit reached"}}
	ws := &memWorkspace{ws: models.Workspace{Projects: []models.Project{p1}, CurrentProject: &p1}}
	s, _ := newProjectStore(t, api, ws)

	res := s.CreateProject(context.Background(), models.ProjectInput{Name: "New"})
	assert.False(t, res.Success)
	assert.Equal(t, "Project limit reached", res.Error)
	assert.Equal(t, []models.Project{p1}, s.Projects())
	assert.Equal(t, "p1", s.Current().ID)
	assert.Zero(t, ws.saved)
}

func TestCreateProject_ValidatesBeforeNetwork(t *testing.T) {
	tests := []struct {
		name string
		in   models.ProjectInput
		want string
	}{
		{"missing name", models.ProjectInput{}, "name is required"},
		{"bad timezone", models.ProjectInput{Name: "x", Timezone: "Mars/Olympus"}, "timezone must be a valid time zone, e.g. Europe/Riga"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeProjectAPI{}
			s, _ := newProjectStore(t, api, &memWorkspace{})

			res := s.CreateProject(context.Background(), tt.in)
			assert.False(t, res.Success)
			assert.Equal(t, tt.want, res.Error)
			assert.Zero(t, api.createCalls.Load())
		})
	}
}

func TestUpdateProject_PreservesOrderAndCurrency(t *testing.T) {
	api := &fakeProjectAPI{}
	ws := &memWorkspace{ws: models.Workspace{Projects: []models.Project{p1, p2, p3}, CurrentProject: &p2}}
	s, _ := newProjectStore(t, api, ws)

	name := "X"
	res := s.UpdateProject(context.Background(), "p2", models.ProjectPatch{Name: &name})
	require.True(t, res.Success, res.Error)

	list := s.Projects()
	require.Len(t, list, 3)
	assert.Equal(t, []string{"p1", "p2", "p3"}, []string{list[0].ID, list[1].ID, list[2].ID})
	assert.Equal(t, "X", list[1].Name)
	assert.Equal(t, "X", s.Current().Name)
	assert.Equal(t, "X", ws.get().CurrentProject.Name)
}

func TestUpdateProject_OtherProjectKeepsCurrent(t *testing.T) {
	api := &fakeProjectAPI{}
	ws := &memWorkspace{ws: models.Workspace{Projects: []models.Project{p1, p2}, CurrentProject: &p1}}
	s, _ := newProjectStore(t, api, ws)

	name := "Renamed"
	require.True(t, s.UpdateProject(context.Background(), "p2", models.ProjectPatch{Name: &name}).Success)
	assert.Equal(t, p1, *s.Current())
	assert.Equal(t, "Renamed", s.Projects()[1].Name)
}

func TestUpdateProject_Failure(t *testing.T) {
	api := &fakeProjectAPI{updateErr: errors.New("boom")}
	ws := &memWorkspace{ws: models.Workspace{Projects: []models.Project{p1}, CurrentProject: &p1}}
	s, _ := newProjectStore(t, api, ws)

	name := "X"
	res := s.UpdateProject(context.Background(), "p1", models.ProjectPatch{Name: &name})
	assert.False(t, res.Success)
	assert.Equal(t, client.GenericErrorMessage, res.Error)
	assert.Equal(t, "Shop", s.Current().Name)

	empty := ""
	res = s.UpdateProject(context.Background(), "p1", models.ProjectPatch{Name: &empty})
	assert.False(t, res.Success)
	assert.Equal(t, "name must not be empty", res.Error)
	assert.EqualValues(t, 1, api.updateCalls.Load())
}

func TestNewProjectStore_RestoresWorkspace(t *testing.T) {
	ws := &memWorkspace{ws: models.Workspace{Projects: []models.Project{p1, p2}, CurrentProject: &p2}}
	api := &fakeProjectAPI{}
	s, _ := newProjectStore(t, api, ws)

	assert.Equal(t, []models.Project{p1, p2}, s.Projects())
	assert.Equal(t, "p2", s.Current().ID)
	assert.Zero(t, api.listCalls.Load())
}

func TestNewProjectStore_UnreadableWorkspaceStartsEmpty(t *testing.T) {
	ws := &memWorkspace{loadErr: errors.New("decode workspace: bad json")}
	s, _ := newProjectStore(t, &fakeProjectAPI{}, ws)

	assert.Empty(t, s.Projects())
	assert.Nil(t, s.Current())
}

func TestReset(t *testing.T) {
	ws := &memWorkspace{ws: models.Workspace{Projects: []models.Project{p1}, CurrentProject: &p1}}
	s, _ := newProjectStore(t, &fakeProjectAPI{}, ws)

	require.NoError(t, s.Reset(context.Background()))
	assert.Empty(t, s.Projects())
	assert.Nil(t, s.Current())
	assert.Nil(t, ws.get().CurrentProject)
}

func TestCurrent_ReturnsCopy(t *testing.T) {
	ws := &memWorkspace{ws: models.Workspace{Projects: []models.Project{p1}, CurrentProject: &p1}}
	s, _ := newProjectStore(t, &fakeProjectAPI{}, ws)

	c := s.Current()
	c.Name = "mutated"
	assert.Equal(t, "Shop", s.Current().Name)
}

func TestPersist_OverlappingChangesLeaveLatestOnDisk(t *testing.T) {
	ctx := context.Background()
	gate, started := make(chan struct{}), make(chan struct{})
	api := &fakeProjectAPI{list: []models.Project{p1, p2}}
	ws := &memWorkspace{gate: gate, started: started}
	s, _ := newProjectStore(t, api, ws)

	loaded := make(chan error, 1)
	go func() { loaded <- s.LoadProjects(ctx) }()
	<-started

	// The user picks another project while the load is still saving.
	s.SetCurrentProject(ctx, &p2)
	close(gate)
	require.NoError(t, <-loaded)

	assert.Equal(t, "p2", s.Current().ID)
	require.NotNil(t, ws.get().CurrentProject)
	assert.Equal(t, "p2", ws.get().CurrentProject.ID)
}

func TestPersist_ResetDuringSaveClearsDisk(t *testing.T) {
	ctx := context.Background()
	gate, started := make(chan struct{}), make(chan struct{})
	ws := &memWorkspace{gate: gate, started: started}
	s, _ := newProjectStore(t, &fakeProjectAPI{list: []models.Project{p1}}, ws)

	loaded := make(chan error, 1)
	go func() { loaded <- s.LoadProjects(ctx) }()
	<-started

	require.NoError(t, s.Reset(ctx))
	close(gate)
	require.NoError(t, <-loaded)

	assert.Equal(t, models.Workspace{}, ws.get())
	assert.Nil(t, s.Current())
}

func TestBindUser(t *testing.T) {
	a1 := models.Project{ID: "a1", Name: "Alice shop"}

	t.Run("other account is dropped", func(t *testing.T) {
		ws := &memWorkspace{ws: models.Workspace{Owner: "alice", Projects: []models.Project{a1}, CurrentProject: &a1}}
		s, _ := newProjectStore(t, &fakeProjectAPI{}, ws)

		s.BindUser(context.Background(), "bob")

		assert.Nil(t, s.Current())
		assert.Empty(t, s.Projects())
		assert.Equal(t, models.Workspace{Owner: "bob", Projects: []models.Project{}}, normalize(ws.get()))
	})

	t.Run("same account keeps selection", func(t *testing.T) {
		ws := &memWorkspace{ws: models.Workspace{Owner: "alice", Projects: []models.Project{a1}, CurrentProject: &a1}}
		s, _ := newProjectStore(t, &fakeProjectAPI{}, ws)

		s.BindUser(context.Background(), "alice")

		require.NotNil(t, s.Current())
		assert.Equal(t, "a1", s.Current().ID)
		assert.Zero(t, ws.saved)
	})

	t.Run("unowned workspace is adopted", func(t *testing.T) {
		ws := &memWorkspace{ws: models.Workspace{Projects: []models.Project{p1}, CurrentProject: &p1}}
		s, _ := newProjectStore(t, &fakeProjectAPI{}, ws)

		s.BindUser(context.Background(), "alice")

		assert.Equal(t, "p1", s.Current().ID)
		assert.Equal(t, "alice", ws.get().Owner)
	})
}

func normalize(ws models.Workspace) models.Workspace {
	if ws.Projects == nil {
		ws.Projects = []models.Project{}
	}
	return ws
}
