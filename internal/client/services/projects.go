package services

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/salesdesk/internal/client/client"
	"github.com/dmitrijs2005/salesdesk/internal/client/models"
	"github.com/dmitrijs2005/salesdesk/internal/logging"
)

// ProjectStore holds the project list and the current project. Both are
// persisted through the workspace repository after every change and
// restored, without network, when the store is built.
type ProjectStore struct {
	api      ProjectAPI
	ws       WorkspaceRepository
	log      logging.Logger
	notifier Notifier
	validate inputValidator

	mu       sync.RWMutex
	projects []models.Project
	current  *models.Project
	owner    string
	// loads counts issued LoadProjects calls; only the latest may apply.
	loads uint64

	// One writer at a time saves the latest state; changes made while it
	// is saving mark the workspace dirty and are picked up by its next pass.
	saveMu sync.Mutex
	saving bool
	dirty  bool
}

// NewProjectStore builds the store and restores the persisted workspace.
// A missing or unreadable workspace starts empty.
func NewProjectStore(ctx context.Context, api ProjectAPI, ws WorkspaceRepository, log logging.Logger, notifier Notifier) *ProjectStore {
	s := &ProjectStore{api: api, ws: ws, log: log, notifier: notifier}

	saved, err := ws.Load(ctx)
	if err != nil {
		log.Warn(ctx, "failed to restore workspace", "error", err)
		return s
	}
	s.projects = saved.Projects
	s.current = saved.CurrentProject
	s.owner = saved.Owner
	return s
}

// Projects returns a copy of the project list.
func (s *ProjectStore) Projects() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.projects)
}

// Current returns a copy of the current project, or nil.
func (s *ProjectStore) Current() *models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProject(s.current)
}

// LoadProjects replaces the list with the server's and selects the first
// project when none is current. On failure the user is notified and the
// state is left as it was. A load overtaken by a newer one is dropped.
func (s *ProjectStore) LoadProjects(ctx context.Context) error {
	s.mu.Lock()
	s.loads++
	seq := s.loads
	s.mu.Unlock()

	list, err := s.api.List(ctx)
	if err != nil {
		s.log.Error(ctx, "failed to load projects", "error", err)
		s.notifier.Notify(ctx, LevelError, "Failed to load projects: "+client.UserMessage(err))
		return err
	}
	if list == nil {
		list = []models.Project{}
	}

	s.mu.Lock()
	if seq != s.loads {
		s.mu.Unlock()
		s.log.Debug(ctx, "dropping superseded project list")
		return nil
	}
	s.projects = list
	if s.current == nil && len(list) > 0 {
		s.current = cloneProject(&list[0])
	}
	s.mu.Unlock()

	_ = s.persist(ctx)
	return nil
}

// SetCurrentProject replaces the current project. p is not checked against
// the list; nil clears the selection.
func (s *ProjectStore) SetCurrentProject(ctx context.Context, p *models.Project) {
	s.mu.Lock()
	s.current = cloneProject(p)
	s.mu.Unlock()

	_ = s.persist(ctx)
}

// CreateProject creates a project, appends it and makes it current.
func (s *ProjectStore) CreateProject(ctx context.Context, in models.ProjectInput) models.CreateProjectResult {
	if err := s.validate.Struct(in); err != nil {
		return models.CreateProjectResult{Error: err.Error()}
	}

	created, err := s.api.Create(ctx, in)
	if err != nil {
		s.log.Warn(ctx, "failed to create project", "error", err)
		return models.CreateProjectResult{Error: client.UserMessage(err)}
	}

	s.mu.Lock()
	s.projects = append(s.projects, *created)
	s.current = cloneProject(created)
	s.mu.Unlock()

	_ = s.persist(ctx)
	return models.CreateProjectResult{Success: true, Project: cloneProject(created)}
}

// UpdateProject patches a project and replaces it in place. When it is the
// current project, the current one is replaced too.
func (s *ProjectStore) UpdateProject(ctx context.Context, id string, patch models.ProjectPatch) models.UpdateProjectResult {
	if err := s.validate.Struct(patch); err != nil {
		return models.UpdateProjectResult{Error: err.Error()}
	}

	updated, err := s.api.Update(ctx, id, patch)
	if err != nil {
		s.log.Warn(ctx, "failed to update project", "project_id", id, "error", err)
		return models.UpdateProjectResult{Error: client.UserMessage(err)}
	}

	s.mu.Lock()
	if i := slices.IndexFunc(s.projects, func(p models.Project) bool { return p.ID == id }); i >= 0 {
		s.projects[i] = *updated
	}
	if s.current != nil && s.current.ID == id {
		s.current = cloneProject(updated)
	}
	s.mu.Unlock()

	_ = s.persist(ctx)
	return models.UpdateProjectResult{Success: true}
}

// BindUser ties the workspace to the signed-in user. A workspace left by
// another account is dropped, so its projects never show up in this
// session. An unowned workspace is adopted as is.
func (s *ProjectStore) BindUser(ctx context.Context, userID string) {
	s.mu.Lock()
	if s.owner == userID {
		s.mu.Unlock()
		return
	}
	if s.owner != "" {
		s.projects = nil
		s.current = nil
		s.loads++
		s.log.Info(ctx, "dropping workspace of another account")
	}
	s.owner = userID
	s.mu.Unlock()

	_ = s.persist(ctx)
}

// Reset drops the list, the selection and the owner, in memory and on disk.
func (s *ProjectStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.projects = nil
	s.current = nil
	s.owner = ""
	s.loads++
	s.mu.Unlock()

	return s.persist(ctx)
}

func (s *ProjectStore) snapshot() models.Workspace {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Workspace{
		Owner:          s.owner,
		Projects:       slices.Clone(s.projects),
		CurrentProject: cloneProject(s.current),
	}
}

// persist writes the current state. When another call is already writing,
// it only marks the state dirty and that writer saves it next, so the last
// write always carries the latest state. An empty workspace is removed
// rather than stored.
//
// The returned error is that of the writes made by this call. Failures
// only cost the selection on the next start, so callers may ignore it.
func (s *ProjectStore) persist(ctx context.Context) error {
	s.saveMu.Lock()
	s.dirty = true
	if s.saving {
		s.saveMu.Unlock()
		return nil
	}
	s.saving = true

	var last error
	for s.dirty {
		s.dirty = false
		s.saveMu.Unlock()

		ws := s.snapshot()
		var err error
		if ws.Owner == "" && len(ws.Projects) == 0 && ws.CurrentProject == nil {
			err = s.ws.Clear(ctx)
		} else {
			err = s.ws.Save(ctx, ws)
		}
		if err != nil {
			s.log.Error(ctx, "failed to save workspace", "error", err)
		}
		last = err

		s.saveMu.Lock()
	}
	s.saving = false
	s.saveMu.Unlock()
	return last
}

func cloneProject(p *models.Project) *models.Project {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
