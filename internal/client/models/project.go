package models

import "time"

// Project is a tenant-scoped workspace. Only ID and Name carry meaning on
// the client; the rest is displayed as received.
type Project struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Timezone    string     `json:"timezone,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// ProjectInput is the body of POST /projects.
type ProjectInput struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=2000"`
	Timezone    string `json:"timezone" validate:"omitempty,timezone"`
}

// ProjectPatch is the body of PATCH /projects/{id}. Nil fields are left
// untouched by the server.
type ProjectPatch struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Timezone    *string `json:"timezone,omitempty" validate:"omitempty,timezone"`
}

// Workspace is the persisted project selection. It is stored under its own
// key and survives logout unless explicitly reset.
type Workspace struct {
	// Owner is the id of the user the workspace belongs to.
	Owner          string    `json:"owner,omitempty"`
	Projects       []Project `json:"projects"`
	CurrentProject *Project  `json:"current_project"`
}

// CreateProjectResult reports the outcome of ProjectStore.CreateProject.
type CreateProjectResult struct {
	Success bool
	Project *Project
	Error   string
}

// UpdateProjectResult reports the outcome of ProjectStore.UpdateProject.
type UpdateProjectResult struct {
	Success bool
	Error   string
}
