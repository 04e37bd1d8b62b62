package services

import (
	"context"

	"github.com/dmitrijs2005/salesdesk/internal/client/models"
)

// AuthAPI is the subset of the backend auth endpoints the session needs.
type AuthAPI interface {
	Login(ctx context.Context, creds models.Credentials) (models.TokenPair, error)
	Me(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context, refreshToken string) error
}

// TokenRepository is the durable token pair.
type TokenRepository interface {
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)
	SavePair(ctx context.Context, pair models.TokenPair) error
	Clear(ctx context.Context) error
}

type ProjectAPI interface {
	List(ctx context.Context) ([]models.Project, error)
	Create(ctx context.Context, in models.ProjectInput) (*models.Project, error)
	Update(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error)
}

// WorkspaceRepository persists the project list and selection.
type WorkspaceRepository interface {
	Load(ctx context.Context) (models.Workspace, error)
	Save(ctx context.Context, ws models.Workspace) error
	Clear(ctx context.Context) error
}

// ProjectLoader is what the session drives after authentication and on
// logout.
type ProjectLoader interface {
	BindUser(ctx context.Context, userID string)
	LoadProjects(ctx context.Context) error
	Reset(ctx context.Context) error
}
