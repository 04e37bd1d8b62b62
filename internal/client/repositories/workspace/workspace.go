// Package workspace persists the project list and the current project
// under a single metadata key, independent of the session tokens.
package workspace

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/salesdesk/internal/client/models"
	"github.com/dmitrijs2005/salesdesk/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/salesdesk/internal/common"
)

type Repository struct {
	kv metadata.Repository
}

func NewRepository(kv metadata.Repository) *Repository {
	return &Repository{kv: kv}
}

// Load returns the persisted workspace. An absent key yields an empty
// workspace and no error.
func (r *Repository) Load(ctx context.Context) (models.Workspace, error) {
	raw, err := r.kv.Get(ctx, common.WorkspaceKey)
	if err != nil {
		return models.Workspace{}, err
	}
	if len(raw) == 0 {
		return models.Workspace{}, nil
	}

	var ws models.Workspace
	if err := json.Unmarshal(raw, &ws); err != nil {
		return models.Workspace{}, fmt.Errorf("decode workspace: %w", err)
	}
	return ws, nil
}

func (r *Repository) Save(ctx context.Context, ws models.Workspace) error {
	if ws.Projects == nil {
		ws.Projects = []models.Project{}
	}
	raw, err := json.Marshal(ws)
	if err != nil {
		return fmt.Errorf("encode workspace: %w", err)
	}
	return r.kv.Set(ctx, common.WorkspaceKey, raw)
}

func (r *Repository) Clear(ctx context.Context) error {
	return r.kv.Delete(ctx, common.WorkspaceKey)
}
