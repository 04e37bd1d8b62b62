package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/salesdesk/internal/client/models"
)

// ListProjects reloads and prints the projects, marking the current one.
func (a *App) ListProjects(ctx context.Context) error {
	if err := a.projects.LoadProjects(ctx); err != nil {
		// The store has already notified the user; show what we have.
		a.log.Debug(ctx, "showing cached projects", "error", err)
	}

	list := a.projects.Projects()
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No projects yet. Create one with 'newproject'.")
		return nil
	}

	current := a.currentProjectID()
	for i, p := range list {
		mark := " "
		if p.ID == current {
			mark = "*"
		}
		fmt.Fprintf(a.out, "%s %d. %s (%s)\n", mark, i+1, p.Name, p.ID)
	}
	return nil
}

// UseProject selects a project by its 1-based list position or its id.
func (a *App) UseProject(ctx context.Context, arg string) error {
	if arg == "" {
		fmt.Fprintln(a.out, "Usage: use <number|id>")
		return nil
	}

	list := a.projects.Projects()
	var picked *models.Project
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(list) {
		picked = &list[n-1]
	} else {
		for i := range list {
			if list[i].ID == arg {
				picked = &list[i]
				break
			}
		}
	}
	if picked == nil {
		fmt.Fprintf(a.out, "No project %q. Type 'projects' to list them.\n", arg)
		return nil
	}

	a.projects.SetCurrentProject(ctx, picked)
	fmt.Fprintf(a.out, "Switched to %s\n", picked.Name)
	return nil
}

// NewProject prompts for a name and time zone and creates the project.
func (a *App) NewProject(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Project name", a.out)
	if err != nil {
		return err
	}
	tz, err := getSimpleText(a.reader, "Time zone (blank for server default)", a.out)
	if err != nil {
		return err
	}

	res := a.projects.CreateProject(ctx, models.ProjectInput{Name: name, Timezone: tz})
	if !res.Success {
		fmt.Fprintln(a.out, "Could not create project: "+res.Error)
		return nil
	}
	fmt.Fprintf(a.out, "Created %s and switched to it\n", res.Project.Name)
	return nil
}

// RenameProject renames the current project.
func (a *App) RenameProject(ctx context.Context) error {
	current := a.projects.Current()
	if current == nil {
		fmt.Fprintln(a.out, "No project selected.")
		return nil
	}

	name, err := getSimpleText(a.reader, fmt.Sprintf("New name for %s", current.Name), a.out)
	if err != nil {
		return err
	}

	res := a.projects.UpdateProject(ctx, current.ID, models.ProjectPatch{Name: &name})
	if !res.Success {
		fmt.Fprintln(a.out, "Could not rename project: "+res.Error)
		return nil
	}
	fmt.Fprintln(a.out, "Renamed.")
	return nil
}
