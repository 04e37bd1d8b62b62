package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/salesdesk/internal/client/client"
	"github.com/dmitrijs2005/salesdesk/internal/client/config"
	"github.com/dmitrijs2005/salesdesk/internal/client/models"
	"github.com/dmitrijs2005/salesdesk/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/salesdesk/internal/client/repositories/tokens"
	"github.com/dmitrijs2005/salesdesk/internal/client/repositories/workspace"
	"github.com/dmitrijs2005/salesdesk/internal/client/services"
	"github.com/dmitrijs2005/salesdesk/internal/filex"
	"github.com/dmitrijs2005/salesdesk/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

// sessionAPI is the part of services.SessionStore the CLI drives.
type sessionAPI interface {
	Initialize(ctx context.Context) services.Session
	Login(ctx context.Context, email, password string) models.LoginResult
	Logout(ctx context.Context)
	Snapshot() services.Session
	IsAuthenticated(ctx context.Context) bool
}

// projectsAPI is the part of services.ProjectStore the CLI drives.
type projectsAPI interface {
	LoadProjects(ctx context.Context) error
	Projects() []models.Project
	Current() *models.Project
	SetCurrentProject(ctx context.Context, p *models.Project)
	CreateProject(ctx context.Context, in models.ProjectInput) models.CreateProjectResult
	UpdateProject(ctx context.Context, id string, patch models.ProjectPatch) models.UpdateProjectResult
}

// Resources bundles the project-scoped API groups.
type Resources struct {
	Orders        client.Orders
	Messages      client.Messages
	Integrations  client.Integrations
	Assistant     client.Assistant
	Reports       client.Reports
	Subscriptions client.Subscriptions
	Products      client.Products
	BotTraining   client.BotTraining
}

// NewResources builds every resource group on top of r.
func NewResources(r client.Requester) Resources {
	return Resources{
		Orders:        client.NewOrders(r),
		Messages:      client.NewMessages(r),
		Integrations:  client.NewIntegrations(r),
		Assistant:     client.NewAssistant(r),
		Reports:       client.NewReports(r),
		Subscriptions: client.NewSubscriptions(r),
		Products:      client.NewProducts(r),
		BotTraining:   client.NewBotTraining(r),
	}
}

type App struct {
	session  sessionAPI
	projects projectsAPI
	res      Resources
	scope    *services.ScopeTracker
	log      logging.Logger
	// metrics gathers the API client counters shown by "stats".
	metrics prometheus.Gatherer

	reader *bufio.Reader
	out    io.Writer

	// history is the assistant conversation for the current project.
	history        []client.ChatMessage
	historyProject string

	closers []func()
}

// NewApp wires configuration, local state, the API client and the stores.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log, err := logging.New(c.LogBackend, c.LogLevel, os.Stderr)
	if err != nil {
		return nil, err
	}

	statePath, err := filex.EnsureParentDir(c.StatePath)
	if err != nil {
		return nil, fmt.Errorf("prepare state dir: %w", err)
	}
	db, err := client.InitDatabase(ctx, statePath)
	if err != nil {
		return nil, fmt.Errorf("init state db: %w", err)
	}

	a, err := newAppWithDB(ctx, c, db, log, os.Stdin, os.Stdout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	a.closers = append(a.closers, func() { _ = db.Close() })
	return a, nil
}

func newAppWithDB(ctx context.Context, c *config.Config, db *sql.DB, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	tokenRepo := tokens.NewSQLiteRepository(db)
	wsRepo := workspace.NewRepository(metadata.NewSQLiteRepository(db))
	notifier := printNotifier{w: out}
	reg := prometheus.NewRegistry()

	hc, err := client.NewHTTPClient(c.BaseURL, tokenRepo,
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(log.With("component", "api")),
		client.WithRegisterer(reg),
	)
	if err != nil {
		return nil, err
	}

	projects := services.NewProjectStore(ctx, client.NewProjects(hc), wsRepo, log.With("component", "projects"), notifier)
	session := services.NewSessionStore(client.NewAuth(hc), tokenRepo, projects, log.With("component", "session"), notifier,
		services.WithClearWorkspaceOnLogout(c.ClearWorkspaceOnLogout),
	)
	hc.OnAuthExpired(session.HandleAuthExpired)

	a := newApp(session, projects, NewResources(hc), log, in, out)
	a.metrics = reg
	a.closers = append(a.closers, session.Close)
	return a, nil
}

func newApp(session sessionAPI, projects projectsAPI, res Resources, log logging.Logger, in io.Reader, out io.Writer) *App {
	a := &App{
		session:  session,
		projects: projects,
		res:      res,
		log:      log,
		reader:   bufio.NewReader(in),
		out:      out,
	}
	a.scope = services.NewScopeTracker(a.currentProjectID)
	return a
}

// Run restores the session and serves the REPL until the user exits or
// input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, "Welcome to SalesDesk CLI (type 'help' for commands)")
	if s := a.session.Initialize(ctx); s.State != services.StateAuthenticated {
		fmt.Fprintln(a.out, "You are not logged in. Type 'login' to sign in.")
	}

	runREPL(ctx, a, a.status, a.reader, a.out)
}

// Close waits for background work and releases local state.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().State == services.StateAuthenticated
}

func (a *App) currentProjectID() string {
	if p := a.projects.Current(); p != nil {
		return p.ID
	}
	return ""
}

// status is shown in the prompt: "(user | project)" or "(not logged in)".
func (a *App) status() string {
	s := a.session.Snapshot()
	if s.State != services.StateAuthenticated || s.User == nil {
		return "(not logged in)"
	}
	if p := a.projects.Current(); p != nil {
		return fmt.Sprintf("(%s | %s)", s.User.DisplayName(), p.Name)
	}
	return fmt.Sprintf("(%s)", s.User.DisplayName())
}

// printNotifier prints transient notifications inline.
type printNotifier struct {
	w io.Writer
}

func (n printNotifier) Notify(_ context.Context, level services.Level, msg string) {
	if level == services.LevelError {
		fmt.Fprintln(n.w, "! "+msg)
		return
	}
	fmt.Fprintln(n.w, msg)
}
