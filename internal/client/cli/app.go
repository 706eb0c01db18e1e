package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/protodesk/internal/client/client"
	"github.com/dmitrijs2005/protodesk/internal/client/config"
	"github.com/dmitrijs2005/protodesk/internal/client/events"
	"github.com/dmitrijs2005/protodesk/internal/client/listing"
	"github.com/dmitrijs2005/protodesk/internal/client/models"
	"github.com/dmitrijs2005/protodesk/internal/client/permissions"
	"github.com/dmitrijs2005/protodesk/internal/client/repositories/drafts"
	"github.com/dmitrijs2005/protodesk/internal/client/services"
	"github.com/dmitrijs2005/protodesk/internal/client/workflow"
	"github.com/dmitrijs2005/protodesk/internal/logging"
	"github.com/dmitrijs2005/protodesk/internal/netx"
)

type identityService interface {
	Current(ctx context.Context) (models.Identity, error)
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (models.User, error)
}

type dashboardService interface {
	Stats(ctx context.Context, year int) (models.Stats, error)
}

type lookupService interface {
	Departments(ctx context.Context, query string) ([]models.Department, error)
	Students(ctx context.Context, query string) ([]models.User, error)
	Supervisors(ctx context.Context, query string) ([]models.User, error)
	StorageLocations(ctx context.Context, query string) ([]string, error)
}

type adminService interface {
	Accounts(ctx context.Context, query string) ([]models.Account, error)
	Pending(ctx context.Context) ([]models.Account, error)
	Approve(ctx context.Context, id int64) (string, error)
	CreateAccount(ctx context.Context, acc models.NewAccount) (models.Account, error)
	CreateDepartment(ctx context.Context, dep models.NewDepartment) (models.Department, error)
}

type exportService interface {
	Export(ctx context.Context, who models.Identity, format client.ExportFormat) (string, error)
	Upload(ctx context.Context, path string) (string, error)
	SavePage(ctx context.Context, records []models.Prototype, path string) error
}

type App struct {
	config *config.Config
	logger logging.Logger
	reader *bufio.Reader
	out    io.Writer

	closers []io.Closer

	authService services.AuthService
	identity    identityService
	dashboard   dashboardService
	lookups     lookupService
	exports     exportService
	admin       adminService
	drafts      drafts.Repository

	download func(ctx context.Context, url string) ([]byte, error)

	fetcher listing.Fetcher
	gateway workflow.Gateway
	panel   *permissions.Panel
	modal   *workflow.Modal
	list    *listing.Controller

	who      models.Identity
	loggedIn bool
}

// NewApp opens the local store, builds the API client and wires the
// services. The returned App owns those resources until Run returns.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	repos, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	table, err := loadTable(c.PolicyFile)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	api := client.NewHTTPClient(c.APIBaseURL, c.RequestTimeout, logger)
	pub := newPublisher(ctx, c, logger)

	s3cfg := services.S3Config{
		Bucket:    c.S3.Bucket,
		Region:    c.S3.Region,
		Endpoint:  c.S3.Endpoint,
		AccessKey: c.S3.AccessKey,
		SecretKey: c.S3.SecretKey,
	}

	a := &App{
		config:      c,
		logger:      logger,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		closers:     []io.Closer{pub, api, repos},
		authService: services.NewAuthService(api, repos.DB, []byte(c.SessionSecret), logger),
		identity:    services.NewIdentityService(api, logger),
		dashboard:   services.NewDashboardService(api, logger),
		lookups:     services.NewLookupService(api),
		exports:     services.NewExportService(api, c.ExportDir, s3cfg, logger),
		admin:       services.NewAdminService(api, logger),
		drafts:      repos.Drafts,
		fetcher:     api,
		gateway:     api,
		panel:       permissions.NewPanel(table),
	}
	files := &http.Client{Timeout: c.RequestTimeout}
	a.download = func(ctx context.Context, url string) ([]byte, error) {
		return netx.Download(ctx, files, url, api.Token())
	}
	a.modal = workflow.NewModal(api, workflow.Options{
		Drafts:    repos.Drafts,
		Events:    pub,
		Logger:    logger,
		OnSuccess: a.onWorkflowSuccess,
	})
	return a, nil
}

func loadTable(path string) (permissions.Table, error) {
	if path == "" {
		return permissions.DefaultTable(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading policy file: %w", err)
	}
	t, err := permissions.LoadPolicy(string(b))
	if err != nil {
		return nil, fmt.Errorf("error loading policy %s: %w", path, err)
	}
	return t, nil
}

// newPublisher connects to NATS when configured. Events are best effort, so
// a failed connection only disables them.
func newPublisher(ctx context.Context, c *config.Config, logger logging.Logger) events.Publisher {
	if c.NATSURL == "" {
		return events.Noop{}
	}
	p, err := events.NewNATSPublisher(c.NATSURL, c.NATSSubject, logger)
	if err != nil {
		logger.Warn(ctx, "workflow events disabled", "url", c.NATSURL, "error", err.Error())
		return events.Noop{}
	}
	return p
}

// Run restores a saved session if there is one and serves the REPL until
// the user exits or stdin is closed.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn("Welcome to protodesk (type 'help' for commands)")
	a.restoreSession(ctx)
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() {
	if a.list != nil {
		a.list.Close()
	}
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn(context.Background(), "error closing resource", "error", err.Error())
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.loggedIn
}

func (a *App) getStatus() string {
	if !a.loggedIn {
		return ""
	}
	name := a.who.User.Username
	if name == "" {
		name = a.who.User.Email
	}
	if name == "" {
		name = "anonymous"
	}
	return fmt.Sprintf("(%s %s)", name, a.who.Role())
}

func (a *App) restoreSession(ctx context.Context) {
	err := a.authService.Restore(ctx)
	switch {
	case err == nil:
		a.startSession(ctx)
		fmt.Fprintf(a.out, "Welcome back, %s.\n", a.who.User.DisplayName())
	case errors.Is(err, services.ErrNoSession):
	case errors.Is(err, services.ErrSessionExpired):
		fmt.Fprintln(a.out, "Your session has expired, please log in again.")
	default:
		a.logger.Warn(ctx, "could not restore session", "error", err.Error())
	}
}

// startSession resolves the identity and builds a list controller scoped to
// it. An unresolved identity keeps the session but makes it role-less.
func (a *App) startSession(ctx context.Context) {
	who, err := a.identity.Current(ctx)
	if err != nil {
		a.logger.Warn(ctx, "profile unavailable, continuing without a role", "error", err.Error())
		fmt.Fprintln(a.out, "Could not load your profile; continuing with view-only access.")
	}

	a.who = who
	a.loggedIn = true

	if a.list != nil {
		a.list.Close()
	}
	a.list = listing.NewController(ctx, a.fetcher, a.logger, listing.ViewerFor(who), a.config.PageSize)
	a.list.Refetch()
}

// setIdentity swaps in a freshly resolved identity. The list is rescoped
// only when the viewer actually changed.
func (a *App) setIdentity(who models.Identity) {
	a.who = who
	if a.list == nil {
		return
	}
	if v := listing.ViewerFor(who); v != a.list.State().Viewer {
		a.list.SetViewer(v)
	}
}

func (a *App) endSession() {
	if a.list != nil {
		a.list.Close()
		a.list = nil
	}
	a.modal.Close()
	a.who = models.Identity{}
	a.loggedIn = false
}

// onWorkflowSuccess refreshes the list after a completed workflow.
func (a *App) onWorkflowSuccess(kind workflow.Kind, id int64) {
	a.logger.Info(context.Background(), "workflow completed", "kind", kind.String(), "id", id)
	if a.list != nil {
		a.list.Refetch()
	}
}
