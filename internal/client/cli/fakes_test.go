package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/protodesk/internal/client/client"
	"github.com/dmitrijs2005/protodesk/internal/client/config"
	"github.com/dmitrijs2005/protodesk/internal/client/models"
	"github.com/dmitrijs2005/protodesk/internal/client/permissions"
	"github.com/dmitrijs2005/protodesk/internal/client/workflow"
	"github.com/dmitrijs2005/protodesk/internal/common"
	"github.com/dmitrijs2005/protodesk/internal/logging"
	"github.com/dmitrijs2005/protodesk/internal/validation"
	"github.com/stretchr/testify/require"
)

// ------------ helpers ------------

// readerFromLines feeds each line followed by a newline, so a trailing
// empty line is still read as an answer.
func readerFromLines(lines ...string) *bufio.Reader {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	return bufio.NewReader(strings.NewReader(sb.String()))
}

// pipedStdin makes GetPassword read from the app reader instead of the terminal.
func pipedStdin(t *testing.T) {
	t.Helper()
	orig := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = orig })
}

var (
	student = models.User{ID: 7, Username: "amina", Email: "amina@uni.test", Role: models.RoleStudent, Department: models.DepartmentRef{ID: 2, Name: "Energy"}}
	staff   = models.User{ID: 11, Username: "dr.k", Email: "k@uni.test", Role: models.RoleStaff, Department: models.DepartmentRef{ID: 2, Name: "Energy"}}
	admin   = models.User{ID: 1, Username: "root", Role: models.RoleAdmin}

	ownRecord = models.Prototype{
		ID:         1,
		Title:      "Solar dryer",
		Student:    models.UserRef{ID: 7, Username: "amina"},
		Department: models.DepartmentRef{ID: 2, Name: "Energy"},
		Status:     models.StatusNotReviewed,
	}
	otherRecord = models.Prototype{
		ID:              2,
		Title:           "Wind meter",
		Student:         models.UserRef{ID: 9, Username: "femi"},
		Department:      models.DepartmentRef{ID: 2, Name: "Energy"},
		Status:          models.StatusReviewed,
		StorageLocation: "Bay-3",
	}
)

type testDeps struct {
	out       *bytes.Buffer
	auth      *fakeAuth
	identity  *fakeIdentity
	dashboard *fakeDashboard
	lookups   *fakeLookups
	exports   *fakeExports
	admin     *fakeAdmin
	fetcher   *fakeFetcher
	gw        *fakeGateway
	drafts    *memDrafts
}

func newTestApp(lines ...string) (*App, *testDeps) {
	d := &testDeps{
		out:       new(bytes.Buffer),
		auth:      &fakeAuth{},
		identity:  &fakeIdentity{},
		dashboard: &fakeDashboard{},
		lookups:   &fakeLookups{},
		exports:   &fakeExports{},
		admin:     &fakeAdmin{},
		fetcher:   &fakeFetcher{records: []models.Prototype{ownRecord, otherRecord}},
		gw:        &fakeGateway{records: map[int64]models.Prototype{1: ownRecord, 2: otherRecord}},
		drafts:    newMemDrafts(),
	}

	a := &App{
		config:      &config.Config{PageSize: 10},
		logger:      logging.Discard(),
		reader:      readerFromLines(lines...),
		out:         d.out,
		authService: d.auth,
		identity:    d.identity,
		dashboard:   d.dashboard,
		lookups:     d.lookups,
		exports:     d.exports,
		admin:       d.admin,
		drafts:      d.drafts,
		fetcher:     d.fetcher,
		gateway:     d.gw,
		panel:       permissions.NewPanel(nil),
	}
	a.modal = workflow.NewModal(d.gw, workflow.Options{
		Drafts:    d.drafts,
		Logger:    logging.Discard(),
		OnSuccess: a.onWorkflowSuccess,
	})
	return a, d
}

func loginAs(t *testing.T, a *App, d *testDeps, u models.User) {
	t.Helper()
	d.identity.user = u
	a.startSession(context.Background())
	t.Cleanup(a.list.Close)
	require.NoError(t, a.list.Wait(context.Background()))
}

// ------------ services ------------

type fakeAuth struct {
	creds      models.Credentials
	loginErr   error
	restoreErr error
	loggedOut  bool
	pc         *models.PasswordChange
}

func (f *fakeAuth) Login(_ context.Context, creds models.Credentials) error {
	f.creds = creds
	return f.loginErr
}
func (f *fakeAuth) Restore(context.Context) error { return f.restoreErr }
func (f *fakeAuth) Logout(context.Context) error  { f.loggedOut = true; return nil }
func (f *fakeAuth) ChangePassword(_ context.Context, pc models.PasswordChange) error {
	f.pc = &pc
	return nil
}

type fakeIdentity struct {
	user       models.User
	err        error
	lastUpdate *models.ProfileUpdate
}

func (f *fakeIdentity) Current(context.Context) (models.Identity, error) {
	if f.err != nil {
		return models.Identity{}, f.err
	}
	return models.Identity{User: f.user, Resolved: true}, nil
}

func (f *fakeIdentity) UpdateProfile(_ context.Context, upd models.ProfileUpdate) (models.User, error) {
	f.lastUpdate = &upd
	u := f.user
	if upd.Phone != "" {
		u.Phone = upd.Phone
	}
	if upd.Email != "" {
		u.Email = upd.Email
	}
	return u, nil
}

type fakeDashboard struct {
	stats models.Stats
	err   error
}

func (f *fakeDashboard) Stats(_ context.Context, year int) (models.Stats, error) {
	st := f.stats
	st.Year = year
	if st.Monthly == nil {
		st.Monthly = models.MonthlySubmissions{}.Series()
	}
	return st, f.err
}

type fakeLookups struct {
	departments []models.Department
	users       []models.User
	locations   []string
	lastQuery   string
}

func (f *fakeLookups) Departments(_ context.Context, q string) ([]models.Department, error) {
	f.lastQuery = q
	return f.departments, nil
}
func (f *fakeLookups) Students(_ context.Context, q string) ([]models.User, error) {
	f.lastQuery = q
	return f.users, nil
}
func (f *fakeLookups) Supervisors(_ context.Context, q string) ([]models.User, error) {
	f.lastQuery = q
	return f.users, nil
}
func (f *fakeLookups) StorageLocations(_ context.Context, q string) ([]string, error) {
	f.lastQuery = q
	return f.locations, nil
}

type fakeExports struct {
	path      string
	exportErr error
	key       string
	uploadErr error
	uploaded  string
	saved     []models.Prototype
	savedTo   string
}

func (f *fakeExports) Export(context.Context, models.Identity, client.ExportFormat) (string, error) {
	return f.path, f.exportErr
}
func (f *fakeExports) Upload(_ context.Context, path string) (string, error) {
	f.uploaded = path
	return f.key, f.uploadErr
}
func (f *fakeExports) SavePage(_ context.Context, records []models.Prototype, path string) error {
	f.saved, f.savedTo = records, path
	return nil
}

// ------------ api ------------

type fakeAdmin struct {
	accounts   []models.Account
	calls      int
	lastQuery  string
	approved   []int64
	approveErr error
	created    []models.NewAccount
	depts      []models.NewDepartment
}

func (f *fakeAdmin) Accounts(_ context.Context, query string) ([]models.Account, error) {
	f.calls++
	f.lastQuery = query
	return f.accounts, nil
}

func (f *fakeAdmin) Pending(context.Context) ([]models.Account, error) {
	f.calls++
	var out []models.Account
	for _, a := range f.accounts {
		if a.Pending() {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAdmin) Approve(_ context.Context, id int64) (string, error) {
	f.calls++
	if f.approveErr != nil {
		return "", f.approveErr
	}
	f.approved = append(f.approved, id)
	return fmt.Sprintf("User #%d approved.", id), nil
}

func (f *fakeAdmin) CreateAccount(_ context.Context, acc models.NewAccount) (models.Account, error) {
	f.calls++
	if err := validation.Struct(acc); err != nil {
		return models.Account{}, err
	}
	f.created = append(f.created, acc)
	return models.Account{ID: 40, Username: acc.Username, Role: acc.Role}, nil
}

func (f *fakeAdmin) CreateDepartment(_ context.Context, dep models.NewDepartment) (models.Department, error) {
	f.calls++
	if err := validation.Struct(dep); err != nil {
		return models.Department{}, err
	}
	f.depts = append(f.depts, dep)
	return models.Department{ID: 8, Name: dep.Name}, nil
}

type fakeFetcher struct {
	mu         sync.Mutex
	records    []models.Prototype
	calls      int
	lastParams url.Values
}

func (f *fakeFetcher) ListPrototypes(_ context.Context, params url.Values) (models.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastParams = params
	out := append([]models.Prototype(nil), f.records...)
	return models.Page{Results: out, Count: len(out)}, nil
}

func (f *fakeFetcher) snapshot() (int, url.Values) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls, f.lastParams
}

type fakeGateway struct {
	mu       sync.Mutex
	records  map[int64]models.Prototype
	getCalls int
	writeErr error

	created  []*client.PrototypeForm
	updated  []*client.PrototypeForm
	reviews  []string
	assigned []string
	approved []int64
}

var _ workflow.Gateway = (*fakeGateway)(nil)

func (f *fakeGateway) GetPrototype(_ context.Context, id int64) (models.Prototype, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	p, ok := f.records[id]
	if !ok {
		return models.Prototype{}, &client.APIError{Method: "GET", Endpoint: "prototypes/", Status: 404, Message: "Not found."}
	}
	return p, nil
}

func (f *fakeGateway) CreatePrototype(_ context.Context, form *client.PrototypeForm) (models.Prototype, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return models.Prototype{}, f.writeErr
	}
	f.created = append(f.created, form)
	return models.Prototype{ID: 5, Title: form.Title}, nil
}

func (f *fakeGateway) UpdatePrototype(_ context.Context, id int64, form *client.PrototypeForm) (models.Prototype, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return models.Prototype{}, f.writeErr
	}
	f.updated = append(f.updated, form)
	return models.Prototype{ID: id, Title: form.Title}, nil
}

func (f *fakeGateway) ReviewPrototype(_ context.Context, _ int64, feedback string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.reviews = append(f.reviews, feedback)
	return nil
}

func (f *fakeGateway) AssignStorage(_ context.Context, _ int64, location string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.assigned = append(f.assigned, location)
	return nil
}

func (f *fakeGateway) ApprovePrototype(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.approved = append(f.approved, id)
	return nil
}

// ------------ drafts ------------

type draftKey struct {
	kind string
	id   int64
}

type memDrafts struct {
	mu sync.Mutex
	m  map[draftKey]models.Draft
}

func newMemDrafts() *memDrafts {
	return &memDrafts{m: map[draftKey]models.Draft{}}
}

func (r *memDrafts) Save(_ context.Context, d *models.Draft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[draftKey{d.Kind, d.PrototypeID}] = *d
	return nil
}

func (r *memDrafts) Get(_ context.Context, kind string, id int64) (*models.Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.m[draftKey{kind, id}]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &d, nil
}

func (r *memDrafts) Delete(_ context.Context, kind string, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, draftKey{kind, id})
	return nil
}

func (r *memDrafts) List(context.Context) ([]models.Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Draft, 0, len(r.m))
	for _, d := range r.m {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}
