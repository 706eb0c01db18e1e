package services

import (
	"context"
	"net/url"
	"sync"

	"github.com/dmitrijs2005/protodesk/internal/client/client"
	"github.com/dmitrijs2005/protodesk/internal/client/models"
)

// fakeClient implements client.Client for service tests. Results and errors
// are preset per call; arguments are captured for assertions.
type fakeClient struct {
	mu sync.Mutex

	Token string

	LoginRet  models.Tokens
	LoginErr  error
	LastCreds models.Credentials

	ProfileRet models.User
	ProfileErr error

	UpdateProfileErr error
	LastProfileUpd   *models.ProfileUpdate

	ChangePasswordErr error
	LastPasswordChg   *models.PasswordChange

	CountsRet  models.Counts
	CountsErr  error
	MonthlyRet models.MonthlySubmissions
	MonthlyErr error
	LastYear   int

	LocationsRet []string
	LocationsErr error

	DepartmentsRet []models.Department
	StudentsRet    []models.User
	SupervisorsRet []models.User
	ListErr        error

	ExportRet  []byte
	ExportErr  error
	ExportCall int

	AccountsRet    []models.Account
	PendingRet     []models.Account
	AccountsErr    error
	ApproveMsg     string
	ApproveErr     error
	ApprovedIDs    []int64
	CreatedAccount *models.NewAccount
	CreatedDept    *models.NewDepartment
	CreateErr      error
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Token = token
}

func (f *fakeClient) token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Token
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) Login(ctx context.Context, creds models.Credentials) (models.Tokens, error) {
	f.LastCreds = creds
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Profile(ctx context.Context) (models.User, error) {
	return f.ProfileRet, f.ProfileErr
}

func (f *fakeClient) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (models.User, error) {
	f.LastProfileUpd = &upd
	u := f.ProfileRet
	if upd.Email != "" {
		u.Email = upd.Email
	}
	if upd.Phone != "" {
		u.Phone = upd.Phone
	}
	return u, f.UpdateProfileErr
}

func (f *fakeClient) ChangePassword(ctx context.Context, pc models.PasswordChange) error {
	f.LastPasswordChg = &pc
	return f.ChangePasswordErr
}

func (f *fakeClient) ListPrototypes(ctx context.Context, params url.Values) (models.Page, error) {
	return models.Page{Results: []models.Prototype{}}, nil
}

func (f *fakeClient) GetPrototype(ctx context.Context, id int64) (models.Prototype, error) {
	return models.Prototype{ID: id}, nil
}

func (f *fakeClient) CreatePrototype(ctx context.Context, form *client.PrototypeForm) (models.Prototype, error) {
	return models.Prototype{}, nil
}

func (f *fakeClient) UpdatePrototype(ctx context.Context, id int64, form *client.PrototypeForm) (models.Prototype, error) {
	return models.Prototype{ID: id}, nil
}

func (f *fakeClient) ReviewPrototype(ctx context.Context, id int64, feedback string) error { return nil }
func (f *fakeClient) AssignStorage(ctx context.Context, id int64, location string) error   { return nil }
func (f *fakeClient) ApprovePrototype(ctx context.Context, id int64) error                 { return nil }

func (f *fakeClient) StorageLocations(ctx context.Context) ([]string, error) {
	return f.LocationsRet, f.LocationsErr
}

func (f *fakeClient) Departments(ctx context.Context) ([]models.Department, error) {
	return f.DepartmentsRet, f.ListErr
}

func (f *fakeClient) Students(ctx context.Context) ([]models.User, error) {
	return f.StudentsRet, f.ListErr
}

func (f *fakeClient) Supervisors(ctx context.Context) ([]models.User, error) {
	return f.SupervisorsRet, f.ListErr
}

func (f *fakeClient) User(ctx context.Context, id int64) (models.User, error) {
	return models.User{ID: id}, nil
}

func (f *fakeClient) Counts(ctx context.Context) (models.Counts, error) {
	return f.CountsRet, f.CountsErr
}

func (f *fakeClient) MonthlySubmissions(ctx context.Context, year int) (models.MonthlySubmissions, error) {
	f.mu.Lock()
	f.LastYear = year
	f.mu.Unlock()
	return f.MonthlyRet, f.MonthlyErr
}

func (f *fakeClient) Export(ctx context.Context, format client.ExportFormat) ([]byte, error) {
	f.ExportCall++
	return f.ExportRet, f.ExportErr
}

func (f *fakeClient) Accounts(ctx context.Context) ([]models.Account, error) {
	return f.AccountsRet, f.AccountsErr
}

func (f *fakeClient) PendingAccounts(ctx context.Context) ([]models.Account, error) {
	return f.PendingRet, f.AccountsErr
}

func (f *fakeClient) CreateAccount(ctx context.Context, acc models.NewAccount) (models.Account, error) {
	f.CreatedAccount = &acc
	return models.Account{ID: 100, Username: acc.Username, Email: acc.Email, Role: acc.Role}, f.CreateErr
}

func (f *fakeClient) ApproveAccount(ctx context.Context, id int64) (string, error) {
	f.ApprovedIDs = append(f.ApprovedIDs, id)
	return f.ApproveMsg, f.ApproveErr
}

func (f *fakeClient) CreateDepartment(ctx context.Context, dep models.NewDepartment) (models.Department, error) {
	f.CreatedDept = &dep
	return models.Department{ID: 50, Name: dep.Name}, f.CreateErr
}
