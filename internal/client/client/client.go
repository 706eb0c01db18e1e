package client

import (
	"context"
	"net/url"

	"github.com/dmitrijs2005/protodesk/internal/client/models"
)

// ExportFormat selects a server-side export.
type ExportFormat string

const (
	ExportExcel ExportFormat = "excel"
	ExportPDF   ExportFormat = "pdf"
)

// FileName is the conventional download name for the export.
func (f ExportFormat) FileName() string {
	if f == ExportExcel {
		return "prototypes.xlsx"
	}
	return "prototypes.pdf"
}

// Client is the contract of the prototype backend API.
type Client interface {
	SetToken(token string)
	Close() error

	Login(ctx context.Context, creds models.Credentials) (models.Tokens, error)
	Profile(ctx context.Context) (models.User, error)
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (models.User, error)
	ChangePassword(ctx context.Context, pc models.PasswordChange) error

	ListPrototypes(ctx context.Context, params url.Values) (models.Page, error)
	GetPrototype(ctx context.Context, id int64) (models.Prototype, error)
	CreatePrototype(ctx context.Context, form *PrototypeForm) (models.Prototype, error)
	UpdatePrototype(ctx context.Context, id int64, form *PrototypeForm) (models.Prototype, error)
	ReviewPrototype(ctx context.Context, id int64, feedback string) error
	AssignStorage(ctx context.Context, id int64, location string) error
	ApprovePrototype(ctx context.Context, id int64) error

	StorageLocations(ctx context.Context) ([]string, error)
	Departments(ctx context.Context) ([]models.Department, error)
	Students(ctx context.Context) ([]models.User, error)
	Supervisors(ctx context.Context) ([]models.User, error)
	User(ctx context.Context, id int64) (models.User, error)

	Counts(ctx context.Context) (models.Counts, error)
	MonthlySubmissions(ctx context.Context, year int) (models.MonthlySubmissions, error)
	Export(ctx context.Context, format ExportFormat) ([]byte, error)

	Accounts(ctx context.Context) ([]models.Account, error)
	PendingAccounts(ctx context.Context) ([]models.Account, error)
	CreateAccount(ctx context.Context, acc models.NewAccount) (models.Account, error)
	ApproveAccount(ctx context.Context, id int64) (string, error)
	CreateDepartment(ctx context.Context, dep models.NewDepartment) (models.Department, error)
}
