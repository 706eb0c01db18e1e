package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/protodesk/internal/client/models"
	"github.com/dmitrijs2005/protodesk/internal/logging"
)

// HTTPClient implements Client over the backend's REST API.
// It is safe for concurrent use.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	logger  logging.Logger

	mu    sync.RWMutex
	token string
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, timeout time.Duration, logger logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// SetToken replaces the bearer token. An empty token sends unauthenticated
// requests.
func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current bearer token.
func (c *HTTPClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) newRequest(method, endpoint string) *request {
	r := newRequest(c.http, c.logger, method, c.baseURL, endpoint)

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()

	if token != "" {
		r.Auth(token)
	}
	return r
}

func (c *HTTPClient) get(endpoint string) *request   { return c.newRequest(http.MethodGet, endpoint) }
func (c *HTTPClient) post(endpoint string) *request  { return c.newRequest(http.MethodPost, endpoint) }
func (c *HTTPClient) patch(endpoint string) *request { return c.newRequest(http.MethodPatch, endpoint) }

func prototypePath(id int64, action string) string {
	if action == "" {
		return fmt.Sprintf("prototypes/%d/", id)
	}
	return fmt.Sprintf("prototypes/%d/%s/", id, action)
}

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (models.Tokens, error) {
	var res struct {
		Tokens models.Tokens `json:"tokens"`
	}
	if err := c.post("auth/login/").JSON(creds).Do(ctx, &res); err != nil {
		return models.Tokens{}, err
	}
	if res.Tokens.Access == "" {
		return models.Tokens{}, fmt.Errorf("login response carries no access token: %w", ErrUnauthorized)
	}
	return res.Tokens, nil
}

func (c *HTTPClient) Profile(ctx context.Context) (models.User, error) {
	var u models.User
	err := c.get("user/profile/").Do(ctx, &u)
	return u, err
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (models.User, error) {
	var u models.User
	err := c.patch("user/profile/").JSON(upd).Do(ctx, &u)
	return u, err
}

func (c *HTTPClient) ChangePassword(ctx context.Context, pc models.PasswordChange) error {
	return c.post("user/change-password/").JSON(pc).Do(ctx, nil)
}

func (c *HTTPClient) ListPrototypes(ctx context.Context, params url.Values) (models.Page, error) {
	var p models.Page
	err := c.get("prototypes/").Params(params).Do(ctx, &p)
	return p, err
}

func (c *HTTPClient) GetPrototype(ctx context.Context, id int64) (models.Prototype, error) {
	var p models.Prototype
	err := c.get(prototypePath(id, "")).Do(ctx, &p)
	return p, err
}

func (c *HTTPClient) CreatePrototype(ctx context.Context, form *PrototypeForm) (models.Prototype, error) {
	body, contentType, err := form.Encode()
	if err != nil {
		return models.Prototype{}, err
	}
	var p models.Prototype
	err = c.post("prototypes/").Header("Content-Type", contentType).Body(body).Do(ctx, &p)
	return p, err
}

func (c *HTTPClient) UpdatePrototype(ctx context.Context, id int64, form *PrototypeForm) (models.Prototype, error) {
	body, contentType, err := form.Encode()
	if err != nil {
		return models.Prototype{}, err
	}
	var p models.Prototype
	err = c.patch(prototypePath(id, "")).Header("Content-Type", contentType).Body(body).Do(ctx, &p)
	return p, err
}

func (c *HTTPClient) ReviewPrototype(ctx context.Context, id int64, feedback string) error {
	body := map[string]string{"feedback": feedback}
	return c.post(prototypePath(id, "review_prototype")).JSON(body).Do(ctx, nil)
}

func (c *HTTPClient) AssignStorage(ctx context.Context, id int64, location string) error {
	body := map[string]string{"storage_location": location}
	return c.post(prototypePath(id, "assign_storage")).JSON(body).Do(ctx, nil)
}

func (c *HTTPClient) ApprovePrototype(ctx context.Context, id int64) error {
	return c.patch(prototypePath(id, "approve")).Do(ctx, nil)
}

func (c *HTTPClient) StorageLocations(ctx context.Context) ([]string, error) {
	var raw []models.StorageLocation
	if err := c.get("prototypes/storage_locations/").Do(ctx, &raw); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s != "" {
			out = append(out, string(s))
		}
	}
	return out, nil
}

func (c *HTTPClient) Departments(ctx context.Context) ([]models.Department, error) {
	var list listOf[models.Department]
	err := c.get("departments/").Do(ctx, &list)
	return list, err
}

func (c *HTTPClient) Students(ctx context.Context) ([]models.User, error) {
	var list listOf[models.User]
	err := c.get("users/students/").Do(ctx, &list)
	return list, err
}

func (c *HTTPClient) Supervisors(ctx context.Context) ([]models.User, error) {
	var list listOf[models.User]
	err := c.get("users/supervisors/").Do(ctx, &list)
	return list, err
}

func (c *HTTPClient) User(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	err := c.get(fmt.Sprintf("users/%d/", id)).Do(ctx, &u)
	return u, err
}

func (c *HTTPClient) Counts(ctx context.Context) (models.Counts, error) {
	var cnt models.Counts
	err := c.get("prototypes/count/").Do(ctx, &cnt)
	return cnt, err
}

func (c *HTTPClient) MonthlySubmissions(ctx context.Context, year int) (models.MonthlySubmissions, error) {
	m := models.MonthlySubmissions{}
	err := c.get("prototypes/monthly_submissions/").Param("year", strconv.Itoa(year)).Do(ctx, &m)
	return m, err
}

func (c *HTTPClient) Export(ctx context.Context, format ExportFormat) ([]byte, error) {
	return c.get(fmt.Sprintf("prototypes/export_%s/", format)).Header("Accept", "*/*").Bytes(ctx)
}

func (c *HTTPClient) Accounts(ctx context.Context) ([]models.Account, error) {
	var list listOf[models.Account]
	err := c.get("admin/users/").Do(ctx, &list)
	return list, err
}

// PendingAccounts lists self-registered accounts (role general_user).
func (c *HTTPClient) PendingAccounts(ctx context.Context) ([]models.Account, error) {
	var list listOf[models.Account]
	err := c.get("admin/users/general_users/").Do(ctx, &list)
	return list, err
}

func (c *HTTPClient) CreateAccount(ctx context.Context, acc models.NewAccount) (models.Account, error) {
	var out models.Account
	err := c.post("admin/users/").JSON(acc).Do(ctx, &out)
	return out, err
}

// ApproveAccount approves a general user and returns the backend's
// confirmation message.
func (c *HTTPClient) ApproveAccount(ctx context.Context, id int64) (string, error) {
	var out struct {
		Detail string `json:"detail"`
	}
	err := c.post(fmt.Sprintf("admin/users/%d/approve_user/", id)).Do(ctx, &out)
	return out.Detail, err
}

func (c *HTTPClient) CreateDepartment(ctx context.Context, dep models.NewDepartment) (models.Department, error) {
	var out models.Department
	err := c.post("departments/").JSON(dep).Do(ctx, &out)
	return out, err
}

// listOf decodes reference lists that may or may not be paginated.
type listOf[T any] []T

func (l *listOf[T]) UnmarshalJSON(b []byte) error {
	var items []T
	if err := json.Unmarshal(b, &items); err == nil {
		*l = items
		return nil
	}
	var page struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(b, &page); err != nil {
		return err
	}
	*l = page.Results
	return nil
}
