// Package listing drives the paginated, filtered prototype list.
//
// Every filter, page or viewer change issues exactly one fetch. Fetches run
// concurrently and carry a sequence number; only the most recently issued
// fetch may update the visible state.
package listing

import (
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/protodesk/internal/client/models"
)

// Query holds the user-controlled list parameters.
type Query struct {
	Search     string
	Department string
	Storage    string
	Page       int
	PageSize   int
}

// Viewer is the part of the identity that shapes list requests.
type Viewer struct {
	Role         models.Role
	UserID       int64
	DepartmentID int64
}

// ViewerFor extracts a Viewer from an identity. Unresolved identities yield
// a role-less viewer.
func ViewerFor(id models.Identity) Viewer {
	return Viewer{
		Role:         id.Role(),
		UserID:       id.User.ID,
		DepartmentID: id.User.Department.ID,
	}
}

// BuildParams maps the viewer and query onto the backend's list parameters.
// Role-less viewers send the user filters only and leave scoping to the
// backend.
func BuildParams(v Viewer, q Query) url.Values {
	p := url.Values{}

	switch v.Role {
	case models.RoleStudent:
		if v.UserID != 0 {
			p.Set("student", strconv.FormatInt(v.UserID, 10))
		}
	case models.RoleStaff:
		if v.DepartmentID != 0 {
			p.Set("department", strconv.FormatInt(v.DepartmentID, 10))
		}
		if q.Department != "" {
			p.Set("department_filter", q.Department)
		}
	case models.RoleAdmin:
		if q.Department != "" {
			p.Set("department", q.Department)
		}
	case models.RoleUnknown:
	}

	if q.Search != "" {
		p.Set("search", q.Search)
	}
	if q.Storage != "" {
		p.Set("storage_location", q.Storage)
	}
	if q.Page > 0 {
		p.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		p.Set("page_size", strconv.Itoa(q.PageSize))
	}
	return p
}

// TotalPages is ceil(count/pageSize), or 0 when either is non-positive.
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}
