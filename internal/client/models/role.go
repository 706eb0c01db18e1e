// Package models defines the records exchanged with the prototype backend:
// users, departments, prototypes and dashboard statistics.
package models

// Role is the closed set of user roles known to the client. A session whose
// profile could not be resolved carries RoleUnknown and is treated as the
// most restrictive role.
type Role int

const (
	RoleUnknown Role = iota
	RoleStudent
	RoleStaff
	RoleAdmin
)

// ParseRole maps the backend role string onto Role. Unrecognised values
// (including "general_user") map to RoleUnknown.
func ParseRole(s string) Role {
	switch s {
	case "student":
		return RoleStudent
	case "staff":
		return RoleStaff
	case "admin":
		return RoleAdmin
	default:
		return RoleUnknown
	}
}

func (r Role) String() string {
	switch r {
	case RoleStudent:
		return "student"
	case RoleStaff:
		return "staff"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// IsReviewer reports whether the role may review, shelve and approve.
func (r Role) IsReviewer() bool {
	return r == RoleStaff || r == RoleAdmin
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	*r = ParseRole(string(b))
	return nil
}
