package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Department is organisational reference data used by filters and forms.
type Department struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DepartmentRef is a department as it appears on other records. The backend
// sends it as a bare id, a bare name (user/profile/) or a nested object.
type DepartmentRef struct {
	ID   int64
	Name string
}

func (d *DepartmentRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*d = DepartmentRef{}
		return nil
	}
	switch b[0] {
	case '{':
		var dep Department
		if err := json.Unmarshal(b, &dep); err != nil {
			return err
		}
		*d = DepartmentRef{ID: dep.ID, Name: dep.Name}
	case '"':
		var name string
		if err := json.Unmarshal(b, &name); err != nil {
			return err
		}
		*d = DepartmentRef{Name: name}
	default:
		var id int64
		if err := json.Unmarshal(b, &id); err != nil {
			return fmt.Errorf("department: %w", err)
		}
		*d = DepartmentRef{ID: id}
	}
	return nil
}

func (d DepartmentRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(Department{ID: d.ID, Name: d.Name})
}

func (d DepartmentRef) String() string {
	switch {
	case d.Name != "":
		return d.Name
	case d.ID != 0:
		return fmt.Sprintf("#%d", d.ID)
	default:
		return "-"
	}
}

// User is an account as returned by user/profile/ and users/ endpoints.
type User struct {
	ID            int64         `json:"id"`
	Username      string        `json:"username"`
	Email         string        `json:"email"`
	Role          Role          `json:"role"`
	Department    DepartmentRef `json:"department"`
	Phone         string        `json:"phone,omitempty"`
	InstitutionID string        `json:"institution_id,omitempty"`
	FullName      string        `json:"full_name,omitempty"`
	Level         string        `json:"level,omitempty"`
	IsApproved    bool          `json:"is_approved"`
}

// DisplayName prefers the full name, then the username.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// Identity is the resolved session user. When Resolved is false the profile
// could not be fetched and the session is role-less.
type Identity struct {
	User     User
	Resolved bool
}

// Role returns RoleUnknown for unresolved identities.
func (i Identity) Role() Role {
	if !i.Resolved {
		return RoleUnknown
	}
	return i.User.Role
}

// ProfileUpdate is the self-editable part of a profile.
type ProfileUpdate struct {
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

// PasswordChange is the body of user/change-password/.
type PasswordChange struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// Credentials is the body of auth/login/.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Tokens is the token pair returned on login.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
