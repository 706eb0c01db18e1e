package models

// Account is a user as seen by the admin/users/ endpoints. Role is kept as
// the backend string because accounts awaiting approval carry
// "general_user", which has no Role.
type Account struct {
	ID          int64         `json:"id"`
	Username    string        `json:"username"`
	Email       string        `json:"email"`
	FullName    string        `json:"full_name,omitempty"`
	Role        string        `json:"role"`
	RoleDisplay string        `json:"role_display,omitempty"`
	Department  DepartmentRef `json:"department"`
	Phone       string        `json:"phone,omitempty"`
	IsApproved  bool          `json:"is_approved"`
	IsActive    bool          `json:"is_active"`
}

// RoleGeneralUser marks a self-registered account that an admin has not
// approved yet.
const RoleGeneralUser = "general_user"

// Pending reports whether the account still needs approval.
func (a Account) Pending() bool {
	return a.Role == RoleGeneralUser && !a.IsApproved
}

// NewAccount is the body of POST admin/users/.
type NewAccount struct {
	Username     string `json:"username" validate:"required,max=150"`
	Email        string `json:"email" validate:"required,email"`
	Role         string `json:"role" validate:"required,oneof=student staff admin general_user"`
	DepartmentID int64  `json:"department,omitempty" validate:"gte=0"`
	FullName     string `json:"full_name,omitempty"`
}

// NewDepartment is the body of POST departments/.
type NewDepartment struct {
	Name string `json:"name" validate:"required,max=100"`
}
