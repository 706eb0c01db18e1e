// Package permissions decides which workflow actions a user may take on a
// prototype record, and which account administration actions a role has.
//
// The rules are a pure function of the user and the record (ActionsFor), or
// of the user alone for account actions (RoleActionsFor). A deployment Table
// then switches individual actions on or off per role; the built-in table
// enables everything except Approve. Results are never cached.
package permissions

import "strings"

// Action is a workflow action offered on a prototype row, or an account
// administration action that does not depend on a row.
type Action uint8

const (
	View Action = iota
	Edit
	Review
	AssignStorage
	Approve

	ManageUsers
	ManageDepartments

	actionCount
)

// AllActions lists every action in display order.
var AllActions = []Action{View, Edit, Review, AssignStorage, Approve, ManageUsers, ManageDepartments}

// AccountActions are granted per role and never appear on a row.
var AccountActions = []Action{ManageUsers, ManageDepartments}

func (a Action) String() string {
	switch a {
	case View:
		return "view"
	case Edit:
		return "edit"
	case Review:
		return "review"
	case AssignStorage:
		return "assign_storage"
	case Approve:
		return "approve"
	case ManageUsers:
		return "manage_users"
	case ManageDepartments:
		return "manage_departments"
	default:
		return "unknown"
	}
}

// ParseAction is the inverse of Action.String.
func ParseAction(s string) (Action, bool) {
	for _, a := range AllActions {
		if a.String() == s {
			return a, true
		}
	}
	return 0, false
}

// ActionSet is a set of actions.
type ActionSet uint8

func NewActionSet(actions ...Action) ActionSet {
	var s ActionSet
	for _, a := range actions {
		s = s.With(a)
	}
	return s
}

func (s ActionSet) With(a Action) ActionSet {
	if a >= actionCount {
		return s
	}
	return s | 1<<a
}

func (s ActionSet) Without(a Action) ActionSet {
	return s &^ (1 << a)
}

func (s ActionSet) Has(a Action) bool {
	return a < actionCount && s&(1<<a) != 0
}

// Intersect keeps the actions present in both sets.
func (s ActionSet) Intersect(o ActionSet) ActionSet {
	return s & o
}

// List returns the actions in display order.
func (s ActionSet) List() []Action {
	out := make([]Action, 0, actionCount)
	for _, a := range AllActions {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s ActionSet) String() string {
	names := make([]string, 0, actionCount)
	for _, a := range s.List() {
		names = append(names, a.String())
	}
	return "{" + strings.Join(names, ", ") + "}"
}
