package permissions

import "github.com/dmitrijs2005/protodesk/internal/client/models"

// ActionsFor returns the actions the rules grant to user on record, before
// any deployment table is applied.
//
//   - View is always granted.
//   - Edit is granted to the owning student only.
//   - Review and AssignStorage are granted to staff and admins.
//   - Approve is granted to staff and admins while the record is not approved.
func ActionsFor(user models.Identity, record models.Prototype) ActionSet {
	set := NewActionSet(View)

	switch user.Role() {
	case models.RoleStudent:
		if record.StudentID() != 0 && record.StudentID() == user.User.ID {
			set = set.With(Edit)
		}
	case models.RoleStaff, models.RoleAdmin:
		set = set.With(Review).With(AssignStorage)
		if record.Status != models.StatusApproved {
			set = set.With(Approve)
		}
	case models.RoleUnknown:
	}

	return set
}

// RoleActionsFor returns the account actions the rules grant to user. Only
// admins manage accounts and departments.
func RoleActionsFor(user models.Identity) ActionSet {
	if user.Role() != models.RoleAdmin {
		return 0
	}
	return NewActionSet(AccountActions...)
}

// Panel combines the rules with a deployment table.
type Panel struct {
	Table Table
}

func NewPanel(t Table) *Panel {
	if t == nil {
		t = DefaultTable()
	}
	return &Panel{Table: t}
}

// ActionsFor returns the rule result restricted to what the table enables
// for the user's role. View is never removed.
func (p *Panel) ActionsFor(user models.Identity, record models.Prototype) ActionSet {
	granted := ActionsFor(user, record)
	return granted.Intersect(p.Table.Enabled(user.Role())).With(View)
}

// Allows is a convenience for a single action.
func (p *Panel) Allows(user models.Identity, record models.Prototype, a Action) bool {
	return p.ActionsFor(user, record).Has(a)
}

// Can reports whether user may take an account action under the table.
func (p *Panel) Can(user models.Identity, a Action) bool {
	return RoleActionsFor(user).Intersect(p.Table.Enabled(user.Role())).Has(a)
}
