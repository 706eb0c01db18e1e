package permissions

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/dmitrijs2005/protodesk/internal/client/models"
)

// Table decides which actions are switched on for a role in this deployment.
type Table interface {
	Enabled(role models.Role) ActionSet
}

// StaticTable is a fixed role -> actions map.
type StaticTable map[models.Role]ActionSet

func (t StaticTable) Enabled(role models.Role) ActionSet {
	return t[role]
}

// DefaultTable enables every action except Approve for every role.
func DefaultTable() StaticTable {
	all := NewActionSet(AllActions...).Without(Approve)
	return StaticTable{
		models.RoleUnknown: NewActionSet(View),
		models.RoleStudent: all,
		models.RoleStaff:   all,
		models.RoleAdmin:   all,
	}
}

// policyModel is a plain ACL: a request is allowed when a policy line names
// the role and the action.
const policyModel = `
[request_definition]
r = sub, act

[policy_definition]
p = sub, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.act == p.act
`

// LoadPolicy builds a Table from casbin policy lines of the form
//
//	p, staff, approve
//
// Blank lines and lines starting with '#' are ignored. The table is
// materialised once, so lookups do not touch the enforcer.
func LoadPolicy(policy string) (StaticTable, error) {
	m, err := model.NewModelFromString(policyModel)
	if err != nil {
		return nil, fmt.Errorf("permissions: failed to parse model: %w", err)
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("permissions: failed to initialize enforcer: %w", err)
	}

	for n, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ",")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		if len(fields) != 3 || fields[0] != "p" {
			return nil, fmt.Errorf("permissions: line %d: want \"p, <role>, <action>\", got %q", n+1, line)
		}
		if _, ok := ParseAction(fields[2]); !ok {
			return nil, fmt.Errorf("permissions: line %d: unknown action %q", n+1, fields[2])
		}
		if _, err := e.AddPolicy(fields[1], fields[2]); err != nil {
			return nil, fmt.Errorf("permissions: line %d: %w", n+1, err)
		}
	}

	table := StaticTable{}
	for _, role := range []models.Role{models.RoleUnknown, models.RoleStudent, models.RoleStaff, models.RoleAdmin} {
		set := NewActionSet(View)
		for _, a := range AllActions {
			ok, err := e.Enforce(role.String(), a.String())
			if err != nil {
				return nil, fmt.Errorf("permissions: enforce %s/%s: %w", role, a, err)
			}
			if ok {
				set = set.With(a)
			}
		}
		table[role] = set
	}
	return table, nil
}
