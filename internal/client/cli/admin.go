package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/protodesk/internal/client/models"
	"github.com/dmitrijs2005/protodesk/internal/client/permissions"
	"github.com/dmitrijs2005/protodesk/internal/validation"
)

// requireAccountAction refuses before any request when the panel does not
// grant the account action to the current identity.
func (a *App) requireAccountAction(act permissions.Action) error {
	if !a.panel.Can(a.who, act) {
		return errNotPermitted
	}
	return nil
}

// Users lists accounts, optionally fuzzy-filtered.
func (a *App) Users(ctx context.Context, args []string) error {
	if err := a.requireAccountAction(permissions.ManageUsers); err != nil {
		return err
	}
	list, err := a.admin.Accounts(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	a.printAccounts(list)
	return nil
}

// Pending lists self-registered accounts waiting for approval.
func (a *App) Pending(ctx context.Context, _ []string) error {
	if err := a.requireAccountAction(permissions.ManageUsers); err != nil {
		return err
	}
	list, err := a.admin.Pending(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No accounts awaiting approval.")
		return nil
	}
	a.printAccounts(list)
	return nil
}

func (a *App) ApproveUser(ctx context.Context, args []string) error {
	id, err := parseID(args, "approve-user <id>")
	if err != nil {
		return err
	}
	if err := a.requireAccountAction(permissions.ManageUsers); err != nil {
		return err
	}

	ok, err := a.confirm(fmt.Sprintf("Approve user #%d?", id))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	msg, err := a.admin.Approve(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

// AddUser prompts for a new account. A validation failure re-prompts with
// the answers given so far as defaults.
func (a *App) AddUser(ctx context.Context, _ []string) error {
	if err := a.requireAccountAction(permissions.ManageUsers); err != nil {
		return err
	}

	acc := models.NewAccount{Role: "student"}
	for {
		var err error
		if acc.Username, err = a.ask("Username", acc.Username); err != nil {
			return err
		}
		if acc.Email, err = a.ask("Email", acc.Email); err != nil {
			return err
		}
		if acc.FullName, err = a.ask("Full name", acc.FullName); err != nil {
			return err
		}
		if acc.Role, err = a.ask("Role (student, staff, admin, general_user)", acc.Role); err != nil {
			return err
		}
		if acc.DepartmentID, err = a.askID("Department id", acc.DepartmentID); err != nil {
			return err
		}

		out, err := a.admin.CreateAccount(ctx, acc)
		var ve *validation.Error
		if errors.As(err, &ve) {
			fmt.Fprintln(a.out, ve.Error())
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Created user #%d (%s).\n", out.ID, out.Username)
		return nil
	}
}

// AddDepartment creates a department named by the arguments, or prompts
// for the name.
func (a *App) AddDepartment(ctx context.Context, args []string) error {
	if err := a.requireAccountAction(permissions.ManageDepartments); err != nil {
		return err
	}

	name := strings.Join(args, " ")
	if name == "" {
		var err error
		if name, err = getSimpleText(a.reader, "Department name", a.out); err != nil {
			return err
		}
	}

	dep, err := a.admin.CreateDepartment(ctx, models.NewDepartment{Name: name})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created department #%d (%s).\n", dep.ID, dep.Name)
	return nil
}

func (a *App) printAccounts(list []models.Account) {
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No matches.")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tNAME\tEMAIL\tROLE\tDEPARTMENT\tAPPROVED")
	for _, acc := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			acc.ID, orDash(acc.Username), orDash(acc.FullName), orDash(acc.Email),
			orDash(acc.Role), acc.Department.String(), yesNo(acc.IsApproved))
	}
	_ = tw.Flush()
}
