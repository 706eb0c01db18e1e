package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/protodesk/internal/client/models"
	"github.com/dmitrijs2005/protodesk/internal/client/permissions"
	"github.com/dmitrijs2005/protodesk/internal/client/workflow"
	"github.com/dmitrijs2005/protodesk/internal/validation"
)

// authorize checks action on prototype id. A role that could not perform
// the action on any record is refused without a network call; otherwise the
// record is taken from the current page or fetched.
func (a *App) authorize(ctx context.Context, id int64, action permissions.Action) error {
	roleOnly := models.Prototype{
		ID:      id,
		Student: models.UserRef{ID: a.who.User.ID},
		Status:  models.StatusNotReviewed,
	}
	if !a.panel.Allows(a.who, roleOnly, action) {
		return errNotPermitted
	}

	rec, ok := a.rowByID(id)
	if !ok {
		var err error
		if rec, err = a.gateway.GetPrototype(ctx, id); err != nil {
			return err
		}
	}
	if !a.panel.Allows(a.who, rec, action) {
		return errNotPermitted
	}
	return nil
}

// open opens the modal and turns a load failure into the modal's message.
func (a *App) open(ctx context.Context, kind workflow.Kind, id int64) error {
	if err := a.modal.Open(ctx, kind, id); err != nil {
		snap := a.modal.Snapshot()
		a.modal.Close()
		if snap.Err != "" {
			return errors.New(snap.Err)
		}
		return err
	}
	return nil
}

// fillAndSubmit prompts for the form until it validates, then submits it.
// A failed request keeps the typed values as a draft for the next attempt.
func (a *App) fillAndSubmit(ctx context.Context, fill func(f *workflow.Fields) error) error {
	defer a.modal.Close()

	if a.modal.Snapshot().Restored {
		fmt.Fprintln(a.out, "Restored your unsent draft.")
	}

	for {
		f := a.modal.Snapshot().Fields
		if err := fill(&f); err != nil {
			return err
		}
		if err := a.modal.SetFields(func(dst *workflow.Fields) { *dst = f }); err != nil {
			return err
		}

		err := a.modal.Submit(ctx)
		if err == nil {
			fmt.Fprintln(a.out, "Saved.")
			return a.showList(ctx)
		}

		var ve *validation.Error
		if errors.As(err, &ve) {
			fmt.Fprintln(a.out, ve.Error())
			continue
		}

		msg := a.modal.Snapshot().Err
		if msg == "" {
			return err
		}
		return fmt.Errorf("%s Your input was kept as a draft", msg)
	}
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := parseID(args, "show <id>")
	if err != nil {
		return err
	}
	if err := a.open(ctx, workflow.KindViewDetail, id); err != nil {
		return err
	}
	defer a.modal.Close()

	rec := a.modal.Snapshot().Record
	renderDetail(a.out, rec, a.panel.ActionsFor(a.who, rec))
	return nil
}

func (a *App) Submit(ctx context.Context, _ []string) error {
	if a.who.Role() == models.RoleUnknown {
		return errNotPermitted
	}
	if err := a.open(ctx, workflow.KindSubmit, 0); err != nil {
		return err
	}
	return a.fillAndSubmit(ctx, func(f *workflow.Fields) error {
		if f.Prototype.DepartmentID == 0 {
			f.Prototype.DepartmentID = a.who.User.Department.ID
		}
		return a.promptPrototype(&f.Prototype, true)
	})
}

func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := parseID(args, "edit <id>")
	if err != nil {
		return err
	}
	if err := a.authorize(ctx, id, permissions.Edit); err != nil {
		return err
	}
	if err := a.open(ctx, workflow.KindEdit, id); err != nil {
		return err
	}
	return a.fillAndSubmit(ctx, func(f *workflow.Fields) error {
		return a.promptPrototype(&f.Prototype, false)
	})
}

func (a *App) promptPrototype(p *workflow.PrototypeFields, isNew bool) error {
	var err error
	if p.Title, err = a.ask("Title", p.Title); err != nil {
		return err
	}
	if p.Abstract, err = a.ask("Abstract", p.Abstract); err != nil {
		return err
	}
	if p.AcademicYear, err = a.ask("Academic year", p.AcademicYear); err != nil {
		return err
	}
	if p.HasPhysicalPrototype, err = a.askBool("Has physical prototype", p.HasPhysicalPrototype); err != nil {
		return err
	}
	if p.DepartmentID, err = a.askID("Department id", p.DepartmentID); err != nil {
		return err
	}
	if p.SupervisorID, err = a.askID("Supervisor id (see 'supervisors')", p.SupervisorID); err != nil {
		return err
	}
	if isNew && a.who.Role().IsReviewer() {
		if p.StudentID, err = a.askID("Student id (see 'students')", p.StudentID); err != nil {
			return err
		}
	}
	if p.Report, err = a.askFile("Report file"); err != nil {
		return err
	}
	if p.SourceCode, err = a.askFile("Source code archive"); err != nil {
		return err
	}
	return nil
}

func (a *App) Review(ctx context.Context, args []string) error {
	id, err := parseID(args, "review <id>")
	if err != nil {
		return err
	}
	if err := a.authorize(ctx, id, permissions.Review); err != nil {
		return err
	}
	if err := a.open(ctx, workflow.KindReview, id); err != nil {
		return err
	}
	return a.fillAndSubmit(ctx, func(f *workflow.Fields) error {
		if f.Review.Feedback != "" {
			fmt.Fprintf(a.out, "Current feedback:\n%s\n", f.Review.Feedback)
		}
		text, err := getMultiline(a.reader, "Feedback", a.out)
		if err != nil {
			return err
		}
		if text != "" {
			f.Review.Feedback = text
		}
		return nil
	})
}

func (a *App) Assign(ctx context.Context, args []string) error {
	id, err := parseID(args, "assign <id>")
	if err != nil {
		return err
	}
	if err := a.authorize(ctx, id, permissions.AssignStorage); err != nil {
		return err
	}
	if err := a.open(ctx, workflow.KindAssignStorage, id); err != nil {
		return err
	}

	if known, err := a.lookups.StorageLocations(ctx, ""); err == nil && len(known) > 0 {
		fmt.Fprintf(a.out, "Known locations: %s\n", strings.Join(known, ", "))
	}

	return a.fillAndSubmit(ctx, func(f *workflow.Fields) error {
		loc, err := a.ask("Storage location", f.Storage.StorageLocation)
		if err != nil {
			return err
		}
		f.Storage.StorageLocation = loc
		return nil
	})
}

func (a *App) Approve(ctx context.Context, args []string) error {
	id, err := parseID(args, "approve <id>")
	if err != nil {
		return err
	}
	if err := a.authorize(ctx, id, permissions.Approve); err != nil {
		return err
	}

	ok, err := a.confirm(fmt.Sprintf("Approve prototype #%d?", id))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	if err := a.modal.Approve(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Prototype #%d approved.\n", id)
	return a.showList(ctx)
}

// Drafts lists locally saved workflow drafts.
func (a *App) Drafts(ctx context.Context, _ []string) error {
	list, err := a.drafts.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No drafts.")
		return nil
	}
	for _, d := range list {
		target := "new"
		if d.PrototypeID != 0 {
			target = fmt.Sprintf("#%d", d.PrototypeID)
		}
		fmt.Fprintf(a.out, "%-15s %-6s saved %s\n", d.Kind, target, d.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
