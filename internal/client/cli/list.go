package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/protodesk/internal/client/models"
	"github.com/dmitrijs2005/protodesk/internal/client/permissions"
)

// List applies filters given as arguments and shows the first page. Bare
// words form the search term; dept= and storage= set the other filters.
// Without arguments the current page is refetched.
func (a *App) List(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.list.Refetch()
		return a.showList(ctx)
	}

	q := a.list.State().Query
	var words []string
	search := q.Search
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			words = append(words, arg)
			continue
		}
		switch k {
		case "search", "q":
			search = v
		case "dept", "department":
			q.Department = v
		case "storage":
			q.Storage = v
		default:
			return usage("list [search] [dept=<id>] [storage=<name>]")
		}
	}
	if len(words) > 0 {
		search = strings.Join(words, " ")
	}

	a.list.SetFilters(search, q.Department, q.Storage)
	return a.showList(ctx)
}

func (a *App) Next(ctx context.Context, _ []string) error {
	if !a.list.Next() {
		return errNoSuchPage
	}
	return a.showList(ctx)
}

func (a *App) Prev(ctx context.Context, _ []string) error {
	if !a.list.Prev() {
		return errNoSuchPage
	}
	return a.showList(ctx)
}

func (a *App) Page(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("page <n>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return usage("page <n>")
	}
	if !a.list.SetPage(n) {
		return errNoSuchPage
	}
	return a.showList(ctx)
}

// Clear drops every filter and returns to the first page.
func (a *App) Clear(ctx context.Context, _ []string) error {
	a.list.SetFilters("", "", "")
	return a.showList(ctx)
}

func (a *App) showList(ctx context.Context) error {
	if err := a.list.Wait(ctx); err != nil {
		return err
	}
	renderList(a.out, a.list.State(), a.rowActions)
	return nil
}

func (a *App) rowActions(p models.Prototype) permissions.ActionSet {
	return a.panel.ActionsFor(a.who, p)
}

// rowByID finds a record on the current page.
func (a *App) rowByID(id int64) (models.Prototype, bool) {
	if a.list == nil {
		return models.Prototype{}, false
	}
	for _, p := range a.list.State().Records {
		if p.ID == id {
			return p, true
		}
	}
	return models.Prototype{}, false
}
