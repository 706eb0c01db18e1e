package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/protodesk/internal/client/client"
	"github.com/dmitrijs2005/protodesk/internal/client/services"
)

var nowFn = time.Now

// Stats prints the dashboard for the given year (default: current year).
// When loading fails a warning is printed above the zeroed dashboard.
func (a *App) Stats(ctx context.Context, args []string) error {
	year := nowFn().Year()
	if len(args) > 0 {
		y, err := strconv.Atoi(args[0])
		if err != nil || y < 1900 {
			return usage("stats [year]")
		}
		year = y
	}

	st, err := a.dashboard.Stats(ctx, year)
	if err != nil {
		fmt.Fprintln(a.out, client.UserMessage(err, "Failed to load statistics."))
	}
	renderStats(a.out, st)
	return nil
}

// Export downloads a server-side export and optionally uploads it to S3.
func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return usage("export excel|pdf [upload]")
	}
	format := client.ExportFormat(strings.ToLower(args[0]))
	if format != client.ExportExcel && format != client.ExportPDF {
		return usage("export excel|pdf [upload]")
	}
	upload := len(args) == 2
	if upload && args[1] != "upload" {
		return usage("export excel|pdf [upload]")
	}

	path, err := a.exports.Export(ctx, a.who, format)
	if errors.Is(err, services.ErrNotPermitted) {
		return errNotPermitted
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Export saved to %s\n", path)

	if !upload {
		return nil
	}
	key, err := a.exports.Upload(ctx, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Uploaded as %s\n", key)
	return nil
}

// SavePage writes the records of the current page to an Excel workbook.
func (a *App) SavePage(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("save-page <file.xlsx>")
	}
	path := args[0]
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		path += ".xlsx"
	}

	records := a.list.State().Records
	if len(records) == 0 {
		return errors.New("nothing to save, run 'list' first")
	}
	if err := a.exports.SavePage(ctx, records, path); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %d prototypes to %s\n", len(records), path)
	return nil
}

func lookupQuery(args []string) string {
	return strings.Join(args, " ")
}

func (a *App) Departments(ctx context.Context, args []string) error {
	list, err := a.lookups.Departments(ctx, lookupQuery(args))
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No matches.")
	}
	for _, d := range list {
		fmt.Fprintf(a.out, "%6d  %s\n", d.ID, d.Name)
	}
	return nil
}

func (a *App) Students(ctx context.Context, args []string) error {
	list, err := a.lookups.Students(ctx, lookupQuery(args))
	if err != nil {
		return err
	}
	a.printUsers(list)
	return nil
}

func (a *App) Supervisors(ctx context.Context, args []string) error {
	list, err := a.lookups.Supervisors(ctx, lookupQuery(args))
	if err != nil {
		return err
	}
	a.printUsers(list)
	return nil
}

func (a *App) Locations(ctx context.Context, args []string) error {
	list, err := a.lookups.StorageLocations(ctx, lookupQuery(args))
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No matches.")
	}
	for _, l := range list {
		fmt.Fprintln(a.out, l)
	}
	return nil
}
