package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/protodesk/internal/client/listing"
	"github.com/dmitrijs2005/protodesk/internal/client/models"
	"github.com/dmitrijs2005/protodesk/internal/client/permissions"
)

const maxTitleWidth = 40

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func studentName(p models.Prototype) string {
	if p.Student.Username != "" {
		return p.Student.Username
	}
	if p.Student.ID != 0 {
		return fmt.Sprintf("#%d", p.Student.ID)
	}
	return "-"
}

// renderList prints the page as a table followed by the pagination line.
// An empty result prints a single line and no pagination.
func renderList(w io.Writer, st listing.State, actions func(models.Prototype) permissions.ActionSet) {
	if st.Err != "" {
		fmt.Fprintln(w, st.Err)
		return
	}
	if len(st.Records) == 0 {
		fmt.Fprintln(w, "No prototypes found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTUDENT\tDEPARTMENT\tSTATUS\tSTORAGE\tACTIONS")
	for _, p := range st.Records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID,
			truncate(p.Title, maxTitleWidth),
			studentName(p),
			p.Department,
			p.Status.Label(),
			orDash(string(p.StorageLocation)),
			actions(p),
		)
	}
	_ = tw.Flush()

	if st.TotalPages > 0 {
		fmt.Fprintf(w, "Page %d of %d (%d prototypes)\n", st.Query.Page, st.TotalPages, st.Count)
	}
}

func renderDetail(w io.Writer, p models.Prototype, allowed permissions.ActionSet) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	row := func(k, v string) { fmt.Fprintf(tw, "%s:\t%s\n", k, v) }

	row("ID", fmt.Sprint(p.ID))
	row("Title", p.Title)
	row("Status", p.Status.Label())
	row("Student", studentName(p))
	row("Department", p.Department.String())
	if id := p.SupervisorID(); id != 0 {
		row("Supervisor", fmt.Sprintf("#%d", id))
	}
	row("Academic year", orDash(p.AcademicYear))
	row("Physical prototype", yesNo(p.HasPhysicalPrototype))
	row("Storage", orDash(string(p.StorageLocation)))
	if p.Barcode != "" {
		row("Barcode", p.Barcode)
	}
	if !p.SubmissionDate.IsZero() {
		row("Submitted", p.SubmissionDate.Format("2006-01-02 15:04"))
	}
	row("Report", orDash(p.Attachment.ReportURL))
	row("Source code", orDash(p.Attachment.SourceCodeURL))
	row("Actions", allowed.String())
	_ = tw.Flush()

	if p.Abstract != "" {
		fmt.Fprintf(w, "\nAbstract:\n%s\n", p.Abstract)
	}
	if p.Feedback != "" {
		fmt.Fprintf(w, "\nFeedback:\n%s\n", p.Feedback)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func printUser(w io.Writer, u models.User) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Username:\t%s\n", orDash(u.Username))
	if u.FullName != "" {
		fmt.Fprintf(tw, "Name:\t%s\n", u.FullName)
	}
	fmt.Fprintf(tw, "Email:\t%s\n", orDash(u.Email))
	fmt.Fprintf(tw, "Role:\t%s\n", u.Role)
	fmt.Fprintf(tw, "Department:\t%s\n", u.Department)
	if u.Phone != "" {
		fmt.Fprintf(tw, "Phone:\t%s\n", u.Phone)
	}
	if u.InstitutionID != "" {
		fmt.Fprintf(tw, "Institution id:\t%s\n", u.InstitutionID)
	}
	_ = tw.Flush()
}

func renderStats(w io.Writer, st models.Stats) {
	fmt.Fprintf(w, "Statistics for %d\n", st.Year)
	fmt.Fprintf(w, "Prototypes: %d", st.Counts.Total())
	if st.Counts.Yours != 0 {
		fmt.Fprintf(w, " (yours: %d)", st.Counts.Yours)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Monthly submissions:")
	for i, n := range st.Monthly {
		if i >= len(models.Months) {
			break
		}
		fmt.Fprintf(w, "  %s %-20s %d\n", models.Months[i], strings.Repeat("#", min(n, 20)), n)
	}

	if len(st.StorageLocations) == 0 {
		fmt.Fprintln(w, "Storage locations: none")
		return
	}
	fmt.Fprintf(w, "Storage locations: %s\n", strings.Join(st.StorageLocations, ", "))
}

func (a *App) printUsers(list []models.User) {
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No matches.")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	for _, u := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, orDash(u.Username), orDash(u.FullName), orDash(u.Email))
	}
	_ = tw.Flush()
}
