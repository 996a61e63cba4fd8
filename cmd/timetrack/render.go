package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/geocoder89/timetrack/internal/domain/project"
	"github.com/geocoder89/timetrack/internal/domain/task"
	"github.com/geocoder89/timetrack/internal/domain/timeentry"
	"github.com/geocoder89/timetrack/internal/report"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printProjects(w io.Writer, items []project.Project) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No projects yet.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
	for _, p := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Name, p.Description)
	}
	tw.Flush()
}

func printTasks(w io.Writer, items []task.Task) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No tasks yet.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tPROJECT\tNAME")
	for _, t := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.ID, t.ProjectID, t.Name)
	}
	tw.Flush()
}

func printEntries(w io.Writer, items []timeentry.TimeEntry) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No time entries.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "DATE\tDURATION\tTASK\tCOMMENT\tID")
	for _, e := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Date, timeentry.FormatDuration(e.Hours), e.TaskID, e.Comment, e.ID)
	}
	fmt.Fprintf(tw, "\t%s\tTotal\t\t\n", timeentry.FormatDuration(timeentry.TotalHours(items)))
	tw.Flush()
}

// printSummary renders projects with their tasks indented beneath them.
func printSummary(w io.Writer, sum report.Summary) {
	fmt.Fprintln(w, sum.Label)
	fmt.Fprintln(w)

	if len(sum.Projects) == 0 {
		fmt.Fprintln(w, "No projects yet.")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "PROJECT / TASK\tHOURS\tDURATION")
	for _, p := range sum.Projects {
		fmt.Fprintf(tw, "%s\t%.2f\t%s\n", p.Name, p.TotalHours, timeentry.FormatDuration(p.TotalHours))
		for _, t := range p.Tasks {
			fmt.Fprintf(tw, "  %s\t%.2f\t%s\n", t.Name, t.Hours, timeentry.FormatDuration(t.Hours))
		}
	}
	fmt.Fprintf(tw, "Total\t%.2f\t%s\n", sum.TotalHours, timeentry.FormatDuration(sum.TotalHours))
	tw.Flush()
}
