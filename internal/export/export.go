// Package export renders projects and dashboard summaries as .xlsx workbooks.
package export

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/geocoder89/timetrack/internal/domain/project"
	"github.com/geocoder89/timetrack/internal/domain/task"
	"github.com/geocoder89/timetrack/internal/domain/timeentry"
	"github.com/geocoder89/timetrack/internal/report"
	"github.com/xuri/excelize/v2"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	SummaryFilename = "track_time_records.xlsx"

	TasksSheet   = "Tasks"
	EntriesSheet = "Time Entries"

	// built-in number format "0.00"
	hoursNumFmt = 2
)

var unsafeFilename = regexp.MustCompile(`[^a-z0-9]+`)

// ProjectFilename builds a download name such as "project-website-redesign.xlsx".
func ProjectFilename(p project.Project) string {
	slug := strings.Trim(unsafeFilename.ReplaceAllString(strings.ToLower(p.Name), "-"), "-")
	if slug == "" {
		slug = p.ID
	}
	return "project-" + slug + ".xlsx"
}

// ProjectWorkbook writes one row per task with its entry count and total,
// followed by a sheet listing every entry. Entries of tasks not in tasks are
// skipped.
func ProjectWorkbook(p project.Project, tasks []task.Task, entries []timeentry.TimeEntry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", TasksSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(EntriesSheet); err != nil {
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{NumFmt: hoursNumFmt})
	if err != nil {
		return nil, err
	}

	byTask := make(map[string][]timeentry.TimeEntry, len(tasks))
	names := make(map[string]string, len(tasks))
	for _, t := range tasks {
		names[t.ID] = t.Name
	}
	for _, e := range entries {
		if _, ok := names[e.TaskID]; ok {
			byTask[e.TaskID] = append(byTask[e.TaskID], e)
		}
	}

	if err := setRow(f, TasksSheet, 1, "Task", "Description", "Entries", "Total Hours"); err != nil {
		return nil, err
	}
	var total int64
	row := 2
	for _, t := range tasks {
		hours := timeentry.TotalHours(byTask[t.ID])
		total += timeentry.Hundredths(hours)
		if err := setRow(f, TasksSheet, row, t.Name, t.Description, len(byTask[t.ID]), hours); err != nil {
			return nil, err
		}
		row++
	}
	if err := setRow(f, TasksSheet, row, "Total", "", nil, float64(total)/100); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(TasksSheet, "D2", cell("D", row), style); err != nil {
		return nil, err
	}

	if err := setRow(f, EntriesSheet, 1, "Date", "Task", "Hours", "Comment"); err != nil {
		return nil, err
	}
	row = 2
	for _, e := range entries {
		name, ok := names[e.TaskID]
		if !ok {
			continue
		}
		if err := setRow(f, EntriesSheet, row, e.Date.String(), name, e.Hours, e.Comment); err != nil {
			return nil, err
		}
		row++
	}
	if row > 2 {
		if err := f.SetCellStyle(EntriesSheet, "C2", cell("C", row-1), style); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(TasksSheet, "A", "B", 30); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(EntriesSheet, "D", "D", 50); err != nil {
		return nil, err
	}
	f.SetActiveSheet(0)

	return write(f)
}

// SummaryWorkbook writes the dashboard's project totals on a sheet named
// after the range, with a trailing Total row.
func SummaryWorkbook(sum report.Summary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(sum.Label)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	if err := setRow(f, sheet, 1, "Project", "Total Hours"); err != nil {
		return nil, err
	}
	row := 2
	for _, p := range sum.Projects {
		if err := setRow(f, sheet, row, p.Name, p.TotalHours); err != nil {
			return nil, err
		}
		row++
	}
	if err := setRow(f, sheet, row, "Total", sum.TotalHours); err != nil {
		return nil, err
	}

	style, err := f.NewStyle(&excelize.Style{NumFmt: hoursNumFmt})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "B2", cell("B", row), style); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "A", "A", 30); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "B", "B", 12); err != nil {
		return nil, err
	}

	return write(f)
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	return f.SetSheetRow(sheet, cell("A", row), &values)
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// sheetName strips the characters Excel rejects and keeps the 31 rune limit.
func sheetName(label string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return -1
		}
		return r
	}, label)
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}
	if strings.TrimSpace(name) == "" {
		return "Summary"
	}
	return name
}

func write(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
