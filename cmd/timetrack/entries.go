package main

import (
	"fmt"
	"time"

	"github.com/geocoder89/timetrack/internal/client"
	"github.com/geocoder89/timetrack/internal/domain/timeentry"
	"github.com/spf13/cobra"
)

var (
	logTask     string
	logDate     string
	logDuration string
	logComment  string

	entriesTask   string
	entriesFrom   string
	entriesTo     string
	entriesLimit  int
	entriesCursor string
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Log time on a task",
	Example: `  timetrack log --task <id> --duration "1h 30m"
  timetrack log --task <id> --date 2024-03-04 --duration 45m --comment "review"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := timeentry.ParseDuration(logDuration); err != nil {
			return err
		}
		c, err := authedClient()
		if err != nil {
			return err
		}
		e, err := c.LogTime(cmd.Context(), timeentry.CreateTimeEntryRequest{
			TaskID:   logTask,
			Date:     logDate,
			Duration: logDuration,
			Comment:  logComment,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged %s on %s (%s)\n", timeentry.FormatDuration(e.Hours), e.Date, e.ID)
		return nil
	},
}

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "List time entries, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authedClient()
		if err != nil {
			return err
		}
		page, err := c.TimeEntries(cmd.Context(), client.EntryQuery{
			TaskID: entriesTask,
			From:   entriesFrom,
			To:     entriesTo,
			Limit:  entriesLimit,
			Cursor: entriesCursor,
		})
		if err != nil {
			return err
		}
		printEntries(cmd.OutOrStdout(), page.Items)
		if page.HasMore && page.NextCursor != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "\nmore: --cursor %s\n", *page.NextCursor)
		}
		return nil
	},
}

func init() {
	logCmd.Flags().StringVar(&logTask, "task", "", "Task id")
	logCmd.Flags().StringVar(&logDate, "date", time.Now().Format(timeentry.DateLayout), "Day worked (YYYY-MM-DD)")
	logCmd.Flags().StringVar(&logDuration, "duration", "", `Time spent, e.g. "1h 30m", "2h" or "45m"`)
	logCmd.Flags().StringVar(&logComment, "comment", "", "Optional comment")
	_ = logCmd.MarkFlagRequired("task")
	_ = logCmd.MarkFlagRequired("duration")

	entriesCmd.Flags().StringVar(&entriesTask, "task", "", "Only entries of this task")
	entriesCmd.Flags().StringVar(&entriesFrom, "from", "", "First day (YYYY-MM-DD)")
	entriesCmd.Flags().StringVar(&entriesTo, "to", "", "Last day (YYYY-MM-DD)")
	entriesCmd.Flags().IntVar(&entriesLimit, "limit", 0, "Page size")
	entriesCmd.Flags().StringVar(&entriesCursor, "cursor", "", "Cursor from a previous page")
}
