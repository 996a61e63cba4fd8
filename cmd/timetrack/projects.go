package main

import (
	"fmt"

	"github.com/geocoder89/timetrack/internal/domain/project"
	"github.com/geocoder89/timetrack/internal/domain/task"
	"github.com/spf13/cobra"
)

var (
	descriptionFlag string
	projectFlag     string
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List, add or remove projects",
	Args:  cobra.NoArgs,
	RunE:  runProjectsList,
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your projects",
	Args:  cobra.NoArgs,
	RunE:  runProjectsList,
}

var projectsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authedClient()
		if err != nil {
			return err
		}
		p, err := c.CreateProject(cmd.Context(), project.CreateProjectRequest{Name: args[0], Description: descriptionFlag})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (%s)\n", p.Name, p.ID)
		return nil
	},
}

var projectsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a project with its tasks and entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authedClient()
		if err != nil {
			return err
		}
		if err := c.DeleteProject(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Deleted project", args[0])
		return nil
	},
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List, add or remove tasks",
	Args:  cobra.NoArgs,
	RunE:  runTasksList,
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks, optionally for one project",
	Args:  cobra.NoArgs,
	RunE:  runTasksList,
}

var tasksAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a task in a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authedClient()
		if err != nil {
			return err
		}
		t, err := c.CreateTask(cmd.Context(), task.CreateTaskRequest{ProjectID: projectFlag, Name: args[0], Description: descriptionFlag})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created task %s (%s)\n", t.Name, t.ID)
		return nil
	},
}

var tasksRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a task with its entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authedClient()
		if err != nil {
			return err
		}
		if err := c.DeleteTask(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Deleted task", args[0])
		return nil
	},
}

func init() {
	projectsCmd.AddCommand(projectsListCmd, projectsAddCmd, projectsRmCmd)
	projectsAddCmd.Flags().StringVar(&descriptionFlag, "description", "", "Project description")

	tasksCmd.AddCommand(tasksListCmd, tasksAddCmd, tasksRmCmd)
	tasksCmd.PersistentFlags().StringVar(&projectFlag, "project", "", "Project id")
	tasksAddCmd.Flags().StringVar(&descriptionFlag, "description", "", "Task description")
	_ = tasksAddCmd.MarkFlagRequired("project")
}

func runProjectsList(cmd *cobra.Command, args []string) error {
	c, err := authedClient()
	if err != nil {
		return err
	}
	items, err := c.Projects(cmd.Context())
	if err != nil {
		return err
	}
	printProjects(cmd.OutOrStdout(), items)
	return nil
}

func runTasksList(cmd *cobra.Command, args []string) error {
	c, err := authedClient()
	if err != nil {
		return err
	}
	items, err := c.Tasks(cmd.Context(), projectFlag)
	if err != nil {
		return err
	}
	printTasks(cmd.OutOrStdout(), items)
	return nil
}
