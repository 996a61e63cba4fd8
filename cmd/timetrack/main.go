package main

import (
	"fmt"
	"os"

	"github.com/geocoder89/timetrack/internal/client"
	"github.com/spf13/cobra"
)

var apiURL string

var rootCmd = &cobra.Command{
	Use:   "timetrack",
	Short: "Command-line client for the timetrack API",
	Long: `timetrack logs time against projects and tasks on a timetrack server and
shows the dashboard. The access token from "timetrack login" is kept in ~/.timetrack/token.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultURL := os.Getenv("TIMETRACK_API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultURL, "API base URL (env TIMETRACK_API_URL)")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(entriesCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(exportCmd)
}

// authedClient loads the saved token; commands other than register and
// login need it.
func authedClient() (*client.Client, error) {
	token, err := loadToken()
	if err != nil {
		return nil, err
	}
	return client.New(apiURL, token), nil
}
