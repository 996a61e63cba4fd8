package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/geocoder89/timetrack/internal/client"
	"github.com/spf13/cobra"
)

var (
	authEmail    string
	authPassword string
	authName     string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := passwordOrPrompt(cmd)
		if err != nil {
			return err
		}
		resp, err := client.New(apiURL, "").Register(cmd.Context(), authEmail, password, authName)
		if err != nil {
			return err
		}
		if err := saveToken(resp.AccessToken); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Registered and logged in as %s\n", resp.User.Email)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the access token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := passwordOrPrompt(cmd)
		if err != nil {
			return err
		}
		resp, err := client.New(apiURL, "").Login(cmd.Context(), authEmail, password)
		if err != nil {
			return err
		}
		if err := saveToken(resp.AccessToken); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (token valid for %d minutes)\n", resp.User.Email, resp.ExpiresIn/60)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored access token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return removeToken()
	},
}

func init() {
	for _, c := range []*cobra.Command{registerCmd, loginCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "Account email")
		c.Flags().StringVar(&authPassword, "password", "", "Password (prompted when omitted)")
		_ = c.MarkFlagRequired("email")
	}
	registerCmd.Flags().StringVar(&authName, "name", "", "Display name")
	_ = registerCmd.MarkFlagRequired("name")
}

func passwordOrPrompt(cmd *cobra.Command) (string, error) {
	if authPassword != "" {
		return authPassword, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
