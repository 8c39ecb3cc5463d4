package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/newtelco/dashboard/internal/config"
	"github.com/newtelco/dashboard/internal/identity"
)

const sessionEnv = "DASHBOARD_SESSION"

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a session token issued by the backend",
	Long: `Sign in at <api-url>/auth/google/login, then pass the returned token:

  dashboard-cli login --token <token>`,
	RunE: runLogin,
}

// sessionLoader reads $DASHBOARD_SESSION first and the session file otherwise.
func sessionLoader(cfg config.Config) func() (*identity.Identity, error) {
	return func() (*identity.Identity, error) {
		now := time.Now()
		if token := strings.TrimSpace(os.Getenv(sessionEnv)); token != "" {
			id, err := identity.Inspect(token)
			if err != nil {
				return nil, err
			}
			if id.Expired(now) {
				return nil, nil
			}
			return id, nil
		}
		return identity.LoadSessionFile(cfg.CLI.SessionFile, now)
	}
}

func runLogin(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	token, _ := cmd.Flags().GetString("token")
	if strings.TrimSpace(token) == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Sign in at %s/auth/google/login and rerun with --token\n", cfg.APIBaseURL())
		return nil
	}
	id, err := identity.Inspect(token)
	if err != nil {
		return err
	}
	if id.Expired(time.Now()) {
		return fmt.Errorf("session token expired at %s", id.ExpiresAt.Format(time.RFC3339))
	}
	if err := identity.SaveSessionFile(cfg.CLI.SessionFile, token); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", displayName(id))
	return nil
}

func displayName(id *identity.Identity) string {
	switch {
	case id.Name != "":
		return id.Name
	case id.Email != "":
		return id.Email
	default:
		return id.Subject
	}
}
