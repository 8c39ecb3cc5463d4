package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/newtelco/dashboard/internal/config"
	"github.com/newtelco/dashboard/internal/version"
)

var (
	configPath string
	apiURL     string
)

var rootCmd = &cobra.Command{
	Use:   "dashboard-cli",
	Short: "Terminal workspace dashboard",
	Long: `Terminal front-end for the workspace dashboard.

Available subcommands:
  tui       - Interactive dashboard with directory, projects and apps
  directory - Print the contact directory
  login     - Store a session token issued by the backend
  version   - Print build information`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, args)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "dashboard-cli %s\n", version.GetInfo())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $CONFIG_PATH or config.toml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "backend base url (overrides [cli].api_url)")

	directoryCmd.Flags().StringP("query", "q", "", "only print colleagues whose name contains this text")
	directoryCmd.Flags().Bool("json", false, "print records as JSON")
	loginCmd.Flags().String("token", "", "session token from the backend's login response")

	rootCmd.AddCommand(tuiCmd, directoryCmd, loginCmd, versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the config file from the flag, then $CONFIG_PATH.
func loadConfig() (config.Config, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = strings.TrimSpace(os.Getenv("CONFIG_PATH"))
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(apiURL); v != "" {
		cfg.CLI.APIURL = v
	}
	return cfg, nil
}
