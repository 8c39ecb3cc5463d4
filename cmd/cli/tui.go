package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/newtelco/dashboard/internal/apps"
	"github.com/newtelco/dashboard/internal/crm"
	"github.com/newtelco/dashboard/internal/directory"
	"github.com/newtelco/dashboard/internal/logger"
	"github.com/newtelco/dashboard/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive dashboard",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Logs go to a file; stdout belongs to the renderer.
	if err := os.MkdirAll(filepath.Dir(cfg.CLI.LogFile), 0o700); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	logFile, err := os.OpenFile(cfg.CLI.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger.InitWriter(logFile, cfg.Log.Level, cfg.Log.Format)

	base := cfg.APIBaseURL()
	if base == "" {
		return fmt.Errorf("api url is required")
	}
	timeout := time.Duration(cfg.Directory.TimeoutSeconds) * time.Second
	client := &http.Client{Timeout: timeout}

	login := tui.NewLoginPrompt(logger.L, base)
	state := directory.NewState(logger.L, directory.NewHTTPSource(client, base+cfg.Directory.Path), login)

	deps := tui.Deps{
		Directory: state,
		Apps:      apps.NewClient(client, base),
		Session:   sessionLoader(cfg),
		Login:     login,
		Logger:    logger.L,
		Timeout:   timeout,
	}
	if crmURL := strings.TrimSpace(cfg.CRM.BaseURL); crmURL != "" {
		deps.Projects = crm.NewClient(logger.L, client, crmURL)
	}

	model := tui.New(cmd.Context(), deps)
	defer model.Close()
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	logger.L.Info("dashboard closed", slog.Int("sign_in_requests", login.Requests()))
	return nil
}
