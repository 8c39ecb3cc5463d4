package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/newtelco/dashboard/internal/directory"
	"github.com/newtelco/dashboard/internal/logger"
	"github.com/newtelco/dashboard/internal/tui"
)

var directoryCmd = &cobra.Command{
	Use:   "directory",
	Short: "Print the contact directory",
	RunE:  runDirectory,
}

func runDirectory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	id, err := sessionLoader(cfg)()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	timeout := time.Duration(cfg.Directory.TimeoutSeconds) * time.Second
	base := cfg.APIBaseURL()
	source := directory.NewHTTPSource(&http.Client{Timeout: timeout}, base+cfg.Directory.Path)
	login := tui.NewLoginPrompt(logger.L, base)
	state := directory.NewState(logger.L, source, login)

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	state.Refresh(ctx, id)

	query, _ := cmd.Flags().GetString("query")
	state.Search(query)
	view := state.View()

	switch view.Phase {
	case directory.PhaseLoginRequired:
		if view.ErrorMessage != "" {
			return fmt.Errorf("login required (%s): sign in at %s", view.ErrorMessage, login.URL())
		}
		return fmt.Errorf("login required: sign in at %s", login.URL())
	case directory.PhaseFailed:
		return fmt.Errorf("directory unavailable: %s", view.ErrorMessage)
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view.Visible)
	}
	if len(view.Visible) == 0 {
		fmt.Fprintln(out, "No colleagues found")
		return nil
	}
	for _, rec := range view.Visible {
		fields := []string{rec.Name, strings.Join(rec.Phones, ", ")}
		if rec.Email != "" {
			fields = append(fields, rec.Email)
		}
		if rec.Position != "" {
			fields = append(fields, rec.Position)
		}
		fmt.Fprintln(out, strings.Join(fields, "\t"))
	}
	return nil
}
