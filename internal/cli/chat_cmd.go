package cli

import (
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mclellan/stocktalk/internal/api"
	"github.com/mclellan/stocktalk/internal/chat"
	"github.com/mclellan/stocktalk/internal/config"
	"github.com/mclellan/stocktalk/internal/logging"
	"github.com/mclellan/stocktalk/internal/store"
	"github.com/mclellan/stocktalk/internal/ui"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Open the interactive chat interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat()
		},
	}
}

func runChat() error {
	cfg, err := config.Load(paths.Config)
	if err != nil {
		return err
	}

	issues := config.Validate(&cfg)
	if len(issues) > 0 {
		for _, issue := range issues {
			log.Error().Str("path", issue.Path).Msg(issue.Message)
		}
		return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
	}

	if err := paths.EnsureDirs(); err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file while it runs.
	level := logLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	logPath := cfg.Logging.File
	if logPath == "" {
		logPath = filepath.Join(paths.Logs, "stocktalk.log")
	}
	log = logging.NewFile(logPath, level)

	db, err := store.Open(filepath.Join(paths.Data, "stocktalk.db"), log)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	prefs := store.NewPrefs(db)

	client := api.New(cfg.Backend.BaseURL, time.Duration(cfg.Backend.TimeoutSeconds)*time.Second, log)

	sessions := chat.NewStore(log)
	gate := chat.NewGate(sessions)
	dispatcher := chat.NewDispatcher(sessions, gate, client, cfg.Backend.UserID, log)

	model := ui.New(sessions, dispatcher, prefs, resolveDark(prefs, cfg), log)
	dispatcher.SetNotify(model.Notify)

	log.Info().Str("backend", cfg.Backend.BaseURL).Msg("chat starting")
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

// resolveDark picks the theme: persisted preference first, then the
// configured fallback, then terminal background detection.
func resolveDark(prefs *store.Prefs, cfg config.Config) bool {
	if dark, ok := prefs.Theme(); ok {
		return dark
	}
	switch cfg.UI.Theme {
	case "dark":
		return true
	case "light":
		return false
	}
	return lipgloss.HasDarkBackground()
}
