package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mclellan/stocktalk/internal/api"
	"github.com/mclellan/stocktalk/internal/config"
	"github.com/mclellan/stocktalk/internal/version"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show stocktalk status and configuration summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("Stocktalk %s (commit %s)\n\n", version.Version, version.Commit)

			// Show paths
			fmt.Printf("Config:  %s\n", paths.Config)
			fmt.Printf("Data:    %s\n", paths.Data)
			fmt.Printf("Logs:    %s\n", paths.Logs)
			fmt.Println()

			// Load config
			cfg, err := config.Load(paths.Config)
			if err != nil {
				if os.IsNotExist(err) {
					fmt.Println("Config:  not found (using defaults)")
				} else {
					fmt.Printf("Config:  error loading: %v\n", err)
				}
				return nil
			}

			fmt.Printf("Backend: url=%s user=%s timeout=%ds\n",
				cfg.Backend.BaseURL, cfg.Backend.UserID, cfg.Backend.TimeoutSeconds)
			fmt.Printf("Theme:   %s\n", cfg.UI.Theme)

			// Backend reachability
			client := api.New(cfg.Backend.BaseURL, 5*time.Second, log)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Health(ctx); err != nil {
				fmt.Printf("Health:  unreachable (%v)\n", err)
			} else {
				fmt.Println("Health:  ok")
			}

			// Validation
			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				fmt.Printf("\nValidation issues (%d):\n", len(issues))
				for _, issue := range issues {
					fmt.Printf("  - %s: %s\n", issue.Path, issue.Message)
				}
			}

			return nil
		},
	}

	return cmd
}
