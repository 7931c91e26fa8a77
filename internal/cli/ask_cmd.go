package cli

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mclellan/stocktalk/internal/api"
	"github.com/mclellan/stocktalk/internal/chat"
	"github.com/mclellan/stocktalk/internal/config"
	"github.com/mclellan/stocktalk/internal/domain"
	"github.com/mclellan/stocktalk/internal/ui"
)

func newAskCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "ask <question>...",
		Short: "Send a single question and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")
			client := api.New(cfg.Backend.BaseURL, time.Duration(cfg.Backend.TimeoutSeconds)*time.Second, log)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			resp, err := client.ProcessQuery(ctx, api.QueryRequest{
				Query:     query,
				UserID:    cfg.Backend.UserID,
				SessionID: sessionID,
			})
			if err != nil {
				return err
			}
			if resp.Status == "error" {
				if resp.Error != "" {
					return fmt.Errorf("query failed: %s", resp.Error)
				}
				return fmt.Errorf("query failed")
			}

			styles := ui.NewStyles(ui.LightTheme())
			for _, msg := range chat.Decompose(resp, client.ResolveURL) {
				switch msg.Kind {
				case domain.KindImage:
					fmt.Printf("chart: %s\n", msg.Content)
				default:
					if table, ok := ui.RenderTable([]byte(msg.Content), styles); ok {
						fmt.Print(table)
					} else {
						fmt.Println(msg.Content)
					}
				}
			}
			if resp.SessionID != "" {
				fmt.Printf("\nsession: %s\n", resp.SessionID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "continue an existing server session")

	return cmd
}
