package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dorianjanezic/major-news/internal/store"
)

// newEventsCmd creates the events command group.
func newEventsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect persisted market events",
	}
	cmd.AddCommand(newEventsListCmd(app))
	return cmd
}

func newEventsListCmd(app *App) *cobra.Command {
	var week, eventType string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List persisted events",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return fmt.Errorf("store is not available")
			}

			list, err := app.Store.List(context.Background(), store.ListFilter{
				WeekStart: week,
				Type:      eventType,
				Limit:     limit,
			})
			if err != nil {
				return err
			}

			if app.jsonOutput {
				data, err := json.MarshalIndent(list, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			if len(list) == 0 {
				fmt.Println("No events found")
				return nil
			}
			fmt.Printf("%-5s %-22s %-40s %-20s %-6s %-8s\n",
				"ID", "DATE", "EVENT", "TYPE", "SIG", "SENT")
			for _, e := range list {
				fmt.Printf("%-5d %-22s %-40s %-20s %-6s %-8s\n",
					e.ID, truncate(e.Date, 22), truncate(e.Event, 40),
					e.Type, e.Significance, e.MarketSentiment)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&week, "week", "", "filter by week start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&eventType, "type", "", "filter by event type")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of events to list")
	return cmd
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
