package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// newGenerateCmd creates the generate command, a one-shot manual pipeline
// run for operators.
func newGenerateCmd(app *App) *cobra.Command {
	var upcoming bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run the event-generation pipeline once",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Generator == nil {
				return fmt.Errorf("provider is not configured (set MAJOR_NEWS_API_KEY or provider.api_key)")
			}

			ctx := context.Background()
			run := app.Generator.GenerateCurrentWeekEvents
			if upcoming {
				run = app.Generator.GenerateUpcomingWeekEvents
			}

			result, err := run(ctx)
			if err != nil {
				return err
			}

			if app.jsonOutput {
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			fmt.Printf("Week starting %s: %d generated, %d created, %d skipped\n",
				result.WeekStart, result.Generated, len(result.Created), result.Skipped)
			for _, e := range result.Created {
				fmt.Printf("  + [%s] %s (%s, %s/%s)\n",
					e.Date, e.Event, e.Type, e.Significance, e.MarketSentiment)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&upcoming, "upcoming", false, "generate for the upcoming week instead of the current one")
	return cmd
}
