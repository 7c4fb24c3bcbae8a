// Package cli provides the command-line interface for the events service.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dorianjanezic/major-news/internal/config"
	"github.com/dorianjanezic/major-news/internal/events"
	"github.com/dorianjanezic/major-news/internal/logging"
	"github.com/dorianjanezic/major-news/internal/provider"
	"github.com/dorianjanezic/major-news/internal/store"
)

// Version information
const Version = "0.1.0"

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Store     store.EventStore
	Provider  provider.Provider
	Generator *events.Generator

	jsonOutput bool
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	eventStore, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, commands requiring it will fail")
	} else {
		app.Store = eventStore
		logger.Debug().Str("path", cfg.Store.Path).Msg("SQLite store initialized")
	}

	if cfg.Provider.APIKey != "" {
		p, err := provider.New(provider.Config{
			Variant: cfg.Provider.Variant,
			Model:   cfg.Provider.Model,
			BaseURL: cfg.Provider.BaseURL,
			APIKey:  cfg.Provider.APIKey,
			Timeout: cfg.Provider.Timeout,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize provider")
		} else {
			app.Provider = p
			logger.Debug().
				Str("variant", cfg.Provider.Variant).
				Str("model", cfg.Provider.Model).
				Msg("Provider initialized")
		}
	}

	if app.Store != nil && app.Provider != nil {
		app.Generator = events.NewGenerator(app.Provider, app.Store, logger)
	}

	rootCmd := &cobra.Command{
		Use:     "major-news",
		Short:   "Weekly market-moving events service",
		Long:    "major-news researches the market-moving events of a week via an AI provider,\nvalidates them, and persists them without duplicates.",
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				logging.SetDebugLevel()
			}
		},
	}

	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&app.jsonOutput, "json", false, "output results as JSON")

	rootCmd.AddCommand(newServeCmd(app))
	rootCmd.AddCommand(newGenerateCmd(app))
	rootCmd.AddCommand(newEventsCmd(app))

	return rootCmd
}
