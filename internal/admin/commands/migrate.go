package commands

import (
	"context"
	"fmt"

	"github.com/citelink/citelink/internal/config"
	"github.com/citelink/citelink/internal/corpus"
	"github.com/spf13/cobra"
)

// NewMigrateCmd creates the corpus schema management command. The
// corpus schema is a fixed two-table shape (documents, citations)
// applied idempotently via CREATE TABLE IF NOT EXISTS on connect, so
// this command just forces that connect+init and reports reachability.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Corpus schema commands",
		Long:  "Initialize and verify the corpus store's schema",
	}

	cmd.AddCommand(newMigrateInitCmd())
	cmd.AddCommand(newMigrateStatusCmd())

	return cmd
}

func newMigrateInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the corpus schema",
		Long:  "Connect to the configured corpus backend, creating its schema if absent",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			store, err := initCorpusStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			fmt.Printf("Corpus schema ready (driver: %s)\n", cfg.Corpus.Driver)
			return nil
		},
	}
}

func newMigrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check corpus store reachability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			store, err := initCorpusStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Ping(context.Background()); err != nil {
				return fmt.Errorf("corpus store unreachable: %w", err)
			}

			fmt.Printf("Corpus store reachable (driver: %s)\n", cfg.Corpus.Driver)
			return nil
		},
	}
}

// Helper functions

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if verbose {
		fmt.Printf("Loading config from: %s\n", configPath)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// initCorpusStore builds the corpus.Store named by cfg.Corpus.Driver.
func initCorpusStore(cfg *config.Config) (corpus.Store, error) {
	switch cfg.Corpus.Driver {
	case "", "memory":
		return corpus.NewMemoryStore(), nil
	case "sqlite":
		return corpus.NewSQLiteStore(cfg.Corpus.DSN)
	case "postgres":
		return corpus.NewPostgresStore(cfg.Corpus.DSN)
	default:
		return nil, fmt.Errorf("unknown corpus driver: %s", cfg.Corpus.Driver)
	}
}
