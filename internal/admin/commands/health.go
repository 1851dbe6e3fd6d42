package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewHealthCmd creates the health command
func NewHealthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Health check commands",
		Long:  "Check health of the corpus store, cache, and queue backends",
	}

	cmd.AddCommand(newHealthCheckCmd())
	cmd.AddCommand(newHealthCorpusCmd())
	cmd.AddCommand(newHealthCacheCmd())
	cmd.AddCommand(newHealthQueueCmd())

	return cmd
}

func newHealthCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Perform full health check",
		Long:  "Check health of the corpus store, cache, and queue backends",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			results := map[string]string{}

			if store, err := initCorpusStore(cfg); err != nil {
				results["corpus"] = "error: " + err.Error()
			} else {
				if err := store.Ping(ctx); err != nil {
					results["corpus"] = "unhealthy: " + err.Error()
				} else {
					results["corpus"] = "healthy"
				}
				store.Close()
			}

			if c, err := initCache(cfg); err != nil {
				results["cache"] = "error: " + err.Error()
			} else {
				if _, err := c.Stats(ctx); err != nil {
					results["cache"] = "unhealthy: " + err.Error()
				} else {
					results["cache"] = "healthy"
				}
				c.Close()
			}

			if q, err := initQueue(cfg); err != nil {
				results["queue"] = "error: " + err.Error()
			} else {
				if _, err := q.GetDepth(ctx); err != nil {
					results["queue"] = "unhealthy: " + err.Error()
				} else {
					results["queue"] = "healthy"
				}
				q.Close()
			}

			overall := "healthy"
			for _, status := range results {
				if status != "healthy" {
					overall = "degraded"
				}
			}

			fmt.Println("System Health Check:")
			fmt.Println("====================")
			fmt.Printf("Overall Status:  %s\n", overall)
			fmt.Println()
			fmt.Println("Component Checks:")
			fmt.Printf("  Corpus:  %s\n", results["corpus"])
			fmt.Printf("  Cache:   %s\n", results["cache"])
			fmt.Printf("  Queue:   %s\n", results["queue"])

			return nil
		},
	}
}

func newHealthCorpusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "corpus",
		Short: "Check corpus store health",
		Long:  "Check corpus store connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			store, err := initCorpusStore(cfg)
			if err != nil {
				return fmt.Errorf("✗ corpus store init failed: %w", err)
			}
			defer store.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			start := time.Now()
			if err := store.Ping(ctx); err != nil {
				return fmt.Errorf("✗ corpus store unreachable: %w", err)
			}

			fmt.Println("✓ Corpus store is healthy")
			fmt.Printf("  Driver: %s\n", cfg.Corpus.Driver)
			fmt.Printf("  Ping Time: %v\n", time.Since(start))

			return nil
		},
	}
}

func newHealthCacheCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cache",
		Short: "Check cache health",
		Long:  "Check cache connectivity and report stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			c, err := initCache(cfg)
			if err != nil {
				return fmt.Errorf("✗ cache init failed: %w", err)
			}
			defer c.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			stats, err := c.Stats(ctx)
			if err != nil {
				return fmt.Errorf("✗ cache unreachable: %w", err)
			}

			fmt.Println("✓ Cache is healthy")
			fmt.Printf("  Driver: %s\n", cfg.Cache.Driver)
			fmt.Printf("  Hit Rate: %.2f%%\n", stats.HitRate*100)
			fmt.Printf("  Keys: %d\n", stats.Keys)

			return nil
		},
	}
}

func newHealthQueueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "queue",
		Short: "Check queue health",
		Long:  "Check job queue connectivity and depth",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			q, err := initQueue(cfg)
			if err != nil {
				return fmt.Errorf("✗ queue init failed: %w", err)
			}
			defer q.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			depth, err := q.GetDepth(ctx)
			if err != nil {
				return fmt.Errorf("✗ queue unreachable: %w", err)
			}

			fmt.Println("✓ Queue is healthy")
			fmt.Printf("  Driver: %s\n", cfg.Queue.Driver)
			fmt.Printf("  Depth: %d\n", depth)

			return nil
		},
	}
}
