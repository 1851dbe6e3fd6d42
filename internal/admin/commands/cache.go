package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/citelink/citelink/internal/cache"
	"github.com/citelink/citelink/internal/config"
	"github.com/spf13/cobra"
)

// initCache builds the result cache named by cfg.Cache.Driver.
func initCache(cfg *config.Config) (cache.Cache, error) {
	return cache.NewCache(&cache.Config{
		Type:     cfg.Cache.Driver,
		TTL:      cfg.Cache.TTL,
		Addr:     cfg.Cache.Addr,
		DB:       cfg.Cache.DB,
		Prefix:   cfg.Cache.Prefix,
	})
}

// NewCacheCmd creates the cache command
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Cache management commands",
		Long:  "Manage the extraction result cache (flush, stats, clear)",
	}

	cmd.AddCommand(newCacheFlushCmd())
	cmd.AddCommand(newCacheStatsCmd())
	cmd.AddCommand(newCacheClearCmd())

	return cmd
}

func newCacheFlushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flush",
		Short: "Flush all cache entries",
		Long:  "Remove all entries from the result cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			c, err := initCache(cfg)
			if err != nil {
				return fmt.Errorf("initializing cache: %w", err)
			}
			defer c.Close()

			if err := c.Clear(context.Background()); err != nil {
				return fmt.Errorf("flushing cache: %w", err)
			}

			fmt.Println("✓ Cache flushed successfully")
			return nil
		},
	}
}

func newCacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		Long:  "Display cache hit rate, size, and other metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			c, err := initCache(cfg)
			if err != nil {
				return fmt.Errorf("initializing cache: %w", err)
			}
			defer c.Close()

			stats, err := c.Stats(context.Background())
			if err != nil {
				return fmt.Errorf("fetching cache stats: %w", err)
			}

			jsonOutput, _ := cmd.Flags().GetBool("json")
			if jsonOutput {
				data, _ := json.MarshalIndent(stats, "", "  ")
				fmt.Println(string(data))
				return nil
			}

			fmt.Println("Cache Statistics:")
			fmt.Println("=================")
			fmt.Printf("Keys:       %d\n", stats.Keys)
			fmt.Printf("Hits:       %d\n", stats.Hits)
			fmt.Printf("Misses:     %d\n", stats.Misses)
			fmt.Printf("Hit Rate:   %.2f%%\n", stats.HitRate*100)
			fmt.Printf("Evictions:  %d\n", stats.Evictions)
			fmt.Printf("Size:       %d bytes\n", stats.Size)

			return nil
		},
	}
}

func newCacheClearCmd() *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear a single cache entry",
		Long:  "Remove one cache entry by key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				return fmt.Errorf("key is required")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			c, err := initCache(cfg)
			if err != nil {
				return fmt.Errorf("initializing cache: %w", err)
			}
			defer c.Close()

			if err := c.Delete(context.Background(), key); err != nil {
				return fmt.Errorf("clearing key %s: %w", key, err)
			}

			fmt.Printf("✓ Cleared cache entry: %s\n", key)
			return nil
		},
	}

	cmd.Flags().StringVarP(&key, "key", "k", "", "Cache key to remove")
	cmd.MarkFlagRequired("key")

	return cmd
}
