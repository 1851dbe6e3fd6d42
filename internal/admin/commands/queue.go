package commands

import (
	"context"
	"fmt"

	"github.com/citelink/citelink/internal/config"
	"github.com/citelink/citelink/internal/queue"
	"github.com/spf13/cobra"
)

// initQueue builds the job queue named by cfg.Queue.Driver.
func initQueue(cfg *config.Config) (queue.Queue, error) {
	return queue.NewQueue(&queue.QueueConfig{
		Driver:     cfg.Queue.Driver,
		URL:        cfg.Queue.URL,
		MaxRetries: cfg.Queue.MaxRetries,
		RetryDelay: cfg.Queue.RetryDelay,
	})
}

// NewQueueCmd creates the queue command
func NewQueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Job queue management commands",
		Long:  "Inspect the async job queue's depth",
	}

	cmd.AddCommand(newQueueStatsCmd())

	return cmd
}

func newQueueStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show queue depth",
		Long:  "Display the number of jobs currently queued",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			q, err := initQueue(cfg)
			if err != nil {
				return fmt.Errorf("initializing queue: %w", err)
			}
			defer q.Close()

			depth, err := q.GetDepth(context.Background())
			if err != nil {
				return fmt.Errorf("fetching queue depth: %w", err)
			}

			fmt.Printf("Queue Depth: %d\n", depth)
			return nil
		},
	}
}
