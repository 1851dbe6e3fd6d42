package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/citelink/citelink/internal/async"
	"github.com/citelink/citelink/pkg/citation"
	"github.com/spf13/cobra"
)

// NewWorkerCmd creates the worker command
func NewWorkerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Worker pool commands",
		Long:  "Run the async extraction worker pool against the configured queue",
	}

	cmd.AddCommand(newWorkerStartCmd())

	return cmd
}

func newWorkerStartCmd() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the worker pool",
		Long:  "Start a pool of workers draining the async extraction queue until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			verbose, _ := cmd.Flags().GetBool("verbose")
			if workers <= 0 {
				workers = cfg.Worker.Count
			}
			if workers <= 0 {
				workers = 4
			}

			q, err := initQueue(cfg)
			if err != nil {
				return fmt.Errorf("initializing queue: %w", err)
			}
			defer q.Close()

			service := citation.NewService(cfg.Scoring)
			runner := async.NewRunner(q, service, workers)

			if verbose {
				fmt.Printf("Starting %d workers...\n", workers)
			}

			if err := runner.Start(workers); err != nil {
				return fmt.Errorf("starting worker pool: %w", err)
			}

			fmt.Printf("✓ Started %d workers, draining queue. Press Ctrl+C to stop.\n", workers)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			fmt.Println("Stopping workers...")
			if err := runner.Stop(cfg.Worker.ShutdownGrace); err != nil {
				return fmt.Errorf("stopping worker pool: %w", err)
			}

			fmt.Println("✓ Workers stopped")
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of workers to start (default: config worker.count)")

	return cmd
}
