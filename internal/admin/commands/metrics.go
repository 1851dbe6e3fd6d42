package commands

import (
	"bufio"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

func metricsEndpoint(cmd *cobra.Command) (string, error) {
	endpoint, _ := cmd.Flags().GetString("endpoint")
	if endpoint == "" {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return "", err
		}
		endpoint = fmt.Sprintf("http://%s:%d/metrics", cfg.Server.Host, cfg.Server.Port)
	}
	return endpoint, nil
}

// grepMetrics fetches the exposition text from endpoint and returns every
// non-comment line that contains prefix anywhere in it; an empty prefix
// matches every non-comment line.
func grepMetrics(endpoint, prefix string) ([]string, error) {
	resp, err := http.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetching metrics: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metrics endpoint returned status %d", resp.StatusCode)
	}

	var matches []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		if prefix == "" || strings.Contains(line, prefix) {
			matches = append(matches, line)
		}
	}
	return matches, scanner.Err()
}

// NewMetricsCmd creates the metrics command
func NewMetricsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Query metrics",
		Long:  "Scrape and filter the server's Prometheus exposition endpoint",
	}
	cmd.PersistentFlags().String("endpoint", "", "Metrics endpoint URL (default: http://<server.host>:<server.port>/metrics)")

	cmd.AddCommand(newMetricsQueryCmd())
	cmd.AddCommand(newMetricsExtractionCmd())
	cmd.AddCommand(newMetricsQueueCmd())

	return cmd
}

func newMetricsQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query [metric-prefix]",
		Short: "Show raw metric lines containing a substring",
		Long:  "Fetch the server's /metrics endpoint and print the non-comment lines that contain the given substring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint, err := metricsEndpoint(cmd)
			if err != nil {
				return err
			}

			lines, err := grepMetrics(endpoint, args[0])
			if err != nil {
				return err
			}

			if len(lines) == 0 {
				fmt.Println("No matching metrics found")
				return nil
			}

			for _, l := range lines {
				fmt.Println(l)
			}
			return nil
		},
	}
}

func newMetricsExtractionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extraction",
		Short: "Show extraction pipeline metrics",
		Long:  "Display citation extraction counters and durations",
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint, err := metricsEndpoint(cmd)
			if err != nil {
				return err
			}

			lines, err := grepMetrics(endpoint, "citelink_documents_processed_total")
			if err != nil {
				return err
			}
			extracted, err := grepMetrics(endpoint, "citelink_citations_extracted_total")
			if err != nil {
				return err
			}
			failures, err := grepMetrics(endpoint, "citelink_pattern_failures_total")
			if err != nil {
				return err
			}

			fmt.Println("Extraction Metrics:")
			fmt.Println("===================")
			printMetricGroup("Documents Processed", lines)
			printMetricGroup("Citations Extracted", extracted)
			printMetricGroup("Pattern Failures", failures)

			return nil
		},
	}
}

func newMetricsQueueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "queue",
		Short: "Show queue and worker metrics",
		Long:  "Display queue depth and worker job duration metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint, err := metricsEndpoint(cmd)
			if err != nil {
				return err
			}

			depth, err := grepMetrics(endpoint, "citelink_queue_depth")
			if err != nil {
				return err
			}
			duration, err := grepMetrics(endpoint, "citelink_worker_job_duration_seconds")
			if err != nil {
				return err
			}

			fmt.Println("Queue Metrics:")
			fmt.Println("==============")
			printMetricGroup("Queue Depth", depth)
			printMetricGroup("Worker Job Duration", duration)

			return nil
		},
	}
}

func printMetricGroup(label string, lines []string) {
	fmt.Printf("%s:\n", label)
	if len(lines) == 0 {
		fmt.Println("  (no samples)")
		return
	}
	for _, l := range lines {
		fmt.Printf("  %s\n", l)
	}
}
