package commands

import (
	"strings"

	"github.com/citelink/citelink/internal/config"
	"github.com/spf13/cobra"
)

// testConfig loads the package's built-in defaults (memory-backed
// corpus/cache/queue), the same fallback loadConfig hits when no
// config file is present.
func testConfig() *config.Config {
	cfg, err := config.Load("configs/nonexistent.yaml")
	if err != nil {
		panic(err)
	}
	return cfg
}

// newTestRoot builds a root command carrying the same persistent flags
// main.go registers, so loadConfig and the --json flag resolve for a
// subcommand exercised in isolation. The default config path points at
// a file that doesn't exist, so config.Load falls back to its built-in
// defaults (memory-backed corpus/cache/queue).
func newTestRoot(sub *cobra.Command) *cobra.Command {
	root := &cobra.Command{Use: "citelink-cli"}
	root.PersistentFlags().StringP("config", "c", "configs/nonexistent.yaml", "")
	root.PersistentFlags().StringP("env", "e", "development", "")
	root.PersistentFlags().BoolP("verbose", "v", false, "")
	root.PersistentFlags().BoolP("json", "j", false, "")
	root.AddCommand(sub)
	return root
}

// runCommand executes sub's RunE under a root carrying the standard
// persistent flags. commandName is the first word of sub.Use.
func runCommand(sub *cobra.Command, commandName string, args ...string) error {
	root := newTestRoot(sub)
	root.SetArgs(append([]string{commandName}, args...))
	return root.Execute()
}

func firstWord(use string) string {
	if i := strings.IndexByte(use, ' '); i >= 0 {
		return use[:i]
	}
	return use
}
