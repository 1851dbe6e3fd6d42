package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/citelink/citelink/internal/corpus"
	"github.com/citelink/citelink/pkg/models"
	"github.com/spf13/cobra"
)

// backupFile is the on-disk shape of a corpus snapshot: every document
// and its associated citations, serialized so a restore can replay
// SaveDocument/SaveCitations against any configured backend.
type backupFile struct {
	CreatedAt time.Time              `json:"createdAt"`
	Documents []*corpus.Document     `json:"documents"`
	Citations []corpus.CitationRecord `json:"citations"`
}

// NewBackupCmd creates the corpus backup/restore command.
func NewBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Backup and restore commands",
		Long:  "Snapshot the corpus store's documents and citations to a JSON file, or restore from one",
	}

	cmd.AddCommand(newBackupCreateCmd())
	cmd.AddCommand(newBackupListCmd())
	cmd.AddCommand(newBackupRestoreCmd())
	cmd.AddCommand(newBackupDeleteCmd())

	return cmd
}

func defaultBackupDir() string {
	dir := os.Getenv("CITELINK_BACKUP_DIR")
	if dir == "" {
		dir = "./backups"
	}
	return dir
}

func newBackupCreateCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Snapshot the corpus store",
		Long:  "Write every document and citation in the corpus store to a JSON backup file",
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

			ctx := context.Background()

			docs, err := store.ListDocuments(ctx, corpus.DocumentFilter{})
			if err != nil {
				return fmt.Errorf("listing documents: %w", err)
			}

			var citations []corpus.CitationRecord
			for _, d := range docs {
				recs, err := store.ListCitations(ctx, corpus.CitationFilter{DocumentID: d.ID})
				if err != nil {
					return fmt.Errorf("listing citations for %s: %w", d.ID, err)
				}
				citations = append(citations, recs...)
			}

			if output == "" {
				if err := os.MkdirAll(defaultBackupDir(), 0o755); err != nil {
					return fmt.Errorf("creating backup dir: %w", err)
				}
				timestamp := time.Now().Format("20060102-150405")
				output = filepath.Join(defaultBackupDir(), fmt.Sprintf("citelink-backup-%s.json", timestamp))
			}

			snapshot := backupFile{CreatedAt: time.Now(), Documents: docs, Citations: citations}
			data, err := json.MarshalIndent(snapshot, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding snapshot: %w", err)
			}

			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("writing backup file: %w", err)
			}

			fmt.Printf("Backup written to: %s\n", output)
			fmt.Printf("  Documents: %d\n", len(docs))
			fmt.Printf("  Citations: %d\n", len(citations))

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: ./backups/citelink-backup-<timestamp>.json)")

	return cmd
}

func newBackupListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available backup files",
		Long:  "Display backup JSON files in the backup directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOutput, _ := cmd.Flags().GetBool("json")

			entries, err := os.ReadDir(defaultBackupDir())
			if err != nil {
				if os.IsNotExist(err) {
					fmt.Println("No backups found (backup directory does not exist)")
					return nil
				}
				return fmt.Errorf("reading backup dir: %w", err)
			}

			type row struct {
				Filename string `json:"filename"`
				SizeKB   int64  `json:"size_kb"`
				ModTime  string `json:"modified_at"`
			}
			var rows []row
			for _, e := range entries {
				if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
					continue
				}
				info, err := e.Info()
				if err != nil {
					continue
				}
				rows = append(rows, row{
					Filename: e.Name(),
					SizeKB:   info.Size() / 1024,
					ModTime:  info.ModTime().Format(time.RFC3339),
				})
			}
			sort.Slice(rows, func(i, j int) bool { return rows[i].Filename > rows[j].Filename })

			if jsonOutput {
				data, _ := json.MarshalIndent(rows, "", "  ")
				fmt.Println(string(data))
				return nil
			}

			fmt.Println("Available Backups:")
			fmt.Println("==================")
			for _, r := range rows {
				fmt.Printf("%-40s  %6d KB  %s\n", r.Filename, r.SizeKB, r.ModTime)
			}

			return nil
		},
	}
}

func newBackupRestoreCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "restore [backup-file]",
		Short: "Restore from a backup file",
		Long:  "Replay a backup file's documents and citations into the configured corpus store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backupPath := args[0]

			if !force {
				fmt.Println("⚠ WARNING: This will overwrite any existing documents with matching IDs.")
				fmt.Println("Use --force to confirm restoration.")
				return nil
			}

			data, err := os.ReadFile(backupPath)
			if err != nil {
				return fmt.Errorf("reading backup file: %w", err)
			}

			var snapshot backupFile
			if err := json.Unmarshal(data, &snapshot); err != nil {
				return fmt.Errorf("decoding backup file: %w", err)
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			store, err := initCorpusStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := context.Background()

			for _, d := range snapshot.Documents {
				if err := store.SaveDocument(ctx, d); err != nil {
					return fmt.Errorf("restoring document %s: %w", d.ID, err)
				}
			}

			byDoc := make(map[string][]corpus.CitationRecord)
			for _, rec := range snapshot.Citations {
				byDoc[rec.DocumentID] = append(byDoc[rec.DocumentID], rec)
			}
			for docID, recs := range byDoc {
				sort.Slice(recs, func(i, j int) bool { return recs[i].Index < recs[j].Index })
				cits := make([]models.Citation, len(recs))
				for i, r := range recs {
					cits[i] = r.Citation
				}
				if err := store.SaveCitations(ctx, docID, cits); err != nil {
					return fmt.Errorf("restoring citations for %s: %w", docID, err)
				}
			}

			fmt.Printf("✓ Restored from: %s\n", backupPath)
			fmt.Printf("  Documents: %d\n", len(snapshot.Documents))
			fmt.Printf("  Citations: %d\n", len(snapshot.Citations))

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Confirm restore operation")

	return cmd
}

func newBackupDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [backup-file]",
		Short: "Delete a backup file",
		Long:  "Remove a backup JSON file from the backup directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backupPath := args[0]
			if filepath.Dir(backupPath) == "." {
				backupPath = filepath.Join(defaultBackupDir(), backupPath)
			}

			if err := os.Remove(backupPath); err != nil {
				return fmt.Errorf("deleting backup: %w", err)
			}

			fmt.Printf("✓ Deleted backup: %s\n", backupPath)

			return nil
		},
	}
}
