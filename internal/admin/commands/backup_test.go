package commands

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citelink/citelink/internal/corpus"
	"github.com/citelink/citelink/pkg/models"
)

func TestBackupCreate_WritesSnapshotOfMemoryCorpus(t *testing.T) {
	t.Setenv("CITELINK_BACKUP_DIR", t.TempDir())

	cmd := newBackupCreateCmd()
	out := filepath.Join(os.Getenv("CITELINK_BACKUP_DIR"), "snap.json")
	require.NoError(t, runCommand(cmd, firstWord(cmd.Use), "--output", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var snapshot backupFile
	require.NoError(t, json.Unmarshal(data, &snapshot))
	assert.Empty(t, snapshot.Documents)
}

func TestBackupList_ReportsNoBackupsWhenDirMissing(t *testing.T) {
	t.Setenv("CITELINK_BACKUP_DIR", filepath.Join(t.TempDir(), "absent"))

	cmd := newBackupListCmd()
	err := runCommand(cmd, firstWord(cmd.Use))
	assert.NoError(t, err)
}

func TestBackupList_ListsExistingBackupFiles(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CITELINK_BACKUP_DIR", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "citelink-backup-20260101-000000.json"), []byte("{}"), 0o644))

	cmd := newBackupListCmd()
	err := runCommand(cmd, firstWord(cmd.Use), "--json")
	assert.NoError(t, err)
}

func TestBackupRestore_WithoutForceSkipsRestore(t *testing.T) {
	cmd := newBackupRestoreCmd()
	err := runCommand(cmd, firstWord(cmd.Use), "backup.json")
	assert.NoError(t, err)
}

func TestBackupRestore_WithForceReplaysDocumentsAndCitations(t *testing.T) {
	store := corpus.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.SaveDocument(ctx, &corpus.Document{ID: "doc-1", Text: "hello"}))
	require.NoError(t, store.SaveCitations(ctx, "doc-1", []models.Citation{
		{Type: models.TypeSupremeCourt, Volume: "347", Reporter: "U.S.", Page: "483"},
	}))

	docs, err := store.ListDocuments(ctx, corpus.DocumentFilter{})
	require.NoError(t, err)
	recs, err := store.ListCitations(ctx, corpus.CitationFilter{DocumentID: "doc-1"})
	require.NoError(t, err)

	snapshot := backupFile{Documents: docs, Citations: recs}
	data, err := json.Marshal(snapshot)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "restore.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cmd := newBackupRestoreCmd()
	err = runCommand(cmd, firstWord(cmd.Use), "--force", path)
	assert.NoError(t, err)
}

func TestBackupDelete_RemovesFileFromBackupDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CITELINK_BACKUP_DIR", dir)
	path := filepath.Join(dir, "old.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	cmd := newBackupDeleteCmd()
	err := runCommand(cmd, firstWord(cmd.Use), "old.json")
	assert.NoError(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestBackupDelete_MissingFileReturnsError(t *testing.T) {
	t.Setenv("CITELINK_BACKUP_DIR", t.TempDir())

	cmd := newBackupDeleteCmd()
	err := runCommand(cmd, firstWord(cmd.Use), "missing.json")
	assert.Error(t, err)
}
