package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLMigrationFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"0002_add_tasks.sql",
		"0001_init.sql",
		"0010_indexes.sql",
		"README.md",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.sql"), 0o755))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"0001_init.sql",
		"0002_add_tasks.sql",
		"0010_indexes.sql",
	}, sqlMigrationFiles(entries))
}

func TestSQLMigrationFilesEmptyDir(t *testing.T) {
	entries, err := os.ReadDir(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, sqlMigrationFiles(entries))
}
