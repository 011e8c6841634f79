package fileutils_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/bill-analyzer/internal/fileutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))

	assert.True(t, fileutils.FileExists(testFile))
	assert.False(t, fileutils.FileExists(filepath.Join(tmpDir, "nonexistent.txt")))
	assert.False(t, fileutils.FileExists(tmpDir))
}

func TestDirectoryExists(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))

	assert.True(t, fileutils.DirectoryExists(tmpDir))
	assert.False(t, fileutils.DirectoryExists(filepath.Join(tmpDir, "nonexistent")))
	assert.False(t, fileutils.DirectoryExists(testFile))
}

func TestCreateFile_CreatesParents(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "out.csv")
	f, err := fileutils.CreateFile(target)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.True(t, fileutils.FileExists(target))
}

func TestOpenFile_Missing(t *testing.T) {
	_, err := fileutils.OpenFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestTimestampedName(t *testing.T) {
	at := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	assert.Equal(t, "notion_bills_20240305_140709.csv", fileutils.TimestampedName("notion_bills", ".csv", at))
}

func TestListFiles_NewestFirst(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	for i, name := range []string{"old.csv", "new.csv", "mid.csv"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0600))
		age := map[int]time.Duration{0: 3 * time.Hour, 1: time.Minute, 2: time.Hour}[i]
		require.NoError(t, os.Chtimes(path, now.Add(-age), now.Add(-age)))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0750))

	entries, err := fileutils.ListFiles(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "new.csv", entries[0].Name)
	assert.Equal(t, "mid.csv", entries[1].Name)
	assert.Equal(t, "old.csv", entries[2].Name)
	assert.Equal(t, int64(1), entries[0].Size)

	missing, err := fileutils.ListFiles(filepath.Join(dir, "none"))
	require.NoError(t, err)
	assert.Empty(t, missing)
}
