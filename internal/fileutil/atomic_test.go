package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names
}

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")

	require.NoError(t, WriteFileAtomic(path, []byte("hello world"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
	assert.Equal(t, []string{"report.txt"}, dirNames(t, dir))
}

func TestWriteFileAtomicOverwrite(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "report.txt")

	require.NoError(t, WriteFileAtomic(path, []byte("initial"), 0o644))
	require.NoError(t, WriteFileAtomic(path, []byte("updated content"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "updated content", string(data))
}

func TestWriteFileAtomicInvalidDir(t *testing.T) {
	t.Parallel()
	assert.Error(t, WriteFileAtomic("/nonexistent/dir/test.txt", []byte("data"), 0o644))
}

func TestAtomicFileInvisibleUntilCommit(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")

	f, err := CreateAtomic(path, 0o600)
	require.NoError(t, err)
	fmt.Fprintf(f, "hands %d\n", 100)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, f.Commit())
	require.NoError(t, f.Close())
	assert.Error(t, f.Commit())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hands 100\n", string(data))
	assert.Equal(t, []string{"report.txt"}, dirNames(t, dir))
}

func TestAtomicFileCloseDiscards(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")
	require.NoError(t, WriteFileAtomic(path, []byte("previous"), 0o644))

	f, err := CreateAtomic(path, 0o644)
	require.NoError(t, err)
	_, err = f.Write([]byte("abandoned"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
	assert.Equal(t, []string{"report.txt"}, dirNames(t, dir))
}
