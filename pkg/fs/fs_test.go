//go:build integration

package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFS_ReadFile(t *testing.T) {
	fs := NewFS()
	path := filepath.Join(t.TempDir(), "spec.md")

	content := []byte("# Auth epic\n")
	require.NoError(t, os.WriteFile(path, content, 0644))

	// Test reading existing file
	readContent, err := fs.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, content, readContent)

	// Test reading non-existing file
	_, err = fs.ReadFile("non-existing-file.md")
	assert.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestFS_Exists(t *testing.T) {
	fs := NewFS()
	dir := t.TempDir()
	path := filepath.Join(dir, "present.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	exists, err := fs.Exists(path)
	assert.NoError(t, err)
	assert.True(t, exists)

	exists, err = fs.Exists(filepath.Join(dir, "absent.txt"))
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestFS_IsDir(t *testing.T) {
	fs := NewFS()
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	isDir, err := fs.IsDir(dir)
	assert.NoError(t, err)
	assert.True(t, isDir)

	isDir, err = fs.IsDir(path)
	assert.NoError(t, err)
	assert.False(t, isDir)
}

func TestFS_MkdirAll(t *testing.T) {
	fs := NewFS()
	nestedPath := filepath.Join(t.TempDir(), "level1", "level2", "level3")

	err := fs.MkdirAll(nestedPath, 0755)
	assert.NoError(t, err)

	isDir, err := fs.IsDir(nestedPath)
	assert.NoError(t, err)
	assert.True(t, isDir)

	// Creating an existing directory should not error
	err = fs.MkdirAll(nestedPath, 0755)
	assert.NoError(t, err)
}

func TestFS_WriteFileAtomic(t *testing.T) {
	fs := NewFS()
	dir := t.TempDir()
	path := filepath.Join(dir, "out.yaml")

	require.NoError(t, fs.WriteFileAtomic(path, []byte("first"), 0644))
	require.NoError(t, fs.WriteFileAtomic(path, []byte("second"), 0644))

	data, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	// No leftover temporary files
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
