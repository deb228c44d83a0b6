package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemove_Tree(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "victim")

	writeTree(t, target, map[string]string{
		"a.txt":       "A",
		"sub/b.txt":   "B",
		"sub/c/d.txt": "D",
	})

	res := Remove(context.Background(), RemoveConfig{Path: target})
	require.NoError(t, res.Err)
	assert.Equal(t, int64(3), res.Stats.FilesRemoved)
	assert.Equal(t, int64(3), res.Stats.DirsRemoved) // sub, sub/c, and the root

	_, err := os.Stat(target)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRemove_OnlyFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "victim")

	writeTree(t, target, map[string]string{"a.txt": "A", "sub/b.txt": "B"})

	res := Remove(context.Background(), RemoveConfig{Path: target, OnlyFiles: true})
	require.NoError(t, res.Err)
	assert.Equal(t, int64(2), res.Stats.FilesRemoved)
	assert.Zero(t, res.Stats.DirsRemoved)

	// Skeleton survives.
	info, err := os.Stat(filepath.Join(target, "sub"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = os.Stat(filepath.Join(target, "a.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRemove_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	res := Remove(context.Background(), RemoveConfig{Path: path})
	require.NoError(t, res.Err)
	assert.Equal(t, int64(1), res.Stats.FilesRemoved)

	_, err := os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRemove_Missing(t *testing.T) {
	res := Remove(context.Background(), RemoveConfig{
		Path: filepath.Join(t.TempDir(), "nope"),
	})
	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, os.ErrNotExist)
}

func TestRemove_DryRun(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "victim")
	writeTree(t, target, map[string]string{"a.txt": "A"})

	res := Remove(context.Background(), RemoveConfig{Path: target, DryRun: true})
	require.NoError(t, res.Err)
	assert.Equal(t, int64(1), res.Stats.FilesRemoved)

	// Still there.
	_, err := os.Stat(filepath.Join(target, "a.txt"))
	assert.NoError(t, err)
}

func TestRemove_UnwritablePreflightAborts(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root bypasses permission bits")
	}

	dir := t.TempDir()
	target := filepath.Join(dir, "victim")
	writeTree(t, target, map[string]string{"ok.txt": "A", "locked.txt": "B"})
	require.NoError(t, os.Chmod(filepath.Join(target, "locked.txt"), 0400))
	t.Cleanup(func() { _ = os.Chmod(filepath.Join(target, "locked.txt"), 0644) })

	res := Remove(context.Background(), RemoveConfig{Path: target})
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "not removable")

	// Nothing was deleted.
	_, err := os.Stat(filepath.Join(target, "ok.txt"))
	assert.NoError(t, err)
}
