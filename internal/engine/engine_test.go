package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrull/ferry/internal/policy"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestRun_DirCopyBasic(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")

	writeTree(t, src, map[string]string{
		"a.txt":           "A",
		"sub/b.txt":       "BB",
		"sub/deep/c.txt":  "CCC",
		"sub/deep/d.bin":  "DDDD",
		"empty-ish/e.txt": "",
	})

	res := Run(context.Background(), Config{Src: src, Dst: dst})
	require.NoError(t, res.Err)

	assert.Equal(t, int64(5), res.Stats.FilesCopied)
	assert.Equal(t, int64(10), res.Stats.BytesCopied)
	assert.Equal(t, int64(3), res.Stats.DirsCreated)

	got, err := os.ReadFile(filepath.Join(dst, "sub", "deep", "c.txt"))
	require.NoError(t, err)
	assert.Equal(t, "CCC", string(got))
}

func TestRun_PreservesMtime(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")

	writeTree(t, src, map[string]string{"f.txt": "data"})
	past := time.Now().Add(-48 * time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(filepath.Join(src, "f.txt"), past, past))

	res := Run(context.Background(), Config{Src: src, Dst: dst})
	require.NoError(t, res.Err)

	info, err := os.Stat(filepath.Join(dst, "f.txt"))
	require.NoError(t, err)
	assert.WithinDuration(t, past, info.ModTime(), time.Second)
}

func TestRun_NoTimes(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")

	writeTree(t, src, map[string]string{"f.txt": "data"})
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(src, "f.txt"), past, past))

	res := Run(context.Background(), Config{Src: src, Dst: dst, NoTimes: true})
	require.NoError(t, res.Err)

	info, err := os.Stat(filepath.Join(dst, "f.txt"))
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), info.ModTime(), time.Minute)
}

func TestRun_SingleFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0644))

	// To an explicit path.
	dst := filepath.Join(dir, "out", "copy.txt")
	res := Run(context.Background(), Config{Src: src, Dst: dst})
	require.NoError(t, res.Err)
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	// Into an existing directory.
	intoDir := filepath.Join(dir, "into")
	require.NoError(t, os.Mkdir(intoDir, 0755))
	res = Run(context.Background(), Config{Src: src, Dst: intoDir})
	require.NoError(t, res.Err)
	_, err = os.Stat(filepath.Join(intoDir, "f.txt"))
	assert.NoError(t, err)
}

func TestRun_SingleFileFailModeRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0644))
	require.NoError(t, os.WriteFile(dst, []byte("old"), 0644))

	res := Run(context.Background(), Config{Src: src, Dst: dst})
	require.ErrorIs(t, res.Err, policy.ErrDestinationExists)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "old", string(got))
}

func TestRun_MissingSource(t *testing.T) {
	dir := t.TempDir()
	res := Run(context.Background(), Config{
		Src: filepath.Join(dir, "nope"),
		Dst: filepath.Join(dir, "dst"),
	})
	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, os.ErrNotExist)
}

func TestRun_FailModeNonEmptyDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")

	writeTree(t, src, map[string]string{"a.txt": "A"})
	writeTree(t, dst, map[string]string{"existing.txt": "X"})

	res := Run(context.Background(), Config{Src: src, Dst: dst})
	require.ErrorIs(t, res.Err, ErrDestinationNotEmpty)
	assert.Zero(t, res.Stats.FilesCopied)
}

func TestRun_CopyNewOnlySkipsExisting(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")

	writeTree(t, src, map[string]string{"keep.txt": "NEW", "fresh.txt": "F"})
	writeTree(t, dst, map[string]string{"keep.txt": "OLD"})

	res := Run(context.Background(), Config{Src: src, Dst: dst, Mode: policy.ModeCopyNewOnly})
	require.NoError(t, res.Err)
	assert.Equal(t, int64(1), res.Stats.FilesCopied)
	assert.Equal(t, int64(1), res.Stats.FilesSkipped)

	got, err := os.ReadFile(filepath.Join(dst, "keep.txt"))
	require.NoError(t, err)
	assert.Equal(t, "OLD", string(got), "existing destination must never be overwritten")

	_, err = os.Stat(filepath.Join(dst, "fresh.txt"))
	assert.NoError(t, err)
}

func TestRun_ReplaceOverwrites(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")

	writeTree(t, src, map[string]string{"f.txt": "NEW"})
	writeTree(t, dst, map[string]string{"f.txt": "OLD"})

	// Destination is newer; replace overwrites anyway.
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dst, "f.txt"), future, future))

	res := Run(context.Background(), Config{Src: src, Dst: dst, Mode: policy.ModeReplace})
	require.NoError(t, res.Err)

	got, err := os.ReadFile(filepath.Join(dst, "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, "NEW", string(got))
}

func TestRun_UpdateIfOlder(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")

	writeTree(t, src, map[string]string{"newer.txt": "NEW", "older.txt": "NEW"})
	writeTree(t, dst, map[string]string{"newer.txt": "OLD", "older.txt": "OLD"})

	now := time.Now().Truncate(time.Second)
	past := now.Add(-time.Hour)

	// src/newer.txt is newer than its destination: overwrite.
	require.NoError(t, os.Chtimes(filepath.Join(src, "newer.txt"), now, now))
	require.NoError(t, os.Chtimes(filepath.Join(dst, "newer.txt"), past, past))

	// src/older.txt is older than its destination: skip.
	require.NoError(t, os.Chtimes(filepath.Join(src, "older.txt"), past, past))
	require.NoError(t, os.Chtimes(filepath.Join(dst, "older.txt"), now, now))

	res := Run(context.Background(), Config{Src: src, Dst: dst, Mode: policy.ModeUpdateIfOlder})
	require.NoError(t, res.Err)
	assert.Equal(t, int64(1), res.Stats.FilesCopied)
	assert.Equal(t, int64(1), res.Stats.FilesSkipped)

	got, err := os.ReadFile(filepath.Join(dst, "newer.txt"))
	require.NoError(t, err)
	assert.Equal(t, "NEW", string(got))

	got, err = os.ReadFile(filepath.Join(dst, "older.txt"))
	require.NoError(t, err)
	assert.Equal(t, "OLD", string(got))
}

func TestRun_PerFileFailureContinues(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")

	writeTree(t, src, map[string]string{
		"blocked/f.txt": "X",
		"ok.txt":        "OK",
	})

	// Occupy the destination's "blocked" slot with a plain file so the
	// directory pass cannot create it.
	require.NoError(t, os.MkdirAll(dst, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "blocked"), []byte("wall"), 0644))

	res := Run(context.Background(), Config{Src: src, Dst: dst, Mode: policy.ModeReplace})
	require.Error(t, res.Err)

	// The healthy file still made it.
	got, err := os.ReadFile(filepath.Join(dst, "ok.txt"))
	require.NoError(t, err)
	assert.Equal(t, "OK", string(got))
	assert.Equal(t, int64(1), res.Stats.FilesCopied)
	assert.GreaterOrEqual(t, res.Stats.FilesFailed, int64(1))
}

func TestRun_OnlyDirs(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")

	writeTree(t, src, map[string]string{"a/f.txt": "X", "a/b/g.txt": "Y"})

	res := Run(context.Background(), Config{Src: src, Dst: dst, OnlyDirs: true})
	require.NoError(t, res.Err)
	assert.Equal(t, int64(2), res.Stats.DirsCreated)
	assert.Zero(t, res.Stats.FilesCopied)

	info, err := os.Stat(filepath.Join(dst, "a", "b"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = os.Stat(filepath.Join(dst, "a", "f.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_CopyTarget(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "payload")
	dst := filepath.Join(dir, "dst")

	writeTree(t, src, map[string]string{"f.txt": "X"})
	require.NoError(t, os.MkdirAll(dst, 0755))

	res := Run(context.Background(), Config{Src: src, Dst: dst, CopyTarget: true})
	require.NoError(t, res.Err)

	got, err := os.ReadFile(filepath.Join(dst, "payload", "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, "X", string(got))
}

func TestRun_DryRun(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")

	writeTree(t, src, map[string]string{"a.txt": "A", "b/c.txt": "C"})

	res := Run(context.Background(), Config{Src: src, Dst: dst, DryRun: true})
	require.NoError(t, res.Err)
	assert.Equal(t, int64(2), res.Stats.FilesCopied)

	// Nothing was actually written.
	_, err := os.Stat(dst)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_Symlink(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")

	writeTree(t, src, map[string]string{"target.txt": "T"})
	require.NoError(t, os.Symlink("target.txt", filepath.Join(src, "link")))

	res := Run(context.Background(), Config{Src: src, Dst: dst})
	require.NoError(t, res.Err)

	target, err := os.Readlink(filepath.Join(dst, "link"))
	require.NoError(t, err)
	assert.Equal(t, "target.txt", target)
}

func TestRun_UnreadableSourceAborts(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root bypasses permission bits")
	}

	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")

	writeTree(t, src, map[string]string{"ok.txt": "X", "secret.txt": "S"})
	require.NoError(t, os.Chmod(filepath.Join(src, "secret.txt"), 0000))
	t.Cleanup(func() { _ = os.Chmod(filepath.Join(src, "secret.txt"), 0644) })

	res := Run(context.Background(), Config{Src: src, Dst: dst})
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "not readable")

	// Preflight failed, so nothing was copied at all.
	_, err := os.Stat(filepath.Join(dst, "ok.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_NoTmpLeftovers(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")

	writeTree(t, src, map[string]string{"a.txt": "A", "sub/b.txt": "BB"})

	res := Run(context.Background(), Config{Src: src, Dst: dst})
	require.NoError(t, res.Err)

	err := filepath.WalkDir(dst, func(path string, _ os.DirEntry, err error) error {
		require.NoError(t, err)
		assert.NotContains(t, filepath.Base(path), ".ferry-tmp")
		return nil
	})
	require.NoError(t, err)
}

func TestRunnerCleanupTmp(t *testing.T) {
	dir := t.TempDir()
	tmp := filepath.Join(dir, ".a.txt.deadbeef.ferry-tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("partial"), 0644))

	e := newRunner(context.Background(), Config{})
	e.pendingTmp = tmp
	e.cleanupTmp()

	assert.Empty(t, e.pendingTmp)
	_, err := os.Stat(tmp)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
