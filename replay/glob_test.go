package replay_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jcalloway/braid"
	"github.com/jcalloway/braid/replay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	t.Parallel()

	t.Run("matches files with simple pattern", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.sse"), []byte(""), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "b.sse"), []byte(""), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "c.txt"), []byte(""), 0o644))

		paths, err := replay.Expand([]string{filepath.Join(dir, "*.sse")})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			filepath.Join(dir, "a.sse"),
			filepath.Join(dir, "b.sse"),
		}, paths)
	})

	t.Run("matches files recursively with doublestar", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		sub := filepath.Join(dir, "sub")
		require.NoError(t, os.MkdirAll(sub, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "root.sse"), []byte(""), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(sub, "nested.sse"), []byte(""), 0o644))

		paths, err := replay.Expand([]string{filepath.Join(dir, "**", "*.sse")})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			filepath.Join(dir, "root.sse"),
			filepath.Join(sub, "nested.sse"),
		}, paths)
	})

	t.Run("plain path matches itself", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := filepath.Join(dir, "only.sse")
		require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

		paths, err := replay.Expand([]string{path})
		require.NoError(t, err)
		assert.Equal(t, []string{path}, paths)
	})

	t.Run("excludes directories", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.sse"), []byte(""), 0o644))

		paths, err := replay.Expand([]string{filepath.Join(dir, "*")})
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dir, "a.sse")}, paths)
	})

	t.Run("accumulates across patterns", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.sse"), []byte(""), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte(""), 0o644))

		paths, err := replay.Expand([]string{
			filepath.Join(dir, "*.sse"),
			filepath.Join(dir, "*.txt"),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "a.sse"),
			filepath.Join(dir, "b.txt"),
		}, paths)
	})

	t.Run("deduplicates overlapping patterns", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.sse"), []byte(""), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "b.sse"), []byte(""), 0o644))

		paths, err := replay.Expand([]string{
			filepath.Join(dir, "*.sse"),
			filepath.Join(dir, "a.sse"),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "a.sse"),
			filepath.Join(dir, "b.sse"),
		}, paths)
	})

	t.Run("sorts results across patterns", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.sse"), []byte(""), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "b.sse"), []byte(""), 0o644))

		paths, err := replay.Expand([]string{
			filepath.Join(dir, "b.sse"),
			filepath.Join(dir, "a.sse"),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "a.sse"),
			filepath.Join(dir, "b.sse"),
		}, paths)
	})

	t.Run("returns ErrNoTranscripts when nothing matches", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		_, err := replay.Expand([]string{filepath.Join(dir, "*.sse")})
		assert.ErrorIs(t, err, braid.ErrNoTranscripts)
	})

	t.Run("rejects invalid pattern", func(t *testing.T) {
		t.Parallel()
		_, err := replay.Expand([]string{"["})
		assert.ErrorContains(t, err, "invalid glob pattern")
	})
}
