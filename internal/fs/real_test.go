package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReal_Exists(t *testing.T) {
	t.Parallel()

	r := NewReal()
	dir := t.TempDir()
	path := filepath.Join(dir, "1.meta")

	exists, err := r.Exists(path)
	require.NoError(t, err)
	require.False(t, exists)

	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	exists, err = r.Exists(path)
	require.NoError(t, err)
	require.True(t, exists)
}

func TestReal_WriteFileAtomic_ReplacesContent(t *testing.T) {
	t.Parallel()

	r := NewReal()
	dir := t.TempDir()
	path := filepath.Join(dir, "stats.cache")

	require.NoError(t, r.WriteFileAtomic(path, []byte("first"), 0o644))
	require.NoError(t, r.WriteFileAtomic(path, []byte("second"), 0o644))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "second", string(got))
}

func TestReal_Lock_ExcludesSecondAcquire(t *testing.T) {
	t.Parallel()

	r := NewReal()
	dir := t.TempDir()
	path := filepath.Join(dir, "1.cache")

	lock, err := r.Lock(path)
	require.NoError(t, err)

	done := make(chan error, 1)

	go func() {
		l2, lockErr := r.Lock(path)
		if lockErr == nil {
			_ = l2.Close()
		}

		done <- lockErr
	}()

	select {
	case err := <-done:
		require.Error(t, err, "second lock should not succeed while the first is held")
	default:
	}

	require.NoError(t, lock.Close())
}

func TestReal_ReadDir_SortedByName(t *testing.T) {
	t.Parallel()

	r := NewReal()
	dir := t.TempDir()

	for _, name := range []string{"3.meta", "1.meta", "2.meta"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	entries, err := r.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "1.meta", entries[0].Name())
	require.Equal(t, "2.meta", entries[1].Name())
	require.Equal(t, "3.meta", entries[2].Name())
}
