package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChaos_OpenFailRate_InjectsErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "1.dat")
	require.NoError(t, os.WriteFile(path, make([]byte, 40), 0o644))

	chaos := NewChaos(NewReal(), 1, ChaosConfig{OpenFailRate: 1})

	_, err := chaos.Open(path)
	require.Error(t, err)
	require.True(t, IsChaosErr(err))
	require.Equal(t, int64(1), chaos.Stats().OpenFails)
}

func TestChaos_ZeroRate_NeverInjects(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "1.dat")
	require.NoError(t, os.WriteFile(path, make([]byte, 40), 0o644))

	chaos := NewChaos(NewReal(), 2, ChaosConfig{})

	f, err := chaos.Open(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.Equal(t, ChaosStats{}, chaos.Stats())
}

func TestChaos_NeverInjectsNotExist(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	chaos := NewChaos(NewReal(), 3, ChaosConfig{OpenFailRate: 1, StatFailRate: 1})

	_, err := chaos.Open(filepath.Join(dir, "missing.dat"))
	require.Error(t, err)
	require.False(t, IsChaosErr(err), "a missing file must surface the real ENOENT, not an injected fault")
}

func TestChaos_StatFailRate_InjectsErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "1.meta")
	require.NoError(t, os.WriteFile(path, make([]byte, 16), 0o644))

	chaos := NewChaos(NewReal(), 4, ChaosConfig{StatFailRate: 1})

	_, err := chaos.Stat(path)
	require.Error(t, err)
	require.True(t, IsChaosErr(err))
}
