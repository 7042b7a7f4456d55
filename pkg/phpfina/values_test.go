package phpfina_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emontools/phpfina/pkg/phpfina"
)

func TestReadValues_IdentityCopy(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFeed(t, dir, 1, 10, 1_700_000_000, []float32{1, 2, 3, 4, 5})

	values, err := phpfina.ReadValues(newRealFS(), phpfina.DefaultConfig(dir), 1, 1_700_000_000, 10, 50)
	require.NoError(t, err)
	require.Equal(t, []float32{1, 2, 3, 4, 5}, values)
}

func TestReadValues_BlockMeanIgnoresMissing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	// Two blocks of 3 samples each at step=30 (step_factor=3, interval=10).
	writeFeed(t, dir, 1, 10, 1_700_000_000, []float32{1, nan(), 3, nan(), nan(), nan()})

	values, err := phpfina.ReadValues(newRealFS(), phpfina.DefaultConfig(dir), 1, 1_700_000_000, 30, 60)
	require.NoError(t, err)
	require.Len(t, values, 2)
	require.InDelta(t, 2.0, values[0], 1e-9) // mean(1,3), nan ignored
	require.True(t, phpfina.IsMissing(values[1]))
}

func TestReadValues_PadsBeforeStartTime(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFeed(t, dir, 1, 10, 1_700_000_100, []float32{10, 20, 30})

	values, err := phpfina.ReadValues(newRealFS(), phpfina.DefaultConfig(dir), 1, 1_700_000_070, 10, 80)
	require.NoError(t, err)
	require.Len(t, values, 8)

	for i := 0; i < 3; i++ {
		require.Truef(t, phpfina.IsMissing(values[i]), "index %d should be padding", i)
	}

	require.Equal(t, []float32{10, 20, 30}, values[3:6])

	for i := 6; i < 8; i++ {
		require.Truef(t, phpfina.IsMissing(values[i]), "index %d should be padding past end", i)
	}
}

func TestReadValues_StartAtOrAfterEndTimeIsOutOfRange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFeed(t, dir, 1, 10, 1_700_000_000, []float32{1, 2, 3})

	_, err := phpfina.ReadValues(newRealFS(), phpfina.DefaultConfig(dir), 1, 1_700_000_021, 10, 10)
	require.Error(t, err)
	require.ErrorIs(t, err, phpfina.ErrOutOfRange)
}

func TestReadValues_RejectsStepNotMultipleOfInterval(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFeed(t, dir, 1, 10, 1_700_000_000, []float32{1, 2, 3})

	_, err := phpfina.ReadValues(newRealFS(), phpfina.DefaultConfig(dir), 1, 1_700_000_000, 7, 70)
	require.Error(t, err)
	require.ErrorIs(t, err, phpfina.ErrInvalidArgument)
}

func TestReadSeries_TimestampsAreStepAligned(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFeed(t, dir, 1, 10, 1_700_000_000, []float32{1, 2, 3, 4})

	series, err := phpfina.ReadSeries(newRealFS(), phpfina.DefaultConfig(dir), 1, 1_700_000_000, 10, 40)
	require.NoError(t, err)
	require.Equal(t, []uint64{1_700_000_000, 1_700_000_010, 1_700_000_020, 1_700_000_030}, series.Timestamps())
}

func TestMissing_IsNaN(t *testing.T) {
	t.Parallel()
	require.True(t, math.IsNaN(float64(phpfina.Missing())))
}
