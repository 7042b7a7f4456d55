package phpfina_test

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	pfs "github.com/emontools/phpfina/internal/fs"
)

// writeFeed writes a <feedID>.meta/<feedID>.dat pair under dir. values may
// contain math.NaN() for missing samples.
func writeFeed(t *testing.T, dir string, feedID int64, interval, startTime uint32, values []float32) {
	t.Helper()

	id := strconv.FormatInt(feedID, 10)
	metaPath := filepath.Join(dir, id+".meta")
	dataPath := filepath.Join(dir, id+".dat")

	header := make([]byte, 16)
	binary.LittleEndian.PutUint32(header[8:12], interval)
	binary.LittleEndian.PutUint32(header[12:16], startTime)
	require.NoError(t, os.WriteFile(metaPath, header, 0o644))

	data := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(data[i*4:i*4+4], math.Float32bits(v))
	}

	require.NoError(t, os.WriteFile(dataPath, data, 0o644))
}

func nan() float32 { return float32(math.NaN()) }

func newRealFS() pfs.FS { return pfs.NewReal() }
