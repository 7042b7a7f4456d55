package cli

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTestFeed(t *testing.T, dir string, feedID int64, interval, startTime uint32, values []float32) {
	t.Helper()

	id := strconv.FormatInt(feedID, 10)

	header := make([]byte, 16)
	binary.LittleEndian.PutUint32(header[8:12], interval)
	binary.LittleEndian.PutUint32(header[12:16], startTime)
	require.NoError(t, os.WriteFile(filepath.Join(dir, id+".meta"), header, 0o644))

	data := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(data[i*4:i*4+4], math.Float32bits(v))
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, id+".dat"), data, 0o644))
}
