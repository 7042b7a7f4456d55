package phpfina

import (
	"encoding/binary"
	"iter"
	"math"
	"sync"
	"syscall"

	pfs "github.com/emontools/phpfina/internal/fs"
)

// Chunk is one batch of consecutive samples yielded by [ChunkReader.Read].
type Chunk struct {
	// Start is the inclusive sample-index position of Values[0].
	Start uint64

	// Values holds Start..Start+len(Values) samples, in order. A missing
	// sample decodes to a float32 NaN; see [IsMissing].
	Values []float32
}

// ChunkReader mmaps a feed's .dat file and yields fixed-size runs of
// samples without copying the whole payload into a Go byte slice up
// front.
type ChunkReader struct {
	meta  MetaHeader
	floor int

	data []byte
	file pfs.File

	closeOnce sync.Once
	closeErr  error
}

// OpenChunkReader loads feedID's metadata and mmaps its .dat file for
// reading. The caller must call [ChunkReader.Close] when done.
func OpenChunkReader(fsys pfs.FS, cfg Config, feedID int64) (*ChunkReader, error) {
	meta, err := LoadMetaHeader(fsys, cfg, feedID)
	if err != nil {
		return nil, err
	}

	return openChunkReaderForMeta(fsys, cfg, feedID, meta)
}

func openChunkReaderForMeta(fsys pfs.FS, cfg Config, feedID int64, meta MetaHeader) (*ChunkReader, error) {
	dataPath, err := resolveFeedPath(cfg.DataDir, feedID, dataExt)
	if err != nil {
		return nil, err
	}

	f, err := fsys.Open(dataPath)
	if err != nil {
		return nil, classifyStatErr(err, "data", dataPath)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, newErr(IoError, "data", err, "could not stat %q", dataPath)
	}

	size := info.Size()
	if size == 0 {
		// Nothing to map; Read will observe NPoints == 0 and yield nothing.
		return &ChunkReader{meta: meta, floor: chunkFloor(cfg), file: f}, nil
	}

	data, err := syscall.Mmap(int(f.Fd()), 0, int(size), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, newErr(IoError, "data", err, "mmap of %q failed", dataPath)
	}

	return &ChunkReader{meta: meta, floor: chunkFloor(cfg), data: data, file: f}, nil
}

func chunkFloor(cfg Config) int {
	if cfg.ChunkSizeFloor <= 0 {
		return DefaultChunkSizeFloor
	}

	return cfg.ChunkSizeFloor
}

// Close unmaps the .dat file and closes its descriptor. Safe to call more
// than once.
func (r *ChunkReader) Close() error {
	r.closeOnce.Do(func() {
		if r.data != nil {
			r.closeErr = syscall.Munmap(r.data)
			r.data = nil
		}

		if cerr := r.file.Close(); cerr != nil && r.closeErr == nil {
			r.closeErr = cerr
		}
	})

	return r.closeErr
}

// Read streams samples starting at startPos, requestedChunkSize samples at
// a time (clamped upward to the reader's configured floor). If window is
// non-nil, at most *window samples are yielded in total; otherwise
// everything from startPos to the end of the feed is yielded.
//
// If advance is false, Read yields exactly one chunk and stops, leaving it
// to the caller to start a fresh pull at whatever position it chooses
// next. If advance is true, Read walks forward automatically until window
// or the end of the feed is reached.
//
// The returned sequence yields a non-nil error, then stops, on the first
// failure: an out-of-range startPos, or a chunk that would read past the
// mapped .dat payload (CorruptData).
func (r *ChunkReader) Read(startPos uint64, requestedChunkSize int, window *uint64, advance bool) iter.Seq2[Chunk, error] {
	return func(yield func(Chunk, error) bool) {
		if r.meta.NPoints == 0 {
			return
		}

		if startPos >= r.meta.NPoints {
			yield(Chunk{}, newErr(InvalidArgument, "start_pos", nil,
				"start_pos %d is not less than npoints %d", startPos, r.meta.NPoints))

			return
		}

		chunkSize := requestedChunkSize
		if chunkSize < r.floor {
			chunkSize = r.floor
		}

		remaining := r.meta.NPoints - startPos
		if window != nil && *window < remaining {
			remaining = *window
		}

		pos := startPos

		for remaining > 0 {
			n := uint64(chunkSize)
			if n > remaining {
				n = remaining
			}

			byteStart := pos * 4
			byteEnd := byteStart + n*4

			if byteEnd > uint64(len(r.data)) {
				yield(Chunk{}, newErr(CorruptData, "data", nil,
					"chunk [%d,%d) reads past the mapped payload of %d bytes", byteStart, byteEnd, len(r.data)))

				return
			}

			values := decodeFloats(r.data[byteStart:byteEnd])

			if !yield(Chunk{Start: pos, Values: values}, nil) {
				return
			}

			if !advance {
				return
			}

			pos += n
			remaining -= n
		}
	}
}

func decodeFloats(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		bits := binary.LittleEndian.Uint32(b[i*4 : i*4+4])
		out[i] = math.Float32frombits(bits)
	}

	return out
}

// IsMissing reports whether v is the storage engine's missing-sample
// sentinel (NaN).
func IsMissing(v float32) bool {
	return math.IsNaN(float64(v))
}

// Missing returns the missing-sample sentinel value.
func Missing() float32 {
	return float32(math.NaN())
}
