package phpfina

// Config holds the parameters that every operation in this package needs:
// where feed files live, and the size/chunking ceilings that guard against
// a corrupt or hostile .meta/.dat pair.
type Config struct {
	// DataDir is the directory containing <feed_id>.meta/<feed_id>.dat
	// pairs. Must exist and be a directory.
	DataDir string `json:"data_dir"`

	// ChunkSizeFloor is the minimum number of samples read per chunk
	// pull, regardless of the caller-requested chunk size. Keeps small
	// requested chunk sizes from turning a large read into thousands of
	// tiny mmap-backed slice reads.
	ChunkSizeFloor int `json:"chunk_size_floor"`

	// MaxMetaSize is the size ceiling, in bytes, for a .meta file.
	MaxMetaSize int64 `json:"max_meta_size"`

	// MaxDataSize is the size ceiling, in bytes, for a .dat file.
	MaxDataSize int64 `json:"max_data_size"`
}

// Default ceilings. A .meta file is 16 bytes of payload; 1 KiB leaves
// generous room for future header fields without quietly accepting a
// mismatched or truncated-looking file as valid. 100 MiB of .dat payload is
// 26,214,400 samples: about ten months at a 1-second interval, or about
// eight years at a 10-second interval.
const (
	DefaultChunkSizeFloor = 4096
	DefaultMaxMetaSize    = 1024
	DefaultMaxDataSize    = 100 << 20
)

// DefaultConfig returns a [Config] rooted at dataDir with the package's
// default ceilings.
func DefaultConfig(dataDir string) Config {
	return Config{
		DataDir:        dataDir,
		ChunkSizeFloor: DefaultChunkSizeFloor,
		MaxMetaSize:    DefaultMaxMetaSize,
		MaxDataSize:    DefaultMaxDataSize,
	}
}
