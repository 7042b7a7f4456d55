package phpfina

import (
	"io"
	"os"

	pfs "github.com/emontools/phpfina/internal/fs"
)

// MetaHeader is the decoded content of a <feed_id>.meta file plus the two
// values derived from it and the sibling .dat file's size.
type MetaHeader struct {
	// Interval is the fixed spacing, in seconds, between samples.
	Interval uint32

	// StartTime is the unix timestamp of sample 0.
	StartTime uint32

	// NPoints is the number of complete 4-byte float32 samples in the
	// .dat file, floor(file_size/4). Trailing partial-sample bytes are
	// ignored, never treated as corruption.
	NPoints uint64

	// EndTime is the timestamp of the last sample, or StartTime if
	// NPoints is 0.
	EndTime uint64
}

// LoadMetaHeader resolves feedID's .meta/.dat pair under cfg.DataDir,
// decodes the header, and computes NPoints/EndTime from the .dat file's
// size without reading its payload.
func LoadMetaHeader(fsys pfs.FS, cfg Config, feedID int64) (MetaHeader, error) {
	if err := validatePositiveInt(feedID, "feed_id"); err != nil {
		return MetaHeader{}, err
	}

	if err := validatePositiveInt(int64(cfg.MaxMetaSize), "max_meta_size"); err != nil {
		return MetaHeader{}, err
	}

	if err := validatePositiveInt(cfg.MaxDataSize, "max_data_size"); err != nil {
		return MetaHeader{}, err
	}

	info, err := fsys.Stat(cfg.DataDir)
	if err != nil {
		return MetaHeader{}, classifyStatErr(err, "data_dir", cfg.DataDir)
	}

	if !info.IsDir() {
		return MetaHeader{}, newErr(InvalidArgument, "data_dir", nil, "%q is not a directory", cfg.DataDir)
	}

	metaPath, err := resolveFeedPath(cfg.DataDir, feedID, metaExt)
	if err != nil {
		return MetaHeader{}, err
	}

	dataPath, err := resolveFeedPath(cfg.DataDir, feedID, dataExt)
	if err != nil {
		return MetaHeader{}, err
	}

	metaInfo, err := fsys.Stat(metaPath)
	if err != nil {
		return MetaHeader{}, classifyStatErr(err, "meta", metaPath)
	}

	if err := validateFileSize(metaInfo.Size(), cfg.MaxMetaSize, "meta"); err != nil {
		return MetaHeader{}, err
	}

	interval, startTime, err := readMetaFields(fsys, metaPath)
	if err != nil {
		return MetaHeader{}, err
	}

	if interval == 0 {
		return MetaHeader{}, newErr(CorruptMeta, "interval", nil, "interval must be positive, got 0")
	}

	if err := validateUnixTimestamp(uint64(startTime), "start_time"); err != nil {
		return MetaHeader{}, &Error{Kind: CorruptMeta, Field: "start_time", msg: err.Error()}
	}

	dataInfo, err := fsys.Stat(dataPath)
	if err != nil {
		return MetaHeader{}, classifyStatErr(err, "data", dataPath)
	}

	if err := validateFileSize(dataInfo.Size(), cfg.MaxDataSize, "data"); err != nil {
		return MetaHeader{}, err
	}

	npoints := uint64(dataInfo.Size()) / 4

	endTime := uint64(startTime)
	if npoints > 0 {
		endTime = uint64(startTime) + (npoints-1)*uint64(interval)
	}

	if err := validateUnixTimestamp(endTime, "end_time"); err != nil {
		return MetaHeader{}, &Error{Kind: CorruptMeta, Field: "end_time", msg: err.Error()}
	}

	return MetaHeader{
		Interval:  interval,
		StartTime: startTime,
		NPoints:   npoints,
		EndTime:   endTime,
	}, nil
}

// readMetaFields reads a .meta file's first 16 bytes and decodes the
// interval (bytes 8-12) and start_time (bytes 12-16), both little-endian
// uint32. Bytes 0-7 are reserved and ignored.
func readMetaFields(fsys pfs.FS, metaPath string) (interval, startTime uint32, err error) {
	f, err := fsys.Open(metaPath)
	if err != nil {
		return 0, 0, classifyStatErr(err, "meta", metaPath)
	}
	defer f.Close()

	var header [16]byte

	if _, err := io.ReadFull(f, header[:]); err != nil {
		return 0, 0, newErr(CorruptMeta, "header", err, "meta file shorter than the required 16-byte header")
	}

	interval = leUint32(header[8:12])
	startTime = leUint32(header[12:16])

	return interval, startTime, nil
}

func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// classifyStatErr maps an *os.PathError-shaped error from the fs
// abstraction into FileMissing or IoError, keeping ENOENT distinct from
// every other failure (permission denied, injected chaos fault, mmap
// failure surfaced through Stat, and so on).
func classifyStatErr(err error, field, path string) error {
	if os.IsNotExist(err) {
		return newErr(FileMissing, field, err, "%q does not exist", path)
	}

	return newErr(IoError, field, err, "could not access %q", path)
}
