package phpfina

import (
	"fmt"
	"path/filepath"
	"strings"
)

// maxUnixTimestamp bounds every timestamp this package will accept as
// plausible, stored or requested. Chosen well past any feed's realistic
// end_time while still comfortably inside uint32 range.
const maxUnixTimestamp = 2_147_480_000

func validatePositiveInt(value int64, field string) error {
	if value <= 0 {
		return newErr(InvalidArgument, field, nil, "must be a positive integer, got %d", value)
	}

	return nil
}

func validateNonNegativeInt(value int64, field string) error {
	if value < 0 {
		return newErr(InvalidArgument, field, nil, "must be a non-negative integer, got %d", value)
	}

	return nil
}

func validateUnixTimestamp(value uint64, field string) error {
	if value > maxUnixTimestamp {
		return newErr(InvalidArgument, field, nil, "timestamp %d exceeds the maximum of %d", value, maxUnixTimestamp)
	}

	return nil
}

// metaExt and dataExt are the only two suffixes resolveFeedPath accepts,
// the two this package ever reads.
const (
	metaExt = ".meta"
	dataExt = ".dat"
)

// resolveFeedPath builds the path for feed id's file with the given
// extension and confirms, using string operations alone, that it resolves
// to a direct child of dataDir with an allowed extension. No filesystem
// call happens here: containment is checked before any I/O, so a hostile
// or malformed feed id can never cause a stat/open outside dataDir.
func resolveFeedPath(dataDir string, feedID int64, ext string) (string, error) {
	if ext != metaExt && ext != dataExt {
		return "", newErr(InvalidArgument, "ext", nil, "unsupported file extension %q", ext)
	}

	name := fmt.Sprintf("%d%s", feedID, ext)
	candidate := filepath.Join(dataDir, name)

	absDir, err := filepath.Abs(dataDir)
	if err != nil {
		return "", newErr(InvalidArgument, "data_dir", err, "cannot resolve data_dir %q", dataDir)
	}

	absCandidate, err := filepath.Abs(candidate)
	if err != nil {
		return "", newErr(InvalidArgument, "feed_id", err, "cannot resolve path for feed %d", feedID)
	}

	if filepath.Ext(absCandidate) != ext {
		return "", newErr(InvalidArgument, "feed_id", nil, "resolved path %q has an unexpected extension", absCandidate)
	}

	rel, err := filepath.Rel(absDir, absCandidate)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", newErr(InvalidArgument, "feed_id", nil, "resolved path escapes data_dir")
	}

	return absCandidate, nil
}

func validateFileSize(size, max int64, field string) error {
	if size > max {
		return newErr(FileTooLarge, field, nil, "file size %d exceeds the configured ceiling of %d bytes", size, max)
	}

	return nil
}
