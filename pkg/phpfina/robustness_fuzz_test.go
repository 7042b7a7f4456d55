// Robustness: fuzz testing with corrupt/malformed input.
//
// Oracle: "no panics, no hangs, graceful errors."
// Technique: coverage-guided fuzzing (go test -fuzz).
//
// These tests write arbitrary fuzz bytes as a feed's .meta/.dat pair and
// attempt to load it. The implementation must handle malformed input
// gracefully by returning a classified *phpfina.Error, never panicking.

package phpfina_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/emontools/phpfina/pkg/phpfina"
)

// FuzzLoadMetaHeader_Robustness writes fuzz bytes as a .meta file (paired
// with a small fixed .dat file) and loads it. Any non-nil error must be a
// *phpfina.Error; panics or hangs are the only real failures here.
func FuzzLoadMetaHeader_Robustness(f *testing.F) {
	f.Add([]byte{})
	f.Add(make([]byte, 16))
	f.Add([]byte{0, 0, 0, 0, 0, 0, 0, 0, 10, 0, 0, 0, 20, 5, 253, 93})

	f.Fuzz(func(t *testing.T, metaBytes []byte) {
		dir := t.TempDir()

		if err := os.WriteFile(filepath.Join(dir, "1.meta"), metaBytes, 0o644); err != nil {
			t.Fatalf("WriteFile meta: %v", err)
		}

		if err := os.WriteFile(filepath.Join(dir, "1.dat"), make([]byte, 40), 0o644); err != nil {
			t.Fatalf("WriteFile dat: %v", err)
		}

		_, err := phpfina.LoadMetaHeader(newRealFS(), phpfina.DefaultConfig(dir), 1)
		if err == nil {
			return
		}

		var perr *phpfina.Error
		if !errors.As(err, &perr) {
			t.Fatalf("LoadMetaHeader returned an unclassified error: %v", err)
		}
	})
}

// FuzzReadValues_Robustness pairs a small, well-formed feed with fuzzed
// request parameters. Every failure must be a classified *phpfina.Error.
func FuzzReadValues_Robustness(f *testing.F) {
	f.Add(uint64(1_700_000_000), uint64(10), uint64(100))
	f.Add(uint64(0), uint64(0), uint64(0))
	f.Add(uint64(1_700_000_050), uint64(7), uint64(70))

	f.Fuzz(func(t *testing.T, startTime, step, window uint64) {
		dir := t.TempDir()
		writeFeed(t, dir, 1, 10, 1_700_000_000, []float32{1, 2, 3, 4, 5})

		_, err := phpfina.ReadValues(newRealFS(), phpfina.DefaultConfig(dir), 1, startTime, step, window)
		if err == nil {
			return
		}

		var perr *phpfina.Error
		if !errors.As(err, &perr) {
			t.Fatalf("ReadValues returned an unclassified error: %v", err)
		}
	})
}
