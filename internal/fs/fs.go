// Package fs provides a filesystem abstraction used by the PhpFina storage
// engine and its command-line front end.
//
// The main types are:
//   - [FS]: interface for the filesystem operations the engine needs
//   - [File]: interface for an open, read-only file descriptor
//   - [Real]: production implementation backed by the [os] package
//   - [Chaos]: testing implementation that injects random open/stat/read
//     failures, used to exercise the engine's IoError paths deterministically
//
// [MetaHeader] and [ChunkReader] never touch the OS directly; they take an
// [FS] so callers can swap in [Chaos] during tests without recompiling the
// engine with build tags.
package fs

import (
	"io"
	"os"
)

// File represents an open file descriptor.
//
// This is a narrow read-only subset of [os.File]'s surface: the engine only
// ever opens feed files for reading, reads the .meta header sequentially
// from the start, and needs the raw descriptor ([File.Fd]) to mmap the .dat
// file.
type File interface {
	io.Reader
	io.Closer

	// Fd returns the underlying file descriptor, used to mmap a .dat file.
	Fd() uintptr

	// Stat returns the [os.FileInfo] for this file. See [os.File.Stat].
	Stat() (os.FileInfo, error)
}

// Locker represents a held, exclusive file lock. Call [Locker.Close] to
// release it.
type Locker interface {
	io.Closer
}

// FS defines the filesystem operations the storage engine and its CLI need.
//
// Two implementations are provided:
//   - [Real]: production use, wraps [os] and the flock syscall
//   - [Chaos]: testing use, injects random open/stat/read-dir failures
type FS interface {
	// Open opens a file for reading. See [os.Open].
	Open(path string) (File, error)

	// ReadFile reads an entire file into memory. See [os.ReadFile]. The
	// engine does not call it: the .meta header is read through Open, and
	// the .dat payload is mmapped.
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic writes data to path via a temp-file-plus-rename so a
	// crash mid-write never leaves a partially-written file visible. Used
	// only by the CLI's derived stats cache, never by the read-only core.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// ReadDir lists a directory's entries, sorted by name. See [os.ReadDir].
	// Neither the engine nor the CLI calls it.
	ReadDir(path string) ([]os.DirEntry, error)

	// MkdirAll creates a directory and all parents. See [os.MkdirAll].
	// Neither the engine nor the CLI calls it; the cache subcommand writes
	// into the existing data directory.
	MkdirAll(path string, perm os.FileMode) error

	// Stat returns file info. See [os.Stat].
	Stat(path string) (os.FileInfo, error)

	// Exists reports whether a file or directory exists.
	// Returns (false, nil) if not found, (false, err) on other errors.
	Exists(path string) (bool, error)

	// Lock acquires an exclusive advisory lock on path+".lock", blocking
	// until acquired or the implementation's timeout expires. Used to
	// serialize concurrent writers of the same derived cache file.
	Lock(path string) (Locker, error)
}

// Compile-time interface check.
var _ File = (*os.File)(nil)
