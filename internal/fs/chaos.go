package fs

import (
	"errors"
	"io/fs"
	"math/rand"
	"os"
	"sync"
	"syscall"
)

// ChaosConfig controls fault injection probabilities. Each rate is a
// float64 from 0.0 (never) to 1.0 (always). The zero value disables all
// fault injection.
//
// Only the open-phase/enumeration operations are modeled: the storage
// engine never reads a .dat file's bytes through [File.Read] (it mmaps the
// descriptor directly), so a simulated mid-read failure would never be
// observed by the engine. Tests that want to exercise CorruptData build a
// genuinely truncated .dat file instead of injecting a fault.
type ChaosConfig struct {
	// OpenFailRate controls how often FS.Open fails. Returns EACCES or EIO.
	OpenFailRate float64

	// StatFailRate controls how often FS.Stat/FS.Exists fail on a path that
	// exists. Returns EACCES or EIO.
	StatFailRate float64

	// ReadFileFailRate controls how often FS.ReadFile fails entirely.
	// Returns EACCES or EIO.
	ReadFileFailRate float64

	// ReadDirFailRate controls how often FS.ReadDir fails entirely.
	// Returns EACCES or EIO.
	ReadDirFailRate float64
}

// ChaosStats counts faults injected so far, for test assertions.
type ChaosStats struct {
	OpenFails     int64
	StatFails     int64
	ReadFileFails int64
	ReadDirFails  int64
}

// ChaosError marks an error as intentionally injected by [Chaos]. It wraps
// the underlying [syscall.Errno] so [errors.Is]/[os.IsPermission] keep
// working.
type ChaosError struct {
	Err error
}

func (e *ChaosError) Error() string { return "chaos: " + e.Err.Error() }
func (e *ChaosError) Unwrap() error { return e.Err }

// IsChaosErr reports whether err was injected by [Chaos].
func IsChaosErr(err error) bool {
	var ce *ChaosError

	return errors.As(err, &ce)
}

// Chaos wraps an [FS] and injects random open/stat/read-dir failures for
// testing the engine's IoError handling.
//
// It is not a full filesystem simulator: it never injects ENOENT (missing
// files are the wrapped [FS]'s own business) and it keeps no per-path
// sticky state; every call independently decides whether to inject.
type Chaos struct {
	fs     FS
	config ChaosConfig

	mu    sync.Mutex
	rng   *rand.Rand
	stats ChaosStats
}

// NewChaos creates a [Chaos] wrapping fs. seed controls fault injection for
// reproducibility.
func NewChaos(underlying FS, seed int64, config ChaosConfig) *Chaos {
	if underlying == nil {
		panic("fs is nil")
	}

	return &Chaos{fs: underlying, config: config, rng: rand.New(rand.NewSource(seed))}
}

// Stats returns a snapshot of injected fault counts.
func (c *Chaos) Stats() ChaosStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.stats
}

func (c *Chaos) roll(rate float64) bool {
	if rate <= 0 {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.rng.Float64() < rate
}

func (c *Chaos) randomErrno() syscall.Errno {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rng.Intn(2) == 0 {
		return syscall.EACCES
	}

	return syscall.EIO
}

func pathError(op, path string, errno syscall.Errno) error {
	return &ChaosError{Err: &fs.PathError{Op: op, Path: path, Err: errno}}
}

func (c *Chaos) Open(path string) (File, error) {
	f, err := c.fs.Open(path)
	if err != nil {
		return nil, err
	}

	if c.roll(c.config.OpenFailRate) {
		_ = f.Close()

		c.mu.Lock()
		c.stats.OpenFails++
		c.mu.Unlock()

		return nil, pathError("open", path, c.randomErrno())
	}

	return f, nil
}

func (c *Chaos) ReadFile(path string) ([]byte, error) {
	if c.roll(c.config.ReadFileFailRate) {
		c.mu.Lock()
		c.stats.ReadFileFails++
		c.mu.Unlock()

		return nil, pathError("read", path, c.randomErrno())
	}

	return c.fs.ReadFile(path)
}

func (c *Chaos) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	return c.fs.WriteFileAtomic(path, data, perm)
}

func (c *Chaos) ReadDir(path string) ([]os.DirEntry, error) {
	if c.roll(c.config.ReadDirFailRate) {
		c.mu.Lock()
		c.stats.ReadDirFails++
		c.mu.Unlock()

		return nil, pathError("readdir", path, c.randomErrno())
	}

	return c.fs.ReadDir(path)
}

func (c *Chaos) MkdirAll(path string, perm os.FileMode) error {
	return c.fs.MkdirAll(path, perm)
}

func (c *Chaos) Stat(path string) (os.FileInfo, error) {
	info, err := c.fs.Stat(path)
	if err != nil {
		return nil, err
	}

	if c.roll(c.config.StatFailRate) {
		c.mu.Lock()
		c.stats.StatFails++
		c.mu.Unlock()

		return nil, pathError("stat", path, c.randomErrno())
	}

	return info, nil
}

func (c *Chaos) Exists(path string) (bool, error) {
	exists, err := c.fs.Exists(path)
	if err != nil || !exists {
		return exists, err
	}

	if c.roll(c.config.StatFailRate) {
		c.mu.Lock()
		c.stats.StatFails++
		c.mu.Unlock()

		return false, pathError("stat", path, c.randomErrno())
	}

	return true, nil
}

func (c *Chaos) Lock(path string) (Locker, error) {
	return c.fs.Lock(path)
}

// Compile-time interface check.
var _ FS = (*Chaos)(nil)
