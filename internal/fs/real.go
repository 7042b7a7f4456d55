package fs

import (
	"bytes"
	"os"
	"syscall"
	"time"

	"github.com/natefinch/atomic"
)

// Real implements [FS] using the real filesystem.
//
// All methods are pure passthroughs to the [os] package with identical
// behavior and error semantics, except [Real.Exists] which wraps [os.Stat],
// [Real.WriteFileAtomic] which writes via a temp file plus rename, and
// [Real.Lock] which flocks a dedicated ".lock" sibling file.
type Real struct{}

// NewReal returns a new [Real] filesystem.
func NewReal() *Real {
	return &Real{}
}

// Open is a passthrough wrapper for [os.Open].
func (r *Real) Open(path string) (File, error) {
	return os.Open(path)
}

// ReadFile is a passthrough wrapper for [os.ReadFile].
func (r *Real) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFileAtomic writes data to path via [atomic.WriteFile] (temp file plus
// rename), so a reader never observes a partially-written cache file.
func (r *Real) WriteFileAtomic(path string, data []byte, _ os.FileMode) error {
	return atomic.WriteFile(path, bytes.NewReader(data))
}

// ReadDir is a passthrough wrapper for [os.ReadDir].
func (r *Real) ReadDir(path string) ([]os.DirEntry, error) {
	return os.ReadDir(path)
}

// MkdirAll is a passthrough wrapper for [os.MkdirAll].
func (r *Real) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Stat is a passthrough wrapper for [os.Stat].
func (r *Real) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// Exists checks if a file exists using [os.Stat].
func (r *Real) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}

	if os.IsNotExist(err) {
		return false, nil
	}

	return false, err
}

const lockTimeout = 2 * time.Second

// realLock holds an exclusive flock on a ".lock" sibling file.
type realLock struct {
	file *os.File
}

func (l *realLock) Close() error {
	if l.file == nil {
		return nil
	}

	_ = syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	err := l.file.Close()
	l.file = nil

	return err
}

// Lock acquires an exclusive, non-blocking flock on path+".lock", retrying
// until acquired or [lockTimeout] elapses.
func (r *Real) Lock(path string) (Locker, error) {
	lockPath := path + ".lock"

	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644) //nolint:gosec
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(lockTimeout)

	const retryInterval = 10 * time.Millisecond

	for {
		if flockErr := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); flockErr == nil {
			return &realLock{file: file}, nil
		}

		if time.Now().After(deadline) {
			_ = file.Close()

			return nil, os.ErrDeadlineExceeded
		}

		time.Sleep(retryInterval)
	}
}

// Compile-time interface check.
var _ FS = (*Real)(nil)
