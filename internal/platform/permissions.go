package platform

import (
	"fmt"
	"os"
	"runtime"
)

// Chmod sets file permissions. It is a no-op on Windows, which has no
// Unix permission bits.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// MkdirPrivate creates dir and its parents and then restricts dir to mode,
// even when it already existed with looser bits.
func MkdirPrivate(dir string, mode os.FileMode) error {
	if err := os.MkdirAll(dir, mode); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	if err := Chmod(dir, mode); err != nil {
		return fmt.Errorf("restricting %s: %w", dir, err)
	}
	return nil
}

// PermOK reports whether path grants nothing beyond want. It returns the
// actual bits for display. On Windows every path is reported as OK.
func PermOK(path string, want os.FileMode) (os.FileMode, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, false, err
	}
	perm := info.Mode().Perm()
	if runtime.GOOS == "windows" {
		return perm, true, nil
	}
	return perm, perm&^want == 0, nil
}
