// Package pathutil holds the small path and attribute helpers the
// deletion engine assumes to be correct, synchronous utilities.
package pathutil

import (
	"os"
	"path/filepath"
)

// AbsFromCwd turns a user-supplied string into an absolute,
// canonicalized path relative to the current working directory.
//
// Only the parent directory is resolved through symlinks; the final
// component is kept verbatim so that deleting a link removes the link
// entry, never its target. Resolution is best effort: a path whose
// parent does not exist yet is returned cleaned but unresolved, so
// callers can still report NotFound against it.
func AbsFromCwd(raw string) string {
	abs, err := filepath.Abs(raw)
	if err != nil {
		return filepath.Clean(raw)
	}
	dir, base := filepath.Split(abs)
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		return filepath.Join(resolved, base)
	}
	return abs
}

// IsSymlink reports whether path is a symbolic link (a reparse point on
// Windows), without following it. A stat failure counts as "no".
func IsSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}

// ClearReadOnly removes the read-only attribute from a file or
// directory if it is set. Callers treat failure as non-fatal: the
// subsequent remove simply surfaces its own error.
func ClearReadOnly(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	perm := info.Mode().Perm()
	if perm&0o200 != 0 {
		return nil
	}
	return os.Chmod(path, perm|0o200)
}
