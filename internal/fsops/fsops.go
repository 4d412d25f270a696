// Package fsops abstracts the filesystem operations the deletion
// engine drives, so tests can swap in a recording fake and script
// failures without touching the disk.
package fsops

import "os"

// Remover abstracts filesystem delete operations.
// Remove deletes a single entry (file, empty directory, or link);
// RemoveAll is the bulk fast path for a whole subtree; ReadDir feeds
// the slow per-entry path; Lstat classifies targets without following
// links.
type Remover interface {
	Remove(path string) error
	RemoveAll(path string) error
	ReadDir(path string) ([]os.DirEntry, error)
	Lstat(path string) (os.FileInfo, error)
}

// OSRemover implements Remover against the real filesystem.
// RemoveAll removes subtree entries in parallel.
type OSRemover struct{}

func (OSRemover) Remove(path string) error {
	return os.Remove(path)
}

func (OSRemover) RemoveAll(path string) error {
	return fastRemoveAll(path)
}

func (OSRemover) ReadDir(path string) ([]os.DirEntry, error) {
	return os.ReadDir(path)
}

func (OSRemover) Lstat(path string) (os.FileInfo, error) {
	return os.Lstat(path)
}
