package fsops

import (
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/domsleee/forceops/internal/pathutil"
)

// fastRemoveAll removes an entire subtree in one internally parallel
// pass. Independent entries are removed concurrently; the first error
// wins and cancels nothing already in flight. Callers observe only the
// overall success or failure.
func fastRemoveAll(root string) error {
	// A link is removed as the entry itself, never traversed.
	if pathutil.IsSymlink(root) {
		return os.Remove(root)
	}

	info, err := os.Lstat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		_ = pathutil.ClearReadOnly(root)
		return os.Remove(root)
	}

	if err := removeContents(root); err != nil {
		return err
	}
	_ = pathutil.ClearReadOnly(root)
	return os.Remove(root)
}

func removeContents(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() && !pathutil.IsSymlink(path) {
			g.Go(func() error {
				if err := removeContents(path); err != nil {
					return err
				}
				_ = pathutil.ClearReadOnly(path)
				return os.Remove(path)
			})
		} else {
			g.Go(func() error {
				_ = pathutil.ClearReadOnly(path)
				return os.Remove(path)
			})
		}
	}
	return g.Wait()
}
