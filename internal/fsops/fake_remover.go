package fsops

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Kind classifies an entry in the fake tree.
type Kind int

const (
	KindFile Kind = iota
	KindDir
	KindSymlink
)

// FakeRemover implements Remover over an in-memory tree for testing.
// Records all calls and pops scripted errors per path, so retry
// behavior can be exercised without real files or real lock holders.
type FakeRemover struct {
	Calls []string

	// Errs maps a path to the error returned by each successive
	// Remove/RemoveAll call on it. Once the slice is exhausted the
	// call succeeds and the entry disappears from the tree.
	Errs map[string][]error

	tree map[string]Kind
}

func NewFakeRemover() *FakeRemover {
	return &FakeRemover{
		Errs: make(map[string][]error),
		tree: make(map[string]Kind),
	}
}

// Add places an entry in the fake tree.
func (f *FakeRemover) Add(path string, kind Kind) {
	f.tree[filepath.Clean(path)] = kind
}

// MarkGone removes an entry from the tree without a Remove call,
// simulating a concurrent actor deleting it.
func (f *FakeRemover) MarkGone(path string) {
	f.deleteSubtree(filepath.Clean(path))
}

// FailTimes scripts path to fail with err for the next `times` calls.
func (f *FakeRemover) FailTimes(path string, err error, times int) {
	path = filepath.Clean(path)
	for i := 0; i < times; i++ {
		f.Errs[path] = append(f.Errs[path], err)
	}
}

func (f *FakeRemover) Remove(path string) error {
	path = filepath.Clean(path)
	f.Calls = append(f.Calls, "rm:"+path)
	if err := f.pop(path); err != nil {
		return err
	}
	delete(f.tree, path)
	return nil
}

func (f *FakeRemover) RemoveAll(path string) error {
	path = filepath.Clean(path)
	f.Calls = append(f.Calls, "rmall:"+path)
	if err := f.pop(path); err != nil {
		return err
	}
	f.deleteSubtree(path)
	return nil
}

func (f *FakeRemover) ReadDir(path string) ([]os.DirEntry, error) {
	path = filepath.Clean(path)
	f.Calls = append(f.Calls, "readdir:"+path)
	if kind, ok := f.tree[path]; !ok || kind != KindDir {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	var entries []os.DirEntry
	for p, kind := range f.tree {
		if filepath.Dir(p) == p {
			continue // root entries are their own parent
		}
		if filepath.Dir(p) == path {
			entries = append(entries, fakeDirEntry{name: filepath.Base(p), kind: kind})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

func (f *FakeRemover) Lstat(path string) (os.FileInfo, error) {
	path = filepath.Clean(path)
	kind, ok := f.tree[path]
	if !ok {
		return nil, &fs.PathError{Op: "lstat", Path: path, Err: fs.ErrNotExist}
	}
	return fakeFileInfo{name: filepath.Base(path), kind: kind}, nil
}

func (f *FakeRemover) pop(path string) error {
	errs := f.Errs[path]
	if len(errs) == 0 {
		return nil
	}
	err := errs[0]
	f.Errs[path] = errs[1:]
	return err
}

func (f *FakeRemover) deleteSubtree(path string) {
	delete(f.tree, path)
	prefix := path + string(os.PathSeparator)
	for p := range f.tree {
		if strings.HasPrefix(p, prefix) {
			delete(f.tree, p)
		}
	}
}

type fakeFileInfo struct {
	name string
	kind Kind
}

func (i fakeFileInfo) Name() string { return i.name }
func (i fakeFileInfo) Size() int64  { return 0 }
func (i fakeFileInfo) Mode() os.FileMode {
	switch i.kind {
	case KindDir:
		return os.ModeDir | 0o755
	case KindSymlink:
		return os.ModeSymlink | 0o777
	default:
		return 0o644
	}
}
func (i fakeFileInfo) ModTime() time.Time { return time.Time{} }
func (i fakeFileInfo) IsDir() bool        { return i.kind == KindDir }
func (i fakeFileInfo) Sys() any           { return nil }

type fakeDirEntry struct {
	name string
	kind Kind
}

func (e fakeDirEntry) Name() string { return e.name }
func (e fakeDirEntry) IsDir() bool  { return e.kind == KindDir }
func (e fakeDirEntry) Type() os.FileMode {
	return fakeFileInfo{name: e.name, kind: e.kind}.Mode().Type()
}
func (e fakeDirEntry) Info() (os.FileInfo, error) {
	return fakeFileInfo{name: e.name, kind: e.kind}, nil
}
