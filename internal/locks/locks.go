// Package locks answers "who is holding this path open".
//
// Two strategies exist because file and directory locking surface
// differently on Windows: files go through a Restart Manager session,
// directories through a scan of every process's working directory read
// out of its PEB. Holder lists are valid only for the scan that
// produced them; process ids are recycled by the OS and must not be
// cached across calls.
package locks

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Holder is a process currently referencing a target file or directory.
// Executable prefers a short service-style name when present, falling
// back to the application display name; Application keeps the display
// name verbatim. Either may be empty when resolution fails.
type Holder struct {
	PID         uint32
	Executable  string
	Application string
}

// ErrNotFound marks a lock query against a path that does not exist.
var ErrNotFound = errors.New("no such file or directory")

// InspectError reports a failed lock-inspection query with the raw
// numeric result code from the underlying call.
type InspectError struct {
	Stage   string // "start session", "register resources", "get list"
	Code    uint32
	Message string
}

func (e *InspectError) Error() string {
	return fmt.Sprintf("failed to %s (error %d): %s", e.Stage, e.Code, e.Message)
}

// AccessDenied reports whether the query failed with ERROR_ACCESS_DENIED.
func (e *InspectError) AccessDenied() bool {
	return e.Code == 5
}

// Inspector queries the processes locking a path.
type Inspector interface {
	// LocksForFiles uses the file strategy against one or more paths.
	LocksForFiles(paths []string) ([]Holder, error)

	// LocksForWorkingSet uses the directory strategy: every process
	// whose working directory is inside path (or an ancestor of it)
	// is a holder.
	LocksForWorkingSet(path string) ([]Holder, error)

	// Locks dispatches on the current classification of path.
	Locks(path string) ([]Holder, error)
}

// SystemInspector implements Inspector against the host OS.
type SystemInspector struct{}

func (SystemInspector) LocksForFiles(paths []string) ([]Holder, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	return locksForFiles(paths)
}

func (SystemInspector) LocksForWorkingSet(path string) ([]Holder, error) {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, fmt.Errorf("cannot inspect %q: %w", path, ErrNotFound)
	}
	return locksForWorkingSet(target)
}

func (s SystemInspector) Locks(path string) ([]Holder, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot list locks of %q: %w", path, ErrNotFound)
	}
	if info.IsDir() {
		return s.LocksForWorkingSet(path)
	}
	return s.LocksForFiles([]string{path})
}

// CwdReader reads a process's current working directory.
// The OS-backed implementation reads it out of the target's control
// structures via cross-process memory access; tests substitute canned
// values.
type CwdReader interface {
	// ReadCwd returns the working directory of pid. ok is false for
	// any failure: permission denied, process exited mid-scan, or
	// structure absent. The scan skips such processes and continues.
	ReadCwd(pid uint32) (cwd string, ok bool)
}

// normalizeKey forms the comparison key for working-directory matching:
// lower-cased, with the Windows verbatim prefix stripped.
func normalizeKey(p string) string {
	return strings.TrimPrefix(strings.ToLower(p), `\\?\`)
}

// workingSetHolders runs the directory strategy over an enumerated pid
// list. A process is a holder when its working-directory key and the
// target key are prefixes of one another in either direction, covering
// both "locked the directory itself" and "locked a subdirectory or
// ancestor". Kept free of OS calls so the matching rules are testable
// anywhere.
func workingSetHolders(target string, pids []uint32, self uint32, r CwdReader, exePath func(uint32) string) []Holder {
	key := normalizeKey(target)
	var holders []Holder
	for _, pid := range pids {
		if pid == 0 || pid == self {
			continue
		}
		cwd, ok := r.ReadCwd(pid)
		if !ok {
			continue
		}
		cwdKey := normalizeKey(cwd)
		if !strings.HasPrefix(cwdKey, key) && !strings.HasPrefix(key, cwdKey) {
			continue
		}
		exe := ""
		if exePath != nil {
			exe = exePath(pid)
		}
		holders = append(holders, Holder{PID: pid, Executable: exe, Application: exe})
	}
	return holders
}
