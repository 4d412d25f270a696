// Package safety guards forced deletion against catastrophic targets.
//
// Forceops kills whatever holds a lock on its target, so pointing it at
// a system directory is worse than a plain rm -rf. The validator
// refuses filesystem roots and OS system directories before the engine
// makes any removal attempt.
package safety

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrInvalidPath   = errors.New("invalid path")
	ErrProtectedPath = errors.New("protected path")
)

// Validator enforces the safety contract for delete operations.
type Validator struct {
	ProtectedPaths []string

	// Disabled skips all checks (the --no-preserve-root escape hatch).
	Disabled bool
}

// NewValidator creates a validator with the built-in protected paths
// plus any extra prefixes from configuration.
func NewValidator(extraProtected []string) *Validator {
	return &Validator{
		ProtectedPaths: defaultProtected(extraProtected),
	}
}

// ValidateDeleteTarget authorizes a delete. The path must already be
// absolute and cleaned; it is checked against filesystem roots and the
// protected prefix list. Returns a typed error on violation.
func (v *Validator) ValidateDeleteTarget(path string) error {
	if v.Disabled {
		return nil
	}

	if strings.TrimSpace(path) == "" {
		return ErrInvalidPath
	}
	p := filepath.Clean(path)

	if isFilesystemRoot(p) {
		return fmt.Errorf("%w: refusing to delete %q", ErrProtectedPath, p)
	}
	if IsProtectedPath(p, v.ProtectedPaths) {
		return fmt.Errorf("%w: refusing to delete %q", ErrProtectedPath, p)
	}
	return nil
}

// IsProtectedPath checks if path equals or is inside any protected prefix.
func IsProtectedPath(path string, protected []string) bool {
	p := filepath.Clean(path)
	for _, prot := range protected {
		if hasPathPrefix(p, prot) {
			return true
		}
	}
	return false
}

// isFilesystemRoot matches "/" and drive roots like "C:\".
func isFilesystemRoot(p string) bool {
	vol := filepath.VolumeName(p)
	rest := p[len(vol):]
	return rest == string(os.PathSeparator) || rest == "/" || rest == ""
}

func hasPathPrefix(path, root string) bool {
	root = filepath.Clean(root)
	if path == root {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return !startsWithDotDot(rel)
}

func startsWithDotDot(rel string) bool {
	if rel == ".." {
		return true
	}
	prefix := ".." + string(os.PathSeparator)
	return strings.HasPrefix(rel, prefix)
}
