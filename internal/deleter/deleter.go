// Package deleter implements force deletion: remove, and when the OS
// refuses because the target is locked, find out who holds it, kill
// them, and try again within a bounded retry budget.
package deleter

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/domsleee/forceops/internal/config"
	"github.com/domsleee/forceops/internal/elevate"
	"github.com/domsleee/forceops/internal/fsops"
	"github.com/domsleee/forceops/internal/locks"
	"github.com/domsleee/forceops/internal/metrics"
	"github.com/domsleee/forceops/internal/pathutil"
	"github.com/domsleee/forceops/internal/proc"
)

// ErrNotFound marks a deletion request against a path that does not
// exist, without force.
var ErrNotFound = errors.New("no such file or directory")

type objectKind string

const (
	kindFile      objectKind = "file"
	kindDirectory objectKind = "directory"
)

// Metrics is the subset of counters the engine increments.
type Metrics interface {
	DeletionsTotal() prometheus.Counter
	RetriesTotal() prometheus.Counter
	ProcessKillsTotal() prometheus.Counter
	ErrorsTotal() prometheus.Counter
}

type defaultMetrics struct{}

func (defaultMetrics) DeletionsTotal() prometheus.Counter    { return metrics.DeletionsTotal }
func (defaultMetrics) RetriesTotal() prometheus.Counter      { return metrics.RetriesTotal }
func (defaultMetrics) ProcessKillsTotal() prometheus.Counter { return metrics.ProcessKillsTotal }
func (defaultMetrics) ErrorsTotal() prometheus.Counter       { return metrics.ErrorsTotal }

// Engine drives the detect-kill-retry loop. The retry budget is
// cfg.MaxRetries extra attempts beyond the first; attempts are spaced
// by cfg.RetryDelay. Only lock-class failures consume the budget.
type Engine struct {
	cfg        *config.Config
	logger     *slog.Logger
	remover    fsops.Remover
	inspector  locks.Inspector
	terminator proc.Terminator
	metrics    Metrics

	clearReadOnly func(string) error
	sleep         func(time.Duration)
	isElevated    func() bool
}

func New(cfg *config.Config, logger *slog.Logger) *Engine {
	return &Engine{
		cfg:           cfg,
		logger:        logger,
		remover:       fsops.OSRemover{},
		inspector:     locks.SystemInspector{},
		terminator:    proc.SystemTerminator{Logger: logger},
		metrics:       defaultMetrics{},
		clearReadOnly: pathutil.ClearReadOnly,
		sleep:         time.Sleep,
		isElevated:    elevate.IsElevated,
	}
}

// Delete removes path, dispatching on what it currently is. With force,
// a missing path is success; without, it is ErrNotFound. Symlinks are
// deleted as the link entry itself, never followed.
func (e *Engine) Delete(path string, force bool) error {
	info, err := e.remover.Lstat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			e.metrics.ErrorsTotal().Inc()
			return err
		}
		if force {
			return nil
		}
		e.metrics.ErrorsTotal().Inc()
		return fmt.Errorf("cannot remove %q: %w", path, ErrNotFound)
	}

	if info.IsDir() && info.Mode()&os.ModeSymlink == 0 {
		err = e.DeleteDirectory(path)
	} else {
		err = e.DeleteFile(path)
	}
	if err != nil {
		e.metrics.ErrorsTotal().Inc()
		return err
	}
	e.metrics.DeletionsTotal().Inc()
	return nil
}

// DeleteFile removes a single file or link under the retry budget,
// using the file lock strategy for holder inspection.
func (e *Engine) DeleteFile(path string) error {
	return e.removeWithRetry(kindFile, path, func() []locks.Holder {
		return e.fileHolders(path)
	})
}

// DeleteDirectory removes a directory tree. The bulk fast path is
// attempted first; a lock-class failure re-runs it under the retry
// budget. Any other failure that leaves the directory in place falls
// back to the slow per-entry path, where each child gets its own
// budget and a failure surfaces the exact entry that resisted.
func (e *Engine) DeleteDirectory(path string) error {
	if e.isLink(path) {
		return e.removeDirEntry(path)
	}

	var lastErr error
	for attempt := uint(1); ; attempt++ {
		err := e.remover.RemoveAll(path)
		if err == nil || e.gone(path) {
			return nil
		}
		lastErr = err

		if classify(err) != classLock {
			if e.gone(path) {
				return nil
			}
			return e.deleteDirectorySlow(path)
		}
		if exhausted := e.retryCycle(kindDirectory, path, attempt, func() []locks.Holder {
			return e.workingSetHolders(path)
		}); exhausted {
			return e.exhaustedError(kindDirectory, path, lastErr)
		}
	}
}

// deleteDirectorySlow removes children one by one, depth first, then
// the now-empty directory itself.
func (e *Engine) deleteDirectorySlow(path string) error {
	entries, err := e.remover.ReadDir(path)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		child := filepath.Join(path, entry.Name())
		if entry.IsDir() && entry.Type()&os.ModeSymlink == 0 {
			if err := e.DeleteDirectory(child); err != nil {
				return err
			}
		} else if err := e.DeleteFile(child); err != nil {
			return err
		}
	}
	return e.removeDirEntry(path)
}

// removeDirEntry removes a single directory entry (empty directory or
// directory link) under the retry budget, with working-set inspection.
func (e *Engine) removeDirEntry(path string) error {
	return e.removeWithRetry(kindDirectory, path, func() []locks.Holder {
		return e.workingSetHolders(path)
	})
}

func (e *Engine) removeWithRetry(kind objectKind, path string, holdersOf func() []locks.Holder) error {
	var lastErr error
	for attempt := uint(1); ; attempt++ {
		_ = e.clearReadOnly(path)
		err := e.remover.Remove(path)
		if err == nil || e.gone(path) {
			return nil
		}
		lastErr = err

		if classify(err) != classLock {
			return err
		}
		if exhausted := e.retryCycle(kind, path, attempt, holdersOf); exhausted {
			return e.exhaustedError(kind, path, lastErr)
		}
	}
}

// retryCycle is one spin of the detect-kill-wait sequence. It reports
// exhaustion before doing any inspection, so a final failed attempt
// never triggers a pointless scan or kill.
func (e *Engine) retryCycle(kind objectKind, path string, attempt uint, holdersOf func() []locks.Holder) (exhausted bool) {
	elevated := e.isElevated()
	if attempt > e.cfg.MaxRetries {
		e.logger.Info("exceeded retry count",
			"path", path, "max_retries", e.cfg.MaxRetries, "elevated", elevated)
		return true
	}

	holders := holdersOf()
	e.metrics.RetriesTotal().Inc()
	e.logger.Info("could not delete, will retry",
		"kind", string(kind),
		"path", path,
		"attempt", attempt,
		"max_retries", e.cfg.MaxRetries,
		"delay", e.cfg.RetryDelay(),
		"elevated", elevated,
		"holders", formatHolders(holders))
	e.sleep(e.cfg.RetryDelay())
	e.terminator.Terminate(holders)
	e.metrics.ProcessKillsTotal().Add(float64(len(holders)))
	return false
}

func (e *Engine) exhaustedError(kind objectKind, path string, lastErr error) error {
	return fmt.Errorf("failed to delete %s %q after %d retries: %w",
		kind, path, e.cfg.MaxRetries, lastErr)
}

// fileHolders runs the file lock strategy. Inspection is advisory: an
// access-denied query is logged and the retry proceeds holderless, any
// other failure is silently empty.
func (e *Engine) fileHolders(path string) []locks.Holder {
	holders, err := e.inspector.LocksForFiles([]string{path})
	if err != nil {
		var ie *locks.InspectError
		if errors.As(err, &ie) && ie.AccessDenied() {
			e.logger.Warn("ignoring access denied from lock inspection, consider running elevated",
				"path", path, "error", err)
		}
		return nil
	}
	return holders
}

func (e *Engine) workingSetHolders(path string) []locks.Holder {
	holders, err := e.inspector.LocksForWorkingSet(path)
	if err != nil {
		return nil
	}
	return holders
}

func (e *Engine) gone(path string) bool {
	_, err := e.remover.Lstat(path)
	return err != nil && os.IsNotExist(err)
}

func (e *Engine) isLink(path string) bool {
	info, err := e.remover.Lstat(path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}

func formatHolders(holders []locks.Holder) string {
	if len(holders) == 0 {
		return "<none>"
	}
	parts := make([]string, 0, len(holders))
	for _, h := range holders {
		name := h.Executable
		if name == "" {
			name = "<unknown>"
		}
		parts = append(parts, fmt.Sprintf("%d - %s", h.PID, name))
	}
	return strings.Join(parts, ", ")
}
