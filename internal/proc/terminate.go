// Package proc terminates the processes found holding locks.
package proc

import (
	"log/slog"
	"os"

	"github.com/domsleee/forceops/internal/locks"
)

// Terminator best-effort-terminates lock holders. It never fails the
// caller's overall flow: a holder that already exited, is protected, or
// denies access is logged and skipped.
type Terminator interface {
	Terminate(holders []locks.Holder)
}

// SystemTerminator implements Terminator against the host OS, skipping
// the calling process itself.
type SystemTerminator struct {
	Logger *slog.Logger
}

func (t SystemTerminator) Terminate(holders []locks.Holder) {
	self := uint32(os.Getpid())
	for _, h := range holders {
		if h.PID == self {
			continue
		}
		if err := terminate(h.PID); err != nil {
			t.Logger.Warn("failed to kill process", "pid", h.PID, "executable", h.Executable, "error", err)
		}
	}
}
