// Package elevate relaunches the current process with administrator
// rights when an operation fails for lack of permissions.
package elevate

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// IsElevated reports whether the current process already runs with
// administrative rights.
func IsElevated() bool {
	return isProcessElevated()
}

// Coordinator runs an action and, on a permission-class failure in an
// unelevated process, relaunches the same command elevated and relays
// its outcome. At most one relaunch happens per run.
type Coordinator struct {
	logger *slog.Logger
	stderr io.Writer

	// test seams; production values set by NewCoordinator
	isElevated func() bool
	relaunch   func(args []string, outputFile string) (uint32, error)

	// OnRelaunch, if set, is called once just before the elevated child
	// is spawned.
	OnRelaunch func()
}

func NewCoordinator(logger *slog.Logger) *Coordinator {
	return &Coordinator{
		logger:     logger,
		stderr:     os.Stderr,
		isElevated: isProcessElevated,
		relaunch:   relaunchElevated,
	}
}

// Run executes action. A nil result, a non-permission error, or any
// error in an already-elevated process is returned unchanged. Otherwise
// buildArgs supplies the argument vector for the elevated relaunch; the
// child's output is captured to a temp file and relayed to stderr only
// when the child exits nonzero.
func (c *Coordinator) Run(action func() error, buildArgs func() []string) error {
	err := action()
	if err == nil || !isPermissionError(err) || c.isElevated() {
		return err
	}

	outputFile := filepath.Join(os.TempDir(), fmt.Sprintf("forceops_%d.tmp", os.Getpid()))
	defer os.Remove(outputFile)

	c.logger.Info("unable to perform operation unelevated, retrying as elevated",
		"error", err, "log_file", outputFile)
	if c.OnRelaunch != nil {
		c.OnRelaunch()
	}

	exitCode, rerr := c.relaunch(buildArgs(), outputFile)
	if rerr != nil {
		return fmt.Errorf("elevated relaunch failed: %w", rerr)
	}
	if exitCode != 0 {
		c.relayOutput(outputFile)
		return fmt.Errorf("elevated process exited with code %d", exitCode)
	}
	c.logger.Info("successfully completed as elevated process")
	return nil
}

func (c *Coordinator) relayOutput(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fmt.Fprintln(c.stderr, sc.Text())
	}
}

// isPermissionError is a heuristic over the rendered error text. The
// action's failure may be wrapped arbitrarily deep, so matching on
// sentinel values is not reliable; the words the OS uses are.
func isPermissionError(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "access") ||
		strings.Contains(s, "permission") ||
		strings.Contains(s, "denied")
}
