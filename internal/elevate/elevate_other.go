//go:build !windows

package elevate

import (
	"errors"
	"os"
)

func isProcessElevated() bool {
	return os.Geteuid() == 0
}

func relaunchElevated(args []string, outputFile string) (uint32, error) {
	return 0, errors.New("elevated relaunch is not supported on this platform")
}
