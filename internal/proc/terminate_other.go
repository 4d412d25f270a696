//go:build !windows

package proc

import "syscall"

func terminate(pid uint32) error {
	return syscall.Kill(int(pid), syscall.SIGKILL)
}
