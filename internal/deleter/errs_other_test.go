//go:build !windows

package deleter

import (
	"os"
	"syscall"
)

var (
	errLocked = &os.PathError{Op: "remove", Path: "target", Err: syscall.EBUSY}
	errDenied = &os.PathError{Op: "remove", Path: "target", Err: syscall.EACCES}
	errOther  = &os.PathError{Op: "remove", Path: "target", Err: syscall.EINVAL}
)
