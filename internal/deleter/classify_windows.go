//go:build windows

package deleter

import (
	"errors"
	"syscall"

	"golang.org/x/sys/windows"
)

func classify(err error) failureClass {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return classOther
	}
	switch errno {
	case windows.ERROR_SHARING_VIOLATION, windows.ERROR_LOCK_VIOLATION, windows.ERROR_BUSY:
		return classLock
	case windows.ERROR_ACCESS_DENIED:
		return classPermission
	}
	return classOther
}
