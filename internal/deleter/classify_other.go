//go:build !windows

package deleter

import (
	"errors"
	"syscall"
)

func classify(err error) failureClass {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return classOther
	}
	switch errno {
	case syscall.EBUSY, syscall.EAGAIN, syscall.ETXTBSY:
		return classLock
	case syscall.EACCES, syscall.EPERM:
		return classPermission
	}
	return classOther
}
