//go:build windows

package deleter

import (
	"os"

	"golang.org/x/sys/windows"
)

var (
	errLocked = &os.PathError{Op: "remove", Path: "target", Err: windows.ERROR_SHARING_VIOLATION}
	errDenied = &os.PathError{Op: "remove", Path: "target", Err: windows.ERROR_ACCESS_DENIED}
	errOther  = &os.PathError{Op: "remove", Path: "target", Err: windows.ERROR_INVALID_NAME}
)
