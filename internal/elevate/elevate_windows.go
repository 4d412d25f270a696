//go:build windows

package elevate

import (
	"fmt"
	"os"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
)

func isProcessElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}

var (
	modShell32          = windows.NewLazySystemDLL("shell32.dll")
	procShellExecuteExW = modShell32.NewProc("ShellExecuteExW")
)

const seeMaskNoCloseProcess = 0x00000040

type shellExecuteInfo struct {
	cbSize         uint32
	fMask          uint32
	hwnd           windows.HWND
	lpVerb         *uint16
	lpFile         *uint16
	lpParameters   *uint16
	lpDirectory    *uint16
	nShow          int32
	hInstApp       windows.Handle
	lpIDList       uintptr
	lpClass        *uint16
	hkeyClass      windows.Handle
	dwHotKey       uint32
	hIconOrMonitor windows.Handle
	hProcess       windows.Handle
}

// relaunchElevated reruns args[0:] through `cmd.exe /c` with the runas
// verb so UAC prompts for elevation. ShellExecuteEx gives no way to
// capture the child's stdio, so the command line redirects both streams
// into outputFile and the caller relays it afterwards. Blocks until the
// child exits and returns its exit code.
func relaunchElevated(args []string, outputFile string) (uint32, error) {
	exe, err := os.Executable()
	if err != nil {
		return 0, err
	}

	quoted := make([]string, 0, len(args))
	for _, a := range args[1:] {
		quoted = append(quoted, quoteArg(a))
	}
	params := fmt.Sprintf(`/c ""%s" %s > "%s" 2>&1"`,
		exe, strings.Join(quoted, " "), outputFile)

	cwd, err := os.Getwd()
	if err != nil {
		return 0, err
	}

	verb, err := windows.UTF16PtrFromString("runas")
	if err != nil {
		return 0, err
	}
	file, err := windows.UTF16PtrFromString("cmd.exe")
	if err != nil {
		return 0, err
	}
	paramsPtr, err := windows.UTF16PtrFromString(params)
	if err != nil {
		return 0, err
	}
	dir, err := windows.UTF16PtrFromString(cwd)
	if err != nil {
		return 0, err
	}

	sei := shellExecuteInfo{
		fMask:        seeMaskNoCloseProcess,
		lpVerb:       verb,
		lpFile:       file,
		lpParameters: paramsPtr,
		lpDirectory:  dir,
		nShow:        windows.SW_HIDE,
	}
	sei.cbSize = uint32(unsafe.Sizeof(sei))

	ret, _, callErr := procShellExecuteExW.Call(uintptr(unsafe.Pointer(&sei)))
	if ret == 0 {
		return 0, fmt.Errorf("ShellExecuteEx: %w", callErr)
	}
	if sei.hProcess == 0 {
		return 0, fmt.Errorf("ShellExecuteEx returned no process handle")
	}
	defer windows.CloseHandle(sei.hProcess)

	ev, err := windows.WaitForSingleObject(sei.hProcess, windows.INFINITE)
	if err != nil {
		return 0, err
	}
	if ev != windows.WAIT_OBJECT_0 {
		return 0, fmt.Errorf("waiting for elevated process: unexpected wait result %#x", ev)
	}

	var code uint32
	if err := windows.GetExitCodeProcess(sei.hProcess, &code); err != nil {
		return 0, err
	}
	return code, nil
}

func quoteArg(a string) string {
	if strings.ContainsAny(a, " \t\"") {
		return `"` + strings.ReplaceAll(a, `"`, `\"`) + `"`
	}
	return a
}
