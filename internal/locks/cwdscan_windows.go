//go:build windows

package locks

import (
	"os"

	"golang.org/x/sys/windows"
)

// locksForWorkingSet enumerates every running process and keeps the
// ones whose working directory intersects target. Per-process failures
// (permission denied, process exited mid-scan) are skipped silently;
// the scan never aborts the whole query.
func locksForWorkingSet(target string) ([]Holder, error) {
	pids, err := enumProcesses()
	if err != nil {
		return nil, nil
	}
	return workingSetHolders(target, pids, uint32(os.Getpid()), pebCwdReader{}, queryExePath), nil
}

func enumProcesses() ([]uint32, error) {
	pids := make([]uint32, 4096)
	var bytesReturned uint32
	if err := windows.EnumProcesses(pids, &bytesReturned); err != nil {
		return nil, err
	}
	return pids[:bytesReturned/4], nil
}

// queryExePath resolves the full image path of a process, best effort.
func queryExePath(pid uint32) string {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_INFORMATION|windows.PROCESS_VM_READ, false, pid)
	if err != nil {
		return ""
	}
	defer windows.CloseHandle(h)

	var buf [windows.MAX_PATH]uint16
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return ""
	}
	return windows.UTF16ToString(buf[:size])
}
