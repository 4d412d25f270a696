//go:build windows

package locks

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// pebOffsets locates the fields read out of another process's control
// structures: the ProcessParameters pointer inside the PEB, and the
// CurrentDirectory DosPath string inside RTL_USER_PROCESS_PARAMETERS.
// The offsets differ between 32- and 64-bit processes and are not part
// of any stable API. This table is the single most fragile fact in the
// system; platform variants are a lookup here, never a conditional in
// the scan.
type pebOffsets struct {
	processParameters uintptr
	currentDirectory  uintptr
}

var offsetsByWordSize = map[uintptr]pebOffsets{
	4: {processParameters: 0x10, currentDirectory: 0x24},
	8: {processParameters: 0x20, currentDirectory: 0x38},
}

// pebCwdReader implements CwdReader by reading the target's PEB via
// cross-process memory access. Any failure returns ok=false; callers
// skip the process and continue.
type pebCwdReader struct{}

func (pebCwdReader) ReadCwd(pid uint32) (string, bool) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_INFORMATION|windows.PROCESS_VM_READ, false, pid)
	if err != nil {
		return "", false
	}
	defer windows.CloseHandle(h)

	var pbi windows.PROCESS_BASIC_INFORMATION
	var retLen uint32
	err = windows.NtQueryInformationProcess(h, windows.ProcessBasicInformation,
		unsafe.Pointer(&pbi), uint32(unsafe.Sizeof(pbi)), &retLen)
	if err != nil || pbi.PebBaseAddress == nil {
		return "", false
	}

	offs := offsetsByWordSize[unsafe.Sizeof(uintptr(0))]

	var paramsPtr uintptr
	var read uintptr
	err = windows.ReadProcessMemory(h,
		uintptr(unsafe.Pointer(pbi.PebBaseAddress))+offs.processParameters,
		(*byte)(unsafe.Pointer(&paramsPtr)), unsafe.Sizeof(paramsPtr), &read)
	if err != nil || paramsPtr == 0 {
		return "", false
	}

	var us windows.NTUnicodeString
	err = windows.ReadProcessMemory(h,
		paramsPtr+offs.currentDirectory,
		(*byte)(unsafe.Pointer(&us)), unsafe.Sizeof(us), &read)
	if err != nil || us.Length == 0 || us.Buffer == nil {
		return "", false
	}

	buf := make([]uint16, us.Length/2)
	err = windows.ReadProcessMemory(h,
		uintptr(unsafe.Pointer(us.Buffer)),
		(*byte)(unsafe.Pointer(&buf[0])), uintptr(us.Length), &read)
	if err != nil {
		return "", false
	}
	return windows.UTF16ToString(buf), true
}
