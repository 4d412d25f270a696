//go:build windows

package locks

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modRstrtMgr             = windows.NewLazySystemDLL("RstrtMgr.dll")
	procRmStartSession      = modRstrtMgr.NewProc("RmStartSession")
	procRmRegisterResources = modRstrtMgr.NewProc("RmRegisterResources")
	procRmGetList           = modRstrtMgr.NewProc("RmGetList")
	procRmEndSession        = modRstrtMgr.NewProc("RmEndSession")
)

const (
	cchRmSessionKey = 32
	ccRmMaxAppName  = 255
	ccRmMaxSvcName  = 63

	errorAccessDenied = 5
	errorMoreData     = 234
)

type rmUniqueProcess struct {
	ProcessID        uint32
	ProcessStartTime windows.Filetime
}

// rmProcessInfo mirrors RM_PROCESS_INFO.
type rmProcessInfo struct {
	Process          rmUniqueProcess
	AppName          [ccRmMaxAppName + 1]uint16
	ServiceShortName [ccRmMaxSvcName + 1]uint16
	ApplicationType  uint32
	AppStatus        uint32
	TSSessionID      uint32
	Restartable      int32
}

// locksForFiles queries the Restart Manager for processes referencing
// the given paths. The session is released exactly once on every exit
// path via the deferred RmEndSession.
func locksForFiles(paths []string) ([]Holder, error) {
	var session uint32
	var sessionKey [cchRmSessionKey + 1]uint16

	ret, _, _ := procRmStartSession.Call(
		uintptr(unsafe.Pointer(&session)),
		0,
		uintptr(unsafe.Pointer(&sessionKey[0])),
	)
	if ret != 0 {
		return nil, &InspectError{Stage: "start session", Code: uint32(ret), Message: rmMessage(uint32(ret))}
	}
	defer procRmEndSession.Call(uintptr(session))

	widePaths := make([]*uint16, 0, len(paths))
	for _, p := range paths {
		wp, err := windows.UTF16PtrFromString(p)
		if err != nil {
			return nil, &InspectError{Stage: "register resources", Code: 0, Message: err.Error()}
		}
		widePaths = append(widePaths, wp)
	}

	ret, _, _ = procRmRegisterResources.Call(
		uintptr(session),
		uintptr(len(widePaths)),
		uintptr(unsafe.Pointer(&widePaths[0])),
		0, 0, 0, 0,
	)
	if ret != 0 {
		return nil, &InspectError{Stage: "register resources", Code: uint32(ret), Message: rmMessage(uint32(ret))}
	}

	// Two-phase query: first call sizes the buffer, second fills it.
	var needed, count, rebootReasons uint32
	ret, _, _ = procRmGetList.Call(
		uintptr(session),
		uintptr(unsafe.Pointer(&needed)),
		uintptr(unsafe.Pointer(&count)),
		0,
		uintptr(unsafe.Pointer(&rebootReasons)),
	)
	if ret != 0 && ret != errorMoreData {
		return nil, &InspectError{Stage: "get list", Code: uint32(ret), Message: rmMessage(uint32(ret))}
	}
	if needed == 0 {
		return nil, nil
	}

	infos := make([]rmProcessInfo, needed)
	count = needed
	ret, _, _ = procRmGetList.Call(
		uintptr(session),
		uintptr(unsafe.Pointer(&needed)),
		uintptr(unsafe.Pointer(&count)),
		uintptr(unsafe.Pointer(&infos[0])),
		uintptr(unsafe.Pointer(&rebootReasons)),
	)
	if ret != 0 && ret != errorMoreData {
		return nil, &InspectError{Stage: "get list", Code: uint32(ret), Message: rmMessage(uint32(ret))}
	}

	holders := make([]Holder, 0, count)
	for i := range infos[:count] {
		app := windows.UTF16ToString(infos[i].AppName[:])
		svc := windows.UTF16ToString(infos[i].ServiceShortName[:])
		exe := svc
		if exe == "" {
			exe = app
		}
		holders = append(holders, Holder{
			PID:         infos[i].Process.ProcessID,
			Executable:  exe,
			Application: app,
		})
	}
	return holders, nil
}

func rmMessage(code uint32) string {
	if code == errorAccessDenied {
		return "access is denied"
	}
	return fmt.Sprintf("error code %d", code)
}
