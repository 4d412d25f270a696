//go:build !windows

package locks

import "errors"

// Lock inspection is specific to the Windows process and file-locking
// model. Non-Windows builds compile, but both strategies report
// unsupported; the deletion engine degrades to retrying without
// holder information.
var errUnsupported = errors.New("lock inspection is not supported on this platform")

func locksForFiles(paths []string) ([]Holder, error) {
	return nil, errUnsupported
}

func locksForWorkingSet(target string) ([]Holder, error) {
	return nil, errUnsupported
}
