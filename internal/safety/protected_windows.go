//go:build windows

package safety

import "os"

// defaultProtected returns the built-in protected paths plus extras.
// SystemDrive/SystemRoot come from the environment so non-standard
// installs are still covered.
func defaultProtected(extra []string) []string {
	systemRoot := os.Getenv("SystemRoot")
	if systemRoot == "" {
		systemRoot = `C:\Windows`
	}
	systemDrive := os.Getenv("SystemDrive")
	if systemDrive == "" {
		systemDrive = "C:"
	}

	protected := []string{
		systemRoot,
		systemDrive + `\Program Files`,
		systemDrive + `\Program Files (x86)`,
		systemDrive + `\ProgramData`,
		systemDrive + `\Users\Default`,
	}
	return append(protected, extra...)
}
