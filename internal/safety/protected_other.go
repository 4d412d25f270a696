//go:build !windows

package safety

// defaultProtected returns the built-in protected paths plus extras.
func defaultProtected(extra []string) []string {
	protected := []string{
		"/bin",
		"/boot",
		"/dev",
		"/etc",
		"/lib",
		"/lib64",
		"/proc",
		"/sbin",
		"/sys",
		"/usr",
		"/var/lib",
	}
	return append(protected, extra...)
}
