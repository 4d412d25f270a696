package exitcodes

// Exit codes for the forceops CLI
// Scripts only need a success/failure distinction; any reported
// failure maps to Failure with the message on stderr
const (
	Success = 0
	Failure = 1
)
