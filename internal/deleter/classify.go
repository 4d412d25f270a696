package deleter

// failureClass buckets a removal failure for the retry loop. Only
// lock-class failures are retried; everything else fails the attempt
// immediately.
type failureClass int

const (
	classLock failureClass = iota
	classPermission
	classOther
)
