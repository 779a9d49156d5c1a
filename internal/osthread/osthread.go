// Package osthread identifies the OS thread the calling goroutine runs on.
//
// GL contexts are current on exactly one OS thread, so callers that want to
// detect misuse lock their goroutine with runtime.LockOSThread and compare
// IDs across calls.
package osthread

// ID returns the calling thread's identifier, or 0 when the platform has no
// way to report it.
func ID() int {
	return id()
}

// Supported reports whether ID returns real thread identifiers.
func Supported() bool {
	return supported
}
