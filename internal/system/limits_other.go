//go:build !unix

package system

const DefaultOpenFiles = 2048

// RaiseOpenFileLimit is a no-op where descriptor limits are not adjustable.
func RaiseOpenFileLimit(want uint64) {}
